package cmdline

import (
	"fmt"
	"net/http"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Joxit/runtasktic/internal/selfupdate"
)

func newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Download and install the latest release, replacing this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exePath, err := os.Executable()
			if err != nil {
				return fmt.Errorf("cannot find the executable: %w", err)
			}

			arch := runtime.GOARCH
			if arch == "amd64" {
				arch = "x86_64"
			}
			asset := selfupdate.AssetName(fmt.Sprintf("runtasktic-%s-%s", runtime.GOOS, arch))
			return selfupdate.Update(http.DefaultClient, exePath, asset)
		},
	}
	return cmd
}
