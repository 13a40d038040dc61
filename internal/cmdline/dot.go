package cmdline

import (
	"github.com/spf13/cobra"

	"github.com/Joxit/runtasktic/internal/controller"
	"github.com/Joxit/runtasktic/internal/dotexport"
)

func newDotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dot CONFIG IMAGE",
		Short: "Export the task graph as an image via the external dot tool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, imagePath := args[0], args[1]

			cfg, err := loadConfigFile(configPath)
			if err != nil {
				return err
			}

			graph, _, _, err := controller.BuildGraph(cfg, nil)
			if err != nil {
				return err
			}

			source := dotexport.Render(graph)
			return dotexport.WriteImage(source, imagePath)
		},
	}
	return cmd
}
