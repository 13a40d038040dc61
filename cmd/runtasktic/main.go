// Command runtasktic is the CLI entrypoint: a deterministic boundary that
// hands off to internal/cmdline and maps the result to a process exit
// code, mirroring the teacher's cmd/scriptweaver/main.go shape.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Joxit/runtasktic/internal/cmdline"
)

func main() {
	root := cmdline.NewRootCommand()

	err := root.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cmdline.ExitCode(err))
}
