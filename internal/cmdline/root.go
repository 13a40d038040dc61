// Package cmdline builds the runtasktic CLI surface (spec.md §6): the
// `run`, `exec`, `dot`, `completion`, and `update` subcommands, wired on
// top of github.com/spf13/cobra the way the rest of the retrieval pack's
// multi-command tools do.
package cmdline

import (
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the full CLI command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "runtasktic",
		Short:         "A dependency-aware shell task runner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		newRunCommand(),
		newExecCommand(),
		newDotCommand(),
		newCompletionCommand(),
		newUpdateCommand(),
	)

	return root
}
