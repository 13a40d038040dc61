package cmdline

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var validCompletionShells = []string{"bash", "fish", "zsh", "elvish"}

func newCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       fmt.Sprintf("completion %s", validCompletionShells),
		Short:     "Generate shell completion script",
		ValidArgs: validCompletionShells,
		Args:      cobra.ExactValidArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "elvish":
				return genElvishCompletion(cmd.Root(), w)
			default:
				return fmt.Errorf("%s is not a supported shell", args[0])
			}
		},
	}
	return cmd
}

// genElvishCompletion writes a minimal static completion script for the
// Elvish shell. cobra (unlike the original implementation's clap-based
// completion generator) has no built-in Elvish generator, so this emits an
// `edit:completion:arg-completer` entry that puts the root command's
// visible subcommand names, followed by one comment line per subcommand
// with its short help. Flags, nested subcommands and positional arguments
// are not completed.
func genElvishCompletion(root *cobra.Command, w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "edit:completion:arg-completer[%s] = [@args]{\n", root.Name())
	fmt.Fprintf(&b, "  var n = (count $args)\n")
	fmt.Fprintf(&b, "  put %s\n", strings.Join(subcommandNames(root), " "))
	for _, c := range root.Commands() {
		if c.Hidden {
			continue
		}
		fmt.Fprintf(&b, "  # %s: %s\n", c.Name(), c.Short)
	}
	fmt.Fprintf(&b, "}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func subcommandNames(root *cobra.Command) []string {
	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		if !c.Hidden {
			names = append(names, c.Name())
		}
	}
	return names
}
