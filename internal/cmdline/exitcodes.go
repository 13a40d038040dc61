package cmdline

// Exit codes per spec.md §6 "Exit codes": 0 on success, 1 on any run-level
// failure, 1 on configuration parsing failure. The CLI surface collapses
// every non-nil error from a subcommand's RunE to ExitFailure; ExitCode is
// the single place that turns that into a process exit code.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ExitCode maps a subcommand's returned error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}
