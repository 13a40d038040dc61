package supervisor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/Joxit/runtasktic/internal/config"
)

// streamAction is the resolved disposition for a single child stream.
type streamAction struct {
	discard bool
	inherit bool
	path    string
}

// resolveStream implements the stdout/stderr column of the stream-policy
// table in spec.md §4.C: an explicit "none"/"/dev/null" always discards; an
// explicit path always appends; an absent configuration inherits in the
// foreground and falls back to defaultPath in the background.
func resolveStream(target config.StreamTarget, background bool, defaultPath string) streamAction {
	switch {
	case target.Discard:
		return streamAction{discard: true}
	case target.Path != "":
		return streamAction{path: target.Path}
	case background:
		return streamAction{path: defaultPath}
	default:
		return streamAction{inherit: true}
	}
}

// applyStdout wires cmd.Stdout per the resolved action. The returned closer
// (possibly nil) must be closed once the child has terminated.
func applyStdout(cmd *exec.Cmd, action streamAction) (*os.File, error) {
	return applyOutput(cmd, action, func(f *os.File) { cmd.Stdout = f }, func() { cmd.Stdout = os.Stdout })
}

func applyStderr(cmd *exec.Cmd, action streamAction) (*os.File, error) {
	return applyOutput(cmd, action, func(f *os.File) { cmd.Stderr = f }, func() { cmd.Stderr = os.Stderr })
}

func applyOutput(cmd *exec.Cmd, action streamAction, setFile func(*os.File), setInherit func()) (*os.File, error) {
	switch {
	case action.discard:
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("opening null device: %w", err)
		}
		setFile(f)
		return f, nil
	case action.path != "":
		f, err := os.OpenFile(action.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening %q for append: %w", action.path, err)
		}
		setFile(f)
		return f, nil
	default:
		setInherit()
		return nil, nil
	}
}

// applyStdin wires cmd.Stdin: inherited in the foreground, discarded to the
// null device in the background (spec.md §4.C table).
func applyStdin(cmd *exec.Cmd, background bool) (*os.File, error) {
	if !background {
		cmd.Stdin = os.Stdin
		return nil, nil
	}
	f, err := os.Open(os.DevNull)
	if err != nil {
		return nil, fmt.Errorf("opening null device: %w", err)
	}
	cmd.Stdin = f
	return f, nil
}
