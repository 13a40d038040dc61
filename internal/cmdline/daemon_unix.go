//go:build !windows

package cmdline

import (
	"os/exec"
	"syscall"
)

// setDetached starts the child in its own session so a hang-up delivered
// to the parent's controlling terminal does not reach it (spec.md §5
// "ignores the hang-up signal"). Only one level of forking is performed:
// the child does not additionally create a new process group beyond what
// Setsid already implies.
func setDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
