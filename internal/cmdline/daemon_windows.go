//go:build windows

package cmdline

import "os/exec"

// setDetached is a no-op on Windows, which has no session/hang-up concept
// equivalent to POSIX Setsid.
func setDetached(cmd *exec.Cmd) {}
