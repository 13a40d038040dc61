package cmdline

import (
	"os"
	"os/exec"
)

// daemonChildEnv marks a re-exec'd child so it does not fork again.
const daemonChildEnv = "RUNTASKTIC_DAEMON_CHILD"

// daemonize implements spec.md §5 "Daemonisation" in idiomatic Go: the
// source forks once, the parent returns immediately with success, and the
// child proceeds with the loop ignoring hang-up. Go offers no raw fork(2)
// that is safe alongside the runtime's goroutine scheduler, so the
// equivalent here is a single self re-exec: the parent launches a detached
// copy of itself with the same arguments and a marker environment
// variable, then exits 0 immediately; the child (which sees the marker)
// runs the real command and is the process the caller asked to background.
//
// daemonize returns true when the current process is the child that
// should proceed with the run.
func daemonize() (isChild bool, err error) {
	if os.Getenv(daemonChildEnv) != "" {
		return true, nil
	}

	self, err := os.Executable()
	if err != nil {
		return false, err
	}

	cmd := exec.Command(self, os.Args[1:]...)
	cmd.Env = append(os.Environ(), daemonChildEnv+"=1")
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	setDetached(cmd)

	if err := cmd.Start(); err != nil {
		return false, err
	}
	return false, nil
}
