// Package supervisor implements the Process Supervisor (spec.md §4.C): it
// spawns a single child shell per task, wires its standard streams per
// configuration, and lets the caller poll it without blocking.
package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/Joxit/runtasktic/internal/config"
)

// DefaultBackgroundStdout and DefaultBackgroundStderr are the side files
// created in the current working directory when a background run has no
// explicit stdout/stderr configuration (spec.md §6 "Default side files").
const (
	DefaultBackgroundStdout = "runtasktic.out"
	DefaultBackgroundStderr = "runtasktic.err"
)

// Options configures how a task's child process is spawned.
type Options struct {
	WorkingDir string
	Background bool
	Stdout     config.StreamTarget
	Stderr     config.StreamTarget
}

// Result is the outcome of a terminated child.
type Result struct {
	ExitCode int
	Success  bool
}

// Process is a single running or terminated child, wrapped so the
// controller can poll it non-blockingly (spec.md §4.C "Polling
// discipline").
type Process struct {
	TaskID string

	cmd *exec.Cmd

	done chan Result

	mu     sync.Mutex
	result *Result

	closers []*os.File
}

// Spawn launches task as "sh -c cmd1 && cmd2 && ...", verifying the working
// directory up front and wiring streams per Options.
//
// Spawn returns a *SpawnError (wrapping ErrSpawn) if the working directory
// is missing/not-a-directory or the child could not be started; both are
// spec.md §7 "Spawn error" conditions that abort the run.
func Spawn(ctx context.Context, task *config.Task, opts Options) (*Process, error) {
	if opts.WorkingDir != "" {
		info, err := os.Stat(opts.WorkingDir)
		if err != nil {
			return nil, &SpawnError{TaskID: task.ID, Cause: fmt.Errorf("working directory %q: %w", opts.WorkingDir, err)}
		}
		if !info.IsDir() {
			return nil, &SpawnError{TaskID: task.ID, Cause: fmt.Errorf("working directory %q is not a directory", opts.WorkingDir)}
		}
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", task.FullCommand())
	if opts.WorkingDir != "" {
		cmd.Dir = opts.WorkingDir
	}

	p := &Process{TaskID: task.ID, cmd: cmd, done: make(chan Result, 1)}

	if f, err := applyStdin(cmd, opts.Background); err != nil {
		return nil, &SpawnError{TaskID: task.ID, Cause: err}
	} else if f != nil {
		p.closers = append(p.closers, f)
	}

	defaultOut, defaultErr := "", ""
	if opts.Background {
		defaultOut, defaultErr = DefaultBackgroundStdout, DefaultBackgroundStderr
	}

	stdoutAction := resolveStream(opts.Stdout, opts.Background, defaultOut)
	if f, err := applyStdout(cmd, stdoutAction); err != nil {
		p.closeAll()
		return nil, &SpawnError{TaskID: task.ID, Cause: err}
	} else if f != nil {
		p.closers = append(p.closers, f)
	}

	stderrAction := resolveStream(opts.Stderr, opts.Background, defaultErr)
	if f, err := applyStderr(cmd, stderrAction); err != nil {
		p.closeAll()
		return nil, &SpawnError{TaskID: task.ID, Cause: err}
	} else if f != nil {
		p.closers = append(p.closers, f)
	}

	if err := cmd.Start(); err != nil {
		p.closeAll()
		return nil, &SpawnError{TaskID: task.ID, Cause: err}
	}

	go func() {
		err := cmd.Wait()
		p.closeAll()
		p.done <- resultFromWaitError(err)
	}()

	return p, nil
}

func (p *Process) closeAll() {
	for _, f := range p.closers {
		_ = f.Close()
	}
}

func resultFromWaitError(err error) Result {
	if err == nil {
		return Result{ExitCode: 0, Success: true}
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return Result{ExitCode: exitErr.ExitCode(), Success: false}
	}
	// The process vanished for a reason other than a reported exit code
	// (spec.md §7 "Transient I/O": "children that genuinely disappear are
	// reported as failures").
	return Result{ExitCode: -1, Success: false}
}

// Poll performs a non-blocking check for termination. ok is false while the
// child is still running.
func (p *Process) Poll() (result Result, ok bool) {
	p.mu.Lock()
	if p.result != nil {
		r := *p.result
		p.mu.Unlock()
		return r, true
	}
	p.mu.Unlock()

	select {
	case r := <-p.done:
		p.mu.Lock()
		p.result = &r
		p.mu.Unlock()
		return r, true
	default:
		return Result{}, false
	}
}
