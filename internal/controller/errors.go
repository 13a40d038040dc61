package controller

import (
	"errors"
	"fmt"
)

// ErrRun is the sentinel wrapped by every fatal run-level error (spec.md §7).
var ErrRun = errors.New("run error")

// CycleError reports that cycle detection refused a run before any child
// was spawned (spec.md §8 testable property 4).
type CycleError struct {
	Tasks []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected among tasks %v; refusing to run", e.Tasks)
}

func (e *CycleError) Unwrap() error { return ErrRun }

// UnknownStartError reports an override-start naming a task absent from
// the configuration.
type UnknownStartError struct {
	TaskID string
}

func (e *UnknownStartError) Error() string {
	return fmt.Sprintf("override start %q is not a task in this configuration", e.TaskID)
}

func (e *UnknownStartError) Unwrap() error { return ErrRun }
