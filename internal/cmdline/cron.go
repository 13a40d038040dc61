package cmdline

import "github.com/Joxit/runtasktic/internal/cronwait"

// parseCronFlag parses an optional --cron expression. An empty string
// means "no schedule configured", matching cronwait.Schedule's nil-receiver
// semantics (spec.md §4.F "wait() on None returns immediately").
func parseCronFlag(expr string) (*cronwait.Schedule, error) {
	if expr == "" {
		return nil, nil
	}
	return cronwait.Parse(expr)
}
