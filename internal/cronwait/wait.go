// Package cronwait computes the next cron-matching instant and blocks until
// it arrives, so the Run Controller can re-run a configuration on a
// schedule (spec.md §4.F).
package cronwait

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// parser accepts the five-field standard cron expression ("* * * * *"),
// matching the original Rust implementation's use of the `cron` crate's
// default standard grammar (no seconds field).
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Schedule wraps a parsed cron expression. A nil *Schedule is valid and
// means "no schedule configured"; Wait on a nil receiver returns
// immediately, matching the original WaitSchedule<Local> for Option<Schedule>.
type Schedule struct {
	spec cron.Schedule
}

// Parse parses a standard five-field cron expression.
func Parse(expr string) (*Schedule, error) {
	spec, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing cron expression %q: %w", expr, err)
	}
	return &Schedule{spec: spec}, nil
}

// Next returns the first matching instant strictly after from. A nil
// Schedule returns from unchanged.
func (s *Schedule) Next(from time.Time) time.Time {
	if s == nil {
		return from
	}
	return s.spec.Next(from)
}

// Wait blocks until the schedule's next matching instant, or until ctx is
// canceled. A nil Schedule returns immediately.
func (s *Schedule) Wait(ctx context.Context) error {
	if s == nil {
		return nil
	}

	now := time.Now()
	next := s.spec.Next(now)
	d := next.Sub(now)
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
