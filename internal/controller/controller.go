// Package controller implements the Run Controller (spec.md §4.D): the
// main loop that consults the Progress Iterator, launches children through
// the Process Supervisor under a concurrency cap, interprets exit codes
// under each task's failure policy, decides termination, and fires
// notifications through the Notification Dispatcher.
package controller

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Joxit/runtasktic/internal/config"
	"github.com/Joxit/runtasktic/internal/cronwait"
	"github.com/Joxit/runtasktic/internal/notify"
	"github.com/Joxit/runtasktic/internal/supervisor"
)

// idlePoll is the fixed sleep between polling passes when nothing changed
// (spec.md §9 "the supervisor uses a fixed 100 ms idle poll; this is not
// user-tunable in the source and is retained as a constant here").
const idlePoll = 100 * time.Millisecond

// Options bundles the inputs to a run (spec.md §4.D "Inputs").
type Options struct {
	// OverrideStarts names the task ids to treat as the only entry
	// points. Reachability from these states is pre-computed, and every
	// state outside it is marked Done without spawning anything.
	OverrideStarts []string
	Background     bool
	// Cron, if non-nil, makes the whole preflight-and-loop sequence
	// repeat after waiting for the schedule's next matching instant.
	Cron *cronwait.Schedule
}

// Summary is the terminal outcome of one pass of the main loop.
type Summary struct {
	Success  int
	Failures int
	Failed   bool
}

// Controller owns nothing across runs: each Run call builds its own graph,
// iterator, and process table, consistent with the configuration being
// read-only after loading (spec.md §5 "Shared resources").
type Controller struct {
	log logrus.FieldLogger
}

// New returns a Controller that logs through log, or the standard logrus
// logger if log is nil.
func New(log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{log: log}
}

// Run executes every configuration in cfgs in turn, under the cron gate if
// one was given in opts. Override starts, per spec.md §6, apply only to
// the first configuration.
func (c *Controller) Run(ctx context.Context, cfgs []*config.Configuration, opts Options) error {
	for {
		for i, cfg := range cfgs {
			starts := opts.OverrideStarts
			if i > 0 {
				starts = nil
			}
			if err := c.runOnce(ctx, cfg, starts, opts.Background); err != nil {
				if opts.Cron == nil {
					return err
				}
				c.log.WithError(err).Error("run failed; will retry at next scheduled instant")
			}
		}

		if opts.Cron == nil {
			return nil
		}
		if err := opts.Cron.Wait(ctx); err != nil {
			return nil
		}
	}
}

// runOnce performs preflight and the main loop for a single configuration.
func (c *Controller) runOnce(ctx context.Context, cfg *config.Configuration, overrideStarts []string, background bool) error {
	// Every invocation gets its own run id, attached to every lifecycle
	// log line so concurrent or cron-repeated runs can be told apart in
	// aggregated logs.
	log := c.log.WithField("run_id", uuid.New().String())

	p, err := preflight(cfg, overrideStarts)
	if err != nil {
		return err
	}
	log.Info("run starting")

	dispatcher := notify.New(cfg.Notification, log)
	processes := make([]*supervisor.Process, p.graph.Len())

	var summary Summary
	draining := false

	stdout := config.StreamTargetFor(cfg.Stdout)
	stderr := config.StreamTargetFor(cfg.Stderr)

	for {
		if p.iter.HasNext() && !draining && (cfg.Concurrency == config.UnboundedConcurrency || p.iter.NInProgress() < cfg.Concurrency) {
			state, _ := p.iter.Next()
			task := cfg.Tasks[state.Label()]

			proc, err := supervisor.Spawn(ctx, task, supervisor.Options{
				WorkingDir: cfg.WorkingDir,
				Background: background,
				Stdout:     stdout,
				Stderr:     stderr,
			})
			if err != nil {
				return err
			}
			processes[state.ID()] = proc
			continue
		}

		if p.iter.IsDone() {
			break
		}

		polled := 0
		for idx, proc := range processes {
			if proc == nil {
				continue
			}
			result, ok := proc.Poll()
			if !ok {
				continue
			}
			polled++
			processes[idx] = nil
			p.iter.MarkDone(idx)

			taskID := p.byIndex[idx]
			task := cfg.Tasks[taskID]

			if result.Success {
				summary.Success++
			} else {
				summary.Failures++
			}

			dispatcher.QueueTaskEnd(notify.TaskEvent{
				TaskID:     taskID,
				FullCmd:    task.FullCommand(),
				ShortCmd:   task.ShortCommand(),
				StatusCode: result.ExitCode,
			})

			if !result.Success && task.EffectiveOnFailure(cfg.OnFailure) == config.OnFailureExit {
				draining = true
			}
		}

		if draining && p.iter.NInProgress() == 0 {
			break
		}
		if polled == 0 {
			select {
			case <-time.After(idlePoll):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	summary.Failed = draining
	dispatcher.FireEnd(notify.RunSummary{
		Success:  summary.Success,
		Failures: summary.Failures,
		Failed:   summary.Failed,
	})

	log.WithFields(logrus.Fields{
		"success":  summary.Success,
		"failures": summary.Failures,
		"failed":   summary.Failed,
	}).Info("run finished")

	return nil
}
