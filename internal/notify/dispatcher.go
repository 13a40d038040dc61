// Package notify implements the Notification Dispatcher (spec.md §4.E): a
// fan-out of templated messages for per-task-end and end-of-run events,
// filtered by the two-level "when" policy (spec.md §3), and delivered on a
// separate asynchronous runtime so slow transports never stall the
// controller's polling loop (spec.md §9).
package notify

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Joxit/runtasktic/internal/config"
)

type transport interface {
	send(message string) error
}

// Dispatcher queues per-task-end notifications on background goroutines
// and awaits all of them before emitting the end-of-run notification
// (spec.md §4.E "Ordering").
type Dispatcher struct {
	cfg *config.Notification
	log logrus.FieldLogger
	wg  sync.WaitGroup
}

// New returns a Dispatcher for cfg. A nil cfg is valid and makes every
// operation a no-op, matching a configuration with no `notification` block.
func New(cfg *config.Notification, log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{cfg: cfg, log: log}
}

// QueueTaskEnd fires the per-task-end notification on a background
// goroutine for every transport whose dual "when" gate admits the event.
// It does not block the caller.
func (d *Dispatcher) QueueTaskEnd(ev TaskEvent) {
	if d.cfg == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		message := ExpandTaskEnd(d.cfg.Messages.TaskEnd, ev)
		d.dispatch(config.EventTaskEnd, message)
	}()
}

// AwaitTaskEnds blocks until every queued per-task-end notification has
// been delivered (or failed and been logged). FireEnd calls it before
// emitting the end-of-run notification.
func (d *Dispatcher) AwaitTaskEnds() {
	d.wg.Wait()
}

// FireEnd awaits all outstanding per-task-end notifications, then delivers
// the end-of-run notification synchronously across every admitted
// transport.
func (d *Dispatcher) FireEnd(summary RunSummary) {
	d.AwaitTaskEnds()
	if d.cfg == nil {
		return
	}
	tmpl := d.cfg.Messages.AllEnded
	if summary.Failed {
		tmpl = d.cfg.Messages.TaskFailed
	}
	message := ExpandEnd(tmpl, summary)
	d.dispatch(config.EventEnd, message)
}

func (d *Dispatcher) dispatch(event config.Event, message string) {
	if !d.cfg.When.Admits(event) {
		return
	}

	if d.cfg.Slack != nil && d.cfg.Slack.When.Admits(event) {
		d.send(&slackTransport{cfg: *d.cfg.Slack}, message)
	}
	if d.cfg.Print != nil && d.cfg.Print.When.Admits(event) {
		d.send(&printTransport{cfg: *d.cfg.Print}, message)
	}
	if d.cfg.Email != nil && d.cfg.Email.When.Admits(event) {
		d.send(&mailTransport{cfg: *d.cfg.Email}, message)
	}
}

// send delivers message via t, logging (but never propagating) a
// transport failure (spec.md §7 "Notification error").
func (d *Dispatcher) send(t transport, message string) {
	if err := t.send(message); err != nil {
		d.log.WithError(err).Warn("notification transport failed")
	}
}
