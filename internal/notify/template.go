package notify

import (
	"os"
	"regexp"
	"strconv"
	"strings"
)

// unknownHostPlaceholder mirrors the original Rust implementation's
// fallback when the hostname cannot be resolved (src/notification/mod.rs
// "<Hostname Not Found>"), so template expansion never fails outright.
const unknownHostPlaceholder = "<Hostname Not Found>"

var envPattern = regexp.MustCompile(`\{env\.([A-Za-z0-9_]+)\}`)

// TaskEvent carries the substitution values available to a per-task-end
// template (spec.md §4.E).
type TaskEvent struct {
	TaskID     string
	FullCmd    string
	ShortCmd   string
	StatusCode int
}

// RunSummary carries the substitution values available to the end-of-run
// template.
type RunSummary struct {
	Success  int
	Failures int
	Failed   bool
}

// ExpandTaskEnd expands a per-task-end template: task.* fields first, then
// the ambient {hostname}/{env.NAME} expansions (spec.md §4.E).
func ExpandTaskEnd(tmpl string, ev TaskEvent) string {
	r := strings.NewReplacer(
		"{task.id}", ev.TaskID,
		"{task.full_cmd}", ev.FullCmd,
		"{task.short_cmd}", ev.ShortCmd,
		"{task.status_code}", strconv.Itoa(ev.StatusCode),
	)
	return expandAmbient(r.Replace(tmpl))
}

// ExpandEnd expands the end-of-run template: resume.* fields first, then
// the ambient expansions.
func ExpandEnd(tmpl string, summary RunSummary) string {
	r := strings.NewReplacer(
		"{resume.success}", strconv.Itoa(summary.Success),
		"{resume.failures}", strconv.Itoa(summary.Failures),
	)
	return expandAmbient(r.Replace(tmpl))
}

func expandAmbient(s string) string {
	s = strings.ReplaceAll(s, "{hostname}", hostnameOrPlaceholder())
	s = envPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
	return s
}

func hostnameOrPlaceholder() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return unknownHostPlaceholder
	}
	return h
}
