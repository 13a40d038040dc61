package config

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"
)

// rawTask mirrors the YAML shape of a task entry (spec.md §6 "Configuration
// file"): `commands`, `depends_on`, `on_failure`.
type rawTask struct {
	Commands  []string `yaml:"commands"`
	DependsOn []string `yaml:"depends_on"`
	OnFailure string   `yaml:"on_failure"`
}

type rawSlack struct {
	URL      string `yaml:"url"`
	Channel  string `yaml:"channel"`
	Username string `yaml:"username"`
	Emoji    string `yaml:"emoji"`
	When     string `yaml:"when"`
}

type rawPrint struct {
	Output string `yaml:"output"`
	When   string `yaml:"when"`
}

type rawEmail struct {
	From       string `yaml:"from"`
	To         string `yaml:"to"`
	Subject    string `yaml:"subject"`
	SMTPHost   string `yaml:"smtp_host"`
	SMTPPort   int    `yaml:"smtp_port"`
	SMTPTLS    bool   `yaml:"smtp_tls"`
	SMTPUser   string `yaml:"smtp_user"`
	SMTPSecret string `yaml:"smtp_secret"`
	When       string `yaml:"when"`
}

type rawMessages struct {
	TaskEnd    string `yaml:"task_end"`
	AllEnded   string `yaml:"all_ended"`
	TaskFailed string `yaml:"task_failed"`
}

type rawNotification struct {
	Slack    *rawSlack   `yaml:"slack"`
	Print    *rawPrint   `yaml:"print"`
	Email    *rawEmail   `yaml:"email"`
	When     string      `yaml:"when"`
	Messages rawMessages `yaml:"messages"`
}

type rawConfig struct {
	Tasks        map[string]rawTask `yaml:"tasks"`
	Concurrency  *int               `yaml:"concurrency"`
	WorkingDir   string             `yaml:"working_dir"`
	Stdout       *string            `yaml:"stdout"`
	Stderr       *string            `yaml:"stderr"`
	OnFailure    string             `yaml:"on_failure"`
	Notification *rawNotification   `yaml:"notification"`
}

// Load decodes and validates a YAML document into a Configuration.
//
// Load is a pure function: it never touches the filesystem beyond the bytes
// handed to it, and never spawns a process. Validation failures are all
// wrapped in *Error so callers can recognize them with errors.Is(err,
// ErrInvalidConfig).
func Load(data []byte) (*Configuration, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw rawConfig
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, invalidf("configuration document is empty")
		}
		return nil, wrapf(err, "parsing configuration")
	}

	if len(raw.Tasks) == 0 {
		return nil, invalidf("configuration declares no tasks")
	}

	concurrency := UnboundedConcurrency
	if raw.Concurrency != nil {
		if *raw.Concurrency <= 0 {
			return nil, invalidf("concurrency must be a positive integer, got %d", *raw.Concurrency)
		}
		concurrency = *raw.Concurrency
	}

	defaultOnFailure, err := parseOnFailure(raw.OnFailure, OnFailureContinue)
	if err != nil {
		return nil, err
	}

	tasks := make(map[string]*Task, len(raw.Tasks))
	for id, rt := range raw.Tasks {
		task := &Task{ID: id, Commands: rt.Commands, DependsOn: rt.DependsOn}
		if rt.OnFailure != "" {
			of, err := parseOnFailure(rt.OnFailure, defaultOnFailure)
			if err != nil {
				return nil, wrapf(err, "task %q", id)
			}
			task.OnFailure = &of
		}
		tasks[id] = task
	}

	for id, t := range tasks {
		for _, dep := range t.DependsOn {
			if _, ok := tasks[dep]; !ok {
				return nil, invalidf("task %q depends on unknown task %q", id, dep)
			}
		}
	}

	cfg := &Configuration{
		Tasks:       tasks,
		Concurrency: concurrency,
		WorkingDir:  raw.WorkingDir,
		Stdout:      raw.Stdout,
		Stderr:      raw.Stderr,
		OnFailure:   defaultOnFailure,
	}

	if raw.Notification != nil {
		notif, err := buildNotification(raw.Notification)
		if err != nil {
			return nil, err
		}
		cfg.Notification = notif
	}

	return cfg, nil
}

func buildNotification(raw *rawNotification) (*Notification, error) {
	outerWhen, err := parseWhen(raw.When)
	if err != nil {
		return nil, err
	}

	notif := &Notification{
		When: outerWhen,
		Messages: Messages{
			TaskEnd:    raw.Messages.TaskEnd,
			AllEnded:   raw.Messages.AllEnded,
			TaskFailed: raw.Messages.TaskFailed,
		},
	}

	if raw.Slack != nil {
		w, err := parseWhen(raw.Slack.When)
		if err != nil {
			return nil, err
		}
		if raw.Slack.URL == "" {
			return nil, invalidf("notification.slack.url is required")
		}
		notif.Slack = &SlackConfig{
			URL:      raw.Slack.URL,
			Channel:  raw.Slack.Channel,
			Username: raw.Slack.Username,
			Emoji:    raw.Slack.Emoji,
			When:     w,
		}
	}

	if raw.Print != nil {
		w, err := parseWhen(raw.Print.When)
		if err != nil {
			return nil, err
		}
		notif.Print = &PrintConfig{Output: raw.Print.Output, When: w}
	}

	if raw.Email != nil {
		w, err := parseWhen(raw.Email.When)
		if err != nil {
			return nil, err
		}
		notif.Email = &MailConfig{
			From:       raw.Email.From,
			To:         raw.Email.To,
			Subject:    raw.Email.Subject,
			SMTPHost:   raw.Email.SMTPHost,
			SMTPPort:   raw.Email.SMTPPort,
			SMTPTLS:    raw.Email.SMTPTLS,
			SMTPUser:   raw.Email.SMTPUser,
			SMTPSecret: raw.Email.SMTPSecret,
			When:       w,
		}
	}

	return notif, nil
}

func parseOnFailure(raw string, def OnFailure) (OnFailure, error) {
	switch raw {
	case "":
		return def, nil
	case string(OnFailureContinue):
		return OnFailureContinue, nil
	case string(OnFailureExit):
		return OnFailureExit, nil
	default:
		return "", invalidf("invalid on_failure %q (expected %q or %q)", raw, OnFailureContinue, OnFailureExit)
	}
}

func parseWhen(raw string) (When, error) {
	switch raw {
	case "":
		return WhenNever, nil
	case string(WhenAlways), string(WhenTaskEnd), string(WhenEnd), string(WhenNever):
		return When(raw), nil
	default:
		return "", invalidf("invalid when %q", raw)
	}
}

// StreamTargetFor resolves the foreground stream policy (spec.md §4.C) for
// a configured stdout/stderr value.
func StreamTargetFor(configured *string) StreamTarget {
	if configured == nil {
		return StreamTarget{}
	}
	switch *configured {
	case "none", "/dev/null":
		return StreamTarget{Discard: true}
	default:
		return StreamTarget{Path: *configured}
	}
}
