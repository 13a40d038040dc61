package notify

import (
	"github.com/slack-go/slack"

	"github.com/Joxit/runtasktic/internal/config"
)

// defaultSlackUsername is sent whenever no username is configured, exactly
// as the original Rust implementation's src/notification/slack.rs does.
const defaultSlackUsername = "runtasktic"

// slackTransport is the shell-channel transport: an HTTP POST of a Slack
// incoming-webhook-shaped JSON body (spec.md §4.E).
type slackTransport struct {
	cfg config.SlackConfig
}

func (t *slackTransport) send(message string) error {
	username := t.cfg.Username
	if username == "" {
		username = defaultSlackUsername
	}

	msg := &slack.WebhookMessage{
		Channel:  t.cfg.Channel,
		Username: username,
		Text:     message,
	}
	if t.cfg.Emoji != "" {
		msg.IconEmoji = t.cfg.Emoji
	}

	if err := slack.PostWebhook(t.cfg.URL, msg); err != nil {
		return &TransportError{Transport: "slack", Cause: err}
	}
	return nil
}
