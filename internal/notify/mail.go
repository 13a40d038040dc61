package notify

import (
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/Joxit/runtasktic/internal/config"
)

// mailTransport submits a multipart HTML+plain-text message over SMTP
// (spec.md §4.E "Mail"). There is no SMTP client library anywhere in the
// retrieval pack (see SPEC_FULL.md §3), so the message and the session are
// built directly on net/smtp and mime/multipart, mirroring the original
// Rust implementation's src/notification/mail.rs (HTML body wraps the text
// in a paragraph, plus a plain-text alternative).
type mailTransport struct {
	cfg config.MailConfig
}

func (t *mailTransport) send(body string) error {
	msg, err := buildMIMEMessage(t.cfg, body)
	if err != nil {
		return &TransportError{Transport: "mail", Cause: err}
	}

	if err := t.submit(msg); err != nil {
		return &TransportError{Transport: "mail", Cause: err}
	}
	return nil
}

func buildMIMEMessage(cfg config.MailConfig, body string) ([]byte, error) {
	var buf strings.Builder
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", cfg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", cfg.Subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())

	textHeader := textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}}
	textPart, err := mw.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(body)); err != nil {
		return nil, err
	}

	htmlHeader := textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}}
	htmlPart, err := mw.CreatePart(htmlHeader)
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte("<p>" + body + "</p>")); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

func (t *mailTransport) submit(msg []byte) error {
	cfg := t.cfg
	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)

	var conn net.Conn
	var err error
	if cfg.SMTPTLS {
		conn, err = tls.Dial("tcp", addr, &tls.Config{ServerName: cfg.SMTPHost})
	} else {
		conn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("connecting to SMTP host %q: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("initializing SMTP session: %w", err)
	}
	defer client.Close()

	if cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPSecret, cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}
	}

	if err := client.Mail(cfg.From); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := client.Rcpt(cfg.To); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message body: %w", err)
	}

	return client.Quit()
}
