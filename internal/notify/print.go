package notify

import (
	"fmt"
	"os"
	"time"

	"github.com/Joxit/runtasktic/internal/config"
)

// printTransport writes a log line to stdout, stderr, the null sink, or an
// append-mode file (spec.md §4.E "Stream writer"). The line format and
// timestamp layout are carried over verbatim from the original Rust
// implementation's src/notification/print.rs.
type printTransport struct {
	cfg config.PrintConfig
}

func (t *printTransport) send(message string) error {
	now := time.Now()
	line := fmt.Sprintf("%s,%03d INFO [notification::print] %s\n",
		now.Format("2006-01-02 15:04:05"), now.Nanosecond()/1e6, message)

	switch t.cfg.Output {
	case "", "stdout":
		_, err := fmt.Fprint(os.Stdout, line)
		return wrapPrintErr(err)
	case "stderr":
		_, err := fmt.Fprint(os.Stderr, line)
		return wrapPrintErr(err)
	case "none", "/dev/null":
		return nil
	default:
		f, err := os.OpenFile(t.cfg.Output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return &TransportError{Transport: "print", Cause: fmt.Errorf("opening %q: %w", t.cfg.Output, err)}
		}
		defer f.Close()
		_, err = fmt.Fprint(f, line)
		return wrapPrintErr(err)
	}
}

func wrapPrintErr(err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Transport: "print", Cause: err}
}
