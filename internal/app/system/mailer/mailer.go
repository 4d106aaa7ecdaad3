// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Email is a single outbound message. HTMLBody is optional.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers one message. Implementations should not retry.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// Config configures the SMTP sender.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// sendFunc matches smtp.SendMail so tests can capture messages.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTP sends mail through a plain SMTP relay (Mailpit in dev, SES or similar in prod).
type SMTP struct {
	cfg  Config
	send sendFunc
}

// NewSMTP builds an SMTP sender.
func NewSMTP(cfg Config) *SMTP {
	return &SMTP{cfg: cfg, send: smtp.SendMail}
}

// Send delivers e once.
func (m *SMTP) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(e.To) == "" {
		return fmt.Errorf("mailer: empty recipient")
	}
	addr := m.cfg.Host + ":" + strconv.Itoa(m.cfg.Port)
	var a smtp.Auth
	if m.cfg.User != "" {
		a = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	return m.send(addr, a, m.cfg.From, []string{e.To}, m.build(e))
}

func (m *SMTP) build(e Email) []byte {
	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = mime.QEncoding.Encode("utf-8", m.cfg.FromName) + " <" + m.cfg.From + ">"
	}
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + e.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", e.Subject) + "\r\n")
	b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if e.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(e.TextBody)
		return []byte(b.String())
	}

	const boundary = "mindhub-alt-boundary"
	b.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n\r\n")
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(e.TextBody + "\r\n")
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(e.HTMLBody + "\r\n")
	b.WriteString("--" + boundary + "--\r\n")
	return []byte(b.String())
}

// Deliver sends e through s with bounded exponential backoff.
//
// Delivery is best-effort: a final failure is logged and reported as false,
// never returned as an error. Callers that already persisted state (a new
// account) must not roll it back; the resend path is the recovery.
func Deliver(ctx context.Context, s Sender, e Email, retries int, log *zap.Logger) bool {
	if s == nil {
		log.Warn("mail not sent: no sender configured", zap.String("to", e.To))
		return false
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 10 * time.Second

	op := func() error { return s.Send(ctx, e) }
	err := backoff.RetryNotify(
		op,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(retries, 0))), ctx),
		func(err error, d time.Duration) {
			log.Warn("mail attempt failed",
				zap.String("to", e.To),
				zap.String("subject", e.Subject),
				zap.Duration("backoff", d),
				zap.Error(err))
		},
	)
	if err != nil {
		log.Error("mail delivery failed; continuing",
			zap.String("to", e.To),
			zap.String("subject", e.Subject),
			zap.Error(err))
		return false
	}
	return true
}
