// Package mailer delivers generated reports over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/csg33k/vessel-reports/internal/ports"
)

// ErrDisabled is returned by Send when no SMTP host is configured.
var ErrDisabled = errors.New("mailer: smtp not configured")

// Config holds the SMTP settings. Port 465 uses implicit TLS.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer implements ports.Mailer.
type Mailer struct {
	from string
	send func(*gomail.Message) error
}

// New returns a mailer for cfg. An empty cfg.Host yields a disabled mailer.
func New(cfg Config) *Mailer {
	if cfg.Host == "" {
		return &Mailer{}
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Port == 465
	return &Mailer{from: cfg.From, send: d.DialAndSend}
}

// NewWithSender returns a mailer that hands messages to s.
func NewWithSender(from string, s gomail.Sender) *Mailer {
	return &Mailer{
		from: from,
		send: func(m *gomail.Message) error { return gomail.Send(s, m) },
	}
}

func (m *Mailer) Enabled() bool { return m.send != nil }

// Send delivers one message to a single recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, body string, attachments ...ports.Attachment) error {
	if !m.Enabled() {
		return ErrDisabled
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("mailer: recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.send(m.Message(to, subject, body, attachments...)); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	slog.Info("mail sent", "to", to, "subject", subject, "attachments", len(attachments))
	return nil
}

// Message builds the MIME message Send would deliver.
func (m *Mailer) Message(to, subject, body string, attachments ...ports.Attachment) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	for _, a := range attachments {
		data := a.Data
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		msg.Attach(a.Name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {fmt.Sprintf("%s; name=%q", ct, a.Name)},
			}),
		)
	}
	return msg
}
