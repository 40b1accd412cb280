// Package mailer hands notification mail to an SMTP relay. Delivery is
// best-effort: callers fire sends from goroutines and only log failures.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
)

// Message is one outbound notification.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// Config holds SMTP relay settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// ConfigFromEnv reads mail config from environment variables. An empty
// SMTP_HOST disables outbound mail entirely.
func ConfigFromEnv() Config {
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "no-reply@surprisewrap.example"
	}
	return Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     from,
	}
}

// New returns an SMTP mailer, or a disabled no-op one when no host is
// configured.
func New(cfg Config) Mailer {
	if cfg.Host == "" {
		return Disabled{}
	}
	return &SMTP{cfg: cfg}
}

// Disabled swallows every message.
type Disabled struct{}

func (Disabled) Send(ctx context.Context, m Message) error { return nil }

// SMTP delivers via a plain SMTP relay.
type SMTP struct {
	cfg Config
}

// Send submits the message. smtp.SendMail has no cancellation hook, so the
// context is only consulted before dialing.
func (s *SMTP) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := s.cfg.Host + ":" + s.cfg.Port
	var a smtp.Auth
	if s.cfg.Username != "" {
		a = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	body := fmt.Sprintf("From: Surprisewrap <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.cfg.From, m.To, m.Subject, m.Text)
	if err := smtp.SendMail(addr, a, s.cfg.From, []string{m.To}, []byte(body)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
