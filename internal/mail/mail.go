// Package mail delivers contact form submissions over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Contact is a visitor's message.
type Contact struct {
	Name    string
	Email   string
	Message string
}

// Validate checks the required fields.
func (c Contact) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Email) == "" || !strings.Contains(c.Email, "@") {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(c.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid contact form: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Sender delivers a contact message.
type Sender interface {
	Send(ctx context.Context, c Contact) error
}

// Config holds SMTP settings.
type Config struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// SMTP sends mail with PLAIN auth.
type SMTP struct {
	cfg      Config
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP returns an SMTP sender.
func NewSMTP(cfg Config) *SMTP {
	if cfg.To == "" {
		cfg.To = cfg.User
	}
	return &SMTP{cfg: cfg, sendMail: smtp.SendMail}
}

// Configured reports whether credentials are present.
func (s *SMTP) Configured() bool { return s.cfg.User != "" && s.cfg.Pass != "" && s.cfg.Host != "" }

// Send mails c to the configured recipient.
func (s *SMTP) Send(ctx context.Context, c Contact) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := Compose(s.cfg.User, s.cfg.To, c)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, auth, s.cfg.User, []string{s.cfg.To}, msg); err != nil {
		return fmt.Errorf("sending mail via %s: %w", addr, err)
	}
	return nil
}

// Compose builds the RFC 5322 message for c. Line breaks are stripped from
// everything but the message body.
func Compose(from, to string, c Contact) []byte {
	var b strings.Builder
	header := func(k, v string) {
		b.WriteString(k + ": " + oneLine(v) + "\r\n")
	}
	header("To", to)
	header("From", from)
	header("Reply-To", c.Email)
	header("Subject", "Portfolio Contact: "+c.Name)
	header("Content-Type", `text/plain; charset="utf-8"`)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "New contact form submission from irigoyen.dev:\r\n\r\nName: %s\r\nEmail: %s\r\nMessage:\r\n%s\r\n",
		oneLine(c.Name), oneLine(c.Email), crlf(c.Message))
	return []byte(b.String())
}

// crlf converts any mix of CRLF, CR and LF line endings to CRLF.
func crlf(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
