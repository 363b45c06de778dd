package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/atlas/pkg/config"
)

// Mailer delivers magic-link emails
type Mailer interface {
	SendMagicLink(ctx context.Context, to, link string) error
}

// New returns an SMTP mailer, or a log mailer when no host is configured
func New(cfg *config.SMTPConfig, logger *zap.Logger) Mailer {
	if cfg == nil || cfg.Host == "" {
		return &LogMailer{logger: logger}
	}
	return &SMTPMailer{cfg: *cfg}
}

// SMTPMailer sends mail through an SMTP relay
type SMTPMailer struct {
	cfg  config.SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// SendMagicLink sends the sign-in link
func (m *SMTPMailer) SendMagicLink(ctx context.Context, to, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	send := m.send
	if send == nil {
		send = smtp.SendMail
	}

	msg := buildMessage(m.cfg.From, to, link)
	if err := send(addr, auth, envelopeAddress(m.cfg.From), []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogMailer writes the link to the log instead of sending it
type LogMailer struct {
	logger *zap.Logger
}

// SendMagicLink logs the sign-in link
func (m *LogMailer) SendMagicLink(_ context.Context, to, link string) error {
	if m.logger != nil {
		m.logger.Info("auth.magic_link.issued",
			zap.String("email", to),
			zap.String("link", link),
		)
	}
	return nil
}

func buildMessage(from, to, link string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Your Atlas sign-in link\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString("Click the link below to sign in to Atlas:\r\n\r\n")
	b.WriteString(link + "\r\n\r\n")
	b.WriteString("If you did not request this email you can ignore it.\r\n")
	return []byte(b.String())
}

// envelopeAddress extracts the bare address from "Name <addr>"
func envelopeAddress(from string) string {
	if start := strings.Index(from, "<"); start >= 0 {
		if end := strings.Index(from[start:], ">"); end > 0 {
			return from[start+1 : start+end]
		}
	}
	return strings.TrimSpace(from)
}
