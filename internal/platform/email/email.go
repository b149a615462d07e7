package email

import (
	"context"
	"crypto/tls"
	"io"
	"strings"

	"gopkg.in/gomail.v2"

	"backoffice/internal/domain/notifications"
	"backoffice/internal/platform/config"
)

type smtpMailer struct {
	dialer *gomail.Dialer
}

// New returns nil when email is disabled; the notifications service records
// such deliveries as skipped.
func New(cfg config.Config) notifications.Mailer {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return nil
	}
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	// Port 465 is implicit TLS; elsewhere gomail upgrades with STARTTLS when offered.
	dialer.SSL = cfg.SMTPPort == 465
	if cfg.SMTPUseTLS {
		dialer.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	}
	return &smtpMailer{dialer: dialer}
}

func (s *smtpMailer) Send(ctx context.Context, from string, msg notifications.Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dialer.DialAndSend(buildMessage(from, msg))
}

func buildMessage(from string, msg notifications.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", strings.TrimSpace(msg.To))
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	for _, att := range msg.Attachments {
		data := att.Data
		m.Attach(att.Name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}),
		)
	}
	return m
}
