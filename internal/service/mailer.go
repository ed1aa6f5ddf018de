package service

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/citisolve/complaint-service/internal/config"
)

// Mailer delivers transactional email.
type Mailer interface {
	Send(to, subject, body string) error
}

// NewMailer returns an SMTP mailer, or a logging no-op when no SMTP host
// is configured so local development works without a mail server.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if cfg.Host == "" {
		return &noopMailer{logger: logger}
	}
	return &smtpMailer{cfg: cfg}
}

type smtpMailer struct {
	cfg config.MailConfig
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

type noopMailer struct {
	logger *zap.Logger
}

func (m *noopMailer) Send(to, subject, body string) error {
	m.logger.Info("mail delivery skipped, no SMTP host configured",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
