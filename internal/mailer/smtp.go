package mailer

import (
	"fmt"

	"github.com/managemeals/manage-meals-api/internal/domain"
	gomail "gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	dialer      *gomail.Dialer
	defaultFrom string
}

type SMTPConfig struct {
	Host        string
	Port        int
	User        string
	Pass        string
	DefaultFrom string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:      gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		defaultFrom: cfg.DefaultFrom,
	}
}

func (m *SMTPMailer) Send(msg domain.EmailMessage) error {
	from := msg.From
	if from == "" {
		from = m.defaultFrom
	}

	mail := gomail.NewMessage()
	mail.SetHeader("From", from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(mail); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	return nil
}
