package services

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers one email, best effort.
type Mailer interface {
	SendMail(to string, subject string, body string) error
}

// SMTPMailer sends plain-text mail over authenticated SMTP. With no host
// configured it is disabled and SendMail is a no-op.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	enabled  bool
}

func NewSMTPMailer(host string, port string, username string, password string, from string) *SMTPMailer {
	if from == "" {
		from = username
	}
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		enabled:  host != "" && from != "",
	}
}

func (mailer *SMTPMailer) Enabled() bool {
	return mailer.enabled
}

func (mailer *SMTPMailer) SendMail(to string, subject string, body string) error {
	if !mailer.enabled {
		return nil
	}

	var message strings.Builder
	fmt.Fprintf(&message, "From: %s\r\n", mailer.from)
	fmt.Fprintf(&message, "To: %s\r\n", to)
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	message.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	message.WriteString(body)

	var auth smtp.Auth
	if mailer.username != "" {
		auth = smtp.PlainAuth("", mailer.username, mailer.password, mailer.host)
	}

	address := mailer.host + ":" + mailer.port
	if err := smtp.SendMail(address, auth, mailer.from, []string{to}, []byte(message.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
