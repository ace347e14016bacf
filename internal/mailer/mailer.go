package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends transactional notifications. Sends are best effort;
// callers must not let a failed send abort the surrounding workflow.
type Mailer interface {
	SendWelcome(name, email string) error
}

// SMTPMailer delivers mail over plain SMTP.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)

// NewSMTP creates a mailer. An empty host disables sending entirely,
// which keeps local development quiet.
func NewSMTP(host, port, username, password, from, fromName string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
	}
}

// SendWelcome sends the post-registration welcome email.
func (m *SMTPMailer) SendWelcome(name, email string) error {
	subject := "Welcome to Digikart"
	body := fmt.Sprintf("Hi %s,\r\n\r\nYour account is ready. Happy shopping!\r\n", name)
	return m.send(email, subject, body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.host == "" {
		return nil
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", m.fromName, m.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
