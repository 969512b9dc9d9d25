package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"eduplatform/config"
)

// Mailer delivers transactional email. It is constructed once at startup
// and handed to the controllers that need it, so tests can substitute a
// fake and registration can roll back when delivery fails.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	Host     string
	Port     string
	Sender   string
	Password string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Sender:   cfg.EmailSender,
		Password: cfg.EmailPassword,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.Sender == "" || m.Password == "" {
		return fmt.Errorf("email service not configured")
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Edu Platform <%s>\r\n", m.Sender)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += wrapEmailBody(body)

	auth := smtp.PlainAuth("", m.Sender, m.Password, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.Sender, []string{to}, []byte(msg))
}

func wrapEmailBody(text string) string {
	var paragraphs strings.Builder
	for _, line := range strings.Split(text, "\n") {
		paragraphs.WriteString(fmt.Sprintf(`<p style="margin: 10px 0;">%s</p>`, line))
	}

	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #4F46E5;">Edu Platform</h2>
		<div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
			%s
		</div>
		<p style="color: #6b7280; font-size: 14px;">
			If you didn't create an account, please ignore this email.
		</p>
	</div>
	`, paragraphs.String())
}

// VerificationEmailBody renders the plain-text body carrying a
// registration verification code.
func VerificationEmailBody(name, code string) string {
	return fmt.Sprintf(`Hi %s,

Welcome to Edu Platform! Please verify your email address to complete your registration.

Your verification code is: %s

This code will expire in 10 minutes.`, name, code)
}
