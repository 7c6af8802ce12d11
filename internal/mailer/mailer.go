package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"pathguider/internal/config"
)

// Mailer delivers portal notifications. Failures are reported to the caller
// but are never fatal to the triggering request.
type Mailer interface {
	SendVerificationEmail(to, link string) error
	SendPasswordResetEmail(to, link string) error
	SendAppealDecisionEmail(to, status, reason string) error
}

// New returns an SMTP mailer when SMTP_HOST is configured, otherwise a
// log-only mailer so development environments work without a mail server.
func New(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		log.Println("SMTP_HOST not set, email delivery disabled (logging only)")
		return &logMailer{}
	}
	return &smtpMailer{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost),
		from: cfg.SMTPFrom,
	}
}

type smtpMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func (m *smtpMailer) send(to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String()))
}

func (m *smtpMailer) SendVerificationEmail(to, link string) error {
	return m.send(to, "Verify your PathGuider account",
		"Welcome to PathGuider!\n\nPlease verify your email address by opening the link below:\n\n"+
			link+"\n\nThe link expires in 24 hours. If you did not sign up, ignore this email.\n")
}

func (m *smtpMailer) SendPasswordResetEmail(to, link string) error {
	return m.send(to, "Reset your PathGuider password",
		"A password reset was requested for your account.\n\nOpen the link below to choose a new password:\n\n"+
			link+"\n\nThe link expires in 24 hours. If you did not request a reset, ignore this email.\n")
}

func (m *smtpMailer) SendAppealDecisionEmail(to, status, reason string) error {
	body := "Hello,\n\nYour placement appeal has been " + status + "."
	if reason != "" {
		body += "\n\nReason: " + reason
	}
	body += "\n\nSign in to PathGuider for details.\n"
	return m.send(to, "Your placement appeal was "+status, body)
}

type logMailer struct{}

func (*logMailer) SendVerificationEmail(to, link string) error {
	log.Printf("mail (verification) to=%s link=%s", to, link)
	return nil
}

func (*logMailer) SendPasswordResetEmail(to, link string) error {
	log.Printf("mail (password reset) to=%s link=%s", to, link)
	return nil
}

func (*logMailer) SendAppealDecisionEmail(to, status, reason string) error {
	log.Printf("mail (appeal %s) to=%s reason=%q", status, to, reason)
	return nil
}
