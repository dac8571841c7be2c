// Package mail delivers outbound notifications. Messages are composed here
// and sent either over SMTP or, when no SMTP host is configured, logged so
// local setups keep working without a mail server.
package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/openshelf/librarian/internal/config"
)

// Message is a plain-text email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer sends messages.
type Mailer interface {
	Send(msg Message) error
}

// NewMailer returns an SMTP mailer when a host is configured, otherwise a
// mailer that only logs.
func NewMailer(cfg config.SMTP) Mailer {
	if cfg.Host == "" {
		return &LogMailer{}
	}
	return &SMTPMailer{cfg: cfg}
}

// SMTPMailer delivers messages over plain SMTP.
type SMTPMailer struct {
	cfg config.SMTP
}

func (m *SMTPMailer) Send(msg Message) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(addr, nil, m.cfg.From, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}

// LogMailer writes messages to the process log instead of delivering them.
type LogMailer struct{}

func (m *LogMailer) Send(msg Message) error {
	log.Printf("MAIL (smtp not configured) to=%s subject=%q", msg.To, msg.Subject)
	return nil
}

// PasswordResetMessage composes the reset-token notification.
func PasswordResetMessage(to, token string, ttlMinutes int) Message {
	return Message{
		To:      to,
		Subject: "Library - Password Reset Token",
		Body: fmt.Sprintf(
			"Use this token to reset your password: %s\nThis token expires in %d minutes.\n",
			token, ttlMinutes),
	}
}

// MemberWelcomeMessage composes the welcome notification for a new member.
func MemberWelcomeMessage(to, name, memberNumber, membershipType string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to the Library - Your Membership Details",
		Body: fmt.Sprintf(
			"Hello %s,\n\nYour library membership is ready.\n\nMember number: %s\nMembership type: %s\n\nBring your member number when borrowing books.\n",
			name, memberNumber, membershipType),
	}
}
