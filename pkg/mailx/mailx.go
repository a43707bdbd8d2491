// Package mailx is the outbound email boundary. Delivery is strictly
// best-effort: callers catch and log every error, so an implementation
// failing can never take a primary write path down with it.
package mailx

import (
	"context"
	"fmt"
	"net/smtp"
)

// MentionEmail carries the rendered context for a mention notification.
type MentionEmail struct {
	ActorName   string // who wrote the comment
	CommentBody string
	TaskTitle   string // empty when the comment is not on a task
	Link        string // deep link into the app, empty when no base URL is configured
}

// Mailer ships a single mention email to one recipient.
type Mailer interface {
	SendMentionEmail(ctx context.Context, to string, m MentionEmail) error
}

// SMTPMailer sends plain-text email over SMTP with PLAIN auth.
type SMTPMailer struct {
	Host     string
	Port     string
	Sender   string
	Password string
}

func (s *SMTPMailer) SendMentionEmail(ctx context.Context, to string, m MentionEmail) error {
	subject := fmt.Sprintf("%s mentioned you", m.ActorName)

	body := fmt.Sprintf("%s mentioned you in a comment:\r\n\r\n%s\r\n", m.ActorName, m.CommentBody)
	if m.TaskTitle != "" {
		body = fmt.Sprintf("%s mentioned you in a comment on %q:\r\n\r\n%s\r\n",
			m.ActorName, m.TaskTitle, m.CommentBody)
	}
	if m.Link != "" {
		body += "\r\n" + m.Link + "\r\n"
	}

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body)

	auth := smtp.PlainAuth("", s.Sender, s.Password, s.Host)
	addr := s.Host + ":" + s.Port

	if err := smtp.SendMail(addr, auth, s.Sender, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mention email: %w", err)
	}
	return nil
}

// NopMailer discards every email. Used in dev and as the default when no
// SMTP host is configured.
type NopMailer struct{}

func (NopMailer) SendMentionEmail(ctx context.Context, to string, m MentionEmail) error {
	return nil
}
