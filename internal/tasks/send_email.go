package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/openshelf/librarian/internal/mail"
)

// SendEmailTask delivers a single email message through the configured mailer.
// Delivery failures are retried with backoff.
type SendEmailTask struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Config returns the queue configuration for email delivery tasks.
func (t SendEmailTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "send_email",
		MaxAttempts: 5,
		Backoff:     2 * time.Minute,
		Timeout:     1 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SendEmailProcessor creates a processor function for SendEmailTask.
func SendEmailProcessor(mailer mail.Mailer) backlite.QueueProcessor[SendEmailTask] {
	return func(ctx context.Context, task SendEmailTask) error {
		if mailer == nil {
			return fmt.Errorf("mailer not configured")
		}

		msg := mail.Message{
			To:      task.To,
			Subject: task.Subject,
			Body:    task.Body,
		}
		if err := mailer.Send(msg); err != nil {
			return fmt.Errorf("send email to %s: %w", task.To, err)
		}

		log.Printf("[TASK] Sent email %q to %s", task.Subject, task.To)
		return nil
	}
}

// NewSendEmailQueue creates a backlite queue for email delivery tasks.
func NewSendEmailQueue(mailer mail.Mailer) backlite.Queue {
	return backlite.NewQueue(SendEmailProcessor(mailer))
}

// NewSendEmailTask builds a SendEmailTask from a composed message.
func NewSendEmailTask(msg mail.Message) SendEmailTask {
	return SendEmailTask{
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
	}
}
