// Package notify delivers run reports to operators over SMTP.
package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"

	"github.com/lead-pruner/internal/config"
)

// EmailNotifier sends plain-text reports with the run artifacts attached.
type EmailNotifier struct {
	cfg    config.EmailConfig
	logger logrus.FieldLogger
}

// NewEmailNotifier creates an SMTP notifier from the email configuration.
func NewEmailNotifier(cfg config.EmailConfig, logger logrus.FieldLogger) *EmailNotifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EmailNotifier{cfg: cfg, logger: logger}
}

// Send delivers one message to every configured recipient. The caller is
// expected to pass only attachments that exist on disk. The SMTP session
// has no native cancellation, so the send runs in the background and the
// context only abandons the wait.
func (n *EmailNotifier) Send(ctx context.Context, subject, body string, attachments []string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", n.cfg.Sender)
	message.SetHeader("To", n.cfg.Recipients...)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)
	for _, path := range attachments {
		message.Attach(path)
	}

	dialer := gomail.NewDialer(n.cfg.SMTPServer, n.cfg.SMTPPort, n.cfg.Sender, n.cfg.Password)
	// Port 465 speaks implicit TLS rather than STARTTLS.
	dialer.SSL = n.cfg.SMTPPort == 465

	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(message)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email %q: %w", subject, err)
		}
		n.logger.Infof("[Email] Sent %q to %d recipients with %d attachments",
			subject, len(n.cfg.Recipients), len(attachments))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
