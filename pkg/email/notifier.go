package email

import (
	"context"

	"candidate-boutique/config"
)

// Message is a single outbound email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Notifier delivers outbound messages. Two variants exist: EmailNotifier
// sends through SMTP, LoggingNotifier only logs (demo mode).
type Notifier interface {
	Send(ctx context.Context, msg Message) error
	// Live reports whether messages actually leave the process.
	Live() bool
}

// NewNotifier selects the notifier variant once, at startup.
func NewNotifier(cfg *config.Config) Notifier {
	if !cfg.EmailEnabled() {
		return NewLoggingNotifier()
	}
	return NewEmailNotifier(SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.SMTPFromEmail,
	})
}
