package email

import (
	"context"
	"strings"

	"candidate-boutique/pkg/logger"
)

// LoggingNotifier is used when no email provider key is configured.
type LoggingNotifier struct{}

func NewLoggingNotifier() *LoggingNotifier {
	return &LoggingNotifier{}
}

func (n *LoggingNotifier) Send(ctx context.Context, msg Message) error {
	logger.Log.InfoContext(ctx, "Email not sent (demo mode)",
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
	)
	return nil
}

func (n *LoggingNotifier) Live() bool { return false }
