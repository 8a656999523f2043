package email

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// SMTPConfig holds the Brevo relay credentials
type SMTPConfig struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
}

// EmailNotifier sends messages via SMTP
type EmailNotifier struct {
	cfg      SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	backoff  func() retry.Backoff
}

func NewEmailNotifier(cfg SMTPConfig) *EmailNotifier {
	return &EmailNotifier{
		cfg:      cfg,
		sendMail: smtp.SendMail,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
		},
	}
}

func (n *EmailNotifier) Live() bool { return true }

// Send delivers the message, retrying transient network failures.
// SMTP protocol rejections (bad recipient, auth) are not retried.
func (n *EmailNotifier) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("email: no recipients")
	}

	raw := n.buildMIME(msg)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	addr := fmt.Sprintf("%s:%s", n.cfg.Host, n.cfg.Port)

	err := retry.Do(ctx, n.backoff(), func(ctx context.Context) error {
		err := n.sendMail(addr, auth, n.cfg.FromEmail, msg.To, raw)
		if err == nil {
			return nil
		}
		var netErr net.Error
		if errors.As(err, &netErr) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (n *EmailNotifier) buildMIME(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
