// Package notifier delivers the watcher's outbound email: availability
// alerts and periodic status reports.
package notifier

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"grands-buffets-watch/internal/config"
	"grands-buffets-watch/internal/models"
)

// Dispatcher routes notification events to their channel. Send reports
// delivery success; it never returns an error because notification
// failure must not disturb the probe cycle.
type Dispatcher interface {
	Enabled() bool
	Send(ev models.NotificationEvent) bool
}

// EmailNotifier sends plain-text email over SMTP.
type EmailNotifier struct {
	cfg  config.EmailConfig
	auth smtp.Auth
	log  *zap.SugaredLogger
}

// NewEmailNotifier creates a notifier from email settings. It is safe
// to construct with empty credentials; the notifier just stays disabled.
func NewEmailNotifier(cfg config.EmailConfig, log *zap.SugaredLogger) *EmailNotifier {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &EmailNotifier{
		cfg:  cfg,
		auth: smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host),
		log:  log,
	}
}

// Enabled reports whether credentials are present.
func (e *EmailNotifier) Enabled() bool { return e.cfg.Configured() }

// Send delivers one event. Missing credentials or an empty recipient
// are logged and reported as failure, nothing more.
func (e *EmailNotifier) Send(ev models.NotificationEvent) bool {
	if !e.Enabled() {
		e.log.Warnf("⚠️ email credentials not configured, dropping %q", ev.Subject)
		return false
	}
	if ev.Recipient == "" {
		e.log.Warnf("⚠️ no recipient for %q", ev.Subject)
		return false
	}

	message := e.buildMessage(ev)
	addr := fmt.Sprintf("%s:%d", e.cfg.SMTP.Host, e.cfg.SMTP.Port)
	if err := smtp.SendMail(addr, e.auth, e.cfg.From, []string{ev.Recipient}, []byte(message)); err != nil {
		e.log.Errorf("❌ email to %s failed: %v", ev.Recipient, err)
		return false
	}

	e.log.Infof("✅ email sent to %s", ev.Recipient)
	return true
}

// buildMessage assembles the full RFC 822 message with headers.
func (e *EmailNotifier) buildMessage(ev models.NotificationEvent) string {
	var message strings.Builder
	message.WriteString(fmt.Sprintf("From: %s\r\n", e.cfg.From))
	message.WriteString(fmt.Sprintf("To: %s\r\n", ev.Recipient))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", ev.Subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	message.WriteString("\r\n")
	message.WriteString(ev.Body)
	return message.String()
}

// TestConnection sends a short test message to the alert recipient.
func (e *EmailNotifier) TestConnection() error {
	if !e.Enabled() {
		return fmt.Errorf("email credentials not configured")
	}
	ok := e.Send(models.NotificationEvent{
		Subject:   "Grands Buffets Watch — test email",
		Body:      "Email configuration works. This is a test message from grands-buffets-watch.\n",
		Recipient: e.cfg.To,
	})
	if !ok {
		return fmt.Errorf("test email could not be delivered")
	}
	return nil
}
