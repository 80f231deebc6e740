package notifications

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/freshboxhq/freshbox-backend/pkg/config"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

var errNotConfigured = errors.New("smtp is not configured")

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends order confirmations over SMTP.
type Mailer struct {
	cfg    config.SMTPConfig
	logger *logger.Logger
	send   sendFunc
}

// NewMailer returns an SMTP-backed Notifier, or a NoopNotifier when the
// SMTP section is not configured.
func NewMailer(cfg config.SMTPConfig, logg *logger.Logger) Notifier {
	if !cfg.Enabled() || cfg.NotifyTo == "" {
		return NoopNotifier{}
	}
	return &Mailer{cfg: cfg, logger: logg, send: smtp.SendMail}
}

func (m *Mailer) OrderConfirmed(ctx context.Context, confirmation OrderConfirmation) error {
	if m.cfg.Host == "" || m.cfg.NotifyTo == "" {
		return errNotConfigured
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := buildConfirmationMessage(m.cfg.From, m.cfg.NotifyTo, confirmation)
	if err := m.send(addr, auth, m.cfg.From, []string{m.cfg.NotifyTo}, msg); err != nil {
		return fmt.Errorf("send confirmation for order %d: %w", confirmation.OrderID, err)
	}

	if m.logger != nil {
		ctx = m.logger.WithOrderID(ctx, confirmation.OrderID)
		m.logger.Info(ctx, "notification.sent")
	}
	return nil
}

func buildConfirmationMessage(from, to string, c OrderConfirmation) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: Order #%d paid\r\n", c.OrderID)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Order #%d has been paid.\r\n\r\n", c.OrderID)
	fmt.Fprintf(&b, "Customer: %s (%s)\r\n", c.CustomerName, c.PhoneNumber)
	fmt.Fprintf(&b, "Type: %s\r\n", c.OrderType)
	fmt.Fprintf(&b, "Delivery date: %s\r\n", c.DeliveryDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Amount: %s INR\r\n", c.TotalAmount.StringFixed(2))
	if c.PaymentID != "" {
		fmt.Fprintf(&b, "Payment: %s\r\n", c.PaymentID)
	}
	return []byte(b.String())
}
