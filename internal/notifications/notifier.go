package notifications

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshboxhq/freshbox-backend/pkg/enums"
)

// OrderConfirmation carries what the confirmation message needs. Customers
// are identified by phone, so confirmations go to the configured ops inbox.
type OrderConfirmation struct {
	OrderID      int64
	CustomerName string
	PhoneNumber  string
	OrderType    enums.OrderType
	DeliveryDate time.Time
	TotalAmount  decimal.Decimal
	PaymentID    string
}

// Notifier dispatches a confirmation after settlement. Implementations are
// best-effort; callers log and swallow the returned error.
type Notifier interface {
	OrderConfirmed(ctx context.Context, confirmation OrderConfirmation) error
}

// NoopNotifier is used when SMTP is not configured.
type NoopNotifier struct{}

func (NoopNotifier) OrderConfirmed(context.Context, OrderConfirmation) error { return nil }
