package models

import (
	"time"

	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Transaction records a verified payment event. An order's transaction_id
// points at the transaction that settled it, set exactly once.
type Transaction struct {
	ID               int64                   `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID          int64                   `gorm:"column:order_id;not null;index"`
	PaymentGatewayID string                  `gorm:"column:payment_gateway_id;not null"`
	Amount           decimal.Decimal         `gorm:"column:amount;type:numeric(10,2);not null"`
	Status           enums.TransactionStatus `gorm:"column:status;type:text;not null"`
	PaidAt           time.Time               `gorm:"column:paid_at;not null"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
}
