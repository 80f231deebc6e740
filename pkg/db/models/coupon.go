package models

import (
	"time"

	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Coupon is a discount code with a validity window. Codes match
// case-insensitively; the resulting discount is frozen onto the order
// at creation time.
type Coupon struct {
	ID            int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Code          string             `gorm:"column:code;not null;uniqueIndex"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;type:text;not null"`
	DiscountValue decimal.Decimal    `gorm:"column:discount_value;type:numeric(10,2);not null"`
	ValidFrom     time.Time          `gorm:"column:valid_from;type:date;not null"`
	ValidUntil    time.Time          `gorm:"column:valid_until;type:date;not null"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}
