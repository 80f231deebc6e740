package models

import (
	"time"

	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is the central entity. It is created once with status pending and
// mutated only by status transitions; removal is represented by the status
// or the soft-delete marker, never by row deletion.
type Order struct {
	ID               int64             `gorm:"column:id;primaryKey;autoIncrement"`
	PackageID        int64             `gorm:"column:package_id;not null"`
	Quantity         int               `gorm:"column:quantity;not null"`
	OrderType        enums.OrderType   `gorm:"column:order_type;type:text;not null"`
	DeliveryDate     time.Time         `gorm:"column:delivery_date;type:date;not null"`
	DeliveryLocation *string           `gorm:"column:delivery_location"`
	CustomerName     string            `gorm:"column:customer_name;not null"`
	PhoneNumber      string            `gorm:"column:phone_number;not null;index"`
	Address          *string           `gorm:"column:address"`
	TotalAmount      decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	DiscountAmount   decimal.Decimal   `gorm:"column:discount_amount;type:numeric(10,2);not null;default:0"`
	CouponID         *int64            `gorm:"column:coupon_id"`
	SponsorName      *string           `gorm:"column:sponsor_name"`
	SponsorMessage   *string           `gorm:"column:sponsor_message"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TransactionID    *int64            `gorm:"column:transaction_id"`
	Fruits           []OrderFruit      `gorm:"foreignKey:OrderID"`
	DeletedAt        *time.Time        `gorm:"column:deleted_at"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// OrderFruit associates a chosen fruit with an order. An order carries
// exactly its package's fruits_limit associations.
type OrderFruit struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID int64 `gorm:"column:order_id;not null;index"`
	FruitID int64 `gorm:"column:fruit_id;not null"`
}
