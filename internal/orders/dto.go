package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshboxhq/freshbox-backend/pkg/enums"
)

// CreateOrderInput carries a validated, sanitized order request.
type CreateOrderInput struct {
	PackageID        int64
	Quantity         int
	OrderType        enums.OrderType
	DeliveryDate     time.Time
	DeliveryLocation *string
	CustomerName     string
	PhoneNumber      string
	Address          *string
	FruitIDs         []int64
	CouponCode       string
	SponsorName      *string
	SponsorMessage   *string
}

// CreateOrderResult is returned to the storefront after a successful create.
type CreateOrderResult struct {
	OrderID        int64             `json:"order_id"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	Status         enums.OrderStatus `json:"status"`
}

// OrderSummary is the projection returned by the phone lookup.
type OrderSummary struct {
	ID               int64             `json:"id"`
	PackageName      string            `json:"package_name"`
	Quantity         int               `json:"quantity"`
	OrderType        enums.OrderType   `json:"order_type"`
	DeliveryDate     time.Time         `json:"delivery_date"`
	DeliveryLocation *string           `json:"delivery_location,omitempty"`
	TotalAmount      decimal.Decimal   `json:"total_amount"`
	Status           enums.OrderStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
}

// AdminOrderSummary extends the lookup projection with customer contact
// fields for the dashboard.
type AdminOrderSummary struct {
	ID               int64             `json:"id"`
	PackageName      string            `json:"package_name"`
	Quantity         int               `json:"quantity"`
	OrderType        enums.OrderType   `json:"order_type"`
	DeliveryDate     time.Time         `json:"delivery_date"`
	DeliveryLocation *string           `json:"delivery_location,omitempty"`
	CustomerName     string            `json:"customer_name"`
	PhoneNumber      string            `json:"phone_number"`
	Address          *string           `json:"address,omitempty"`
	TotalAmount      decimal.Decimal   `json:"total_amount"`
	DiscountAmount   decimal.Decimal   `json:"discount_amount"`
	SponsorName      *string           `json:"sponsor_name,omitempty"`
	Status           enums.OrderStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
}
