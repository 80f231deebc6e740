// Package razorpay wraps the Razorpay SDK with amount conversion,
// receipt naming, and callback signature verification.
package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	rzpsdk "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"

	"github.com/freshboxhq/freshbox-backend/pkg/config"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

var (
	errKeyIDRequired     = errors.New("razorpay key id is required")
	errKeySecretRequired = errors.New("razorpay key secret is required")
	errLoggerRequired    = errors.New("razorpay logger is required")
)

type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Client exposes the Razorpay operations the platform needs with
// centralized logging and error mapping.
type Client struct {
	orders    orderCreator
	keyID     string
	keySecret string
	currency  string
	logger    *logger.Logger
}

// OrderCreateParams carries the inputs for a gateway order.
type OrderCreateParams struct {
	OrderID int64
	Amount  decimal.Decimal
}

// GatewayOrder is the subset of the gateway response callers use.
type GatewayOrder struct {
	ID          string
	AmountPaise int64
	Currency    string
	Receipt     string
}

// NewClient initializes the Razorpay wrapper and validates credentials.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keySecret == "" {
		return nil, errKeySecretRequired
	}
	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "INR"
	}

	sdk := rzpsdk.NewClient(keyID, keySecret)
	c := &Client{
		orders:    sdk.Order,
		keyID:     keyID,
		keySecret: keySecret,
		currency:  currency,
		logger:    logg,
	}
	logg.Info(ctx, "razorpay client initialized")
	return c, nil
}

// KeyID returns the public key the frontend checkout needs.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// CreateOrder registers an order with the gateway. The amount is
// converted to the currency's smallest unit.
func (c *Client) CreateOrder(ctx context.Context, params OrderCreateParams) (*GatewayOrder, error) {
	receipt := Receipt(params.OrderID)
	paise := ToPaise(params.Amount)

	ctx = c.logger.WithFields(ctx, map[string]any{
		"operation":    "create_order",
		"receipt":      receipt,
		"amount_paise": paise,
	})
	c.logger.Info(ctx, "razorpay request")

	resp, err := c.orders.Create(map[string]interface{}{
		"amount":   paise,
		"currency": c.currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		c.logger.Error(ctx, "razorpay create_order", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "razorpay create order failed")
	}

	order := &GatewayOrder{
		AmountPaise: paise,
		Currency:    c.currency,
		Receipt:     receipt,
	}
	if id, ok := resp["id"].(string); ok {
		order.ID = id
	}
	if order.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "razorpay response missing order id")
	}

	ctx = c.logger.WithField(ctx, "gateway_order_id", order.ID)
	c.logger.Info(ctx, "razorpay response")
	return order, nil
}

// VerifySignature checks the checkout callback signature. Razorpay signs
// "{order_id}|{payment_id}" with HMAC-SHA256 over the key secret and
// sends the hex digest.
func (c *Client) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	if gatewayOrderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ToPaise converts a rupee amount to paise, rounding to the nearest unit.
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromPaise converts a paise amount back to rupees.
func FromPaise(paise int64) decimal.Decimal {
	return decimal.NewFromInt(paise).Shift(-2)
}

// Receipt builds the gateway receipt label for an order.
func Receipt(orderID int64) string {
	return fmt.Sprintf("order_%d", orderID)
}
