package payments

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshboxhq/freshbox-backend/internal/notifications"
	"github.com/freshboxhq/freshbox-backend/internal/orders"
	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
	"github.com/freshboxhq/freshbox-backend/pkg/metrics"
	"github.com/freshboxhq/freshbox-backend/pkg/razorpay"
)

// IntentResult is everything the storefront checkout needs to open the
// gateway widget.
type IntentResult struct {
	OrderID        int64  `json:"order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	AmountPaise    int64  `json:"amount_paise"`
	Currency       string `json:"currency"`
	KeyID          string `json:"key_id"`
}

// VerifyInput carries the checkout callback fields. AmountPaise is what the
// gateway reported; it is recorded on the transaction but never trusted for
// anything else, the stored order total is authoritative.
type VerifyInput struct {
	OrderID        int64
	GatewayOrderID string
	PaymentID      string
	Signature      string
	AmountPaise    int64
}

// SettlementResult reports the outcome of a verified callback.
type SettlementResult struct {
	OrderID        int64             `json:"order_id"`
	Status         enums.OrderStatus `json:"status"`
	Amount         decimal.Decimal   `json:"amount"`
	AlreadySettled bool              `json:"already_settled"`
}

// Service drives payment intent creation and settlement.
type Service interface {
	CreateIntent(ctx context.Context, orderID int64) (*IntentResult, error)
	VerifyAndSettle(ctx context.Context, input VerifyInput) (*SettlementResult, error)
}

type gateway interface {
	CreateOrder(ctx context.Context, params razorpay.OrderCreateParams) (*razorpay.GatewayOrder, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
	KeyID() string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	orders   orders.Repository
	gateway  gateway
	tx       txRunner
	notifier notifications.Notifier
	metrics  *metrics.OrderMetrics
	logger   *logger.Logger
	now      func() time.Time
}

var (
	errRepoRequired    = errors.New("payments repository is required")
	errOrdersRequired  = errors.New("orders repository is required")
	errGatewayRequired = errors.New("payment gateway is required")
	errTxRequired      = errors.New("transaction runner is required")
)

// NewService wires the settlement workflow. The notifier and metrics may be
// nil; both degrade to no-ops.
func NewService(repo Repository, ordersRepo orders.Repository, gw gateway, tx txRunner, notifier notifications.Notifier, m *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errRepoRequired
	}
	if ordersRepo == nil {
		return nil, errOrdersRequired
	}
	if gw == nil {
		return nil, errGatewayRequired
	}
	if tx == nil {
		return nil, errTxRequired
	}
	if notifier == nil {
		notifier = notifications.NoopNotifier{}
	}
	return &service{
		repo:     repo,
		orders:   ordersRepo,
		gateway:  gw,
		tx:       tx,
		notifier: notifier,
		metrics:  m,
		logger:   logg,
		now:      time.Now,
	}, nil
}

// CreateIntent registers a gateway order for a pending order. The amount
// sent to the gateway always comes from the stored order, never the client.
func (s *service) CreateIntent(ctx context.Context, orderID int64) (*IntentResult, error) {
	order, err := s.findOrder(ctx, s.orders, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderCreateParams{
		OrderID: order.ID,
		Amount:  order.TotalAmount,
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		ctx = s.logger.WithOrderID(ctx, order.ID)
		s.logger.Info(s.logger.WithField(ctx, "gateway_order_id", gwOrder.ID), "payment.intent.created")
	}
	return &IntentResult{
		OrderID:        order.ID,
		GatewayOrderID: gwOrder.ID,
		AmountPaise:    gwOrder.AmountPaise,
		Currency:       gwOrder.Currency,
		KeyID:          s.gateway.KeyID(),
	}, nil
}

// VerifyAndSettle validates the callback signature, then atomically records
// the transaction and marks the order paid. Settlement is idempotent: a
// callback for an already paid order succeeds without writing anything.
func (s *service) VerifyAndSettle(ctx context.Context, input VerifyInput) (*SettlementResult, error) {
	if s.logger != nil {
		ctx = s.logger.WithOrderID(ctx, input.OrderID)
	}

	if !s.gateway.VerifySignature(input.GatewayOrderID, input.PaymentID, input.Signature) {
		if s.logger != nil {
			s.logger.Warn(ctx, "payment.signature.invalid")
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "payment verification failed")
	}

	var result SettlementResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		txnRepo := s.repo.WithTx(tx)

		order, err := s.findOrderForUpdate(ctx, ordersRepo, input.OrderID)
		if err != nil {
			return err
		}

		if order.Status == enums.OrderStatusPaid {
			result = SettlementResult{
				OrderID:        order.ID,
				Status:         order.Status,
				Amount:         order.TotalAmount,
				AlreadySettled: true,
			}
			return nil
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be settled").
				WithDetails(map[string]any{"status": order.Status.String()})
		}

		amount := order.TotalAmount
		if input.AmountPaise > 0 {
			amount = razorpay.FromPaise(input.AmountPaise)
		}

		txn, err := txnRepo.Create(ctx, &models.Transaction{
			OrderID:          order.ID,
			PaymentGatewayID: input.PaymentID,
			Amount:           amount,
			Status:           enums.TransactionStatusSuccess,
			PaidAt:           s.now().UTC(),
		})
		if err != nil {
			return err
		}

		if err := ordersRepo.UpdateOrder(ctx, order.ID, map[string]any{
			"status":         enums.OrderStatusPaid,
			"transaction_id": txn.ID,
		}); err != nil {
			return err
		}

		result = SettlementResult{
			OrderID: order.ID,
			Status:  enums.OrderStatusPaid,
			Amount:  order.TotalAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadySettled {
		s.metrics.IncSettled()
		if s.logger != nil {
			s.logger.Info(ctx, "payment.settled")
		}
		s.dispatchConfirmation(ctx, input)
	}
	return &result, nil
}

// dispatchConfirmation sends the confirmation email without blocking the
// caller. Failures are logged and swallowed; payment is already committed.
func (s *service) dispatchConfirmation(ctx context.Context, input VerifyInput) {
	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn(s.logger.WithField(ctx, "reason", err.Error()), "notification.skipped")
		}
		return
	}

	confirmation := notifications.OrderConfirmation{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		PhoneNumber:  order.PhoneNumber,
		OrderType:    order.OrderType,
		DeliveryDate: order.DeliveryDate,
		TotalAmount:  order.TotalAmount,
		PaymentID:    input.PaymentID,
	}

	bgCtx := context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.OrderConfirmed(bgCtx, confirmation); err != nil && s.logger != nil {
			s.logger.Warn(s.logger.WithField(bgCtx, "reason", err.Error()), "notification.failed")
		}
	}()
}

func (s *service) findOrder(ctx context.Context, repo orders.Repository, id int64) (*models.Order, error) {
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return order, nil
}

func (s *service) findOrderForUpdate(ctx context.Context, repo orders.Repository, id int64) (*models.Order, error) {
	order, err := repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return order, nil
}
