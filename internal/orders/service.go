package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshboxhq/freshbox-backend/internal/catalog"
	"github.com/freshboxhq/freshbox-backend/internal/coupons"
	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
	"github.com/freshboxhq/freshbox-backend/pkg/metrics"
)

const (
	maxQuantity = 100
	lookupLimit = 10
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type admissionGate interface {
	Check(ctx context.Context, orderType enums.OrderType, deliveryDate time.Time) error
}

type couponResolver interface {
	Resolve(ctx context.Context, code string) (*models.Coupon, error)
}

// Service defines the order workflow operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	LookupByPhone(ctx context.Context, phone string) ([]OrderSummary, error)
	Detail(ctx context.Context, id int64) (*models.Order, error)
	AdminList(ctx context.Context) ([]AdminOrderSummary, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	coupons couponResolver
	gate    admissionGate
	tx      txRunner
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
}

// NewService builds the order service with its collaborators. The metrics
// recorder may be nil.
func NewService(repo Repository, cat catalog.Repository, resolver couponResolver, gate admissionGate, tx txRunner, m *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("coupon resolver required")
	}
	if gate == nil {
		return nil, fmt.Errorf("admission gate required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		catalog: cat,
		coupons: resolver,
		gate:    gate,
		tx:      tx,
		metrics: m,
		logg:    logg,
	}, nil
}

// Create runs the full admission + pricing + persistence pipeline. All
// writes happen in one transaction; any failure rolls back completely.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if err := s.gate.Check(ctx, input.OrderType, input.DeliveryDate); err != nil {
		s.metrics.IncCutoffRejection(input.OrderType.String())
		return nil, err
	}

	var result *CreateOrderResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cat := s.catalog.WithTx(tx)

		pkg, err := cat.FindActivePackage(ctx, input.PackageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "package not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load package")
		}

		if len(input.FruitIDs) != pkg.FruitsLimit {
			msg := fmt.Sprintf("please select exactly %d fruits for this package", pkg.FruitsLimit)
			return pkgerrors.New(pkgerrors.CodeValidation, msg)
		}

		available, err := cat.FindAvailableFruits(ctx, input.FruitIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fruits")
		}
		if len(available) != len(input.FruitIDs) {
			return pkgerrors.New(pkgerrors.CodeValidation, "one or more selected fruits are unavailable")
		}

		// Resolved after the package and fruit checks so their errors win,
		// and inside the transaction so validity is frozen with the order.
		var coupon *models.Coupon
		if input.CouponCode != "" {
			resolved, err := s.coupons.Resolve(ctx, input.CouponCode)
			if err != nil {
				return err
			}
			coupon = resolved
		}

		gross := pkg.Price.Mul(decimal.NewFromInt(int64(input.Quantity)))
		discount := coupons.ComputeDiscount(coupon, gross)
		total := gross.Sub(discount)

		order := &models.Order{
			PackageID:        pkg.ID,
			Quantity:         input.Quantity,
			OrderType:        input.OrderType,
			DeliveryDate:     input.DeliveryDate,
			DeliveryLocation: input.DeliveryLocation,
			CustomerName:     input.CustomerName,
			PhoneNumber:      input.PhoneNumber,
			Address:          input.Address,
			TotalAmount:      total,
			DiscountAmount:   discount,
			SponsorName:      input.SponsorName,
			SponsorMessage:   input.SponsorMessage,
			Status:           enums.OrderStatusPending,
		}
		if coupon != nil {
			order.CouponID = &coupon.ID
		}

		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
		}

		items := make([]models.OrderFruit, 0, len(input.FruitIDs))
		for _, fruitID := range input.FruitIDs {
			items = append(items, models.OrderFruit{OrderID: order.ID, FruitID: fruitID})
		}
		if err := repo.CreateOrderFruits(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order fruits")
		}

		result = &CreateOrderResult{
			OrderID:        order.ID,
			TotalAmount:    total,
			DiscountAmount: discount,
			Status:         order.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncCreated(input.OrderType.String())
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, result.OrderID)
		s.logg.Info(logCtx, "order.created")
	}
	return result, nil
}

// LookupByPhone returns the most recent orders for exactly that phone.
func (s *service) LookupByPhone(ctx context.Context, phone string) ([]OrderSummary, error) {
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number required")
	}
	summaries, err := s.repo.ListByPhone(ctx, phone, lookupLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup orders")
	}
	return summaries, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) AdminList(ctx context.Context) ([]AdminOrderSummary, error) {
	summaries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return summaries, nil
}

// UpdateStatus applies an administrative transition. Illegal target values
// are rejected at parse time; illegal transitions at the domain layer.
func (s *service) UpdateStatus(ctx context.Context, id int64, status string) error {
	target, err := enums.ParseOrderStatus(status)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").WithDetails(map[string]any{"status": status})
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == target {
			return nil
		}
		if !order.Status.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
				WithDetails(map[string]any{"from": order.Status, "to": target})
		}
		if err := repo.UpdateStatus(ctx, id, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update status")
		}
		return nil
	})
}

func validateInput(input CreateOrderInput) error {
	if !input.OrderType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	if input.Quantity < 1 || input.Quantity > maxQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 1 and %d", maxQuantity))
	}
	if input.CustomerName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if input.PhoneNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone number required")
	}
	if input.DeliveryDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery date required")
	}
	if input.OrderType.RequiresAddress() && (input.Address == nil || *input.Address == "") {
		return pkgerrors.New(pkgerrors.CodeValidation, "address required for self orders")
	}
	if input.OrderType.RequiresDeliveryLocation() && (input.DeliveryLocation == nil || *input.DeliveryLocation == "") {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery location required for donation and sponsorship orders")
	}
	return nil
}
