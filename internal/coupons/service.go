package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
)

// ErrInvalidCoupon is the client-facing failure for any resolution miss:
// unknown code, inactive, or outside the validity window.
var errInvalidCoupon = pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired coupon")

// Preview is the read-only projection returned by the verify endpoint.
type Preview struct {
	Code          string             `json:"code"`
	DiscountType  enums.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
}

// Service resolves coupon codes and computes discounts.
type Service interface {
	Resolve(ctx context.Context, code string) (*models.Coupon, error)
	Verify(ctx context.Context, code string) (*Preview, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a coupon service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Resolve returns the coupon when the code matches (case-insensitive),
// the coupon is active, and today falls inside the validity window.
func (s *service) Resolve(ctx context.Context, code string) (*models.Coupon, error) {
	if code == "" {
		return nil, errInvalidCoupon
	}
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCoupon
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if !coupon.IsActive {
		return nil, errInvalidCoupon
	}
	today := truncateToDay(s.now())
	if today.Before(truncateToDay(coupon.ValidFrom)) || today.After(truncateToDay(coupon.ValidUntil)) {
		return nil, errInvalidCoupon
	}
	return coupon, nil
}

// Verify is the read-only preview used before order placement. It never
// consumes the coupon.
func (s *service) Verify(ctx context.Context, code string) (*Preview, error) {
	coupon, err := s.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Code:          coupon.Code,
		DiscountType:  coupon.DiscountType,
		DiscountValue: coupon.DiscountValue,
	}, nil
}

// ComputeDiscount returns the discount a coupon yields against the gross
// amount, clamped to the gross so the net never goes negative.
func ComputeDiscount(coupon *models.Coupon, gross decimal.Decimal) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}
	var discount decimal.Decimal
	switch coupon.DiscountType {
	case enums.DiscountTypePercentage:
		discount = gross.Mul(coupon.DiscountValue).Div(decimal.NewFromInt(100))
	case enums.DiscountTypeFixed:
		discount = coupon.DiscountValue
	default:
		return decimal.Zero
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(gross) {
		return gross
	}
	return discount
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
