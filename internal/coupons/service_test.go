package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
)

type stubRepo struct {
	coupon *models.Coupon
	err    error
}

func (s *stubRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubRepo) FindByCode(context.Context, string) (*models.Coupon, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.coupon, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeCoupon() *models.Coupon {
	return &models.Coupon{
		ID:            1,
		Code:          "RAMADAN10",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		ValidFrom:     date(2026, time.March, 1),
		ValidUntil:    date(2026, time.March, 31),
		IsActive:      true,
	}
}

func newTestService(repo Repository, at time.Time) *service {
	svc, _ := NewService(repo)
	s := svc.(*service)
	s.now = func() time.Time { return at }
	return s
}

func TestResolveHappyPath(t *testing.T) {
	svc := newTestService(&stubRepo{coupon: activeCoupon()}, date(2026, time.March, 15))

	coupon, err := svc.Resolve(context.Background(), "ramadan10")
	require.NoError(t, err)
	assert.Equal(t, "RAMADAN10", coupon.Code)
}

func TestResolveWindowBoundariesInclusive(t *testing.T) {
	for _, day := range []time.Time{date(2026, time.March, 1), date(2026, time.March, 31)} {
		svc := newTestService(&stubRepo{coupon: activeCoupon()}, day)
		_, err := svc.Resolve(context.Background(), "RAMADAN10")
		assert.NoError(t, err, "day %s", day)
	}
}

func TestResolveRejections(t *testing.T) {
	inactive := activeCoupon()
	inactive.IsActive = false

	cases := []struct {
		name string
		repo *stubRepo
		at   time.Time
	}{
		{"unknown code", &stubRepo{err: gorm.ErrRecordNotFound}, date(2026, time.March, 15)},
		{"inactive", &stubRepo{coupon: inactive}, date(2026, time.March, 15)},
		{"before window", &stubRepo{coupon: activeCoupon()}, date(2026, time.February, 28)},
		{"after window", &stubRepo{coupon: activeCoupon()}, date(2026, time.April, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(tc.repo, tc.at)
			_, err := svc.Resolve(context.Background(), "RAMADAN10")
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Equal(t, "invalid or expired coupon", typed.Message())
		})
	}
}

func TestResolveEmptyCode(t *testing.T) {
	svc := newTestService(&stubRepo{coupon: activeCoupon()}, date(2026, time.March, 15))
	_, err := svc.Resolve(context.Background(), "")
	require.Error(t, err)
}

func TestVerifyReturnsPreviewOnly(t *testing.T) {
	svc := newTestService(&stubRepo{coupon: activeCoupon()}, date(2026, time.March, 15))

	preview, err := svc.Verify(context.Background(), "RAMADAN10")
	require.NoError(t, err)
	assert.Equal(t, "RAMADAN10", preview.Code)
	assert.Equal(t, enums.DiscountTypePercentage, preview.DiscountType)
	assert.True(t, preview.DiscountValue.Equal(decimal.NewFromInt(10)))
}

func TestComputeDiscountPercentage(t *testing.T) {
	gross := decimal.RequireFromString("398")
	coupon := activeCoupon()

	discount := ComputeDiscount(coupon, gross)
	assert.True(t, discount.Equal(decimal.RequireFromString("39.8")), "got %s", discount)
	assert.True(t, gross.Sub(discount).Equal(decimal.RequireFromString("358.2")))
}

func TestComputeDiscountFixedClampsToGross(t *testing.T) {
	gross := decimal.RequireFromString("398")
	coupon := &models.Coupon{
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(500),
	}

	discount := ComputeDiscount(coupon, gross)
	assert.True(t, discount.Equal(gross), "got %s", discount)
	assert.True(t, gross.Sub(discount).IsZero())
}

func TestComputeDiscountFixedWithinGross(t *testing.T) {
	gross := decimal.RequireFromString("398")
	coupon := &models.Coupon{
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(50),
	}

	discount := ComputeDiscount(coupon, gross)
	assert.True(t, discount.Equal(decimal.NewFromInt(50)))
}

func TestComputeDiscountNilCoupon(t *testing.T) {
	assert.True(t, ComputeDiscount(nil, decimal.NewFromInt(100)).IsZero())
}
