package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/freshboxhq/freshbox-backend/internal/catalog"
	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
)

type stubOrdersRepo struct {
	createdOrder    *models.Order
	createdFruits   []models.OrderFruit
	createOrderErr  error
	createFruitsErr error
	order           *models.Order
	findErr         error
	updatedStatus   *enums.OrderStatus
	summaries       []OrderSummary
	adminSummaries  []AdminOrderSummary
}

func (s *stubOrdersRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubOrdersRepo) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	if s.createOrderErr != nil {
		return nil, s.createOrderErr
	}
	order.ID = 42
	s.createdOrder = order
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderFruits(_ context.Context, items []models.OrderFruit) error {
	if s.createFruitsErr != nil {
		return s.createFruitsErr
	}
	s.createdFruits = items
	return nil
}

func (s *stubOrdersRepo) FindByID(context.Context, int64) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.order, nil
}

func (s *stubOrdersRepo) FindByIDForUpdate(ctx context.Context, id int64) (*models.Order, error) {
	return s.FindByID(ctx, id)
}

func (s *stubOrdersRepo) ListByPhone(context.Context, string, int) ([]OrderSummary, error) {
	return s.summaries, nil
}

func (s *stubOrdersRepo) ListAll(context.Context) ([]AdminOrderSummary, error) {
	return s.adminSummaries, nil
}

func (s *stubOrdersRepo) UpdateOrder(context.Context, int64, map[string]any) error { return nil }

func (s *stubOrdersRepo) UpdateStatus(_ context.Context, _ int64, status enums.OrderStatus) error {
	s.updatedStatus = &status
	return nil
}

type stubCatalogRepo struct {
	pkg       *models.Package
	pkgErr    error
	available []models.Fruit
	fruitsErr error
}

func (s *stubCatalogRepo) WithTx(*gorm.DB) catalog.Repository { return s }

func (s *stubCatalogRepo) ListActivePackages(context.Context) ([]models.Package, error) {
	return nil, nil
}

func (s *stubCatalogRepo) FindActivePackage(context.Context, int64) (*models.Package, error) {
	if s.pkgErr != nil {
		return nil, s.pkgErr
	}
	return s.pkg, nil
}

func (s *stubCatalogRepo) ListAvailableFruits(context.Context) ([]models.Fruit, error) {
	return nil, nil
}

func (s *stubCatalogRepo) FindAvailableFruits(context.Context, []int64) ([]models.Fruit, error) {
	if s.fruitsErr != nil {
		return nil, s.fruitsErr
	}
	return s.available, nil
}

type stubResolver struct {
	coupon *models.Coupon
	err    error
	calls  int
}

func (s *stubResolver) Resolve(context.Context, string) (*models.Coupon, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.coupon, nil
}

type stubGate struct {
	err error
}

func (s *stubGate) Check(context.Context, enums.OrderType, time.Time) error { return s.err }

type stubTxRunner struct {
	rolledBack bool
}

func (s *stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	if err := fn(nil); err != nil {
		s.rolledBack = true
		return err
	}
	return nil
}

type fixture struct {
	repo    *stubOrdersRepo
	catalog *stubCatalogRepo
	coupons *stubResolver
	gate    *stubGate
	tx      *stubTxRunner
	svc     Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo: &stubOrdersRepo{},
		catalog: &stubCatalogRepo{
			pkg: &models.Package{
				ID:          7,
				Name:        "Mini Box",
				FruitsLimit: 3,
				Price:       decimal.NewFromInt(199),
				IsActive:    true,
			},
			available: []models.Fruit{{ID: 1}, {ID: 2}, {ID: 3}},
		},
		coupons: &stubResolver{},
		gate:    &stubGate{},
		tx:      &stubTxRunner{},
	}
	svc, err := NewService(f.repo, f.catalog, f.coupons, f.gate, f.tx, nil, nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func addr(s string) *string { return &s }

func validInput() CreateOrderInput {
	return CreateOrderInput{
		PackageID:    7,
		Quantity:     2,
		OrderType:    enums.OrderTypeSelf,
		DeliveryDate: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		CustomerName: "Asha Rao",
		PhoneNumber:  "9876543210",
		Address:      addr("12 Rose Street"),
		FruitIDs:     []int64{1, 2, 3},
	}
}

func TestCreateHappyPathNoCoupon(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, int64(42), result.OrderID)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(398)), "got %s", result.TotalAmount)
	assert.True(t, result.DiscountAmount.IsZero())
	assert.Equal(t, enums.OrderStatusPending, result.Status)

	require.NotNil(t, f.repo.createdOrder)
	assert.Len(t, f.repo.createdFruits, 3)
	for _, item := range f.repo.createdFruits {
		assert.Equal(t, int64(42), item.OrderID)
	}
}

func TestCreateFruitCountMustMatchPackage(t *testing.T) {
	f := newFixture(t)

	for _, ids := range [][]int64{{1, 2}, {1, 2, 3, 1}} {
		input := validInput()
		input.FruitIDs = ids
		_, err := f.svc.Create(context.Background(), input)
		require.Error(t, err, "ids %v", ids)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		assert.Contains(t, typed.Message(), "exactly 3 fruits")
	}
}

func TestCreateRejectsUnavailableFruits(t *testing.T) {
	f := newFixture(t)
	f.catalog.available = []models.Fruit{{ID: 1}, {ID: 2}}

	_, err := f.svc.Create(context.Background(), validInput())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	// the message must not reveal which fruit was invalid
	assert.Equal(t, "one or more selected fruits are unavailable", typed.Message())
}

func TestCreatePackageNotFound(t *testing.T) {
	f := newFixture(t)
	f.catalog.pkgErr = gorm.ErrRecordNotFound

	_, err := f.svc.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateCutoffRejectionPropagates(t *testing.T) {
	f := newFixture(t)
	f.gate.err = pkgerrors.New(pkgerrors.CodeValidation, "orders for today close at 6:00 PM, please choose a different delivery date")

	_, err := f.svc.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.Contains(t, pkgerrors.As(err).Message(), "6:00 PM")
	assert.Nil(t, f.repo.createdOrder, "no write after admission failure")
}

func TestCreatePercentageCoupon(t *testing.T) {
	f := newFixture(t)
	f.coupons.coupon = &models.Coupon{
		ID:            5,
		Code:          "RAMADAN10",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
	}

	input := validInput()
	input.CouponCode = "RAMADAN10"
	result, err := f.svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, result.DiscountAmount.Equal(decimal.RequireFromString("39.8")), "got %s", result.DiscountAmount)
	assert.True(t, result.TotalAmount.Equal(decimal.RequireFromString("358.2")), "got %s", result.TotalAmount)
	require.NotNil(t, f.repo.createdOrder.CouponID)
	assert.Equal(t, int64(5), *f.repo.createdOrder.CouponID)
}

func TestCreateFixedCouponClampsToGross(t *testing.T) {
	f := newFixture(t)
	f.coupons.coupon = &models.Coupon{
		ID:            6,
		Code:          "BIGSAVE",
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(500),
	}

	input := validInput()
	input.CouponCode = "BIGSAVE"
	result, err := f.svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, result.DiscountAmount.Equal(decimal.NewFromInt(398)))
	assert.True(t, result.TotalAmount.IsZero())
}

func TestCreateInvalidCouponRejects(t *testing.T) {
	f := newFixture(t)
	f.coupons.err = pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired coupon")

	input := validInput()
	input.CouponCode = "NOPE"
	_, err := f.svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, "invalid or expired coupon", pkgerrors.As(err).Message())
	assert.Nil(t, f.repo.createdOrder)
}

func TestCreateFruitCountErrorWinsOverBadCoupon(t *testing.T) {
	f := newFixture(t)
	f.coupons.err = pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired coupon")

	input := validInput()
	input.CouponCode = "NOPE"
	input.FruitIDs = []int64{1, 2}
	_, err := f.svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Contains(t, pkgerrors.As(err).Message(), "exactly 3 fruits")
	assert.Zero(t, f.coupons.calls, "coupon resolved only after the fruit checks")
}

func TestCreateRollsBackWhenFruitInsertFails(t *testing.T) {
	f := newFixture(t)
	f.repo.createFruitsErr = errors.New("disk full")

	_, err := f.svc.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.True(t, f.tx.rolledBack, "transaction must roll back")
}

func TestCreateTypeSpecificRequirements(t *testing.T) {
	f := newFixture(t)

	selfNoAddress := validInput()
	selfNoAddress.Address = nil
	_, err := f.svc.Create(context.Background(), selfNoAddress)
	require.Error(t, err)
	assert.Contains(t, pkgerrors.As(err).Message(), "address")

	donate := validInput()
	donate.OrderType = enums.OrderTypeDonate
	donate.Address = nil
	_, err = f.svc.Create(context.Background(), donate)
	require.Error(t, err)
	assert.Contains(t, pkgerrors.As(err).Message(), "delivery location")

	donate.DeliveryLocation = addr("Central Mosque")
	_, err = f.svc.Create(context.Background(), donate)
	assert.NoError(t, err)
}

func TestCreateQuantityBounds(t *testing.T) {
	f := newFixture(t)

	for _, qty := range []int{0, 101} {
		input := validInput()
		input.Quantity = qty
		_, err := f.svc.Create(context.Background(), input)
		require.Error(t, err, "quantity %d", qty)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
}

func TestUpdateStatusLegalTransition(t *testing.T) {
	f := newFixture(t)
	f.repo.order = &models.Order{ID: 42, Status: enums.OrderStatusPending}

	err := f.svc.UpdateStatus(context.Background(), 42, "paid")
	require.NoError(t, err)
	require.NotNil(t, f.repo.updatedStatus)
	assert.Equal(t, enums.OrderStatusPaid, *f.repo.updatedStatus)
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	f := newFixture(t)
	f.repo.order = &models.Order{ID: 42, Status: enums.OrderStatusDelivered}

	err := f.svc.UpdateStatus(context.Background(), 42, "pending")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Nil(t, f.repo.updatedStatus)
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	f := newFixture(t)

	err := f.svc.UpdateStatus(context.Background(), 42, "shipped")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	f := newFixture(t)
	f.repo.order = &models.Order{ID: 42, Status: enums.OrderStatusPaid}

	err := f.svc.UpdateStatus(context.Background(), 42, "paid")
	require.NoError(t, err)
	assert.Nil(t, f.repo.updatedStatus)
}

func TestUpdateStatusOrderNotFound(t *testing.T) {
	f := newFixture(t)
	f.repo.findErr = gorm.ErrRecordNotFound

	err := f.svc.UpdateStatus(context.Background(), 42, "paid")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDetailNotFound(t *testing.T) {
	f := newFixture(t)
	f.repo.findErr = gorm.ErrRecordNotFound

	_, err := f.svc.Detail(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestLookupByPhoneRequiresPhone(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.LookupByPhone(context.Background(), "")
	require.Error(t, err)
}
