package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/freshboxhq/freshbox-backend/internal/notifications"
	"github.com/freshboxhq/freshbox-backend/internal/orders"
	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/razorpay"
)

type stubOrderStore struct {
	order       *models.Order
	findErr     error
	updates     map[string]any
	updateErr   error
	updatedID   int64
	statusCalls int
}

func (s *stubOrderStore) WithTx(*gorm.DB) orders.Repository { return s }

func (s *stubOrderStore) CreateOrder(context.Context, *models.Order) (*models.Order, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderStore) CreateOrderFruits(context.Context, []models.OrderFruit) error {
	return errors.New("not implemented")
}

func (s *stubOrderStore) FindByID(context.Context, int64) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.order, nil
}

func (s *stubOrderStore) FindByIDForUpdate(ctx context.Context, id int64) (*models.Order, error) {
	return s.FindByID(ctx, id)
}

func (s *stubOrderStore) ListByPhone(context.Context, string, int) ([]orders.OrderSummary, error) {
	return nil, nil
}

func (s *stubOrderStore) ListAll(context.Context) ([]orders.AdminOrderSummary, error) {
	return nil, nil
}

func (s *stubOrderStore) UpdateOrder(_ context.Context, id int64, updates map[string]any) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedID = id
	s.updates = updates
	return nil
}

func (s *stubOrderStore) UpdateStatus(context.Context, int64, enums.OrderStatus) error {
	s.statusCalls++
	return nil
}

type stubTxnRepo struct {
	created   *models.Transaction
	createErr error
}

func (s *stubTxnRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubTxnRepo) Create(_ context.Context, txn *models.Transaction) (*models.Transaction, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	txn.ID = 77
	s.created = txn
	return txn, nil
}

func (s *stubTxnRepo) FindByOrderID(context.Context, int64) ([]models.Transaction, error) {
	return nil, nil
}

type stubGateway struct {
	gwOrder   *razorpay.GatewayOrder
	createErr error
	valid     bool
}

func (s *stubGateway) CreateOrder(context.Context, razorpay.OrderCreateParams) (*razorpay.GatewayOrder, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.gwOrder, nil
}

func (s *stubGateway) VerifySignature(string, string, string) bool { return s.valid }

func (s *stubGateway) KeyID() string { return "rzp_test_key" }

type recordingTx struct {
	rolledBack bool
}

func (r *recordingTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	if err := fn(nil); err != nil {
		r.rolledBack = true
		return err
	}
	return nil
}

type stubNotifier struct {
	sent chan notifications.OrderConfirmation
	err  error
}

func (s *stubNotifier) OrderConfirmed(_ context.Context, c notifications.OrderConfirmation) error {
	if s.sent != nil {
		s.sent <- c
	}
	return s.err
}

type paymentsFixture struct {
	orderStore *stubOrderStore
	txnRepo    *stubTxnRepo
	gateway    *stubGateway
	tx         *recordingTx
	notifier   *stubNotifier
	svc        Service
}

func newPaymentsFixture(t *testing.T) *paymentsFixture {
	t.Helper()
	f := &paymentsFixture{
		orderStore: &stubOrderStore{
			order: &models.Order{
				ID:           42,
				CustomerName: "Asha Rao",
				PhoneNumber:  "9876543210",
				OrderType:    enums.OrderTypeSelf,
				TotalAmount:  decimal.RequireFromString("358.20"),
				Status:       enums.OrderStatusPending,
			},
		},
		txnRepo: &stubTxnRepo{},
		gateway: &stubGateway{
			valid: true,
			gwOrder: &razorpay.GatewayOrder{
				ID:          "order_rzp_abc",
				AmountPaise: 35820,
				Currency:    "INR",
			},
		},
		tx:       &recordingTx{},
		notifier: &stubNotifier{sent: make(chan notifications.OrderConfirmation, 1)},
	}
	svc, err := NewService(f.txnRepo, f.orderStore, f.gateway, f.tx, f.notifier, nil, nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func validVerifyInput() VerifyInput {
	return VerifyInput{
		OrderID:        42,
		GatewayOrderID: "order_rzp_abc",
		PaymentID:      "pay_abc123",
		Signature:      "deadbeef",
	}
}

func TestCreateIntentReturnsCheckoutFields(t *testing.T) {
	f := newPaymentsFixture(t)

	result, err := f.svc.CreateIntent(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.OrderID)
	assert.Equal(t, "order_rzp_abc", result.GatewayOrderID)
	assert.Equal(t, int64(35820), result.AmountPaise)
	assert.Equal(t, "INR", result.Currency)
	assert.Equal(t, "rzp_test_key", result.KeyID)
}

func TestCreateIntentRejectsNonPendingOrder(t *testing.T) {
	f := newPaymentsFixture(t)
	f.orderStore.order.Status = enums.OrderStatusPaid

	_, err := f.svc.CreateIntent(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestCreateIntentOrderNotFound(t *testing.T) {
	f := newPaymentsFixture(t)
	f.orderStore.findErr = gorm.ErrRecordNotFound

	_, err := f.svc.CreateIntent(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestVerifyAndSettleHappyPath(t *testing.T) {
	f := newPaymentsFixture(t)

	result, err := f.svc.VerifyAndSettle(context.Background(), validVerifyInput())
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, result.Status)
	assert.False(t, result.AlreadySettled)
	assert.True(t, result.Amount.Equal(decimal.RequireFromString("358.20")))

	require.NotNil(t, f.txnRepo.created)
	assert.Equal(t, "pay_abc123", f.txnRepo.created.PaymentGatewayID)
	assert.Equal(t, enums.TransactionStatusSuccess, f.txnRepo.created.Status)
	assert.True(t, f.txnRepo.created.Amount.Equal(decimal.RequireFromString("358.20")),
		"settled amount comes from the stored order")

	assert.Equal(t, int64(42), f.orderStore.updatedID)
	assert.Equal(t, enums.OrderStatusPaid, f.orderStore.updates["status"])
	assert.Equal(t, int64(77), f.orderStore.updates["transaction_id"])

	select {
	case confirmation := <-f.notifier.sent:
		assert.Equal(t, int64(42), confirmation.OrderID)
		assert.Equal(t, "pay_abc123", confirmation.PaymentID)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation was not dispatched")
	}
}

func TestVerifyAndSettleRecordsReportedAmount(t *testing.T) {
	f := newPaymentsFixture(t)

	input := validVerifyInput()
	input.AmountPaise = 35820
	_, err := f.svc.VerifyAndSettle(context.Background(), input)
	require.NoError(t, err)

	require.NotNil(t, f.txnRepo.created)
	assert.True(t, f.txnRepo.created.Amount.Equal(decimal.RequireFromString("358.20")))
	<-f.notifier.sent
}

func TestVerifyAndSettleInvalidSignature(t *testing.T) {
	f := newPaymentsFixture(t)
	f.gateway.valid = false

	_, err := f.svc.VerifyAndSettle(context.Background(), validVerifyInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.Nil(t, f.txnRepo.created, "no write on signature failure")
	assert.Nil(t, f.orderStore.updates)
}

func TestVerifyAndSettleIdempotentWhenAlreadyPaid(t *testing.T) {
	f := newPaymentsFixture(t)
	f.orderStore.order.Status = enums.OrderStatusPaid

	result, err := f.svc.VerifyAndSettle(context.Background(), validVerifyInput())
	require.NoError(t, err)
	assert.True(t, result.AlreadySettled)
	assert.Nil(t, f.txnRepo.created, "repeat callback writes nothing")
	assert.Nil(t, f.orderStore.updates)

	select {
	case <-f.notifier.sent:
		t.Fatal("repeat callback must not re-notify")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestVerifyAndSettleRejectsCancelledOrder(t *testing.T) {
	f := newPaymentsFixture(t)
	f.orderStore.order.Status = enums.OrderStatusCancelled

	_, err := f.svc.VerifyAndSettle(context.Background(), validVerifyInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestVerifyAndSettleRollsBackOnInsertFailure(t *testing.T) {
	f := newPaymentsFixture(t)
	f.txnRepo.createErr = errors.New("disk full")

	_, err := f.svc.VerifyAndSettle(context.Background(), validVerifyInput())
	require.Error(t, err)
	assert.True(t, f.tx.rolledBack)
	assert.Nil(t, f.orderStore.updates, "order untouched after rollback")
}

func TestVerifyAndSettleRollsBackWhenOrderUpdateFails(t *testing.T) {
	f := newPaymentsFixture(t)
	f.orderStore.updateErr = errors.New("connection reset")

	_, err := f.svc.VerifyAndSettle(context.Background(), validVerifyInput())
	require.Error(t, err)
	assert.True(t, f.tx.rolledBack, "transaction insert must not survive alone")
}

func TestVerifyAndSettleSwallowsNotifierFailure(t *testing.T) {
	f := newPaymentsFixture(t)
	f.notifier.err = errors.New("smtp down")

	result, err := f.svc.VerifyAndSettle(context.Background(), validVerifyInput())
	require.NoError(t, err, "notification failure never fails settlement")
	assert.Equal(t, enums.OrderStatusPaid, result.Status)
	<-f.notifier.sent
}
