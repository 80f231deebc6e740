package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentsvc "github.com/freshboxhq/freshbox-backend/internal/payments"
	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
)

type stubPaymentService struct {
	intent     *paymentsvc.IntentResult
	intentErr  error
	verifyArg  paymentsvc.VerifyInput
	settlement *paymentsvc.SettlementResult
	verifyErr  error
}

func (s *stubPaymentService) CreateIntent(context.Context, int64) (*paymentsvc.IntentResult, error) {
	if s.intentErr != nil {
		return nil, s.intentErr
	}
	return s.intent, nil
}

func (s *stubPaymentService) VerifyAndSettle(_ context.Context, input paymentsvc.VerifyInput) (*paymentsvc.SettlementResult, error) {
	s.verifyArg = input
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return s.settlement, nil
}

func TestCreatePaymentIntentSuccess(t *testing.T) {
	stub := &stubPaymentService{
		intent: &paymentsvc.IntentResult{
			OrderID:        42,
			GatewayOrderID: "order_rzp_abc",
			AmountPaise:    35820,
			Currency:       "INR",
			KeyID:          "rzp_test_key",
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/order", strings.NewReader(`{"order_id": 42}`))
	rec := httptest.NewRecorder()
	CreatePaymentIntent(stub, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Data paymentsvc.IntentResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, int64(35820), envelope.Data.AmountPaise)
	assert.Equal(t, "rzp_test_key", envelope.Data.KeyID)
}

func TestCreatePaymentIntentRequiresOrderID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/order", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	CreatePaymentIntent(&stubPaymentService{}, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

const verifyBody = `{
	"order_id": 42,
	"razorpay_order_id": "order_rzp_abc",
	"razorpay_payment_id": "pay_abc123",
	"razorpay_signature": "deadbeef",
	"amount": 35820
}`

func TestVerifyPaymentSuccess(t *testing.T) {
	stub := &stubPaymentService{
		settlement: &paymentsvc.SettlementResult{
			OrderID: 42,
			Status:  enums.OrderStatusPaid,
			Amount:  decimal.RequireFromString("358.20"),
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(verifyBody))
	rec := httptest.NewRecorder()
	VerifyPayment(stub, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), stub.verifyArg.OrderID)
	assert.Equal(t, "pay_abc123", stub.verifyArg.PaymentID)
	assert.Equal(t, int64(35820), stub.verifyArg.AmountPaise)
	assert.Contains(t, rec.Body.String(), `"status":"paid"`)
}

func TestVerifyPaymentSignatureMismatch(t *testing.T) {
	stub := &stubPaymentService{
		verifyErr: pkgerrors.New(pkgerrors.CodeConflict, "payment verification failed"),
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(verifyBody))
	rec := httptest.NewRecorder()
	VerifyPayment(stub, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "payment verification failed")
}
