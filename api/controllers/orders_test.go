package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersvc "github.com/freshboxhq/freshbox-backend/internal/orders"
	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubOrderService struct {
	input      ordersvc.CreateOrderInput
	result     *ordersvc.CreateOrderResult
	createErr  error
	lookupArg  string
	summaries  []ordersvc.OrderSummary
	order      *models.Order
	detailErr  error
	statusArgs []string
}

func (s *stubOrderService) Create(_ context.Context, input ordersvc.CreateOrderInput) (*ordersvc.CreateOrderResult, error) {
	s.input = input
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.result, nil
}

func (s *stubOrderService) LookupByPhone(_ context.Context, phone string) ([]ordersvc.OrderSummary, error) {
	s.lookupArg = phone
	return s.summaries, nil
}

func (s *stubOrderService) Detail(context.Context, int64) (*models.Order, error) {
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return s.order, nil
}

func (s *stubOrderService) AdminList(context.Context) ([]ordersvc.AdminOrderSummary, error) {
	return nil, nil
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _ int64, status string) error {
	s.statusArgs = append(s.statusArgs, status)
	return nil
}

const validOrderBody = `{
	"package_id": 7,
	"quantity": 2,
	"order_type": "self",
	"delivery_date": "2026-03-15",
	"customer_name": "Asha; Rao",
	"phone_number": "9876543210",
	"address": "12 Rose Street",
	"fruit_ids": [1, 2, 3]
}`

func TestCreateOrderSuccess(t *testing.T) {
	stub := &stubOrderService{
		result: &ordersvc.CreateOrderResult{
			OrderID:     42,
			TotalAmount: decimal.NewFromInt(398),
			Status:      enums.OrderStatusPending,
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(validOrderBody))
	rec := httptest.NewRecorder()
	CreateOrder(stub, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Data ordersvc.CreateOrderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, int64(42), envelope.Data.OrderID)
	assert.Equal(t, enums.OrderStatusPending, envelope.Data.Status)

	// dangerous characters are stripped before the service sees the input
	assert.Equal(t, "Asha Rao", stub.input.CustomerName)
}

func TestCreateOrderRejectsBadPhone(t *testing.T) {
	stub := &stubOrderService{}
	body := strings.Replace(validOrderBody, "9876543210", "1234567890", 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	CreateOrder(stub, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "phone_number")
}

func TestCreateOrderRejectsUnknownFields(t *testing.T) {
	body := strings.Replace(validOrderBody, `"package_id"`, `"surprise": true, "package_id"`, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	CreateOrder(&stubOrderService{}, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderServiceErrorPassthrough(t *testing.T) {
	stub := &stubOrderService{
		createErr: pkgerrors.New(pkgerrors.CodeValidation, "orders for today close at 6:00 PM, please choose a different delivery date"),
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(validOrderBody))
	rec := httptest.NewRecorder()
	CreateOrder(stub, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "6:00 PM")
}

func TestLookupOrdersSanitizesPhone(t *testing.T) {
	stub := &stubOrderService{summaries: []ordersvc.OrderSummary{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?phone=%20987'6543210%20", nil)
	rec := httptest.NewRecorder()
	LookupOrders(stub, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9876543210", stub.lookupArg)
}

func TestOrderDetailInvalidID(t *testing.T) {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", "abc")
	ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	OrderDetail(&stubOrderService{}, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderDetailNotFound(t *testing.T) {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", "42")
	ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)

	stub := &stubOrderService{detailErr: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/42", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	OrderDetail(stub, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
