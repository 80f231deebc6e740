package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/freshboxhq/freshbox-backend/api/responses"
	"github.com/freshboxhq/freshbox-backend/api/validators"
	ordersvc "github.com/freshboxhq/freshbox-backend/internal/orders"
	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

const (
	maxNameLen     = 120
	maxAddressLen  = 500
	maxLocationLen = 200
	maxMessageLen  = 500
)

// CreateOrder handles the storefront order form.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// LookupOrders returns the recent orders for a phone number.
func LookupOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		phone := validators.SanitizeString(r.URL.Query().Get("phone"), 20)
		summaries, err := svc.LookupByPhone(r.Context(), phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summaries)
	}
}

// OrderDetail serves the payment success page lookup.
func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Detail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderDetailResponse(order))
	}
}

func orderIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}
	return id, nil
}

type createOrderRequest struct {
	PackageID        int64   `json:"package_id" validate:"required,min=1"`
	Quantity         int     `json:"quantity" validate:"required,min=1,max=100"`
	OrderType        string  `json:"order_type" validate:"required,oneof=self donate sponsor"`
	DeliveryDate     string  `json:"delivery_date" validate:"required,ymd_date"`
	DeliveryLocation *string `json:"delivery_location" validate:"omitempty,max=200"`
	CustomerName     string  `json:"customer_name" validate:"required,max=120"`
	PhoneNumber      string  `json:"phone_number" validate:"required,in_phone"`
	Address          *string `json:"address" validate:"omitempty,max=500"`
	FruitIDs         []int64 `json:"fruit_ids" validate:"required,min=1,dive,min=1"`
	CouponCode       string  `json:"coupon_code" validate:"omitempty,max=50"`
	SponsorName      *string `json:"sponsor_name" validate:"omitempty,max=120"`
	SponsorMessage   *string `json:"sponsor_message" validate:"omitempty,max=500"`
}

func (p createOrderRequest) toInput() (ordersvc.CreateOrderInput, error) {
	orderType, err := enums.ParseOrderType(p.OrderType)
	if err != nil {
		return ordersvc.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type")
	}

	deliveryDate, err := time.Parse("2006-01-02", p.DeliveryDate)
	if err != nil {
		return ordersvc.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery date")
	}

	return ordersvc.CreateOrderInput{
		PackageID:        p.PackageID,
		Quantity:         p.Quantity,
		OrderType:        orderType,
		DeliveryDate:     deliveryDate,
		DeliveryLocation: validators.SanitizeOptional(p.DeliveryLocation, maxLocationLen),
		CustomerName:     validators.SanitizeString(p.CustomerName, maxNameLen),
		PhoneNumber:      validators.SanitizeString(p.PhoneNumber, 20),
		Address:          validators.SanitizeOptional(p.Address, maxAddressLen),
		FruitIDs:         p.FruitIDs,
		CouponCode:       validators.SanitizeString(p.CouponCode, 50),
		SponsorName:      validators.SanitizeOptional(p.SponsorName, maxNameLen),
		SponsorMessage:   validators.SanitizeOptional(p.SponsorMessage, maxMessageLen),
	}, nil
}

type orderDetailResponse struct {
	ID             int64             `json:"id"`
	PackageID      int64             `json:"package_id"`
	Quantity       int               `json:"quantity"`
	OrderType      enums.OrderType   `json:"order_type"`
	DeliveryDate   string            `json:"delivery_date"`
	CustomerName   string            `json:"customer_name"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	Status         enums.OrderStatus `json:"status"`
	FruitIDs       []int64           `json:"fruit_ids"`
	CreatedAt      time.Time         `json:"created_at"`
}

func newOrderDetailResponse(order *models.Order) orderDetailResponse {
	fruitIDs := make([]int64, 0, len(order.Fruits))
	for _, item := range order.Fruits {
		fruitIDs = append(fruitIDs, item.FruitID)
	}
	return orderDetailResponse{
		ID:             order.ID,
		PackageID:      order.PackageID,
		Quantity:       order.Quantity,
		OrderType:      order.OrderType,
		DeliveryDate:   order.DeliveryDate.Format("2006-01-02"),
		CustomerName:   order.CustomerName,
		TotalAmount:    order.TotalAmount,
		DiscountAmount: order.DiscountAmount,
		Status:         order.Status,
		FruitIDs:       fruitIDs,
		CreatedAt:      order.CreatedAt,
	}
}
