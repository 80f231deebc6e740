package controllers

import (
	"net/http"

	"github.com/freshboxhq/freshbox-backend/api/responses"
	"github.com/freshboxhq/freshbox-backend/api/validators"
	paymentsvc "github.com/freshboxhq/freshbox-backend/internal/payments"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

// CreatePaymentIntent registers a gateway order for checkout.
func CreatePaymentIntent(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var payload createIntentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateIntent(r.Context(), payload.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// VerifyPayment handles the checkout callback and settles the order.
func VerifyPayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var payload verifyPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.VerifyAndSettle(r.Context(), paymentsvc.VerifyInput{
			OrderID:        payload.OrderID,
			GatewayOrderID: validators.SanitizeString(payload.GatewayOrderID, 100),
			PaymentID:      validators.SanitizeString(payload.PaymentID, 100),
			Signature:      validators.SanitizeString(payload.Signature, 200),
			AmountPaise:    payload.AmountPaise,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type createIntentRequest struct {
	OrderID int64 `json:"order_id" validate:"required,min=1"`
}

type verifyPaymentRequest struct {
	OrderID        int64  `json:"order_id" validate:"required,min=1"`
	GatewayOrderID string `json:"razorpay_order_id" validate:"required,max=100"`
	PaymentID      string `json:"razorpay_payment_id" validate:"required,max=100"`
	Signature      string `json:"razorpay_signature" validate:"required,max=200"`
	AmountPaise    int64  `json:"amount" validate:"omitempty,min=0"`
}
