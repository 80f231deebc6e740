package controllers

import (
	"net/http"

	"github.com/freshboxhq/freshbox-backend/api/responses"
	"github.com/freshboxhq/freshbox-backend/api/validators"
	ordersvc "github.com/freshboxhq/freshbox-backend/internal/orders"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

// AdminListOrders returns every non-deleted order for the dashboard.
func AdminListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		summaries, err := svc.AdminList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summaries)
	}
}

// AdminUpdateOrderStatus moves an order along its lifecycle.
func AdminUpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateStatus(r.Context(), id, payload.Status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": id, "status": payload.Status})
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid packing delivered cancelled"`
}
