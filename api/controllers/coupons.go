package controllers

import (
	"net/http"

	"github.com/freshboxhq/freshbox-backend/api/responses"
	"github.com/freshboxhq/freshbox-backend/api/validators"
	couponsvc "github.com/freshboxhq/freshbox-backend/internal/coupons"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

// VerifyCoupon previews a coupon without consuming anything.
func VerifyCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupons service unavailable"))
			return
		}

		var payload verifyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.Verify(r.Context(), validators.SanitizeString(payload.Code, 50))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, preview)
	}
}

type verifyCouponRequest struct {
	Code string `json:"code" validate:"required,max=50"`
}
