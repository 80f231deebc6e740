package controllers

import (
	"net/http"

	"github.com/freshboxhq/freshbox-backend/api/responses"
	catalogsvc "github.com/freshboxhq/freshbox-backend/internal/catalog"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

// ListPackages returns the active packages in display order.
func ListPackages(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		packages, err := svc.Packages(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, packages)
	}
}

// ListFruits returns the fruits currently available for selection.
func ListFruits(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		fruits, err := svc.Fruits(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, fruits)
	}
}
