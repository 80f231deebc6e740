package controllers

import (
	"net/http"

	"github.com/freshboxhq/freshbox-backend/api/responses"
	settingsvc "github.com/freshboxhq/freshbox-backend/internal/settings"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

// publicSettingKeys are the only settings the storefront may read.
var publicSettingKeys = []string{
	settingsvc.KeySelfCutoffTime,
	settingsvc.KeyDonateCutoffTime,
	settingsvc.KeyMaxBoxesPerDay,
}

// GetSettings exposes the storefront-safe settings.
func GetSettings(svc settingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		all, err := svc.GetAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		public := make(map[string]string, len(publicSettingKeys))
		for _, key := range publicSettingKeys {
			if value, ok := all[key]; ok {
				public[key] = value
			}
		}
		responses.WriteSuccess(w, public)
	}
}
