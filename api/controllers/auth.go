package controllers

import (
	"net/http"
	"time"

	"github.com/freshboxhq/freshbox-backend/api/middleware"
	"github.com/freshboxhq/freshbox-backend/api/responses"
	"github.com/freshboxhq/freshbox-backend/api/validators"
	adminsvc "github.com/freshboxhq/freshbox-backend/internal/admin"
	"github.com/freshboxhq/freshbox-backend/pkg/config"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

// AdminLogin authenticates the admin and sets the session cookie.
func AdminLogin(cfg *config.Config, svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Username, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, sessionCookie(cfg, result.Token, result.ExpiresAt))
		responses.WriteSuccess(w, map[string]string{"status": "authenticated"})
	}
}

// AdminVerify probes the current session. It only runs behind the auth
// middleware, so reaching it means the session is valid.
func AdminVerify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"username": middleware.AdminUserFromContext(r.Context()),
		})
	}
}

// AdminLogout revokes the session and clears the cookie.
func AdminLogout(cfg *config.Config, svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		if cookie, err := r.Cookie(cfg.Admin.CookieName); err == nil {
			if err := svc.Logout(r.Context(), cookie.Value); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		expired := sessionCookie(cfg, "", time.Unix(0, 0))
		expired.MaxAge = -1
		http.SetCookie(w, expired)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func sessionCookie(cfg *config.Config, token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Admin.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   !cfg.App.IsDev(),
		SameSite: http.SameSiteLaxMode,
	}
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"required,max=120"`
	Password string `json:"password" validate:"required,max=200"`
}
