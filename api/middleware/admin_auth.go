package middleware

import (
	"context"
	"net/http"

	"github.com/freshboxhq/freshbox-backend/api/responses"
	"github.com/freshboxhq/freshbox-backend/pkg/config"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

// SessionChecker reports whether the opaque session token is active and
// returns the username attached to it.
type SessionChecker interface {
	CheckSession(ctx context.Context, token string) (string, error)
}

// AdminAuth validates the session cookie and seeds the request context
// with the admin identity.
func AdminAuth(cfg config.AdminConfig, sessions SessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			username, err := sessions.CheckSession(r.Context(), cookie.Value)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxAdminUser, username)
			if logg != nil {
				ctx = logg.WithField(ctx, "admin_user", username)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
