package middleware

import "context"

type contextKey string

const ctxAdminUser contextKey = "admin_user"

// AdminUserFromContext returns the authenticated admin username, if any.
func AdminUserFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminUser).(string); ok {
		return v
	}
	return ""
}
