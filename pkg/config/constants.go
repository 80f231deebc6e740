package config

const (
	// EnvPrefix is intentionally empty: every field carries its fully
	// qualified FRESHBOX_ variable name in its envconfig tag.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv            = "FRESHBOX_APP_ENV"
	EnvPort              = "FRESHBOX_APP_PORT"
	EnvDBDSN             = "FRESHBOX_DB_DSN"
	EnvRedisURL          = "FRESHBOX_REDIS_URL"
	EnvRazorpayKeyID     = "FRESHBOX_RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret = "FRESHBOX_RAZORPAY_KEY_SECRET"
	EnvAdminUsername     = "FRESHBOX_ADMIN_USERNAME"
	EnvAdminPasswordHash = "FRESHBOX_ADMIN_PASSWORD_HASH"
)
