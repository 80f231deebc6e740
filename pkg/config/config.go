package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Razorpay     RazorpayConfig
	Admin        AdminConfig
	RateLimit    RateLimitConfig
	SMTP         SMTPConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"FRESHBOX_APP_ENV" required:"true"`
	Port         string   `envconfig:"FRESHBOX_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"FRESHBOX_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"FRESHBOX_LOG_WARN_STACK" default:"false"`
	Timezone     string   `envconfig:"FRESHBOX_APP_TIMEZONE" default:"Asia/Kolkata"`
	CORSOrigins  []string `envconfig:"FRESHBOX_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FRESHBOX_DB_DSN"`
	Driver string `envconfig:"FRESHBOX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FRESHBOX_DB_HOST"`
	LegacyPort     int    `envconfig:"FRESHBOX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FRESHBOX_DB_USER"`
	LegacyPassword string `envconfig:"FRESHBOX_DB_PASSWORD"`
	LegacyName     string `envconfig:"FRESHBOX_DB_NAME"`
	LegacySSLMode  string `envconfig:"FRESHBOX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FRESHBOX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRESHBOX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRESHBOX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRESHBOX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either FRESHBOX_DB_DSN or FRESHBOX_DB_HOST/USER/NAME must be set")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FRESHBOX_REDIS_URL"`
	Address      string        `envconfig:"FRESHBOX_REDIS_ADDR"`
	Password     string        `envconfig:"FRESHBOX_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRESHBOX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRESHBOX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRESHBOX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRESHBOX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRESHBOX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRESHBOX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"FRESHBOX_RAZORPAY_KEY_ID" required:"true"`
	KeySecret string `envconfig:"FRESHBOX_RAZORPAY_KEY_SECRET" required:"true"`
	Currency  string `envconfig:"FRESHBOX_RAZORPAY_CURRENCY" default:"INR"`
}

type AdminConfig struct {
	Username     string        `envconfig:"FRESHBOX_ADMIN_USERNAME" required:"true"`
	PasswordHash string        `envconfig:"FRESHBOX_ADMIN_PASSWORD_HASH" required:"true"`
	SessionTTL   time.Duration `envconfig:"FRESHBOX_ADMIN_SESSION_TTL" default:"8h"`
	CookieName   string        `envconfig:"FRESHBOX_ADMIN_COOKIE_NAME" default:"admin_session"`
}

type RateLimitConfig struct {
	Backend      string        `envconfig:"FRESHBOX_RATE_LIMIT_BACKEND" default:"memory"`
	OrderWindow  time.Duration `envconfig:"FRESHBOX_RATE_LIMIT_ORDER_WINDOW" default:"1m"`
	OrderLimit   int           `envconfig:"FRESHBOX_RATE_LIMIT_ORDER_LIMIT" default:"5"`
	LookupWindow time.Duration `envconfig:"FRESHBOX_RATE_LIMIT_LOOKUP_WINDOW" default:"1m"`
	LookupLimit  int           `envconfig:"FRESHBOX_RATE_LIMIT_LOOKUP_LIMIT" default:"10"`
}

type SMTPConfig struct {
	Host     string `envconfig:"FRESHBOX_SMTP_HOST"`
	Port     int    `envconfig:"FRESHBOX_SMTP_PORT" default:"587"`
	Username string `envconfig:"FRESHBOX_SMTP_USER"`
	Password string `envconfig:"FRESHBOX_SMTP_PASS"`
	From     string `envconfig:"FRESHBOX_SMTP_FROM"`
	NotifyTo string `envconfig:"FRESHBOX_SMTP_NOTIFY_TO"`
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FRESHBOX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FRESHBOX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FRESHBOX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FRESHBOX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FRESHBOX_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FRESHBOX_AUTO_MIGRATE" default:"false"`
}
