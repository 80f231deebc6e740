package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freshboxhq/freshbox-backend/pkg/config"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
	"github.com/freshboxhq/freshbox-backend/pkg/security"
)

// sessionStore is the subset of the redis client sessions need.
type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AdminSessionKey(sessionID string) string
}

// LoginResult carries the session cookie material back to the controller.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// Service authenticates the single configured admin and manages sessions
// in redis. Session tokens are opaque; the redis value is the username.
type Service interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	CheckSession(ctx context.Context, token string) (string, error)
	Logout(ctx context.Context, token string) error
}

type service struct {
	cfg      config.AdminConfig
	sessions sessionStore
	logger   *logger.Logger
	now      func() time.Time
}

var (
	errSessionsRequired = errors.New("session store is required")

	errBadCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
)

func NewService(cfg config.AdminConfig, sessions sessionStore, logg *logger.Logger) (Service, error) {
	if sessions == nil {
		return nil, errSessionsRequired
	}
	return &service{cfg: cfg, sessions: sessions, logger: logg, now: time.Now}, nil
}

// Login verifies the credentials against the configured admin account and
// mints a redis-backed session. Username and password failures are
// indistinguishable to the caller.
func (s *service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1

	passwordOK, err := security.VerifyPassword(password, s.cfg.PasswordHash)
	if err != nil {
		if s.logger != nil {
			s.logger.Error(ctx, "admin.password_hash.invalid", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "admin login unavailable")
	}
	if !usernameOK || !passwordOK {
		if s.logger != nil {
			s.logger.Warn(s.logger.WithField(ctx, "username", username), "admin.login.rejected")
		}
		return nil, errBadCredentials
	}

	token, err := security.NewSessionToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "session token generation failed")
	}

	key := s.sessions.AdminSessionKey(token)
	if err := s.sessions.Set(ctx, key, s.cfg.Username, s.cfg.SessionTTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store unavailable")
	}

	if s.logger != nil {
		s.logger.Info(s.logger.WithField(ctx, "username", s.cfg.Username), "admin.login.success")
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: s.now().Add(s.cfg.SessionTTL),
	}, nil
}

// CheckSession resolves a session token to the admin username. It satisfies
// the auth middleware's SessionChecker.
func (s *service) CheckSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errBadCredentials
	}
	username, err := s.sessions.Get(ctx, s.sessions.AdminSessionKey(token))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or revoked")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store unavailable")
	}
	return username, nil
}

// Logout revokes the session. Revoking an unknown token is not an error.
func (s *service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Del(ctx, s.sessions.AdminSessionKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store unavailable")
	}
	if s.logger != nil {
		s.logger.Info(ctx, "admin.logout")
	}
	return nil
}
