package settings

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
)

// Well-known settings keys.
const (
	KeySelfCutoffTime   = "self_cutoff_time"
	KeyDonateCutoffTime = "donate_cutoff_time"
	KeyMaxBoxesPerDay   = "max_boxes_per_day"
)

// Service exposes read and write access to runtime settings.
type Service interface {
	Get(ctx context.Context, key string) (string, bool, error)
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}

type service struct {
	repo Repository
}

// NewService builds a settings service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// Get returns the value for a key. The second return is false when the
// key is not configured.
func (s *service) Get(ctx context.Context, key string) (string, bool, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	return setting.Value, true, nil
}

func (s *service) GetAll(ctx context.Context) (map[string]string, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	out := make(map[string]string, len(all))
	for _, setting := range all {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

func (s *service) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "setting key required")
	}
	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save setting")
	}
	return nil
}
