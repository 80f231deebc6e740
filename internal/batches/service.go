package batches

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
)

// Service exposes the storefront's "today's delivery" lookup.
type Service interface {
	// Today returns today's batch, or nil when none is published.
	Today(ctx context.Context) (*models.DeliveryBatch, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

var errRepoRequired = errors.New("batches repository is required")

// NewService binds the lookup to the store's timezone so "today" follows
// the delivery schedule, not the server clock.
func NewService(repo Repository, timezone string) (Service, error) {
	if repo == nil {
		return nil, errRepoRequired
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &service{repo: repo, loc: loc, now: time.Now}, nil
}

func (s *service) Today(ctx context.Context) (*models.DeliveryBatch, error) {
	batch, err := s.repo.FindByDate(ctx, s.now().In(s.loc))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return batch, nil
}
