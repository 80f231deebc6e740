package batches

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
)

// Repository reads delivery batches. Dates are matched on the calendar day.
type Repository interface {
	FindByDate(ctx context.Context, date time.Time) (*models.DeliveryBatch, error)
	Create(ctx context.Context, batch *models.DeliveryBatch) (*models.DeliveryBatch, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByDate(ctx context.Context, date time.Time) (*models.DeliveryBatch, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	var batch models.DeliveryBatch
	err := r.db.WithContext(ctx).
		Where("delivery_date >= ? AND delivery_date < ?", day, day.AddDate(0, 0, 1)).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		First(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *repository) Create(ctx context.Context, batch *models.DeliveryBatch) (*models.DeliveryBatch, error) {
	if err := r.db.WithContext(ctx).Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}
