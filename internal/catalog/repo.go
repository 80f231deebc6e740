package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
)

// Repository defines reference-data reads for packages and fruits.
// Soft-deleted rows are filtered here so no caller can surface them.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActivePackages(ctx context.Context) ([]models.Package, error)
	FindActivePackage(ctx context.Context, id int64) (*models.Package, error)
	ListAvailableFruits(ctx context.Context) ([]models.Fruit, error)
	FindAvailableFruits(ctx context.Context, ids []int64) ([]models.Fruit, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListActivePackages(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("deleted_at IS NULL").
		Order("display_order ASC").
		Find(&packages).Error
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *repository) FindActivePackage(ctx context.Context, id int64) (*models.Package, error) {
	var pkg models.Package
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Where("deleted_at IS NULL").
		First(&pkg).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) ListAvailableFruits(ctx context.Context) ([]models.Fruit, error) {
	var fruits []models.Fruit
	err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Where("deleted_at IS NULL").
		Order("name ASC").
		Find(&fruits).Error
	if err != nil {
		return nil, err
	}
	return fruits, nil
}

func (r *repository) FindAvailableFruits(ctx context.Context, ids []int64) ([]models.Fruit, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var fruits []models.Fruit
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("is_available = ?", true).
		Where("deleted_at IS NULL").
		Find(&fruits).Error
	if err != nil {
		return nil, err
	}
	return fruits, nil
}
