package orders

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
	"github.com/freshboxhq/freshbox-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderFruits(ctx context.Context, items []models.OrderFruit) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Fruits").
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate locks the order row for the duration of the enclosing
// transaction. Settlement relies on this to re-check status safely.
func (r *repository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByPhone(ctx context.Context, phone string, limit int) ([]OrderSummary, error) {
	var summaries []OrderSummary
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.id, packages.name AS package_name, orders.quantity, orders.order_type,
			orders.delivery_date, orders.delivery_location, orders.total_amount, orders.status,
			orders.created_at`).
		Joins("JOIN packages ON packages.id = orders.package_id").
		Where("orders.phone_number = ?", phone).
		Where("orders.deleted_at IS NULL").
		Order("orders.created_at DESC").
		Limit(limit).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *repository) ListAll(ctx context.Context) ([]AdminOrderSummary, error) {
	var summaries []AdminOrderSummary
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.id, packages.name AS package_name, orders.quantity, orders.order_type,
			orders.delivery_date, orders.delivery_location, orders.customer_name, orders.phone_number,
			orders.address, orders.total_amount, orders.discount_amount, orders.sponsor_name,
			orders.status, orders.created_at`).
		Joins("JOIN packages ON packages.id = orders.package_id").
		Where("orders.deleted_at IS NULL").
		Order("orders.created_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *repository) UpdateOrder(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) error {
	return r.UpdateOrder(ctx, id, map[string]any{"status": status})
}
