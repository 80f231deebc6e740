package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
	"github.com/freshboxhq/freshbox-backend/pkg/enums"
)

// Repository defines persistence operations for orders and their fruit
// associations. Soft-deleted orders are filtered in every read path.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderFruits(ctx context.Context, items []models.OrderFruit) error
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Order, error)
	ListByPhone(ctx context.Context, phone string, limit int) ([]OrderSummary, error)
	ListAll(ctx context.Context) ([]AdminOrderSummary, error)
	UpdateOrder(ctx context.Context, id int64, updates map[string]any) error
	UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) error
}
