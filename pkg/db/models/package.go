package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Package is a purchasable bundle: a fixed fruit count at a fixed price.
type Package struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string          `gorm:"column:name;not null"`
	FruitsLimit  int             `gorm:"column:fruits_limit;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Highlights   pq.StringArray  `gorm:"column:highlights;type:text[]"`
	DisplayOrder int             `gorm:"column:display_order;not null;default:0"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	DeletedAt    *time.Time      `gorm:"column:deleted_at"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
