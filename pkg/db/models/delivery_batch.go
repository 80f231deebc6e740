package models

import "time"

// DeliveryBatch links a delivery day and location to a published reel.
type DeliveryBatch struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	DeliveryDate time.Time  `gorm:"column:delivery_date;type:date;not null"`
	Location     string     `gorm:"column:location;not null"`
	InstagramURL *string    `gorm:"column:instagram_url"`
	DeletedAt    *time.Time `gorm:"column:deleted_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}
