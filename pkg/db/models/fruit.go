package models

import "time"

// Fruit is a selectable box item.
type Fruit struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string     `gorm:"column:name;not null"`
	IsAvailable bool       `gorm:"column:is_available;not null;default:true"`
	DeletedAt   *time.Time `gorm:"column:deleted_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
