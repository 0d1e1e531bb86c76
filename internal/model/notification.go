package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	CategorySuccess = "success"
	CategoryInfo    = "info"
	CategoryWarning = "warning"
	CategoryError   = "error"
)

// Notification adalah isi kotak masuk warga.
type Notification struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	ResidentID uint              `json:"resident_id" gorm:"index;not null"`
	Category   string            `json:"type" gorm:"size:10;default:info"`
	Title      string            `json:"title" gorm:"size:150;not null"`
	Message    string            `json:"message" gorm:"not null"`
	Link       *string           `json:"link"`
	Metadata   datatypes.JSONMap `json:"metadata"`
	Read       bool              `json:"read" gorm:"column:is_read;default:false;index"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
