package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand is a catalog filter entry.
type Brand struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	Logo      *string   `gorm:"column:logo"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
