package models

import (
	"time"

	"github.com/google/uuid"
)

// SiteSetting is an admin-managed configuration key. Values are stored as
// strings and coerced by Type ("string", "bool", "int", "json") on read.
type SiteSetting struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key       string    `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	Type      string    `gorm:"size:20;not null;default:'string'" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
