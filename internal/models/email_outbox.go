package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// EmailOutbox is a durable email intent. Rows are inserted in the same
// transaction as the state change that triggered them, then delivered
// asynchronously by the outbox dispatcher. The primary operation never
// waits on SMTP.
type EmailOutbox struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Recipient     string    `gorm:"size:255;not null" json:"recipient"`
	Subject       string    `gorm:"size:255;not null" json:"subject"`
	Body          string    `gorm:"type:text;not null" json:"body"`
	Status        string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Attempts      int       `gorm:"default:0" json:"attempts"`
	LastError     string    `gorm:"type:text" json:"last_error,omitempty"`
	NextAttemptAt time.Time  `gorm:"index" json:"next_attempt_at"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (EmailOutbox) TableName() string {
	return "email_outbox"
}
