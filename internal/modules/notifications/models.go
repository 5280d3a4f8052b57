package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TypeInterestReceived = "interest_received"
	TypeInterestAccepted = "interest_accepted"
	TypeNewMessage       = "new_message"
	TypeProfileVerified  = "profile_verified"
	TypeProfileRejected  = "profile_rejected"
	TypePaymentApproved  = "payment_approved"
	TypePaymentRejected  = "payment_rejected"
)

// Notification is an append-only user-facing event record. Nothing mutates a
// row after insert except the read flag.
type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string         `gorm:"size:50;not null" json:"type"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Body      string         `gorm:"type:text" json:"body"`
	RelatedID *uuid.UUID     `gorm:"type:uuid" json:"related_id,omitempty"`
	Data      datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"`
	IsRead    bool           `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}
