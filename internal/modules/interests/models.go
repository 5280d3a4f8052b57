package interests

import (
	"time"

	"github.com/google/uuid"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/profiles"
)

// Interest lifecycle: pending -> accepted | rejected. Terminal states are
// final; the unique pair index blocks a second request between the same two
// profiles regardless of status.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// InterestRequest is a directed edge between two profiles.
type InterestRequest struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_interests_pair" json:"sender_id"`
	ReceiverID  uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_interests_pair" json:"receiver_id"`
	Message     string           `gorm:"size:500" json:"message,omitempty"`
	Status      string           `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Sender      profiles.Profile `gorm:"foreignKey:SenderID" json:"-"`
	Receiver    profiles.Profile `gorm:"foreignKey:ReceiverID" json:"-"`
}

// --- DTOs ---

type SendInterestRequest struct {
	Message string `json:"message"`
}

// ListItem is one interest joined with the counterpart profile's display
// fields, sorted newest first.
type ListItem struct {
	ID          uuid.UUID     `json:"id"`
	Status      string        `json:"status"`
	Message     string        `json:"message,omitempty"`
	SentAt      time.Time     `json:"sent_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`
	Profile     profiles.Card `json:"profile"`
}
