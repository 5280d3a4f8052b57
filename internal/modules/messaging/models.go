package messaging

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_sender" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_receiver" json:"receiver_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	Read       bool      `gorm:"default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

// Conversation is one row of the inbox view: the counterpart plus the
// latest message exchanged with them.
type Conversation struct {
	UserID      uuid.UUID  `json:"user_id"`
	ProfileID   *uuid.UUID `json:"profile_id,omitempty"`
	Name        string     `json:"name"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	LastMessage string     `json:"last_message"`
	LastSentAt  time.Time  `json:"last_sent_at"`
	LastFromMe  bool       `json:"last_from_me"`
	UnreadCount int64      `json:"unread_count"`
}
