package messaging

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lakkilakshman/matrimony-sub000/internal/mailer"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
	"github.com/lakkilakshman/matrimony-sub000/internal/moderation"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/notifications"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/profiles"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/subscriptions"
)

var (
	ErrSubscriptionRequired = errors.New("an active subscription is required to send messages, please upgrade to premium")
	ErrReceiverNotFound     = errors.New("receiver not found")
	ErrEmptyMessage         = errors.New("message body is required")
	ErrBlocked              = errors.New("you cannot message this user")
)

type Service struct {
	db       *gorm.DB
	profiles *profiles.Service
	notif    *notifications.Service
	mod      *moderation.Service
}

func NewService(db *gorm.DB, p *profiles.Service, n *notifications.Service, m *moderation.Service) *Service {
	return &Service{db: db, profiles: p, notif: n, mod: m}
}

// Send delivers a message from sender to the user receiverID. The
// subscription gate is evaluated against the sender at call time.
func (s *Service) Send(sender *models.User, receiverID uuid.UUID, body string) (*Message, error) {
	if !subscriptions.CanMessage(sender, time.Now()) {
		return nil, ErrSubscriptionRequired
	}
	if body == "" {
		return nil, ErrEmptyMessage
	}

	var receiver models.User
	if err := s.db.First(&receiver, "id = ?", receiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}

	blocked, err := s.mod.IsBlocked(sender.ID, receiverID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlocked
	}

	if ok, reason := s.mod.FilterContent(body); !ok {
		return nil, errors.New(s.mod.RejectionMessage(reason))
	}

	msg := &Message{
		ID:         uuid.New(),
		SenderID:   sender.ID,
		ReceiverID: receiverID,
		Body:       body,
	}

	senderName := sender.Email
	if p, err := s.profiles.GetByUserID(sender.ID); err == nil {
		senderName = p.DisplayName()
	}
	receiverName := receiver.Email
	if p, err := s.profiles.GetByUserID(receiverID); err == nil {
		receiverName = p.DisplayName()
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if err := s.notif.Create(tx, receiverID, notifications.TypeNewMessage,
			"New message", "You have a new message from "+senderName, &msg.ID); err != nil {
			return err
		}
		subject, mailBody := mailer.NewMessageEmail(receiverName, senderName)
		return mailer.Queue(tx, receiver.Email, subject, mailBody)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Conversations aggregates the user's inbox: one entry per counterpart
// with the most recent message and the count of unread incoming messages.
func (s *Service) Conversations(userID uuid.UUID) ([]Conversation, error) {
	var msgs []Message
	if err := s.db.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}

	order := make([]uuid.UUID, 0)
	latest := make(map[uuid.UUID]*Message)
	unread := make(map[uuid.UUID]int64)
	for i := range msgs {
		m := &msgs[i]
		other := m.SenderID
		fromMe := m.SenderID == userID
		if fromMe {
			other = m.ReceiverID
		}
		if _, seen := latest[other]; !seen {
			latest[other] = m
			order = append(order, other)
		}
		if !fromMe && !m.Read {
			unread[other]++
		}
	}

	conversations := make([]Conversation, 0, len(order))
	for _, other := range order {
		m := latest[other]
		conv := Conversation{
			UserID:      other,
			LastMessage: m.Body,
			LastSentAt:  m.CreatedAt,
			LastFromMe:  m.SenderID == userID,
			UnreadCount: unread[other],
		}
		if p, err := s.profiles.GetByUserID(other); err == nil {
			conv.ProfileID = &p.ID
			conv.Name = p.DisplayName()
			conv.PhotoURL = p.PrimaryPhotoURL
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

// Thread returns the full exchange between the user and otherUserID,
// oldest first, and marks the messages received in it as read.
func (s *Service) Thread(userID, otherUserID uuid.UUID) ([]Message, error) {
	var msgs []Message
	err := s.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", otherUserID, userID, false).
		Update("read", true).Error; err != nil {
		return nil, err
	}
	for i := range msgs {
		if msgs[i].ReceiverID == userID {
			msgs[i].Read = true
		}
	}
	return msgs, nil
}
