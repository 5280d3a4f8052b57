package notifications

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// listLimit caps the notification feed at the latest 50 entries.
const listLimit = 50

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create appends a notification using the given handle. Callers inside a
// transaction pass their tx so the notification commits with the primary
// state change.
func (s *Service) Create(tx *gorm.DB, userID uuid.UUID, typ, title, body string, relatedID *uuid.UUID) error {
	n := Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		RelatedID: relatedID,
	}
	return tx.Create(&n).Error
}

// List returns the latest 50 notifications for the user, newest first.
func (s *Service) List(userID uuid.UUID) ([]Notification, error) {
	var items []Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&items).Error
	return items, err
}

func (s *Service) CountUnread(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (s *Service) MarkRead(userID, notificationID uuid.UUID) error {
	result := s.db.Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(userID uuid.UUID) error {
	return s.db.Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (s *Service) Delete(userID, notificationID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
