package interests

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lakkilakshman/matrimony-sub000/internal/mailer"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
	"github.com/lakkilakshman/matrimony-sub000/internal/moderation"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/notifications"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/profiles"
	"gorm.io/gorm"
)

var (
	ErrInterestNotFound = errors.New("interest not found")
	ErrSelfInterest     = errors.New("you cannot send an interest to your own profile")
	ErrAlreadySent      = errors.New("an interest between these profiles already exists")
	ErrAlreadyResponded = errors.New("this interest has already been responded to")
	ErrBlocked          = errors.New("you cannot contact this member")
)

type Service struct {
	db         *gorm.DB
	profiles   *profiles.Service
	notif      *notifications.Service
	moderation *moderation.Service
}

func NewService(db *gorm.DB, profileSvc *profiles.Service, notif *notifications.Service, mod *moderation.Service) *Service {
	return &Service{db: db, profiles: profileSvc, notif: notif, moderation: mod}
}

// Send creates a pending interest from the sender's profile to the receiver
// profile. The receiver's notification and email intent commit with the
// insert; delivery is the outbox dispatcher's problem.
func (s *Service) Send(senderUserID uuid.UUID, receiverProfileID uuid.UUID, message string) (*InterestRequest, error) {
	sender, err := s.profiles.GetByUserID(senderUserID)
	if err != nil {
		return nil, err
	}

	receiver, err := s.profiles.GetByID(receiverProfileID)
	if err != nil {
		return nil, err
	}

	if sender.ID == receiver.ID {
		return nil, ErrSelfInterest
	}

	if blocked, err := s.moderation.IsBlocked(senderUserID, receiver.UserID); err != nil {
		return nil, err
	} else if blocked {
		return nil, ErrBlocked
	}

	if ok, reason := s.moderation.FilterContent(message); !ok {
		return nil, errors.New(s.moderation.RejectionMessage(reason))
	}

	interest := InterestRequest{
		ID:         uuid.New(),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Message:    message,
		Status:     StatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&interest).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadySent
			}
			return err
		}

		if err := s.notif.Create(tx, receiver.UserID, notifications.TypeInterestReceived,
			"New interest received",
			fmt.Sprintf("%s has expressed interest in your profile.", sender.DisplayName()),
			&interest.ID); err != nil {
			return err
		}

		var receiverUser models.User
		if err := tx.First(&receiverUser, "id = ?", receiver.UserID).Error; err != nil {
			return err
		}
		subject, body := mailer.InterestReceivedEmail(receiver.FirstName, sender.DisplayName())
		return mailer.Queue(tx, receiverUser.Email, subject, body)
	})
	if err != nil {
		return nil, err
	}
	return &interest, nil
}

// Accept marks a received interest accepted and notifies the sender.
func (s *Service) Accept(responderUserID, interestID uuid.UUID) error {
	return s.respond(responderUserID, interestID, StatusAccepted)
}

// Reject marks a received interest rejected. No notification: the sender is
// not told they were turned down.
func (s *Service) Reject(responderUserID, interestID uuid.UUID) error {
	return s.respond(responderUserID, interestID, StatusRejected)
}

// respond applies the terminal status. Receiver ownership is enforced on the
// write itself for both accept and reject: the update matches id AND
// receiver_id, so acting on someone else's interest reads as not-found.
// Re-applying the same terminal status is idempotent and refreshes the
// responded timestamp; crossing terminal states is refused.
func (s *Service) respond(responderUserID, interestID uuid.UUID, target string) error {
	responder, err := s.profiles.GetByUserID(responderUserID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var interest InterestRequest
		if err := tx.Where("id = ? AND receiver_id = ?", interestID, responder.ID).
			First(&interest).Error; err != nil {
			return ErrInterestNotFound
		}

		if interest.Status != StatusPending && interest.Status != target {
			return ErrAlreadyResponded
		}

		now := time.Now()
		result := tx.Model(&InterestRequest{}).
			Where("id = ? AND receiver_id = ?", interestID, responder.ID).
			Updates(map[string]interface{}{
				"status":       target,
				"responded_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInterestNotFound
		}

		// Notify only on the first transition into accepted. The sender
		// profile is read through tx so the whole response commits atomically.
		if target == StatusAccepted && interest.Status == StatusPending {
			var sender profiles.Profile
			if err := tx.First(&sender, "id = ?", interest.SenderID).Error; err != nil {
				return err
			}

			if err := s.notif.Create(tx, sender.UserID, notifications.TypeInterestAccepted,
				"Interest accepted",
				fmt.Sprintf("%s has accepted your interest. You can now start a conversation.", responder.DisplayName()),
				&interest.ID); err != nil {
				return err
			}

			var senderUser models.User
			if err := tx.First(&senderUser, "id = ?", sender.UserID).Error; err != nil {
				return err
			}
			subject, body := mailer.InterestAcceptedEmail(sender.FirstName, responder.DisplayName())
			return mailer.Queue(tx, senderUser.Email, subject, body)
		}
		return nil
	})
}

// Sent lists interests the user's profile sent, joined with each receiver's
// display fields, newest first.
func (s *Service) Sent(userID uuid.UUID) ([]ListItem, error) {
	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	var rows []InterestRequest
	if err := s.db.Preload("Receiver").
		Where("sender_id = ?", profile.ID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]ListItem, len(rows))
	for i := range rows {
		items[i] = toListItem(&rows[i], &rows[i].Receiver)
	}
	return items, nil
}

// Received lists interests sent to the user's profile, joined with each
// sender's display fields, newest first.
func (s *Service) Received(userID uuid.UUID) ([]ListItem, error) {
	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	var rows []InterestRequest
	if err := s.db.Preload("Sender").
		Where("receiver_id = ?", profile.ID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]ListItem, len(rows))
	for i := range rows {
		items[i] = toListItem(&rows[i], &rows[i].Sender)
	}
	return items, nil
}

// IsConnected reports whether an accepted interest exists between the two
// profiles in either direction.
func (s *Service) IsConnected(profileA, profileB uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&InterestRequest{}).
		Where("status = ?", StatusAccepted).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			profileA, profileB, profileB, profileA).
		Count(&count).Error
	return count > 0, err
}

func toListItem(interest *InterestRequest, counterpart *profiles.Profile) ListItem {
	return ListItem{
		ID:          interest.ID,
		Status:      interest.Status,
		Message:     interest.Message,
		SentAt:      interest.CreatedAt,
		RespondedAt: interest.RespondedAt,
		Profile:     profiles.NewCard(counterpart),
	}
}
