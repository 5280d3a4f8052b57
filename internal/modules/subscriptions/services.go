package subscriptions

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lakkilakshman/matrimony-sub000/internal/mailer"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/notifications"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrMissingReference = errors.New("payment reference is required")
	ErrPaymentPending   = errors.New("a payment is already awaiting review")
	ErrAlreadyProcessed = errors.New("payment has already been processed")
)

type Service struct {
	db    *gorm.DB
	notif *notifications.Service
}

func NewService(db *gorm.DB, notif *notifications.Service) *Service {
	return &Service{db: db, notif: notif}
}

func (s *Service) ListPlans() ([]Plan, error) {
	var plans []Plan
	err := s.db.Where("active = ?", true).Order("price").Find(&plans).Error
	return plans, err
}

func (s *Service) CreatePlan(req *CreatePlanRequest) (*Plan, error) {
	if strings.TrimSpace(req.Name) == "" || req.DurationDays <= 0 {
		return nil, errors.New("name and a positive duration_days are required")
	}

	plan := Plan{
		ID:           uuid.New(),
		Name:         req.Name,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		Description:  req.Description,
		Active:       true,
	}
	if err := s.db.Create(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("a plan with this name already exists")
		}
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return &plan, nil
}

func (s *Service) UpdatePlan(planID uuid.UUID, req *UpdatePlanRequest) (*Plan, error) {
	var plan Plan
	if err := s.db.First(&plan, "id = ?", planID).Error; err != nil {
		return nil, ErrPlanNotFound
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.DurationDays != nil {
		plan.DurationDays = *req.DurationDays
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}

	if err := s.db.Save(&plan).Error; err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return &plan, nil
}

// SubmitPayment records a payment proof and moves the user's subscription to
// pending in one transaction.
func (s *Service) SubmitPayment(userID uuid.UUID, req *SubmitPaymentRequest) (*Payment, error) {
	if strings.TrimSpace(req.Reference) == "" {
		return nil, ErrMissingReference
	}

	var plan Plan
	if err := s.db.First(&plan, "id = ? AND active = ?", req.PlanID, true).Error; err != nil {
		return nil, ErrPlanNotFound
	}

	var pending int64
	s.db.Model(&Payment{}).Where("user_id = ? AND status = ?", userID, PaymentPending).Count(&pending)
	if pending > 0 {
		return nil, ErrPaymentPending
	}

	payment := Payment{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    plan.ID,
		Amount:    req.Amount,
		Reference: req.Reference,
		Status:    PaymentPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("subscription_status", models.SubscriptionPending).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit payment: %w", err)
	}
	payment.Plan = plan
	return &payment, nil
}

func (s *Service) ListPayments(status string, limit, offset int) ([]Payment, int64, error) {
	var payments []Payment
	var total int64

	query := s.db.Model(&Payment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	err := s.db.Preload("Plan").
		Scopes(func(db *gorm.DB) *gorm.DB {
			if status != "" {
				return db.Where("status = ?", status)
			}
			return db
		}).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// ApprovePayment activates the user's subscription: payment approved, user
// active with expiry = now + plan duration, notification and email queued.
// All writes share one transaction.
func (s *Service) ApprovePayment(paymentID uuid.UUID) error {
	var payment Payment
	if err := s.db.Preload("Plan").First(&payment, "id = ?", paymentID).Error; err != nil {
		return ErrPaymentNotFound
	}
	if payment.Status != PaymentPending {
		return ErrAlreadyProcessed
	}

	now := time.Now()
	expiresAt := now.AddDate(0, 0, payment.Plan.DurationDays)

	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Payment{}).
			Where("id = ? AND status = ?", paymentID, PaymentPending).
			Update("status", PaymentApproved)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		if err := tx.Model(&models.User{}).Where("id = ?", payment.UserID).Updates(map[string]interface{}{
			"subscription_status": models.SubscriptionActive,
			"plan_id":             payment.PlanID,
			"subscription_end":    expiresAt,
		}).Error; err != nil {
			return err
		}

		if err := s.notif.Create(tx, payment.UserID, notifications.TypePaymentApproved,
			"Subscription activated",
			fmt.Sprintf("Your %s plan is active until %s.", payment.Plan.Name, expiresAt.Format("2 Jan 2006")),
			&payment.ID); err != nil {
			return err
		}

		email, name := s.recipient(tx, payment.UserID)
		if email != "" {
			subject, body := mailer.PaymentApprovedEmail(name, payment.Plan.Name, expiresAt)
			if err := mailer.Queue(tx, email, subject, body); err != nil {
				return err
			}
		}
		return nil
	})
}

// RejectPayment returns the user's subscription to none.
func (s *Service) RejectPayment(paymentID uuid.UUID, adminNote string) error {
	var payment Payment
	if err := s.db.First(&payment, "id = ?", paymentID).Error; err != nil {
		return ErrPaymentNotFound
	}
	if payment.Status != PaymentPending {
		return ErrAlreadyProcessed
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Payment{}).
			Where("id = ? AND status = ?", paymentID, PaymentPending).
			Updates(map[string]interface{}{
				"status":     PaymentRejected,
				"admin_note": adminNote,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", payment.UserID).
			Update("subscription_status", models.SubscriptionNone).Error; err != nil {
			return err
		}

		if err := s.notif.Create(tx, payment.UserID, notifications.TypePaymentRejected,
			"Payment not verified",
			"Your payment could not be verified. Please submit a new payment proof.",
			&payment.ID); err != nil {
			return err
		}

		email, name := s.recipient(tx, payment.UserID)
		if email != "" {
			subject, body := mailer.PaymentRejectedEmail(name, adminNote)
			if err := mailer.Queue(tx, email, subject, body); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) Status(user *models.User) (*SubscriptionStatusResponse, error) {
	resp := &SubscriptionStatusResponse{
		Status:    user.SubscriptionStatus,
		ExpiresAt: user.SubscriptionEnd,
	}
	if !user.HasActiveSubscription(time.Now()) && user.SubscriptionStatus == models.SubscriptionActive {
		// Stored status is stale; report what the gate actually grants.
		resp.Status = models.SubscriptionNone
	}

	if user.PlanID != nil {
		var plan Plan
		if err := s.db.First(&plan, "id = ?", *user.PlanID).Error; err == nil {
			resp.Plan = &plan
		}
	}

	var payment Payment
	if err := s.db.Preload("Plan").Where("user_id = ?", user.ID).
		Order("created_at DESC").First(&payment).Error; err == nil {
		resp.Payment = &payment
	}
	return resp, nil
}

// recipient resolves the email address and display name for a user without
// importing the profiles package.
func (s *Service) recipient(tx *gorm.DB, userID uuid.UUID) (string, string) {
	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		return "", ""
	}

	var name string
	tx.Table("profiles").
		Select("first_name").
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Limit(1).
		Scan(&name)
	if name == "" {
		name = strings.Split(user.Email, "@")[0]
	}
	return user.Email, name
}
