package subscriptions

import (
	"time"

	"github.com/google/uuid"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
)

const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

// Plan is a purchasable subscription tier.
type Plan struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	DurationDays int       `gorm:"not null" json:"duration_days"`
	Price        float64   `gorm:"not null" json:"price"`
	Description  string    `gorm:"size:500" json:"description"`
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Payment is a user-submitted payment proof awaiting admin review. The
// subscription itself lives on the user row; approving a payment activates it.
type Payment struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID    uuid.UUID   `gorm:"type:uuid;not null" json:"plan_id"`
	Amount    float64     `json:"amount"`
	Reference string      `gorm:"size:255;not null" json:"reference"`
	Status    string      `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AdminNote string      `gorm:"size:500" json:"admin_note,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	User      models.User `gorm:"foreignKey:UserID" json:"-"`
	Plan      Plan        `gorm:"foreignKey:PlanID" json:"plan"`
}

// --- DTOs ---

type SubmitPaymentRequest struct {
	PlanID    uuid.UUID `json:"plan_id"`
	Amount    float64   `json:"amount"`
	Reference string    `json:"reference"`
}

type CreatePlanRequest struct {
	Name         string  `json:"name"`
	DurationDays int     `json:"duration_days"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
}

type UpdatePlanRequest struct {
	Name         *string  `json:"name"`
	DurationDays *int     `json:"duration_days"`
	Price        *float64 `json:"price"`
	Description  *string  `json:"description"`
	Active       *bool    `json:"active"`
}

type RejectPaymentRequest struct {
	AdminNote string `json:"admin_note"`
}

type SubscriptionStatusResponse struct {
	Status    string     `json:"status"`
	Plan      *Plan      `json:"plan,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Payment   *Payment   `json:"latest_payment,omitempty"`
}
