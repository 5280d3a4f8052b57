package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Subscription lifecycle: none -> pending (payment submitted) -> active (admin
// approved) or back to none (admin rejected).
const (
	SubscriptionNone    = "none"
	SubscriptionPending = "pending"
	SubscriptionActive  = "active"
)

// User is the login account. The matrimony listing itself lives in the Profile
// model (1:1) under the profiles module.
type User struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email              string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password           string         `gorm:"not null" json:"-"`
	Role               string         `gorm:"size:20;default:'user'" json:"role"`
	SubscriptionStatus string         `gorm:"size:20;not null;default:'none'" json:"subscription_status"`
	PlanID             *uuid.UUID     `gorm:"type:uuid" json:"plan_id,omitempty"`
	SubscriptionEnd    *time.Time     `json:"subscription_end,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasActiveSubscription reports whether the stored status is active AND the
// expiry has not passed. The expiry check is deliberate: a stale 'active' row
// with a past SubscriptionEnd grants nothing.
func (u *User) HasActiveSubscription(now time.Time) bool {
	if u.SubscriptionStatus != SubscriptionActive {
		return false
	}
	return u.SubscriptionEnd != nil && u.SubscriptionEnd.After(now)
}
