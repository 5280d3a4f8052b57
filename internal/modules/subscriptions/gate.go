package subscriptions

import (
	"time"

	"github.com/google/uuid"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
)

// The subscription gate. Pure predicates, evaluated per request, never
// cached. A stored 'active' status past its expiry counts as no
// subscription.

// CanMessage reports whether the user may send messages.
func CanMessage(u *models.User, now time.Time) bool {
	if u == nil {
		return false
	}
	return u.Role == models.RoleAdmin || u.HasActiveSubscription(now)
}

// CanViewContact reports whether the viewer may see contact fields of the
// profile owned by ownerUserID. Guests (nil viewer) never can.
func CanViewContact(viewer *models.User, ownerUserID uuid.UUID, now time.Time) bool {
	if viewer == nil {
		return false
	}
	if viewer.Role == models.RoleAdmin {
		return true
	}
	if viewer.ID == ownerUserID {
		return true
	}
	return viewer.HasActiveSubscription(now)
}
