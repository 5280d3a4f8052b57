package dto

import "github.com/google/uuid"

// CreateReportRequest flags a member's profile or message for admin review.
type CreateReportRequest struct {
	ContentType string `json:"content_type"`
	ContentID   string `json:"content_id"`
	Reason      string `json:"reason"`
}

// ActionReportRequest resolves a pending report from the admin queue.
type ActionReportRequest struct {
	Status    string `json:"status"`
	AdminNote string `json:"admin_note"`
}

type BlockUserRequest struct {
	BlockedID uuid.UUID `json:"blocked_id"`
}
