package domain

import "time"

// InvitationStatus is the lifecycle state of an invitation. PENDING may
// transition to ACCEPTED or CANCELLED exactly once; both are terminal.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "PENDING"
	InvitationAccepted  InvitationStatus = "ACCEPTED"
	InvitationCancelled InvitationStatus = "CANCELLED"
)

type Invitation struct {
	ID          string           `db:"id"`
	Email       string           `db:"email"`
	TokenHash   string           `db:"token_hash"` // sha256 fingerprint of the opaque token
	Role        Role             `db:"role"`
	Status      InvitationStatus `db:"status"`
	ExpiresAt   time.Time        `db:"expires_at"`
	InvitedByID string           `db:"invited_by"`
	AcceptedAt  *time.Time       `db:"accepted_at"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"`
}
