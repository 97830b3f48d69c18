package domain

import "time"

// Invite lets a specific email address skip manual approval.
type Invite struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	InvitedBy     string     `json:"invited_by,omitempty"`
	ExpiresAt     time.Time  `json:"expires_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	InvalidatedAt *time.Time `json:"invalidated_at,omitempty"`
	RedeemedAt    *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (i *Invite) IsExpired(now time.Time) bool {
	if i == nil {
		return true
	}
	return !i.ExpiresAt.After(now)
}

func (i *Invite) IsDeleted() bool {
	return i != nil && i.DeletedAt != nil
}

// LinkValid reports whether the invite link has not been invalidated.
func (i *Invite) LinkValid() bool {
	return i != nil && i.InvalidatedAt == nil
}

// SatisfiesApproval requires every check to pass; any single failure disqualifies the invite.
func (i *Invite) SatisfiesApproval(now time.Time) bool {
	return i != nil && !i.IsExpired(now) && !i.IsDeleted() && i.LinkValid()
}
