package domain

import "time"

// DefaultEmailTokenValidFor is how long an unconfirmed token stays usable.
const DefaultEmailTokenValidFor = 48 * time.Hour

// EmailToken is a pending confirmation token mailed to a user.
type EmailToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Confirmed bool      `json:"confirmed"`
	Expired   bool      `json:"expired"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the token was explicitly expired or has aged out.
func (t *EmailToken) IsExpired(now time.Time, validFor time.Duration) bool {
	if t == nil {
		return true
	}
	if t.Expired {
		return true
	}
	if validFor <= 0 {
		validFor = DefaultEmailTokenValidFor
	}
	return !t.CreatedAt.After(now.Add(-validFor))
}

// IsActive reports whether the token can still be used to confirm the address.
func (t *EmailToken) IsActive(now time.Time, validFor time.Duration) bool {
	return t != nil && !t.Confirmed && !t.IsExpired(now, validFor)
}
