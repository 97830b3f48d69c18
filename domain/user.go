package domain

import (
	"strings"
	"time"
)

// User represents an account that can be activated and signed in.
type User struct {
	ID        string            `json:"id"`
	Email     string            `json:"email,omitempty"`
	Username  string            `json:"username,omitempty"`
	Role      string            `json:"role"`
	Active    bool              `json:"active"`
	NoEmail   bool              `json:"no_email"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Active
}

// IsNoEmail reports whether the account was provisioned without a contactable address.
func (u *User) IsNoEmail() bool {
	return u != nil && u.NoEmail
}

// NormalizedEmail returns the lookup form of the user's email.
func (u *User) NormalizedEmail() string {
	if u == nil {
		return ""
	}
	return NormalizeEmail(u.Email)
}

// NormalizeEmail trims and lower-cases an address for case-insensitive lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
