package transport

import "time"

// ActivationResponse is returned once an activation has finished.
type ActivationResponse struct {
	Message  string `json:"message"`
	Strategy string `json:"strategy,omitempty"`
}

// SessionResponse describes the session bound to the cookie.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ProfileResponse struct {
	ID       string            `json:"id"`
	Email    string            `json:"email,omitempty"`
	Username string            `json:"username,omitempty"`
	Role     string            `json:"role,omitempty"`
	Active   bool              `json:"active"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
