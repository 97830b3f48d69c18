package usecase

import "context"

// Job names understood by the background processor.
const (
	JobCriticalUserEmail = "critical_user_email"
	JobSendSystemMessage = "send_system_message"
)

// Email and system message kinds carried in job payloads.
const (
	EmailTypeSignup    = "signup"
	MessageWelcomeUser = "welcome_user"
)

// JobQueue abstracts the asynchronous job store so use cases stay storage-agnostic.
type JobQueue interface {
	Enqueue(ctx context.Context, name string, payload interface{}, priority int) error
}

// UserEmailPayload is the payload of JobCriticalUserEmail.
type UserEmailPayload struct {
	Type       string `json:"type"`
	UserID     string `json:"user_id"`
	EmailToken string `json:"email_token,omitempty"`
}

// SystemMessagePayload is the payload of JobSendSystemMessage.
type SystemMessagePayload struct {
	UserID      string `json:"user_id"`
	MessageType string `json:"message_type"`
}
