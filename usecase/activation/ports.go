package activation

import (
	"context"

	"github.com/fastygo/onboarding/domain"
)

// SessionBinder binds an authenticated session to the current request.
type SessionBinder interface {
	LogOn(ctx context.Context, user *domain.User) error
}

// Translator renders a localized message for key.
type Translator interface {
	Translate(key string, args ...interface{}) string
}

// Message keys looked up through the Translator.
const (
	KeyWaitApproval  = "login.wait_approval"
	KeyActivateEmail = "login.activate_email"
	KeyActive        = "login.active"
)

// NoEmailSuffix marks the message produced for accounts without an email address.
const NoEmailSuffix = "[no email]"
