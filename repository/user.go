package repository

import (
	"context"
	"time"

	"github.com/fastygo/onboarding/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}

// EmailTokenRepository stores the confirmation tokens owned by a user.
type EmailTokenRepository interface {
	// FindActiveUnconfirmed returns the newest unconfirmed, unexpired token created
	// after validAfter, or domain.ErrEmailTokenNotFound.
	FindActiveUnconfirmed(ctx context.Context, userID string, validAfter time.Time) (*domain.EmailToken, error)
	Create(ctx context.Context, token *domain.EmailToken) (*domain.EmailToken, error)
}
