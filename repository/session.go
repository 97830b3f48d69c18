package repository

import (
	"context"
	"time"

	"github.com/fastygo/onboarding/domain"
)

type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	// Extend persists expiresAt as the session's new expiry; domain.ErrSessionNotFound when absent.
	Extend(ctx context.Context, id string, expiresAt time.Time) error
}

// SignupTokenRepository remembers redeemed signup tokens until they expire.
type SignupTokenRepository interface {
	// MarkUsed records id and reports false when it was already recorded.
	MarkUsed(ctx context.Context, id string, ttl time.Duration) (bool, error)
}
