package repository

import (
	"context"

	"github.com/fastygo/onboarding/domain"
)

type InviteRepository interface {
	// FindByEmail expects a normalized email and returns domain.ErrInviteNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*domain.Invite, error)
}
