package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/repository"
)

type inviteRepository struct {
	db querier
}

// NewInviteRepository returns a Postgres-backed implementation of InviteRepository.
func NewInviteRepository(db querier) repository.InviteRepository {
	return &inviteRepository{db: db}
}

// FindByEmail returns the most recent invite for email, including soft-deleted
// rows so the caller can apply its own validity rules.
func (r *inviteRepository) FindByEmail(ctx context.Context, email string) (*domain.Invite, error) {
	const query = `
	SELECT id, email, invited_by, expires_at, deleted_at, invalidated_at, redeemed_at, created_at
	FROM invites
	WHERE email = $1
	ORDER BY created_at DESC
	LIMIT 1
	`
	var invite domain.Invite
	if err := r.db.QueryRow(ctx, query, domain.NormalizeEmail(email)).Scan(
		&invite.ID,
		&invite.Email,
		&invite.InvitedBy,
		&invite.ExpiresAt,
		&invite.DeletedAt,
		&invite.InvalidatedAt,
		&invite.RedeemedAt,
		&invite.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}
