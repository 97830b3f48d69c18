package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/repository"
)

type emailTokenRepository struct {
	db querier
}

// NewEmailTokenRepository returns a Postgres-backed implementation of EmailTokenRepository.
func NewEmailTokenRepository(db querier) repository.EmailTokenRepository {
	return &emailTokenRepository{db: db}
}

func (r *emailTokenRepository) FindActiveUnconfirmed(ctx context.Context, userID string, validAfter time.Time) (*domain.EmailToken, error) {
	const query = `
	SELECT id, user_id, token, email, confirmed, expired, created_at
	FROM email_tokens
	WHERE user_id = $1
	  AND confirmed = FALSE
	  AND expired = FALSE
	  AND created_at > $2
	ORDER BY created_at DESC
	LIMIT 1
	`
	var token domain.EmailToken
	if err := r.db.QueryRow(ctx, query, userID, validAfter).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.Email,
		&token.Confirmed,
		&token.Expired,
		&token.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmailTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *emailTokenRepository) Create(ctx context.Context, token *domain.EmailToken) (*domain.EmailToken, error) {
	if token == nil || token.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.Token == "" {
		value, err := newEmailToken()
		if err != nil {
			return nil, err
		}
		token.Token = value
	}

	const query = `
	INSERT INTO email_tokens (id, user_id, token, email, confirmed, expired, created_at)
	VALUES ($1, $2, $3, $4, FALSE, FALSE, COALESCE($5, NOW()))
	RETURNING created_at
	`

	if err := r.db.QueryRow(ctx, query,
		token.ID,
		token.UserID,
		token.Token,
		token.Email,
		nullTime(token.CreatedAt),
	).Scan(&token.CreatedAt); err != nil {
		return nil, err
	}

	return token, nil
}
