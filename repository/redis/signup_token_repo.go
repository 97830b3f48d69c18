package redis

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/repository"
)

const signupTokenPrefix = "signup_token_used:"

type signupTokenRepository struct {
	client *redislib.Client
}

// NewSignupTokenRepository records redeemed signup token IDs with SETNX so each token works once.
func NewSignupTokenRepository(client *redislib.Client) repository.SignupTokenRepository {
	return &signupTokenRepository{client: client}
}

func (r *signupTokenRepository) MarkUsed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	if id == "" {
		return false, domain.ErrInvalidPayload
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return r.client.SetNX(ctx, signupTokenPrefix+id, 1, ttl).Result()
}
