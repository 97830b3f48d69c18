package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/onboarding/domain"
)

func TestSignupTokenRedeemsOnce(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	token, err := uc.IssueSignupToken(ctx, "u1")
	require.NoError(t, err)

	claims, err := uc.VerifySignupToken(token, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.NotEmpty(t, claims.ID)

	require.NoError(t, uc.RedeemSignupToken(ctx, token, "u1"))

	err = uc.RedeemSignupToken(ctx, token, "u1")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized), "got %v", err)
}

func TestSignupTokenBoundToUser(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	token, err := uc.IssueSignupToken(ctx, "u1")
	require.NoError(t, err)

	_, err = uc.VerifySignupToken(token, "u2")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized), "got %v", err)

	err = uc.RedeemSignupToken(ctx, token, "u2")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized), "got %v", err)

	// A failed attempt for another user does not burn the token.
	require.NoError(t, uc.RedeemSignupToken(ctx, token, "u1"))
}

func TestSignupAndSessionTokensAreNotInterchangeable(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, sessionToken, err := uc.LogOn(ctx, &domain.User{ID: "u1"})
	require.NoError(t, err)
	_, err = uc.ParseSignupToken(sessionToken)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized), "got %v", err)

	signupToken, err := uc.IssueSignupToken(ctx, "u1")
	require.NoError(t, err)
	_, err = uc.ParseToken(signupToken)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized), "got %v", err)
	_, err = uc.Authenticate(ctx, signupToken)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized), "got %v", err)
}

func TestIssueSignupTokenUnknownUser(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.IssueSignupToken(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
