package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/pkg/logger"
)

// SignupClaims are carried by the token handed out at registration. The
// holder may activate the named user once before the token expires.
type SignupClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueSignupToken signs a single-use activation token for userID.
func (uc *UseCase) IssueSignupToken(ctx context.Context, userID string) (string, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return "", err
	}
	now := uc.now()
	claims := SignupClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    uc.cfg.Issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{signupAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.cfg.SignupTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.cfg.Secret))
}

// ParseSignupToken validates the signature, audience and expiry of a signup token.
func (uc *UseCase) ParseSignupToken(tokenString string) (*SignupClaims, error) {
	claims := &SignupClaims{}
	if err := uc.parse(tokenString, claims, signupAudience); err != nil {
		return nil, err
	}
	if claims.ID == "" || claims.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// VerifySignupToken checks that tokenString was issued for userID without consuming it.
func (uc *UseCase) VerifySignupToken(tokenString, userID string) (*SignupClaims, error) {
	claims, err := uc.ParseSignupToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// RedeemSignupToken verifies tokenString for userID and marks it used.
// A token that was already redeemed is rejected.
func (uc *UseCase) RedeemSignupToken(ctx context.Context, tokenString, userID string) error {
	claims, err := uc.VerifySignupToken(tokenString, userID)
	if err != nil {
		return err
	}
	if uc.signups == nil {
		return domain.NewError(domain.ErrCodeInternal, "signup token store is not configured")
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Time.Sub(uc.now()); remaining > 0 {
			ttl = remaining
		}
	}
	fresh, err := uc.signups.MarkUsed(ctx, claims.ID, ttl)
	if err != nil {
		return err
	}
	if !fresh {
		logger.WithRequestID(ctx, uc.logger).Warn("signup token replayed",
			zap.String("user_id", userID),
			zap.String("token_id", claims.ID))
		return domain.ErrUnauthorized
	}
	return nil
}
