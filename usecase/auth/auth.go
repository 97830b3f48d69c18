package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/pkg/logger"
	"github.com/fastygo/onboarding/repository"
)

// Config controls session lifetime and token signing.
type Config struct {
	Secret    string
	Issuer    string
	TTL       time.Duration
	SignupTTL time.Duration
}

const (
	sessionAudience = "session"
	signupAudience  = "signup"
)

// Claims are carried by the session cookie token.
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	signups  repository.SignupTokenRepository
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

func New(users repository.UserRepository, sessions repository.SessionRepository, signups repository.SignupTokenRepository, cfg Config, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.SignupTTL <= 0 {
		cfg.SignupTTL = 30 * time.Minute
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		signups:  signups,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// TTL is the lifetime given to new and refreshed sessions.
func (uc *UseCase) TTL() time.Duration {
	return uc.cfg.TTL
}

func (uc *UseCase) CreateSession(ctx context.Context, userID string) (*domain.Session, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.cfg.TTL),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	logger.WithRequestID(ctx, uc.logger).Info("session created",
		zap.String("user_id", userID),
		zap.String("session_id", session.ID))
	return session, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(uc.now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	expiresAt := uc.now().Add(uc.cfg.TTL)
	if err := uc.sessions.Extend(ctx, sessionID, expiresAt); err != nil {
		return nil, err
	}
	session.ExpiresAt = expiresAt
	return session, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// IssueToken signs a token bound to session.
func (uc *UseCase) IssueToken(session *domain.Session) (string, error) {
	if session == nil {
		return "", domain.ErrInvalidPayload
	}
	claims := Claims{
		UserID:    session.UserID,
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    uc.cfg.Issuer,
			Subject:   session.UserID,
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.cfg.Secret))
}

// ParseToken validates the signature and expiry of a session token.
func (uc *UseCase) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := uc.parse(tokenString, claims, sessionAudience); err != nil {
		return nil, err
	}
	if claims.SessionID == "" || claims.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (uc *UseCase) parse(tokenString string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(uc.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return domain.WrapError(domain.ErrCodeUnauthorized, "invalid "+audience+" token", err)
	}
	registered, ok := claims.(interface {
		VerifyIssuer(string, bool) bool
		VerifyAudience(string, bool) bool
	})
	if !ok {
		return domain.ErrUnauthorized
	}
	if uc.cfg.Issuer != "" && !registered.VerifyIssuer(uc.cfg.Issuer, true) {
		return domain.ErrUnauthorized
	}
	if !registered.VerifyAudience(audience, true) {
		return domain.ErrUnauthorized
	}
	return nil
}

// Authenticate resolves a token to its live session.
func (uc *UseCase) Authenticate(ctx context.Context, tokenString string) (*domain.Session, error) {
	claims, err := uc.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	session, err := uc.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

// LogOn creates a session for user and returns the signed token for it.
func (uc *UseCase) LogOn(ctx context.Context, user *domain.User) (*domain.Session, string, error) {
	if user == nil {
		return nil, "", domain.ErrInvalidPayload
	}
	session, err := uc.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	token, err := uc.IssueToken(session)
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}
