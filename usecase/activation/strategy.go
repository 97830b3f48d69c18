package activation

import (
	"context"
	"errors"
	"html"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/pkg/logger"
	"github.com/fastygo/onboarding/repository"
	"github.com/fastygo/onboarding/usecase"
)

// Request is the per-activation context handed to a strategy.
type Request struct {
	User       *domain.User
	Site       domain.SiteSettings
	Translator Translator
	Now        time.Time
}

func (r Request) t(key string, args ...interface{}) string {
	if r.Translator == nil {
		return key
	}
	return r.Translator.Translate(key, args...)
}

// Strategy executes the side effects of one activation path.
type Strategy interface {
	Kind() Kind
	Activate(ctx context.Context, req Request) (string, error)
	SuccessMessage(req Request) string
}

type emailStrategy struct {
	tokens repository.EmailTokenRepository
	jobs   usecase.JobQueue
}

func (emailStrategy) Kind() Kind { return KindEmail }

func (s emailStrategy) Activate(ctx context.Context, req Request) (string, error) {
	token, err := s.token(ctx, req)
	if err != nil {
		return "", err
	}

	payload := usecase.UserEmailPayload{
		Type:       usecase.EmailTypeSignup,
		UserID:     req.User.ID,
		EmailToken: token.Token,
	}
	if err := s.jobs.Enqueue(ctx, usecase.JobCriticalUserEmail, payload, domain.PriorityCritical); err != nil {
		return "", err
	}
	return s.SuccessMessage(req), nil
}

// token reuses the newest unconfirmed, unexpired token or creates a new one.
func (s emailStrategy) token(ctx context.Context, req Request) (*domain.EmailToken, error) {
	validFor := req.Site.EmailTokenValidFor
	if validFor <= 0 {
		validFor = domain.DefaultEmailTokenValidFor
	}

	existing, err := s.tokens.FindActiveUnconfirmed(ctx, req.User.ID, req.Now.Add(-validFor))
	if err == nil && existing.IsActive(req.Now, validFor) {
		return existing, nil
	}
	if err != nil && !errors.Is(err, domain.ErrEmailTokenNotFound) {
		return nil, err
	}

	return s.tokens.Create(ctx, &domain.EmailToken{
		UserID:    req.User.ID,
		Email:     req.User.Email,
		CreatedAt: req.Now,
	})
}

func (emailStrategy) SuccessMessage(req Request) string {
	return req.t(KeyActivateEmail, html.EscapeString(req.User.Email))
}

type approvalStrategy struct{}

func (approvalStrategy) Kind() Kind { return KindApproval }

func (s approvalStrategy) Activate(_ context.Context, req Request) (string, error) {
	return s.SuccessMessage(req), nil
}

func (approvalStrategy) SuccessMessage(req Request) string {
	return req.t(KeyWaitApproval)
}

type loginStrategy struct {
	session SessionBinder
	jobs    usecase.JobQueue
	logger  *zap.Logger
}

func (loginStrategy) Kind() Kind { return KindLogin }

func (s loginStrategy) Activate(ctx context.Context, req Request) (string, error) {
	if err := s.session.LogOn(ctx, req.User); err != nil {
		return "", err
	}

	// The session is already bound; a lost welcome message must not undo that.
	payload := usecase.SystemMessagePayload{
		UserID:      req.User.ID,
		MessageType: usecase.MessageWelcomeUser,
	}
	if err := s.jobs.Enqueue(ctx, usecase.JobSendSystemMessage, payload, domain.PriorityDefault); err != nil {
		logger.WithRequestID(ctx, s.logger).Warn("failed to enqueue welcome message",
			zap.String("user_id", req.User.ID),
			zap.Error(err))
	}
	return s.SuccessMessage(req), nil
}

func (loginStrategy) SuccessMessage(req Request) string {
	return req.t(KeyActive)
}

type noEmailStrategy struct {
	session SessionBinder
}

func (noEmailStrategy) Kind() Kind { return KindNoEmail }

func (s noEmailStrategy) Activate(ctx context.Context, req Request) (string, error) {
	if err := s.session.LogOn(ctx, req.User); err != nil {
		return "", err
	}
	return s.SuccessMessage(req), nil
}

func (noEmailStrategy) SuccessMessage(req Request) string {
	return req.t(KeyActive) + NoEmailSuffix
}
