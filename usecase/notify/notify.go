// Package notify handles the mail jobs queued during account activation.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/internal/i18n"
	"github.com/fastygo/onboarding/pkg/logger"
	"github.com/fastygo/onboarding/repository"
	"github.com/fastygo/onboarding/usecase"
)

const activatePath = "/u/activate-account/"

// UseCase renders and sends user mail.
type UseCase struct {
	users   repository.UserRepository
	mailer  Mailer
	baseURL string
	logger  *zap.Logger
}

func New(users repository.UserRepository, mailer Mailer, baseURL string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:   users,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Register binds the mail job handlers to d.
func (uc *UseCase) Register(d *usecase.Dispatcher) {
	d.Register(usecase.JobCriticalUserEmail, uc.handleUserEmail)
	d.Register(usecase.JobSendSystemMessage, uc.handleSystemMessage)
}

// ActivationURL builds the link a user follows to confirm an email token.
func (uc *UseCase) ActivationURL(token string) string {
	return uc.baseURL + activatePath + token
}

func (uc *UseCase) handleUserEmail(ctx context.Context, raw json.RawMessage) error {
	var payload usecase.UserEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "decode user email payload", err)
	}
	if payload.Type != usecase.EmailTypeSignup {
		return fmt.Errorf("email type %q: %w", payload.Type, domain.ErrUnknownJob)
	}
	if payload.EmailToken == "" {
		return domain.ErrInvalidPayload
	}

	user, err := uc.users.GetByID(ctx, payload.UserID)
	if err != nil {
		return err
	}

	t := translatorFor(user)
	mail := Mail{
		To:      user.Email,
		Subject: t.Translate("email.signup.subject"),
		Body:    t.Translate("email.signup.body", uc.ActivationURL(payload.EmailToken)),
	}
	if err := uc.mailer.Send(ctx, mail); err != nil {
		return err
	}

	logger.WithRequestID(ctx, uc.logger).Info("signup email sent", zap.String("user_id", user.ID))
	return nil
}

func (uc *UseCase) handleSystemMessage(ctx context.Context, raw json.RawMessage) error {
	var payload usecase.SystemMessagePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "decode system message payload", err)
	}
	if payload.MessageType != usecase.MessageWelcomeUser {
		return fmt.Errorf("message type %q: %w", payload.MessageType, domain.ErrUnknownJob)
	}

	user, err := uc.users.GetByID(ctx, payload.UserID)
	if err != nil {
		return err
	}
	if user.IsNoEmail() || user.Email == "" {
		uc.logger.Debug("skipping welcome message", zap.String("user_id", user.ID))
		return nil
	}

	t := translatorFor(user)
	name := user.Username
	if name == "" {
		name = user.Email
	}
	return uc.mailer.Send(ctx, Mail{
		To:      user.Email,
		Subject: t.Translate("email.welcome.subject"),
		Body:    t.Translate("email.welcome.body", name),
	})
}

// translatorFor honours a "locale" entry in the user's metadata.
func translatorFor(user *domain.User) *i18n.Translator {
	if locale := user.Metadata["locale"]; locale != "" {
		if tag, err := language.Parse(locale); err == nil {
			return i18n.New(tag)
		}
	}
	return i18n.New(i18n.Default())
}
