package activation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/pkg/logger"
	"github.com/fastygo/onboarding/repository"
	"github.com/fastygo/onboarding/usecase"
)

// UseCase holds the long-lived collaborators shared by every activation.
type UseCase struct {
	invites  repository.InviteRepository
	tokens   repository.EmailTokenRepository
	settings repository.SiteSettingsRepository
	jobs     usecase.JobQueue
	logger   *zap.Logger
	now      func() time.Time
}

func New(
	invites repository.InviteRepository,
	tokens repository.EmailTokenRepository,
	settings repository.SiteSettingsRepository,
	jobs usecase.JobQueue,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		invites:  invites,
		tokens:   tokens,
		settings: settings,
		jobs:     jobs,
		logger:   logger,
		now:      time.Now,
	}
}

// NewActivator creates the orchestrator for a single user's activation request.
// session may be nil only if the caller never expects a login path to be taken.
func (uc *UseCase) NewActivator(user *domain.User, session SessionBinder, translator Translator) *Activator {
	return &Activator{
		uc:         uc,
		user:       user,
		session:    session,
		translator: translator,
		state:      StateStarted,
	}
}

// State of an Activator.
type State int

const (
	StateStarted State = iota
	StateFinished
)

// Activator runs the two-phase activation protocol for one user.
// It is not safe for concurrent use.
type Activator struct {
	uc         *UseCase
	user       *domain.User
	session    SessionBinder
	translator Translator

	state   State
	kind    Kind
	message string
}

// Start is a lifecycle hook kept so callers can always run Start then Finish.
func (a *Activator) Start(ctx context.Context) error {
	return nil
}

// Finish selects the strategy, runs its side effects and stores the resulting message.
// Calling Finish again returns the stored message without repeating side effects.
func (a *Activator) Finish(ctx context.Context) (string, error) {
	if a.state == StateFinished {
		return a.message, nil
	}

	strategy, req, err := a.resolve(ctx)
	if err != nil {
		return "", err
	}

	message, err := strategy.Activate(ctx, req)
	if err != nil {
		return "", err
	}

	a.kind = strategy.Kind()
	a.message = message
	a.state = StateFinished
	return message, nil
}

// SuccessMessage returns the message the selected strategy would produce, without side effects.
func (a *Activator) SuccessMessage(ctx context.Context) (string, error) {
	if a.state == StateFinished {
		return a.message, nil
	}
	strategy, req, err := a.resolve(ctx)
	if err != nil {
		return "", err
	}
	return strategy.SuccessMessage(req), nil
}

// Message returns the message stored by Finish.
func (a *Activator) Message() string {
	return a.message
}

// Kind returns the strategy taken by Finish; only meaningful once finished.
func (a *Activator) Kind() Kind {
	return a.kind
}

func (a *Activator) State() State {
	return a.state
}

func (a *Activator) resolve(ctx context.Context) (Strategy, Request, error) {
	site, err := a.uc.settings.Get(ctx)
	if err != nil {
		return nil, Request{}, err
	}

	invite, err := a.findInvite(ctx)
	if err != nil {
		return nil, Request{}, err
	}

	now := a.uc.now()
	kind := Select(a.user, site, invite, now)

	logger.WithRequestID(ctx, a.uc.logger).Debug("activation strategy selected",
		zap.String("user_id", a.user.ID),
		zap.Stringer("strategy", kind))

	req := Request{
		User:       a.user,
		Site:       site,
		Translator: a.translator,
		Now:        now,
	}
	return a.strategy(kind), req, nil
}

func (a *Activator) findInvite(ctx context.Context) (*domain.Invite, error) {
	email := a.user.NormalizedEmail()
	if email == "" {
		return nil, nil
	}
	invite, err := a.uc.invites.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrInviteNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return invite, nil
}

func (a *Activator) strategy(kind Kind) Strategy {
	switch kind {
	case KindNoEmail:
		return noEmailStrategy{session: a.session}
	case KindEmail:
		return emailStrategy{tokens: a.uc.tokens, jobs: a.uc.jobs}
	case KindApproval:
		return approvalStrategy{}
	default:
		return loginStrategy{session: a.session, jobs: a.uc.jobs, logger: a.uc.logger}
	}
}
