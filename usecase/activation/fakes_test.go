package activation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fastygo/onboarding/domain"
)

type fakeInvites struct {
	invites map[string]*domain.Invite
	err     error
	lookups []string
}

func (f *fakeInvites) FindByEmail(_ context.Context, email string) (*domain.Invite, error) {
	f.lookups = append(f.lookups, email)
	if f.err != nil {
		return nil, f.err
	}
	if invite, ok := f.invites[email]; ok {
		return invite, nil
	}
	return nil, domain.ErrInviteNotFound
}

type fakeTokens struct {
	tokens    []*domain.EmailToken
	findErr   error
	createErr error
	created   int
}

func (f *fakeTokens) FindActiveUnconfirmed(_ context.Context, userID string, validAfter time.Time) (*domain.EmailToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var newest *domain.EmailToken
	for _, token := range f.tokens {
		if token.UserID != userID || token.Confirmed || token.Expired || !token.CreatedAt.After(validAfter) {
			continue
		}
		if newest == nil || token.CreatedAt.After(newest.CreatedAt) {
			newest = token
		}
	}
	if newest == nil {
		return nil, domain.ErrEmailTokenNotFound
	}
	return newest, nil
}

func (f *fakeTokens) Create(_ context.Context, token *domain.EmailToken) (*domain.EmailToken, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	token.ID = fmt.Sprintf("tok-%d", len(f.tokens)+1)
	token.Token = fmt.Sprintf("secret-%d", len(f.tokens)+1)
	f.tokens = append(f.tokens, token)
	return token, nil
}

type fakeSettings struct {
	settings domain.SiteSettings
	err      error
}

func (f *fakeSettings) Get(context.Context) (domain.SiteSettings, error) {
	return f.settings, f.err
}

func (f *fakeSettings) Save(_ context.Context, settings domain.SiteSettings) error {
	f.settings = settings
	return nil
}

type enqueued struct {
	name     string
	payload  interface{}
	priority int
}

type fakeJobs struct {
	jobs []enqueued
	err  error
}

func (f *fakeJobs) Enqueue(_ context.Context, name string, payload interface{}, priority int) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, enqueued{name: name, payload: payload, priority: priority})
	return nil
}

type fakeSession struct {
	users []string
	err   error
}

func (f *fakeSession) LogOn(_ context.Context, user *domain.User) error {
	if f.err != nil {
		return f.err
	}
	f.users = append(f.users, user.ID)
	return nil
}

// echoTranslator renders "key" or "key(arg1,arg2)".
type echoTranslator struct{}

func (echoTranslator) Translate(key string, args ...interface{}) string {
	if len(args) == 0 {
		return key
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return key + "(" + strings.Join(parts, ",") + ")"
}
