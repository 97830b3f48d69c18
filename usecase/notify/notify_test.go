package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/internal/config"
	"github.com/fastygo/onboarding/usecase"
)

type fakeUsers map[string]*domain.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f fakeUsers) Upsert(_ context.Context, user *domain.User) error {
	f[user.ID] = user
	return nil
}

type recordingMailer struct {
	sent []Mail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, mail Mail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func setup(users fakeUsers) (*usecase.Dispatcher, *recordingMailer) {
	mailer := &recordingMailer{}
	d := usecase.NewDispatcher()
	New(users, mailer, "https://example.com/", nil).Register(d)
	return d, mailer
}

func payload(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestSignupEmail(t *testing.T) {
	users := fakeUsers{
		"u1": {ID: "u1", Email: "a@x.com"},
		"u2": {ID: "u2", Email: "b@x.com", Metadata: map[string]string{"locale": "pt-BR"}},
	}
	d, mailer := setup(users)
	ctx := context.Background()

	require.NoError(t, d.Execute(ctx, usecase.JobCriticalUserEmail, payload(t, usecase.UserEmailPayload{
		Type: usecase.EmailTypeSignup, UserID: "u1", EmailToken: "abc123",
	})))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@x.com", mailer.sent[0].To)
	assert.Equal(t, "Confirm your new account", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Body, "https://example.com/u/activate-account/abc123")

	require.NoError(t, d.Execute(ctx, usecase.JobCriticalUserEmail, payload(t, usecase.UserEmailPayload{
		Type: usecase.EmailTypeSignup, UserID: "u2", EmailToken: "def",
	})))
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "Confirme sua nova conta", mailer.sent[1].Subject)
}

func TestSignupEmailFailures(t *testing.T) {
	d, mailer := setup(fakeUsers{"u1": {ID: "u1", Email: "a@x.com"}})
	ctx := context.Background()

	err := d.Execute(ctx, usecase.JobCriticalUserEmail, payload(t, usecase.UserEmailPayload{Type: "reset", UserID: "u1", EmailToken: "t"}))
	assert.ErrorIs(t, err, domain.ErrUnknownJob)

	err = d.Execute(ctx, usecase.JobCriticalUserEmail, payload(t, usecase.UserEmailPayload{Type: usecase.EmailTypeSignup, UserID: "u1"}))
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	err = d.Execute(ctx, usecase.JobCriticalUserEmail, payload(t, usecase.UserEmailPayload{Type: usecase.EmailTypeSignup, UserID: "ghost", EmailToken: "t"}))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = d.Execute(ctx, usecase.JobCriticalUserEmail, json.RawMessage(`{`))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	mailer.err = errors.New("relay refused")
	err = d.Execute(ctx, usecase.JobCriticalUserEmail, payload(t, usecase.UserEmailPayload{Type: usecase.EmailTypeSignup, UserID: "u1", EmailToken: "t"}))
	assert.EqualError(t, err, "relay refused")
}

func TestWelcomeMessage(t *testing.T) {
	users := fakeUsers{
		"u1": {ID: "u1", Email: "a@x.com", Username: "ana"},
		"u2": {ID: "u2", Email: "b@x.com", NoEmail: true},
	}
	d, mailer := setup(users)
	ctx := context.Background()

	require.NoError(t, d.Execute(ctx, usecase.JobSendSystemMessage, payload(t, usecase.SystemMessagePayload{UserID: "u1", MessageType: usecase.MessageWelcomeUser})))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Welcome aboard", mailer.sent[0].Subject)
	assert.True(t, strings.HasPrefix(mailer.sent[0].Body, "Hi ana,"))

	require.NoError(t, d.Execute(ctx, usecase.JobSendSystemMessage, payload(t, usecase.SystemMessagePayload{UserID: "u2", MessageType: usecase.MessageWelcomeUser})))
	assert.Len(t, mailer.sent, 1)

	err := d.Execute(ctx, usecase.JobSendSystemMessage, payload(t, usecase.SystemMessagePayload{UserID: "u1", MessageType: "digest"}))
	assert.ErrorIs(t, err, domain.ErrUnknownJob)
}

func TestSMTPMailerComposes(t *testing.T) {
	cfg := config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 2525, Username: "user", Password: "pw", From: "noreply@example.com"}

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m := &SMTPMailer{cfg: cfg, send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		assert.NotNil(t, a)
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}}

	require.NoError(t, m.Send(context.Background(), Mail{To: "a@x.com", Subject: "Hello", Body: "line1\nline2"}))
	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"a@x.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Hello\r\n")
	assert.True(t, strings.HasSuffix(string(gotMsg), "\r\n\r\nline1\r\nline2"))
}

func TestNewMailerFallsBackToLog(t *testing.T) {
	assert.IsType(t, &LogMailer{}, NewMailer(config.MailConfig{}, nil))
	assert.IsType(t, &SMTPMailer{}, NewMailer(config.MailConfig{SMTPHost: "smtp"}, nil))
	assert.NoError(t, NewLogMailer(nil).Send(context.Background(), Mail{To: "a@x.com"}))
}
