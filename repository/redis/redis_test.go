package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/onboarding/domain"
)

func newTestClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client, mr
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	client, mr := newTestClient(t)
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	session := &domain.Session{ID: "s1", UserID: "u1"}
	require.NoError(t, repo.Save(ctx, session))
	assert.False(t, session.ExpiresAt.IsZero())

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	members, err := mr.Members(userSessionPrefix + "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, members)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.False(t, mr.Exists(userSessionPrefix+"u1"))

	// deleting twice is harmless
	require.NoError(t, repo.Delete(ctx, "s1"))
}

func TestSessionRepositoryRejectsIncompleteSession(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewSessionRepository(client, time.Hour)

	assert.ErrorIs(t, repo.Save(context.Background(), &domain.Session{ID: "s1"}), domain.ErrInvalidPayload)
	assert.ErrorIs(t, repo.Save(context.Background(), nil), domain.ErrInvalidPayload)
}

func TestSessionRepositoryExtend(t *testing.T) {
	client, mr := newTestClient(t)
	repo := NewSessionRepository(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "s1", UserID: "u1"}))

	expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, repo.Extend(ctx, "s1", expiresAt))

	ttl := mr.TTL(sessionPrefix + "s1")
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 2)
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL(userSessionPrefix+"u1").Seconds(), 2)

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.Equal(expiresAt), "stored expiry %s, want %s", got.ExpiresAt, expiresAt)

	assert.ErrorIs(t, repo.Extend(ctx, "missing", expiresAt), domain.ErrSessionNotFound)
}

func TestSiteSettingsDefaultsAndOverrides(t *testing.T) {
	client, mr := newTestClient(t)
	repo := NewSiteSettingsRepository(client, domain.SiteSettings{MustApproveUsers: false})
	ctx := context.Background()

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, settings.MustApproveUsers)
	assert.Equal(t, domain.DefaultEmailTokenValidFor, settings.EmailTokenValidFor)

	require.NoError(t, repo.Save(ctx, domain.SiteSettings{MustApproveUsers: true, EmailTokenValidFor: 2 * time.Hour}))
	settings, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, settings.MustApproveUsers)
	assert.Equal(t, 2*time.Hour, settings.EmailTokenValidFor)

	mr.HSet(siteSettingsKey, fieldMustApproveUsers, "not-a-bool")
	settings, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, settings.MustApproveUsers)
}

func TestSignupTokenRepositoryMarksOnce(t *testing.T) {
	client, mr := newTestClient(t)
	repo := NewSignupTokenRepository(client)
	ctx := context.Background()

	first, err := repo.MarkUsed(ctx, "jti-1", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := repo.MarkUsed(ctx, "jti-1", 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, second)
	assert.Equal(t, 10*time.Minute, mr.TTL(signupTokenPrefix+"jti-1"))

	_, err = repo.MarkUsed(ctx, "", time.Minute)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}
