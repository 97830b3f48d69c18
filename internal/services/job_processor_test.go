package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/internal/infrastructure/queue"
	"github.com/fastygo/onboarding/usecase"
)

type staticHealth bool

func (h staticHealth) IsOnline() bool { return bool(h) }

func newTestProcessor(t *testing.T, health ConnectionHealth, maxRetries int) (*JobProcessor, *JobBridge, *queue.Store, *usecase.Dispatcher) {
	t.Helper()
	store, err := queue.Open(filepath.Join(t.TempDir(), "jobs.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	dispatcher := usecase.NewDispatcher()
	processor := NewJobProcessor(store, health, dispatcher, nil, ProcessorConfig{MaxRetries: maxRetries})
	return processor, NewJobBridge(store, processor, nil), store, dispatcher
}

func TestJobBridgeEnqueueAndDrain(t *testing.T) {
	processor, bridge, store, dispatcher := newTestProcessor(t, staticHealth(true), 3)
	ctx := context.Background()

	var got []usecase.SystemMessagePayload
	dispatcher.Register(usecase.JobSendSystemMessage, func(_ context.Context, payload json.RawMessage) error {
		var p usecase.SystemMessagePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		got = append(got, p)
		return nil
	})

	msg := usecase.SystemMessagePayload{UserID: "u1", MessageType: usecase.MessageWelcomeUser}
	require.NoError(t, bridge.Enqueue(ctx, usecase.JobSendSystemMessage, msg, domain.PriorityDefault))
	assert.Equal(t, 1, processor.Size())

	require.NoError(t, processor.Drain(ctx))
	assert.Equal(t, []usecase.SystemMessagePayload{msg}, got)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestJobProcessorRetriesThenBuries(t *testing.T) {
	processor, bridge, store, dispatcher := newTestProcessor(t, staticHealth(true), 2)
	ctx := context.Background()

	calls := 0
	dispatcher.Register(usecase.JobCriticalUserEmail, func(context.Context, json.RawMessage) error {
		calls++
		return errors.New("smtp unavailable")
	})
	require.NoError(t, bridge.Enqueue(ctx, usecase.JobCriticalUserEmail, usecase.UserEmailPayload{Type: usecase.EmailTypeSignup, UserID: "u1"}, domain.PriorityCritical))

	require.NoError(t, processor.Drain(ctx))
	jobs, err := store.Peek(10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, jobs[0].Retries)

	require.NoError(t, processor.Drain(ctx))
	assert.Equal(t, 2, calls)
	assert.Zero(t, processor.Size())
	dead, err := store.DeadSize()
	require.NoError(t, err)
	assert.Equal(t, 1, dead)
}

func TestJobProcessorBuriesUnknownJobs(t *testing.T) {
	processor, bridge, store, _ := newTestProcessor(t, staticHealth(true), 5)
	ctx := context.Background()

	require.NoError(t, bridge.Enqueue(ctx, "nobody_handles_this", map[string]string{}, domain.PriorityLow))
	require.NoError(t, processor.Drain(ctx))

	assert.Zero(t, processor.Size())
	dead, err := store.DeadSize()
	require.NoError(t, err)
	assert.Equal(t, 1, dead)
}

func TestJobProcessorSkipsWhenOffline(t *testing.T) {
	processor, bridge, _, dispatcher := newTestProcessor(t, staticHealth(false), 3)
	ctx := context.Background()

	dispatcher.Register(usecase.JobSendSystemMessage, func(context.Context, json.RawMessage) error {
		t.Fatal("handler must not run while offline")
		return nil
	})
	require.NoError(t, bridge.Enqueue(ctx, usecase.JobSendSystemMessage, usecase.SystemMessagePayload{UserID: "u1"}, domain.PriorityDefault))

	require.NoError(t, processor.Drain(ctx))
	assert.Equal(t, 1, processor.Size())
}

func TestJobBridgeRejectsUnnamedJobs(t *testing.T) {
	_, bridge, _, _ := newTestProcessor(t, staticHealth(true), 3)
	assert.ErrorIs(t, bridge.Enqueue(context.Background(), "", nil, domain.PriorityDefault), domain.ErrInvalidPayload)
}

func TestJobProcessorDrainsOneAtATime(t *testing.T) {
	processor, bridge, _, dispatcher := newTestProcessor(t, staticHealth(true), 3)
	ctx := context.Background()

	calls := 0
	dispatcher.Register(usecase.JobCriticalUserEmail, func(ctx context.Context, _ json.RawMessage) error {
		calls++
		// a second drain started while this job is in flight must not pick it up again
		return processor.Drain(ctx)
	})
	require.NoError(t, bridge.Enqueue(ctx, usecase.JobCriticalUserEmail, usecase.UserEmailPayload{Type: usecase.EmailTypeSignup, UserID: "u1", EmailToken: "t"}, domain.PriorityCritical))

	require.NoError(t, processor.Drain(ctx))
	assert.Equal(t, 1, calls)
	assert.Zero(t, processor.Size())
}
