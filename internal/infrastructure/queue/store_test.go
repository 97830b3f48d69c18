package queue

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/onboarding/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "jobs.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStorePeekOrdersByPriorityThenTime(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Push(&domain.Job{ID: "welcome", Name: "send_system_message", Priority: domain.PriorityDefault, EnqueuedAt: base}))
	require.NoError(t, store.Push(&domain.Job{ID: "signup-2", Name: "critical_user_email", Priority: domain.PriorityCritical, EnqueuedAt: base.Add(time.Second)}))
	require.NoError(t, store.Push(&domain.Job{ID: "signup-1", Name: "critical_user_email", Priority: domain.PriorityCritical, EnqueuedAt: base}))

	jobs, err := store.Peek(10)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, []string{"signup-1", "signup-2", "welcome"}, []string{jobs[0].ID, jobs[1].ID, jobs[2].ID})

	limited, err := store.Peek(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStorePushNormalizes(t *testing.T) {
	store := openTestStore(t)

	job := &domain.Job{Name: "x", Priority: 99}
	require.NoError(t, store.Push(job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, domain.PriorityDefault, job.Priority)
	assert.False(t, job.EnqueuedAt.IsZero())

	assert.ErrorIs(t, store.Push(&domain.Job{}), domain.ErrInvalidPayload)
}

func TestStoreAckRetryBury(t *testing.T) {
	store := openTestStore(t)

	job := &domain.Job{Name: "x"}
	require.NoError(t, store.Push(job))

	jobs, err := store.Peek(10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	require.NoError(t, store.Retry(jobs[0]))
	jobs, err = store.Peek(10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, jobs[0].Retries)

	require.NoError(t, store.Bury(jobs[0]))
	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size)
	dead, err := store.DeadSize()
	require.NoError(t, err)
	assert.Equal(t, 1, dead)

	require.NoError(t, store.Cleanup(time.Now().Add(time.Minute)))
	dead, err = store.DeadSize()
	require.NoError(t, err)
	assert.Equal(t, 0, dead)

	other := &domain.Job{Name: "y"}
	require.NoError(t, store.Push(other))
	require.NoError(t, store.Ack(*other))
	size, err = store.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestNilStore(t *testing.T) {
	var store *Store
	assert.Error(t, store.Push(&domain.Job{Name: "x"}))
	assert.NoError(t, store.Close())
}

func TestStorePeekQuarantinesUndecodableEntries(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(pendingBucket)).Put([]byte("1_00000000000000000000_broken"), []byte("{not json"))
	}))
	require.NoError(t, store.Push(&domain.Job{ID: "signup", Name: "critical_user_email", Priority: domain.PriorityCritical, EnqueuedAt: base}))

	jobs, err := store.Peek(10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "signup", jobs[0].ID)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)
	dead, err := store.DeadSize()
	require.NoError(t, err)
	assert.Equal(t, 1, dead)

	// the broken entry no longer sits ahead of real work
	jobs, err = store.Peek(1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "signup", jobs[0].ID)

	require.NoError(t, store.Cleanup(base))
	dead, err = store.DeadSize()
	require.NoError(t, err)
	assert.Zero(t, dead)
}
