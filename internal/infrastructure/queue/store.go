package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/fastygo/onboarding/domain"
)

const (
	pendingBucket = "jobs"
	deadBucket    = "dead"
)

// Store persists queued jobs in BoltDB. Keys sort by priority and then by
// enqueue time, so a cursor walk yields jobs in the order they should run.
type Store struct {
	db     *bolt.DB
	logger *zap.Logger
}

// Open initializes the BoltDB file and ensures the buckets exist.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{pendingBucket, deadBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

// Push stores job, filling in its ID, priority and enqueue time when missing.
func (s *Store) Push(job *domain.Job) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if job == nil || job.Name == "" {
		return domain.ErrInvalidPayload
	}
	normalize(job)

	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(pendingBucket)).Put(key(job), payload)
	})
}

// Peek returns up to limit jobs in run order without removing them.
// Entries that cannot be decoded are moved to the dead-letter bucket.
func (s *Store) Peek(limit int) ([]domain.Job, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var (
		jobs    []domain.Job
		corrupt [][]byte
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(pendingBucket)).Cursor()
		for k, v := c.First(); k != nil && len(jobs) < limit; k, v = c.Next() {
			var job domain.Job
			if err := json.Unmarshal(v, &job); err != nil {
				s.logger.Error("undecodable job", zap.ByteString("key", k), zap.Error(err))
				corrupt = append(corrupt, append([]byte(nil), k...))
				continue
			}
			jobs = append(jobs, job)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(corrupt) > 0 {
		if err := s.quarantine(corrupt); err != nil {
			return jobs, err
		}
	}
	return jobs, nil
}

// quarantine moves raw pending entries to the dead-letter bucket under their original key.
func (s *Store) quarantine(keys [][]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		pending := tx.Bucket([]byte(pendingBucket))
		dead := tx.Bucket([]byte(deadBucket))
		for _, k := range keys {
			v := pending.Get(k)
			if v == nil {
				continue
			}
			if err := dead.Put(k, append([]byte(nil), v...)); err != nil {
				return err
			}
			if err := pending.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ack removes a processed job.
func (s *Store) Ack(job domain.Job) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(pendingBucket)).Delete(key(&job))
	})
}

// Retry moves job to the back of its priority lane with an incremented retry count.
func (s *Store) Retry(job domain.Job) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(pendingBucket))
		if err := bucket.Delete(key(&job)); err != nil {
			return err
		}
		job.Retries++
		job.EnqueuedAt = time.Now()
		payload, err := json.Marshal(job)
		if err != nil {
			return err
		}
		return bucket.Put(key(&job), payload)
	})
}

// Bury moves a job that exhausted its retries to the dead-letter bucket.
func (s *Store) Bury(job domain.Job) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(pendingBucket)).Delete(key(&job)); err != nil {
			return err
		}
		payload, err := json.Marshal(job)
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(deadBucket)).Put([]byte(job.ID), payload)
	})
}

// Size returns the number of pending jobs.
func (s *Store) Size() (int, error) {
	return s.count(pendingBucket)
}

// DeadSize returns the number of buried jobs.
func (s *Store) DeadSize() (int, error) {
	return s.count(deadBucket)
}

// Cleanup drops buried jobs enqueued before olderThan, and any buried entry that cannot be decoded.
func (s *Store) Cleanup(olderThan time.Time) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(deadBucket))
		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var job domain.Job
			if err := json.Unmarshal(v, &job); err != nil || job.EnqueuedAt.Before(olderThan) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) count(bucket string) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(bucket)).Stats().KeyN
		return nil
	})
	return count, err
}

func normalize(job *domain.Job) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Priority < domain.PriorityCritical || job.Priority > domain.PriorityLow {
		job.Priority = domain.PriorityDefault
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}
}

func key(job *domain.Job) []byte {
	return []byte(fmt.Sprintf("%d_%020d_%s", job.Priority, job.EnqueuedAt.UnixNano(), job.ID))
}
