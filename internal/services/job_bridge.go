package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/internal/infrastructure/queue"
	"github.com/fastygo/onboarding/pkg/logger"
	"github.com/fastygo/onboarding/usecase"
)

// JobBridge persists jobs in the queue store and wakes the processor.
type JobBridge struct {
	store     *queue.Store
	processor *JobProcessor
	logger    *zap.Logger
}

func NewJobBridge(store *queue.Store, processor *JobProcessor, log *zap.Logger) *JobBridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &JobBridge{store: store, processor: processor, logger: log}
}

func (b *JobBridge) Enqueue(ctx context.Context, name string, payload interface{}, priority int) error {
	if b.store == nil {
		return domain.ErrInvalidPayload
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := &domain.Job{
		Name:     name,
		Payload:  data,
		Priority: priority,
	}
	if err := b.store.Push(job); err != nil {
		return err
	}

	logger.WithRequestID(ctx, b.logger).Debug("job enqueued",
		zap.String("job_id", job.ID),
		zap.String("job", name),
		zap.Int("priority", job.Priority))

	b.processor.Notify()
	return nil
}

var _ usecase.JobQueue = (*JobBridge)(nil)
