package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/internal/infrastructure/queue"
	"github.com/fastygo/onboarding/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the queue is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// JobProcessor runs queued jobs through the dispatcher on a cron schedule.
type JobProcessor struct {
	store      *queue.Store
	monitor    ConnectionHealth
	dispatcher *usecase.Dispatcher
	logger     *zap.Logger
	cron       *cron.Cron
	cfg        ProcessorConfig
	now        func() time.Time
	kick       chan struct{}
	done       chan struct{}
	draining   sync.Mutex
}

func NewJobProcessor(
	store *queue.Store,
	monitor ConnectionHealth,
	dispatcher *usecase.Dispatcher,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *JobProcessor {
	if cfg.Interval < time.Second {
		cfg.Interval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 72 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	jp := &JobProcessor{
		store:      store,
		monitor:    monitor,
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		now:        time.Now,
		kick:       make(chan struct{}, 1),
		done:       make(chan struct{}),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = jp.cron.AddFunc(schedule, jp.drainScheduled)
	_, _ = jp.cron.AddFunc("@hourly", func() {
		if err := jp.store.Cleanup(jp.now().Add(-jp.cfg.Retention)); err != nil {
			jp.logger.Warn("dead job cleanup failed", zap.Error(err))
		}
	})

	return jp
}

// Start launches the cron scheduler and the loop that reacts to Notify.
func (jp *JobProcessor) Start() {
	if jp == nil || jp.cron == nil {
		return
	}
	jp.cron.Start()
	go jp.loop()
	jp.logger.Info("job processor started", zap.Strings("jobs", jp.dispatcher.Names()))
}

// Stop gracefully stops the scheduler, waiting for a running drain to finish.
func (jp *JobProcessor) Stop(ctx context.Context) {
	if jp == nil || jp.cron == nil {
		return
	}
	close(jp.done)
	stopCtx := jp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	jp.logger.Info("job processor stopped")
}

// Notify asks for a drain ahead of the next scheduled tick. It never blocks.
func (jp *JobProcessor) Notify() {
	if jp == nil {
		return
	}
	select {
	case jp.kick <- struct{}{}:
	default:
	}
}

// Drain processes one batch of queued jobs synchronously. Only one drain runs
// at a time; a call made while another is in progress returns immediately.
func (jp *JobProcessor) Drain(ctx context.Context) error {
	if jp == nil || jp.store == nil {
		return nil
	}
	if !jp.draining.TryLock() {
		jp.logger.Debug("job drain already running")
		return nil
	}
	defer jp.draining.Unlock()

	if jp.monitor != nil && !jp.monitor.IsOnline() {
		jp.logger.Debug("skipping job drain (offline)")
		return nil
	}

	jobs, err := jp.store.Peek(jp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		jp.process(ctx, job)
	}
	return nil
}

// Size returns the number of pending jobs.
func (jp *JobProcessor) Size() int {
	if jp == nil || jp.store == nil {
		return 0
	}
	size, err := jp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (jp *JobProcessor) process(ctx context.Context, job domain.Job) {
	err := jp.dispatcher.Execute(ctx, job.Name, job.Payload)
	if err == nil {
		if err := jp.store.Ack(job); err != nil {
			jp.logger.Warn("failed to ack job", zap.String("job_id", job.ID), zap.Error(err))
		}
		return
	}

	jp.logger.Error("job failed",
		zap.String("job_id", job.ID),
		zap.String("job", job.Name),
		zap.Int("retries", job.Retries),
		zap.Error(err))

	if errors.Is(err, domain.ErrUnknownJob) || job.Retries+1 >= jp.cfg.MaxRetries {
		jp.logger.Warn("burying job", zap.String("job_id", job.ID), zap.String("job", job.Name))
		if err := jp.store.Bury(job); err != nil {
			jp.logger.Error("failed to bury job", zap.String("job_id", job.ID), zap.Error(err))
		}
		return
	}

	if err := jp.store.Retry(job); err != nil {
		jp.logger.Error("failed to requeue job", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (jp *JobProcessor) drainScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), jp.cfg.Interval)
	defer cancel()
	if err := jp.Drain(ctx); err != nil {
		jp.logger.Error("job drain failed", zap.Error(err))
	}
}

func (jp *JobProcessor) loop() {
	for {
		select {
		case <-jp.kick:
			jp.drainScheduled()
		case <-jp.done:
			return
		}
	}
}
