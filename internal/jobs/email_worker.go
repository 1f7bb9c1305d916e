package jobs

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mwhayford/rental-service/internal/config"
)

const (
	dequeueTimeout = 5 * time.Second
	maxAttempts    = 5
)

// EmailWorker consumes email jobs from the queue. Actual delivery is a
// stubbed outbound integration, mirroring the notification endpoints.
type EmailWorker struct {
	queue  *Queue
	cfg    config.NotificationConfig
	logger *zap.Logger
}

// NewEmailWorker builds the worker.
func NewEmailWorker(queue *Queue, cfg config.NotificationConfig, logger *zap.Logger) *EmailWorker {
	return &EmailWorker{queue: queue, cfg: cfg, logger: logger}
}

// Run consumes jobs until the context is cancelled. Call in a goroutine.
func (w *EmailWorker) Run(ctx context.Context) {
	if w.queue == nil || w.queue.client == nil {
		w.logger.Warn("redis not configured; email worker not started")
		return
	}
	w.logger.Info("email worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("email worker stopped")
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Warn("job dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := w.handle(ctx, *job); err != nil {
			w.logger.Warn("job failed",
				zap.String("job_id", job.ID),
				zap.String("job_type", job.Type),
				zap.Int("attempts", job.Attempts),
				zap.Error(err))
			if retryErr := w.queue.Retry(ctx, *job, maxAttempts); retryErr != nil {
				w.logger.Error("job retry failed", zap.String("job_id", job.ID), zap.Error(retryErr))
			}
		}
	}
}

func (w *EmailWorker) handle(ctx context.Context, job Job) error {
	switch job.Type {
	case JobApplicationSubmitted, JobApplicationDecided, JobLeaseActivated, JobWorkOrderAssigned:
		w.sendEmailStub(job)
		return nil
	default:
		w.logger.Warn("unknown job type discarded", zap.String("job_type", job.Type))
		return nil
	}
}

func (w *EmailWorker) sendEmailStub(job Job) {
	if strings.TrimSpace(w.cfg.EmailFrom) == "" {
		return
	}
	w.logger.Info("sendEmailStub",
		zap.String("from", w.cfg.EmailFrom),
		zap.String("job_id", job.ID),
		zap.String("job_type", job.Type),
		zap.Any("payload", job.Payload))
}
