package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Job types handled by the email worker.
const (
	JobApplicationSubmitted = "email_application_submitted"
	JobApplicationDecided   = "email_application_decided"
	JobLeaseActivated       = "email_lease_activated"
	JobWorkOrderAssigned    = "email_work_order_assigned"
)

// Job is a background work description. Execution is at-least-once;
// handlers must tolerate replays.
type Job struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload"`
	Attempts   int            `json:"attempts"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}

// Enqueuer hands job descriptions to the background runner.
type Enqueuer interface {
	Enqueue(ctx context.Context, jobType string, payload map[string]any) (string, error)
}

// Queue is a Redis-list backed job queue.
type Queue struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewQueue builds a queue on the given redis list key.
func NewQueue(client *redis.Client, key string, logger *zap.Logger) *Queue {
	return &Queue{client: client, key: key, logger: logger}
}

// Enqueue pushes a job and returns its identifier. Without a reachable
// Redis the job is dropped with a warning; callers treat enqueueing as
// fire-and-forget.
func (q *Queue) Enqueue(ctx context.Context, jobType string, payload map[string]any) (string, error) {
	job := Job{
		ID:         uuid.NewString(),
		Type:       jobType,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}
	if q == nil || q.client == nil {
		return job.ID, nil
	}
	if err := q.push(ctx, job); err != nil {
		q.logger.Warn("job enqueue failed", zap.String("job_type", jobType), zap.Error(err))
		return "", err
	}
	return job.ID, nil
}

func (q *Queue) push(ctx context.Context, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, raw).Err()
}

// Dequeue blocks up to timeout for the next job. A nil job with nil
// error means the wait timed out.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// BRPop returns [key, value]
	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Retry re-enqueues a failed job, parking it on the dead-letter list
// once attempts are exhausted.
func (q *Queue) Retry(ctx context.Context, job Job, maxAttempts int) error {
	job.Attempts++
	if job.Attempts >= maxAttempts {
		raw, err := json.Marshal(job)
		if err != nil {
			return err
		}
		q.logger.Error("job moved to dead letter queue",
			zap.String("job_id", job.ID),
			zap.String("job_type", job.Type),
			zap.Int("attempts", job.Attempts))
		return q.client.LPush(ctx, q.deadLetterKey(), raw).Err()
	}
	return q.push(ctx, job)
}

func (q *Queue) deadLetterKey() string {
	return q.key + ":dead"
}
