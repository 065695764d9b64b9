// Package queue is the Redis-backed job queue that decouples registration
// state changes from email delivery. Jobs are JSON envelopes on a Redis
// list; the worker binary drains them.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ecofest/accreditation-api/internal/config"
	"github.com/ecofest/accreditation-api/internal/logger"
)

const (
	// QueueNotifications is the Redis list key for notification jobs.
	QueueNotifications = "accreditation:notifications"
	// QueueDLQ holds jobs that exhausted their retries.
	QueueDLQ = "accreditation:dlq"
	// MaxRetries is the number of attempts before a job lands in the DLQ.
	MaxRetries = 3
	// RetryBackoff is the delay applied before a failed job is retried.
	RetryBackoff = 10 * time.Second
)

// JobType identifies the job kind.
type JobType string

const (
	// JobTypePackage re-sends the full accreditation package (badge +
	// letter) for an approved registration.
	JobTypePackage JobType = "package_send"
	// JobTypeConfirmation sends the submission confirmation email.
	JobTypeConfirmation JobType = "confirmation_email"
)

// NotificationPayload is the payload every notification job carries.
type NotificationPayload struct {
	RegistrationID uuid.UUID `json:"registration_id"`
}

// Job is the generic envelope stored on the Redis list.
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// DecodePayload unmarshals the job payload into a NotificationPayload.
func (j *Job) DecodePayload() (NotificationPayload, error) {
	var p NotificationPayload
	if err := json.Unmarshal(j.Payload, &p); err != nil {
		return p, fmt.Errorf("decoding payload of job %s: %w", j.ID, err)
	}
	return p, nil
}

// Queue enqueues and dequeues notification jobs via Redis.
type Queue struct {
	client *redis.Client
	log    *log.Logger
}

// NewQueue creates a queue on an existing Redis client.
func NewQueue(client *redis.Client) *Queue {
	return &Queue{client: client, log: logger.Queue()}
}

// Connect creates the Redis client from configuration and pings it.
func Connect(ctx context.Context, cfg *config.Config) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
	}
	return NewQueue(client), nil
}

// Close releases the underlying Redis connection.
func (q *Queue) Close() error {
	return q.client.Close()
}

// Enqueue pushes a notification job for the given registration.
func (q *Queue) Enqueue(ctx context.Context, jobType JobType, registrationID uuid.UUID) error {
	body, err := json.Marshal(NotificationPayload{RegistrationID: registrationID})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	job := Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Payload:   body,
		Attempt:   0,
		CreatedAt: time.Now(),
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	if err := q.client.RPush(ctx, QueueNotifications, raw).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}

	q.log.Debug("Trabajo encolado", "job_id", job.ID, "type", jobType, "registration_id", registrationID)
	return nil
}

// Dequeue blocks until a job is available or ctx is done.
func (q *Queue) Dequeue(ctx context.Context) (*Job, error) {
	result, err := q.client.BLPop(ctx, 0, QueueNotifications).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		q.log.Warn("Trabajo con formato inválido descartado", "raw", result[1], "error", err)
		return nil, nil
	}
	return &job, nil
}

// Retry re-enqueues a job with an incremented attempt count. Once the job
// has used up MaxRetries attempts it is pushed to the DLQ instead.
func (q *Queue) Retry(ctx context.Context, job *Job) error {
	job.Attempt++
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if job.Attempt >= MaxRetries {
		if err := q.client.RPush(ctx, QueueDLQ, raw).Err(); err != nil {
			q.log.Error("No se pudo mover el trabajo a la DLQ", "job_id", job.ID, "error", err)
			return err
		}
		q.log.Warn("Trabajo movido a la DLQ", "job_id", job.ID, "attempt", job.Attempt)
		return nil
	}

	if err := q.client.RPush(ctx, QueueNotifications, raw).Err(); err != nil {
		return err
	}
	q.log.Info("Trabajo reintentado", "job_id", job.ID, "attempt", job.Attempt)
	return nil
}
