// Package worker drains the notification queue. One job at a time; failed
// jobs go back through the queue's retry policy.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ecofest/accreditation-api/internal/logger"
	"github.com/ecofest/accreditation-api/internal/notify"
	"github.com/ecofest/accreditation-api/internal/queue"
)

// Handler executes notification jobs. Satisfied by the lifecycle controller.
type Handler interface {
	SendPackage(ctx context.Context, id uuid.UUID) notify.Result
	SendConfirmation(ctx context.Context, id uuid.UUID) notify.Result
}

// Worker consumes jobs from the queue and hands them to the handler.
type Worker struct {
	queue   *queue.Queue
	handler Handler
	log     *log.Logger
}

// New creates a worker bound to a queue and a job handler.
func New(q *queue.Queue, handler Handler) *Worker {
	return &Worker{
		queue:   q,
		handler: handler,
		log:     logger.Worker(),
	}
}

// Run blocks consuming jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("Worker iniciado", "queue", queue.QueueNotifications)

	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				w.log.Info("Worker detenido")
				return nil
			}
			w.log.Error("Error al desencolar", "error", err)
			if !sleepCtx(ctx, time.Second) {
				w.log.Info("Worker detenido")
				return nil
			}
			continue
		}
		if job == nil {
			continue
		}

		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job *queue.Job) {
	payload, err := job.DecodePayload()
	if err != nil {
		// un payload ilegible nunca va a mejorar: directo a descarte
		w.log.Error("Trabajo descartado por payload inválido", "job_id", job.ID, "error", err)
		return
	}

	w.log.Info("Procesando trabajo", "job_id", job.ID, "type", job.Type, "registration_id", payload.RegistrationID, "attempt", job.Attempt)

	var result notify.Result
	switch job.Type {
	case queue.JobTypePackage:
		result = w.handler.SendPackage(ctx, payload.RegistrationID)
	case queue.JobTypeConfirmation:
		result = w.handler.SendConfirmation(ctx, payload.RegistrationID)
	default:
		w.log.Error("Tipo de trabajo desconocido", "job_id", job.ID, "type", job.Type)
		return
	}

	if result.OK {
		w.log.Info("Trabajo completado", "job_id", job.ID, "channel", result.Channel)
		return
	}

	w.log.Warn("Trabajo fallido", "job_id", job.ID, "reason", result.Reason)
	if !sleepCtx(ctx, queue.RetryBackoff) {
		// en el apagado el trabajo vuelve a la cola sin espera
		w.log.Info("Espera de reintento interrumpida", "job_id", job.ID)
	}
	if err := w.queue.Retry(ctx, job); err != nil {
		w.log.Error("No se pudo reintentar el trabajo", "job_id", job.ID, "error", err)
	}
}

// sleepCtx waits for d or until ctx is cancelled, whichever comes first.
// Returns false when the wait was cut short by cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
