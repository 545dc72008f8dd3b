// Package worker drains the email outbox on an interval. One instance runs
// per process; the queued-status scan plus per-email state transitions keep
// duplicate sends rare, and the dedupe key keeps duplicate queueing out
// entirely.
package worker

import (
	"context"
	"log/slog"
	"time"

	"auditdesk/internal/outbox/models"
	"auditdesk/internal/outbox/store"
	"auditdesk/internal/platform/metrics"
)

// Publisher hands an email to the broker.
type Publisher interface {
	Publish(ctx context.Context, email *models.Email) error
}

// Worker polls the outbox and publishes queued emails.
type Worker struct {
	store     store.Store
	publisher Publisher
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(w *Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		w.batchSize = n
	}
}

func New(s store.Store, publisher Publisher, interval time.Duration, opts ...Option) *Worker {
	w := &Worker{
		store:     s,
		publisher: publisher,
		interval:  interval,
		batchSize: 50,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run drains the outbox until ctx is cancelled. Store errors are logged and
// retried next tick rather than crashing the process; the outbox is
// recoverable state.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Drain(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

// Drain publishes one batch of queued emails. Exported so tests and the
// admin resend path can trigger a pass without waiting for the ticker.
func (w *Worker) Drain(ctx context.Context) error {
	emails, err := w.store.ListQueued(ctx, w.batchSize)
	if err != nil {
		return err
	}

	for _, email := range emails {
		if err := w.publisher.Publish(ctx, email); err != nil {
			w.logger.WarnContext(ctx, "email publish failed",
				"email_id", email.ID, "type", email.Type, "retries", email.Retries, "error", err)
			if err := w.store.MarkFailed(ctx, email.ID, err.Error()); err != nil {
				return err
			}
			if w.metrics != nil && email.Retries+1 >= email.MaxRetries {
				w.metrics.EmailsFailed.Inc()
			}
			continue
		}
		if err := w.store.MarkSent(ctx, email.ID); err != nil {
			return err
		}
		w.logger.InfoContext(ctx, "email sent", "email_id", email.ID, "type", email.Type)
		if w.metrics != nil {
			w.metrics.EmailsSent.Inc()
		}
	}
	return nil
}
