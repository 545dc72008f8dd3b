// Package store persists the email outbox. Emails are queued in the same
// database as the state change that produced them and drained by the
// background worker; the broker only ever sees an email that is already
// durably recorded.
package store

import (
	"context"

	"auditdesk/internal/outbox/models"
	id "auditdesk/pkg/domain"
)

type Store interface {
	// Enqueue records an email. An email whose DedupeKey is already present
	// is silently dropped; queueing is idempotent per key.
	Enqueue(ctx context.Context, email *models.Email) error
	// ListQueued returns up to limit emails in QUEUED state, oldest first.
	ListQueued(ctx context.Context, limit int) ([]*models.Email, error)
	MarkSent(ctx context.Context, emailID id.EmailID) error
	// MarkFailed burns one retry. The email returns to the queue until the
	// budget is exhausted, then parks in FAILED state.
	MarkFailed(ctx context.Context, emailID id.EmailID, reason string) error
	MarkDelivered(ctx context.Context, emailID id.EmailID) error
}
