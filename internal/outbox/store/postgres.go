package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"auditdesk/internal/outbox/models"
	id "auditdesk/pkg/domain"
	"auditdesk/pkg/platform/sentinel"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const Schema = `
CREATE TABLE IF NOT EXISTS outbox_emails (
    id          UUID PRIMARY KEY,
    recipient   TEXT NOT NULL,
    subject     TEXT NOT NULL,
    body        TEXT NOT NULL,
    email_type  TEXT NOT NULL,
    status      TEXT NOT NULL,
    retries     INT NOT NULL DEFAULT 0,
    max_retries INT NOT NULL,
    dedupe_key  TEXT,
    last_error  TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS outbox_emails_dedupe_idx ON outbox_emails (dedupe_key) WHERE dedupe_key IS NOT NULL;
CREATE INDEX IF NOT EXISTS outbox_emails_status_idx ON outbox_emails (status, created_at);
`

// Migrate applies the outbox schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate outbox schema: %w", err)
	}
	return nil
}

func (s *Postgres) Enqueue(ctx context.Context, email *models.Email) error {
	query := `
		INSERT INTO outbox_emails (id, recipient, subject, body, email_type, status,
			retries, max_retries, dedupe_key, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (dedupe_key) WHERE dedupe_key IS NOT NULL DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(email.ID), email.To, email.Subject, email.Body,
		string(email.Type), string(email.Status),
		email.Retries, email.MaxRetries, nullableString(email.DedupeKey),
		email.LastError, email.CreatedAt, email.UpdatedAt)
	if err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}

func (s *Postgres) ListQueued(ctx context.Context, limit int) ([]*models.Email, error) {
	query := `
		SELECT id, recipient, subject, body, email_type, status,
			retries, max_retries, COALESCE(dedupe_key, ''), last_error, created_at, updated_at
		FROM outbox_emails
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2
	`
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, query, string(models.StatusQueued), limit)
	if err != nil {
		return nil, fmt.Errorf("list queued emails: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Email, 0)
	for rows.Next() {
		var (
			email     models.Email
			rowID     uuid.UUID
			emailType string
			status    string
		)
		if err := rows.Scan(&rowID, &email.To, &email.Subject, &email.Body, &emailType, &status,
			&email.Retries, &email.MaxRetries, &email.DedupeKey, &email.LastError,
			&email.CreatedAt, &email.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		email.ID = id.EmailID(rowID)
		email.Type = models.Type(emailType)
		email.Status = models.Status(status)
		out = append(out, &email)
	}
	return out, rows.Err()
}

func (s *Postgres) MarkSent(ctx context.Context, emailID id.EmailID) error {
	query := `UPDATE outbox_emails SET status = $1, last_error = '', updated_at = $2 WHERE id = $3`
	return s.exec(ctx, query, string(models.StatusSent), time.Now().UTC(), uuid.UUID(emailID))
}

func (s *Postgres) MarkFailed(ctx context.Context, emailID id.EmailID, reason string) error {
	query := `
		UPDATE outbox_emails
		SET retries = retries + 1,
		    last_error = $1,
		    status = CASE WHEN retries + 1 >= max_retries THEN $2 ELSE status END,
		    updated_at = $3
		WHERE id = $4
	`
	return s.exec(ctx, query, reason, string(models.StatusFailed), time.Now().UTC(), uuid.UUID(emailID))
}

func (s *Postgres) MarkDelivered(ctx context.Context, emailID id.EmailID) error {
	query := `UPDATE outbox_emails SET status = $1, updated_at = $2 WHERE id = $3`
	return s.exec(ctx, query, string(models.StatusDelivered), time.Now().UTC(), uuid.UUID(emailID))
}

func (s *Postgres) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update email: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
