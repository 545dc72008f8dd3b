package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"auditdesk/internal/audit/models"
	"auditdesk/internal/audit/rawdoc"
	id "auditdesk/pkg/domain"
	"auditdesk/pkg/platform/sentinel"
)

// Postgres persists audits as jsonb documents. The document column keeps the
// historical wire shape intact (external consumers read the raw fields), and
// decoding through rawdoc tolerates the legacy quirks; every write stores
// the canonical encoding, so loads read-repair old documents over time.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Schema is the DDL for the audits table. Applied by Migrate on startup and
// by the integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS audits (
    id         UUID PRIMARY KEY,
    doc        JSONB NOT NULL,
    is_draft   BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS audits_is_draft_idx ON audits (is_draft);
CREATE INDEX IF NOT EXISTS audits_created_at_idx ON audits (created_at);
`

// Migrate applies the audits schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate audits schema: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, audit *models.Audit) error {
	doc, err := json.Marshal(audit.Document())
	if err != nil {
		return fmt.Errorf("marshal audit document: %w", err)
	}
	query := `
		INSERT INTO audits (id, doc, is_draft, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(audit.ID), doc, audit.IsDraft, audit.CreatedAt, audit.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, auditID id.AuditID) (*models.Audit, error) {
	query := `SELECT doc FROM audits WHERE id = $1`
	var raw []byte
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(auditID)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query audit: %w", err)
	}
	return decodeAudit(raw, auditID)
}

func (s *Postgres) Update(ctx context.Context, audit *models.Audit) error {
	doc, err := json.Marshal(audit.Document())
	if err != nil {
		return fmt.Errorf("marshal audit document: %w", err)
	}
	query := `
		UPDATE audits
		SET doc = $2, is_draft = $3, updated_at = $4
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(audit.ID), doc, audit.IsDraft, audit.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update audit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, auditID id.AuditID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audits WHERE id = $1`, uuid.UUID(auditID))
	if err != nil {
		return fmt.Errorf("delete audit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) List(ctx context.Context, limit int) ([]*models.Audit, error) {
	query := `SELECT id, doc FROM audits ORDER BY created_at ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	var out []*models.Audit
	for rows.Next() {
		var rowID uuid.UUID
		var raw []byte
		if err := rows.Scan(&rowID, &raw); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		audit, err := decodeAudit(raw, id.AuditID(rowID))
		if err != nil {
			return nil, err
		}
		out = append(out, audit)
	}
	return out, rows.Err()
}

func decodeAudit(raw []byte, auditID id.AuditID) (*models.Audit, error) {
	doc, err := rawdoc.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode audit document: %w", err)
	}
	audit := models.FromDocument(doc)
	// The row id is authoritative over whatever the document carries.
	audit.ID = auditID
	return audit, nil
}
