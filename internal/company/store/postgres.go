package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"auditdesk/internal/company/models"
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
CREATE TABLE IF NOT EXISTS companies (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL,
    address    TEXT NOT NULL DEFAULT '',
    country    TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS companies_name_idx ON companies (lower(name));
`

// Migrate applies the companies schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate companies schema: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (id, name, address, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(company.ID), company.Name, company.Address, company.Country,
		company.CreatedAt, company.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	query := `SELECT id, name, address, country, created_at, updated_at FROM companies WHERE id = $1`
	var (
		company models.Company
		rowID   uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(companyID)).
		Scan(&rowID, &company.Name, &company.Address, &company.Country, &company.CreatedAt, &company.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find company: %w", err)
	}
	company.ID = id.CompanyID(rowID)
	return &company, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Company, error) {
	query := `SELECT id, name, address, country, created_at, updated_at FROM companies ORDER BY lower(name)`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Company, 0)
	for rows.Next() {
		var (
			company models.Company
			rowID   uuid.UUID
		)
		if err := rows.Scan(&rowID, &company.Name, &company.Address, &company.Country,
			&company.CreatedAt, &company.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		company.ID = id.CompanyID(rowID)
		out = append(out, &company)
	}
	return out, rows.Err()
}
