package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"auditdesk/internal/directory/models"
	id "auditdesk/pkg/domain"
	"auditdesk/pkg/platform/sentinel"
)

// Postgres persists directory entries in a plain relational table; unlike
// audits there is no external document contract to preserve.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const Schema = `
CREATE TABLE IF NOT EXISTS people (
    id           UUID PRIMARY KEY,
    name         TEXT NOT NULL,
    name_norm    TEXT NOT NULL,
    email        TEXT NOT NULL DEFAULT '',
    phone_number TEXT NOT NULL DEFAULT '',
    company_id   UUID,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS people_name_norm_idx ON people (name_norm);
`

// Migrate applies the people schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate people schema: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, person *models.Person) error {
	query := `
		INSERT INTO people (id, name, name_norm, email, phone_number, company_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(person.ID), person.Name, person.NormalizedName(),
		person.Email, person.PhoneNumber, nullableUUID(uuid.UUID(person.CompanyID)),
		person.CreatedAt, person.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	query := `
		SELECT id, name, email, phone_number, company_id, created_at, updated_at
		FROM people WHERE id = $1
	`
	person, err := scanPerson(s.db.QueryRowContext(ctx, query, uuid.UUID(personID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find person: %w", err)
	}
	return person, nil
}

func (s *Postgres) Search(ctx context.Context, query string) ([]*models.Person, error) {
	q := `
		SELECT id, name, email, phone_number, company_id, created_at, updated_at
		FROM people
		WHERE name_norm LIKE '%' || $1 || '%'
		ORDER BY name_norm
	`
	rows, err := s.db.QueryContext(ctx, q, strings.ToLower(strings.TrimSpace(query)))
	if err != nil {
		return nil, fmt.Errorf("search people: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Person, 0)
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, person)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*models.Person, error) {
	var (
		person    models.Person
		personID  uuid.UUID
		companyID sql.Null[uuid.UUID]
	)
	err := row.Scan(&personID, &person.Name, &person.Email, &person.PhoneNumber,
		&companyID, &person.CreatedAt, &person.UpdatedAt)
	if err != nil {
		return nil, err
	}
	person.ID = id.PersonID(personID)
	if companyID.Valid {
		person.CompanyID = id.CompanyID(companyID.V)
	}
	return &person, nil
}

func nullableUUID(u uuid.UUID) any {
	if u == uuid.Nil {
		return nil
	}
	return u
}
