//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"auditdesk/internal/audit/models"
	"auditdesk/internal/audit/store"
	id "auditdesk/pkg/domain"
	"auditdesk/pkg/platform/sentinel"
	"auditdesk/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(store.Migrate(context.Background(), s.postgres.DB))
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audits"))
}

func (s *PostgresStoreSuite) newAudit(reference string) *models.Audit {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Audit{
		ID:        id.NewAuditID(),
		Reference: reference,
		IsDraft:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	audit := s.newAudit("AUD-PG-1")
	expected := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	audit.ExpectedStart = &expected
	audit.LeadAuditor = models.PersonRef{ID: id.NewPersonID(), Name: "John Smith"}

	s.Require().NoError(s.store.Create(ctx, audit))

	found, err := s.store.FindByID(ctx, audit.ID)
	s.Require().NoError(err)
	s.Equal("AUD-PG-1", found.Reference)
	s.Require().NotNil(found.ExpectedStart)
	s.True(found.ExpectedStart.Equal(expected))
	s.Equal(audit.LeadAuditor.ID, found.LeadAuditor.ID)
}

func (s *PostgresStoreSuite) TestLegacyDocumentReadRepair() {
	ctx := context.Background()
	rowID := uuid.New()
	// A historical document: lowercased draft flag and a wrapped date.
	legacy := `{"reference":"AUD-LEGACY","isdraft":true,"expectedStart":{"$date":"2026-01-01T09:00:00Z"}}`
	_, err := s.postgres.DB.ExecContext(ctx,
		`INSERT INTO audits (id, doc, is_draft, created_at, updated_at) VALUES ($1, $2, TRUE, now(), now())`,
		rowID, legacy)
	s.Require().NoError(err)

	found, err := s.store.FindByID(ctx, id.AuditID(rowID))
	s.Require().NoError(err)
	s.True(found.IsDraft)
	s.Require().NotNil(found.ExpectedStart)
	s.True(found.ExpectedStart.Equal(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)))

	// Writing back repairs the document to canonical casing.
	s.Require().NoError(s.store.Update(ctx, found))
	var draftFlag bool
	err = s.postgres.DB.QueryRowContext(ctx,
		`SELECT (doc ? 'isDraft') AND NOT (doc ? 'isdraft') FROM audits WHERE id = $1`, rowID).Scan(&draftFlag)
	s.Require().NoError(err)
	s.True(draftFlag)
}

func (s *PostgresStoreSuite) TestUpdateDeleteNotFound() {
	ctx := context.Background()
	ghost := s.newAudit("AUD-GHOST")
	s.Require().ErrorIs(s.store.Update(ctx, ghost), sentinel.ErrNotFound)
	s.Require().ErrorIs(s.store.Delete(ctx, ghost.ID), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListOrdersByCreation() {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, ref := range []string{"AUD-1", "AUD-2", "AUD-3"} {
		audit := s.newAudit(ref)
		audit.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		s.Require().NoError(s.store.Create(ctx, audit))
	}

	all, err := s.store.List(ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("AUD-1", all[0].Reference)
	s.Equal("AUD-3", all[2].Reference)
}
