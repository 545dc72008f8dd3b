package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"auditdesk/internal/audit/models"
	id "auditdesk/pkg/domain"
	"auditdesk/pkg/platform/sentinel"
)

type AuditStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *AuditStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestAuditStoreSuite(t *testing.T) {
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) newAudit(reference string, createdAt time.Time) *models.Audit {
	return &models.Audit{
		ID:        id.NewAuditID(),
		Reference: reference,
		IsDraft:   true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func (s *AuditStoreSuite) TestCreateAndFind() {
	audit := s.newAudit("AUD-1", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, audit))

	found, err := s.store.FindByID(s.ctx, audit.ID)
	s.Require().NoError(err)
	s.Equal("AUD-1", found.Reference)

	s.Run("duplicate id conflicts", func() {
		s.Require().ErrorIs(s.store.Create(s.ctx, audit), sentinel.ErrConflict)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.store.FindByID(s.ctx, id.NewAuditID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *AuditStoreSuite) TestStoreDoesNotAliasCallerState() {
	audit := s.newAudit("AUD-1", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, audit))

	audit.Reference = "mutated after store"
	found, err := s.store.FindByID(s.ctx, audit.ID)
	s.Require().NoError(err)
	s.Equal("AUD-1", found.Reference)

	found.Reference = "mutated after read"
	again, err := s.store.FindByID(s.ctx, audit.ID)
	s.Require().NoError(err)
	s.Equal("AUD-1", again.Reference)
}

func (s *AuditStoreSuite) TestUpdate() {
	audit := s.newAudit("AUD-1", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, audit))

	audit.Reference = "AUD-1-REV2"
	s.Require().NoError(s.store.Update(s.ctx, audit))

	found, err := s.store.FindByID(s.ctx, audit.ID)
	s.Require().NoError(err)
	s.Equal("AUD-1-REV2", found.Reference)

	s.Run("unknown audit is not found", func() {
		ghost := s.newAudit("AUD-X", time.Now())
		s.Require().ErrorIs(s.store.Update(s.ctx, ghost), sentinel.ErrNotFound)
	})
}

func (s *AuditStoreSuite) TestDelete() {
	audit := s.newAudit("AUD-1", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, audit))
	s.Require().NoError(s.store.Delete(s.ctx, audit.ID))

	_, err := s.store.FindByID(s.ctx, audit.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	s.Require().ErrorIs(s.store.Delete(s.ctx, audit.ID), sentinel.ErrNotFound)
}

func (s *AuditStoreSuite) TestListOrderAndLimit() {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, ref := range []string{"AUD-1", "AUD-2", "AUD-3"} {
		s.Require().NoError(s.store.Create(s.ctx, s.newAudit(ref, base.Add(time.Duration(i)*time.Hour))))
	}

	all, err := s.store.List(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("AUD-1", all[0].Reference)
	s.Equal("AUD-3", all[2].Reference)

	limited, err := s.store.List(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(limited, 2)
}
