package store

import (
	"context"

	"auditdesk/internal/audit/models"
	id "auditdesk/pkg/domain"
)

// Store persists audit documents. Implementations return sentinel errors
// from pkg/platform/sentinel; services translate them into domain errors.
//
// There is no version check on Update: concurrent edits are last-write-wins
// at whole-document granularity, matching the upstream partial-update model.
type Store interface {
	Create(ctx context.Context, audit *models.Audit) error
	FindByID(ctx context.Context, auditID id.AuditID) (*models.Audit, error)
	Update(ctx context.Context, audit *models.Audit) error
	Delete(ctx context.Context, auditID id.AuditID) error
	List(ctx context.Context, limit int) ([]*models.Audit, error)
}
