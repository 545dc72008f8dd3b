package store

import (
	"context"

	"auditdesk/internal/company/models"
	id "auditdesk/pkg/domain"
)

type Store interface {
	Create(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error)
	List(ctx context.Context) ([]*models.Company, error)
}
