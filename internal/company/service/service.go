package service

import (
	"context"
	"errors"
	"log/slog"

	"auditdesk/internal/company/models"
	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
	"auditdesk/pkg/platform/sentinel"
	"auditdesk/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error)
	List(ctx context.Context) ([]*models.Company, error)
}

// Service manages the company registry.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, name, address, country string) (*models.Company, error) {
	company, err := models.NewCompany(name, address, country, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, company); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "company already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create company")
	}
	s.logger.InfoContext(ctx, "company created", "company_id", company.ID, "name", company.Name)
	return company, nil
}

func (s *Service) Get(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	company, err := s.store.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "company not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load company")
	}
	return company, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Company, error) {
	companies, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list companies")
	}
	return companies, nil
}

// Name resolves a company's display name for calendar rows. Unknown ids
// resolve to the empty string, not an error.
func (s *Service) Name(ctx context.Context, companyID id.CompanyID) (string, error) {
	company, err := s.store.FindByID(ctx, companyID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load company")
	}
	return company.Name, nil
}
