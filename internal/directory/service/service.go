package service

import (
	"context"
	"errors"
	"log/slog"

	"auditdesk/internal/directory/models"
	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
	"auditdesk/pkg/platform/sentinel"
	"auditdesk/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, person *models.Person) error
	FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error)
	Search(ctx context.Context, query string) ([]*models.Person, error)
}

// Service manages the person directory.
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

// Create registers a new directory entry.
func (s *Service) Create(ctx context.Context, name, email, phone string, companyID id.CompanyID) (*models.Person, error) {
	person, err := models.NewPerson(name, email, phone, companyID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, person); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "person already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create person")
	}
	s.logger.InfoContext(ctx, "person created", "person_id", person.ID, "name", person.Name)
	return person, nil
}

// Get loads a single directory entry.
func (s *Service) Get(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	person, err := s.store.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
	}
	return person, nil
}

// Search matches people by normalized substring of their name. An empty
// query lists the whole directory.
func (s *Service) Search(ctx context.Context, query string) ([]*models.Person, error) {
	people, err := s.store.Search(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search directory")
	}
	return people, nil
}
