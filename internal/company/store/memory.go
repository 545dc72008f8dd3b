package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"auditdesk/internal/company/models"
	id "auditdesk/pkg/domain"
	"auditdesk/pkg/platform/sentinel"
)

// InMemory is the development and test implementation of Store.
type InMemory struct {
	mu        sync.RWMutex
	companies map[id.CompanyID]*models.Company
}

func NewInMemory() *InMemory {
	return &InMemory{companies: make(map[id.CompanyID]*models.Company)}
}

func (s *InMemory) Create(ctx context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.companies[company.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *company
	s.companies[company.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	company, ok := s.companies[companyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *company
	return &cp, nil
}

func (s *InMemory) List(ctx context.Context) ([]*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Company, 0, len(s.companies))
	for _, company := range s.companies {
		cp := *company
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}
