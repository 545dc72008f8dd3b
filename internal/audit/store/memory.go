package store

import (
	"context"
	"sort"
	"sync"

	"auditdesk/internal/audit/models"
	id "auditdesk/pkg/domain"
	"auditdesk/pkg/platform/sentinel"
)

// InMemory is the development and test implementation of Store.
type InMemory struct {
	mu     sync.RWMutex
	audits map[id.AuditID]*models.Audit
	order  []id.AuditID
}

func NewInMemory() *InMemory {
	return &InMemory{audits: make(map[id.AuditID]*models.Audit)}
}

func (s *InMemory) Create(ctx context.Context, audit *models.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.audits[audit.ID]; exists {
		return sentinel.ErrConflict
	}
	s.audits[audit.ID] = audit.Clone()
	s.order = append(s.order, audit.ID)
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, auditID id.AuditID) (*models.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	audit, ok := s.audits[auditID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return audit.Clone(), nil
}

func (s *InMemory) Update(ctx context.Context, audit *models.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.audits[audit.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.audits[audit.ID] = audit.Clone()
	return nil
}

func (s *InMemory) Delete(ctx context.Context, auditID id.AuditID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.audits[auditID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.audits, auditID)
	for i, existing := range s.order {
		if existing == auditID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns audits in insertion order; the calendar projector relies on
// a stable input order for tie-breaking.
func (s *InMemory) List(ctx context.Context, limit int) ([]*models.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]id.AuditID, len(s.order))
	copy(ids, s.order)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]*models.Audit, 0, len(ids))
	for _, auditID := range ids {
		if audit, ok := s.audits[auditID]; ok {
			out = append(out, audit.Clone())
		}
	}
	// Insertion order can degrade after deletes; re-assert creation order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
