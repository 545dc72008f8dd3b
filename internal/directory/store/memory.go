package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"auditdesk/internal/directory/models"
	id "auditdesk/pkg/domain"
	"auditdesk/pkg/platform/sentinel"
)

// InMemory is the development and test implementation of Store.
type InMemory struct {
	mu     sync.RWMutex
	people map[id.PersonID]*models.Person
}

func NewInMemory() *InMemory {
	return &InMemory{people: make(map[id.PersonID]*models.Person)}
}

func (s *InMemory) Create(ctx context.Context, person *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.people[person.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *person
	s.people[person.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	person, ok := s.people[personID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *person
	return &cp, nil
}

func (s *InMemory) Search(ctx context.Context, query string) ([]*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(query))
	out := make([]*models.Person, 0)
	for _, person := range s.people {
		if key != "" && !strings.Contains(person.NormalizedName(), key) {
			continue
		}
		cp := *person
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NormalizedName() < out[j].NormalizedName()
	})
	return out, nil
}
