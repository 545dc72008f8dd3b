package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"auditdesk/internal/outbox/models"
	id "auditdesk/pkg/domain"
	"auditdesk/pkg/platform/sentinel"
)

// InMemory is the development and test implementation of Store.
type InMemory struct {
	mu     sync.Mutex
	emails map[id.EmailID]*models.Email
	keys   map[string]id.EmailID
}

func NewInMemory() *InMemory {
	return &InMemory{
		emails: make(map[id.EmailID]*models.Email),
		keys:   make(map[string]id.EmailID),
	}
}

func (s *InMemory) Enqueue(ctx context.Context, email *models.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if email.DedupeKey != "" {
		if _, dup := s.keys[email.DedupeKey]; dup {
			return nil
		}
		s.keys[email.DedupeKey] = email.ID
	}
	cp := *email
	s.emails[email.ID] = &cp
	return nil
}

func (s *InMemory) ListQueued(ctx context.Context, limit int) ([]*models.Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Email, 0)
	for _, email := range s.emails {
		if email.Status == models.StatusQueued {
			cp := *email
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemory) MarkSent(ctx context.Context, emailID id.EmailID) error {
	return s.transition(emailID, func(email *models.Email) {
		email.Status = models.StatusSent
		email.LastError = ""
	})
}

func (s *InMemory) MarkFailed(ctx context.Context, emailID id.EmailID, reason string) error {
	return s.transition(emailID, func(email *models.Email) {
		email.Retries++
		email.LastError = reason
		if email.Exhausted() {
			email.Status = models.StatusFailed
		}
	})
}

func (s *InMemory) MarkDelivered(ctx context.Context, emailID id.EmailID) error {
	return s.transition(emailID, func(email *models.Email) {
		email.Status = models.StatusDelivered
	})
}

func (s *InMemory) transition(emailID id.EmailID, apply func(*models.Email)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.emails[emailID]
	if !ok {
		return sentinel.ErrNotFound
	}
	apply(email)
	email.UpdatedAt = time.Now().UTC()
	return nil
}

// Get is a test helper for asserting on terminal state.
func (s *InMemory) Get(emailID id.EmailID) (*models.Email, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.emails[emailID]
	if !ok {
		return nil, false
	}
	cp := *email
	return &cp, true
}
