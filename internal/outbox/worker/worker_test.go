package worker_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditdesk/internal/outbox/models"
	"auditdesk/internal/outbox/store"
	"auditdesk/internal/outbox/worker"
)

type fakePublisher struct {
	published []*models.Email
	failFor   map[string]error
}

func (f *fakePublisher) Publish(_ context.Context, email *models.Email) error {
	if err, ok := f.failFor[email.To]; ok {
		return err
	}
	f.published = append(f.published, email)
	return nil
}

func newEmail(to string, created time.Time) *models.Email {
	return models.NewEmail(to, "subject", "body", models.TypeRequestLetter, created)
}

func TestDrain_PublishesOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := store.NewInMemory()
	pub := &fakePublisher{}
	w := worker.New(s, pub, time.Second, worker.WithLogger(slog.New(slog.DiscardHandler)))

	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	second := newEmail("second@acme.test", base.Add(time.Minute))
	first := newEmail("first@acme.test", base)
	require.NoError(t, s.Enqueue(ctx, second))
	require.NoError(t, s.Enqueue(ctx, first))

	require.NoError(t, w.Drain(ctx))

	require.Len(t, pub.published, 2)
	assert.Equal(t, "first@acme.test", pub.published[0].To)

	sent, ok := s.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusSent, sent.Status)

	// A second pass finds nothing queued.
	pub.published = nil
	require.NoError(t, w.Drain(ctx))
	assert.Empty(t, pub.published)
}

func TestDrain_FailureBurnsOneRetry(t *testing.T) {
	ctx := context.Background()
	s := store.NewInMemory()
	pub := &fakePublisher{failFor: map[string]error{"down@acme.test": errors.New("broker unavailable")}}
	w := worker.New(s, pub, time.Second, worker.WithLogger(slog.New(slog.DiscardHandler)))

	email := newEmail("down@acme.test", time.Now())
	require.NoError(t, s.Enqueue(ctx, email))

	require.NoError(t, w.Drain(ctx))

	failed, ok := s.Get(email.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusQueued, failed.Status)
	assert.Equal(t, 1, failed.Retries)
	assert.Equal(t, "broker unavailable", failed.LastError)
}

func TestDrain_ExhaustedRetriesParkAsFailed(t *testing.T) {
	ctx := context.Background()
	s := store.NewInMemory()
	pub := &fakePublisher{failFor: map[string]error{"down@acme.test": errors.New("broker unavailable")}}
	w := worker.New(s, pub, time.Second, worker.WithLogger(slog.New(slog.DiscardHandler)))

	email := newEmail("down@acme.test", time.Now())
	require.NoError(t, s.Enqueue(ctx, email))

	for i := 0; i < models.DefaultMaxRetries; i++ {
		require.NoError(t, w.Drain(ctx))
	}

	failed, ok := s.Get(email.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusFailed, failed.Status)
	assert.Equal(t, models.DefaultMaxRetries, failed.Retries)

	// Parked emails leave the queue.
	queued, err := s.ListQueued(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, queued)
}

func TestEnqueue_DedupeKeyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewInMemory()

	first := newEmail("jane@acme.test", time.Now())
	first.DedupeKey = "request-letter:audit-1"
	dup := newEmail("jane@acme.test", time.Now())
	dup.DedupeKey = "request-letter:audit-1"

	require.NoError(t, s.Enqueue(ctx, first))
	require.NoError(t, s.Enqueue(ctx, dup))

	queued, err := s.ListQueued(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, queued, 1)
}
