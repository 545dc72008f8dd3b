package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditdesk/internal/directory/service"
	"auditdesk/internal/directory/store"
	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
	"auditdesk/pkg/requestcontext"
)

func ctxAt(now time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), now)
}

func TestCreate_Validates(t *testing.T) {
	svc := service.New(store.NewInMemory())
	ctx := ctxAt(time.Now())

	_, err := svc.Create(ctx, "   ", "", "", id.CompanyID{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField))

	_, err = svc.Create(ctx, "Jane Doe", "not-an-email", "", id.CompanyID{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestCreate_TrimsAndStamps(t *testing.T) {
	svc := service.New(store.NewInMemory())
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	person, err := svc.Create(ctxAt(now), "  Jane Doe ", "jane@acme.test", "+45 1234", id.CompanyID{})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", person.Name)
	assert.True(t, person.CreatedAt.Equal(now))
	assert.False(t, person.ID.IsNil())

	found, err := svc.Get(context.Background(), person.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@acme.test", found.Email)
}

func TestGet_NotFound(t *testing.T) {
	svc := service.New(store.NewInMemory())

	_, err := svc.Get(context.Background(), id.NewPersonID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestSearch_NormalizedSubstring(t *testing.T) {
	svc := service.New(store.NewInMemory())
	ctx := ctxAt(time.Now())

	for _, name := range []string{"Jane Doe", "John Roe", "Janet Smith"} {
		_, err := svc.Create(ctx, name, "", "", id.CompanyID{})
		require.NoError(t, err)
	}

	people, err := svc.Search(context.Background(), "  JANE")
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Jane Doe", people[0].Name)
	assert.Equal(t, "Janet Smith", people[1].Name)

	all, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
