package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditdesk/internal/company/service"
	"auditdesk/internal/company/store"
	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
	"auditdesk/pkg/requestcontext"
)

func TestCreateAndGet(t *testing.T) {
	svc := service.New(store.NewInMemory())
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	company, err := svc.Create(ctx, "  Acme Pharma ", "1 Main St", "DK")
	require.NoError(t, err)
	assert.Equal(t, "Acme Pharma", company.Name)
	assert.True(t, company.CreatedAt.Equal(now))

	found, err := svc.Get(context.Background(), company.ID)
	require.NoError(t, err)
	assert.Equal(t, "DK", found.Country)
}

func TestCreate_RequiresName(t *testing.T) {
	svc := service.New(store.NewInMemory())

	_, err := svc.Create(context.Background(), "  ", "", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField))
}

func TestName_UnknownResolvesEmpty(t *testing.T) {
	svc := service.New(store.NewInMemory())

	name, err := svc.Name(context.Background(), id.NewCompanyID())
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestList_SortedByName(t *testing.T) {
	svc := service.New(store.NewInMemory())
	ctx := context.Background()

	for _, name := range []string{"Zeta Labs", "acme pharma", "Borealis"} {
		_, err := svc.Create(ctx, name, "", "")
		require.NoError(t, err)
	}

	companies, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 3)
	assert.Equal(t, "acme pharma", companies[0].Name)
	assert.Equal(t, "Borealis", companies[1].Name)
	assert.Equal(t, "Zeta Labs", companies[2].Name)
}
