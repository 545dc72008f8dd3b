//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"auditdesk/internal/directory/cache"
	"auditdesk/internal/directory/models"
	"auditdesk/internal/directory/store"
	id "auditdesk/pkg/domain"
	"auditdesk/internal/platform/logger"
	"auditdesk/pkg/testutil/containers"
)

type DirectoryCacheSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	ctx    context.Context
	mem    *countingStore
	cached *cache.Cached
}

// countingStore tracks how many searches reach the backing store.
type countingStore struct {
	*store.InMemory
	searches int
}

func (c *countingStore) Search(ctx context.Context, query string) ([]*models.Person, error) {
	c.searches++
	return c.InMemory.Search(ctx, query)
}

func TestDirectoryCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(DirectoryCacheSuite))
}

func (s *DirectoryCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.ctx = context.Background()
}

func (s *DirectoryCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
	s.mem = &countingStore{InMemory: store.NewInMemory()}
	s.cached = cache.New(s.mem, s.redis.Client, time.Minute, logger.New())
}

func (s *DirectoryCacheSuite) person(name string) *models.Person {
	p, err := models.NewPerson(name, "", "", id.CompanyID{}, time.Now())
	s.Require().NoError(err)
	return p
}

func (s *DirectoryCacheSuite) TestSecondSearchIsServedFromCache() {
	s.Require().NoError(s.cached.Create(s.ctx, s.person("Jane Doe")))

	first, err := s.cached.Search(s.ctx, "jane")
	s.Require().NoError(err)
	s.Require().Len(first, 1)

	second, err := s.cached.Search(s.ctx, "JANE ")
	s.Require().NoError(err)
	s.Require().Len(second, 1)
	s.Equal("Jane Doe", second[0].Name)

	s.Equal(1, s.mem.searches)
}

func (s *DirectoryCacheSuite) TestCreateInvalidatesCachedResults() {
	s.Require().NoError(s.cached.Create(s.ctx, s.person("Jane Doe")))

	first, err := s.cached.Search(s.ctx, "jane")
	s.Require().NoError(err)
	s.Require().Len(first, 1)

	s.Require().NoError(s.cached.Create(s.ctx, s.person("Jane Roe")))

	second, err := s.cached.Search(s.ctx, "jane")
	s.Require().NoError(err)
	s.Len(second, 2)
}
