// Package cache wraps the directory store with a Redis read-through cache
// for search results. Directory search backs the assignment autocomplete,
// which fires on keystrokes; the underlying table changes rarely.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"auditdesk/internal/directory/models"
	"auditdesk/internal/directory/store"
	id "auditdesk/pkg/domain"
)

const (
	searchKeyPrefix = "directory:search:"
	generationKey   = "directory:search:gen"
)

// Cached decorates a directory store with cached search. Writes bump a
// generation counter baked into every search key, so a create invalidates
// all cached result sets at once; stale generations age out by TTL.
type Cached struct {
	store  store.Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(s store.Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{store: s, client: client, ttl: ttl, logger: logger}
}

func (c *Cached) Create(ctx context.Context, person *models.Person) error {
	if err := c.store.Create(ctx, person); err != nil {
		return err
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to bump directory cache generation", "error", err)
	}
	return nil
}

func (c *Cached) FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	return c.store.FindByID(ctx, personID)
}

// Search serves from Redis when possible. Cache failures are logged and
// degrade to the store; search must keep working with Redis down.
func (c *Cached) Search(ctx context.Context, query string) ([]*models.Person, error) {
	key, ok := c.searchKey(ctx, query)
	if ok {
		raw, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			var people []*models.Person
			if err := json.Unmarshal(raw, &people); err == nil {
				return people, nil
			}
			// Unreadable entry; fall through and overwrite it.
		} else if err != redis.Nil {
			c.logger.WarnContext(ctx, "directory cache read failed", "error", err)
		}
	}

	people, err := c.store.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if ok {
		if raw, err := json.Marshal(people); err == nil {
			if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				c.logger.WarnContext(ctx, "directory cache write failed", "error", err)
			}
		}
	}
	return people, nil
}

func (c *Cached) searchKey(ctx context.Context, query string) (string, bool) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && err != redis.Nil {
		return "", false
	}
	norm := strings.ToLower(strings.TrimSpace(query))
	return fmt.Sprintf("%s%d:%s", searchKeyPrefix, gen, norm), true
}
