// Package store persists directory entries. Both implementations return
// sentinel errors; the service translates them into domain errors.
package store

import (
	"context"

	"auditdesk/internal/directory/models"
	id "auditdesk/pkg/domain"
)

type Store interface {
	Create(ctx context.Context, person *models.Person) error
	FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error)
	// Search matches the normalized query as a substring of the normalized
	// name. An empty query returns everyone.
	Search(ctx context.Context, query string) ([]*models.Person, error)
}
