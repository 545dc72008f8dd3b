package main

import (
	"context"

	auditmodels "auditdesk/internal/audit/models"
	directoryservice "auditdesk/internal/directory/service"
)

// peopleAdapter exposes directory search to the audit service as assignment
// person refs, carrying the contact fields the audit domain keeps on a slot.
type peopleAdapter struct {
	directory *directoryservice.Service
}

func (p peopleAdapter) Search(ctx context.Context, query string) ([]auditmodels.PersonRef, error) {
	people, err := p.directory.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	refs := make([]auditmodels.PersonRef, 0, len(people))
	for _, person := range people {
		refs = append(refs, auditmodels.PersonRef{
			ID:            person.ID,
			Name:          person.Name,
			ContactEmail:  person.Email,
			ContactNumber: person.PhoneNumber,
		})
	}
	return refs, nil
}
