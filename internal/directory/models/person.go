package models

import (
	"strings"
	"time"

	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
)

// Person is a directory entry: someone who can be assigned to an audit
// slot. Audits reference people loosely (id plus typed name); the directory
// is the authoritative record behind those references.
type Person struct {
	ID          id.PersonID  `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email,omitempty"`
	PhoneNumber string       `json:"phoneNumber,omitempty"`
	CompanyID   id.CompanyID `json:"companyId,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewPerson validates and constructs a directory entry.
func NewPerson(name, email, phone string, companyID id.CompanyID, now time.Time) (*Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeMissingField, "name is required")
	}
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "email is not a valid address")
	}
	return &Person{
		ID:          id.NewPersonID(),
		Name:        name,
		Email:       email,
		PhoneNumber: strings.TrimSpace(phone),
		CompanyID:   companyID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NormalizedName is the case-folded comparison key used for search and for
// matching free-text audit assignments back to directory entries.
func (p *Person) NormalizedName() string {
	return strings.ToLower(strings.TrimSpace(p.Name))
}
