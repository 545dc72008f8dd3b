package models

import (
	"strings"
	"time"

	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
)

// Company is an audited organization.
type Company struct {
	ID        id.CompanyID `json:"id"`
	Name      string       `json:"name"`
	Address   string       `json:"address,omitempty"`
	Country   string       `json:"country,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NewCompany validates and constructs a company record.
func NewCompany(name, address, country string, now time.Time) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeMissingField, "name is required")
	}
	return &Company{
		ID:        id.NewCompanyID(),
		Name:      name,
		Address:   strings.TrimSpace(address),
		Country:   strings.TrimSpace(country),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
