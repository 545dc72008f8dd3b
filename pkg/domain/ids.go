// Package domain defines typed identifiers and small domain primitives.
//
// IDs are distinct uuid-backed types so the compiler rejects cross-entity
// assignment (an AuditID can never be passed where a PersonID is expected).
// Construct them via the Parse* functions at trust boundaries; direct
// casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "auditdesk/pkg/domain-errors"
)

type (
	// AuditID identifies an audit record.
	AuditID uuid.UUID
	// PersonID identifies a person-directory entry.
	PersonID uuid.UUID
	// CompanyID identifies a company-directory entry.
	CompanyID uuid.UUID
	// EmailID identifies an email-outbox entry.
	EmailID uuid.UUID
)

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be nil")
	}
	return u, nil
}

// ParseAuditID validates and returns an AuditID.
func ParseAuditID(s string) (AuditID, error) {
	u, err := parseUUID(s, "audit")
	return AuditID(u), err
}

// ParsePersonID validates and returns a PersonID.
func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID(s, "person")
	return PersonID(u), err
}

// ParseCompanyID validates and returns a CompanyID.
func ParseCompanyID(s string) (CompanyID, error) {
	u, err := parseUUID(s, "company")
	return CompanyID(u), err
}

// ParseEmailID validates and returns an EmailID.
func ParseEmailID(s string) (EmailID, error) {
	u, err := parseUUID(s, "email")
	return EmailID(u), err
}

func (id AuditID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id PersonID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id CompanyID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EmailID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

func (id AuditID) String() string   { return uuid.UUID(id).String() }
func (id PersonID) String() string  { return uuid.UUID(id).String() }
func (id CompanyID) String() string { return uuid.UUID(id).String() }
func (id EmailID) String() string   { return uuid.UUID(id).String() }

// Text marshalling renders ids as canonical uuid strings in JSON. An empty
// string unmarshals to the nil id rather than erroring, matching the
// tolerant decoding at the document boundary.

func (id AuditID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id PersonID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id CompanyID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id EmailID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

func unmarshalUUID(b []byte) (uuid.UUID, error) {
	if len(b) == 0 {
		return uuid.Nil, nil
	}
	return uuid.Parse(string(b))
}

func (id *AuditID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = AuditID(u)
	return err
}

func (id *PersonID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = PersonID(u)
	return err
}

func (id *CompanyID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = CompanyID(u)
	return err
}

func (id *EmailID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = EmailID(u)
	return err
}

// NewAuditID returns a fresh random AuditID.
func NewAuditID() AuditID { return AuditID(uuid.New()) }

// NewPersonID returns a fresh random PersonID.
func NewPersonID() PersonID { return PersonID(uuid.New()) }

// NewCompanyID returns a fresh random CompanyID.
func NewCompanyID() CompanyID { return CompanyID(uuid.New()) }

// NewEmailID returns a fresh random EmailID.
func NewEmailID() EmailID { return EmailID(uuid.New()) }
