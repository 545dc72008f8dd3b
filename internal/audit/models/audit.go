package models

import (
	"time"

	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
)

// PersonRef is a person slot on an audit: an optional directory id plus the
// display name as typed. The id stays nil while the name is free text that
// has not been matched against the directory.
type PersonRef struct {
	ID            id.PersonID `json:"id,omitempty"`
	Name          string      `json:"name"`
	ContactEmail  string      `json:"contactEmail,omitempty"`
	ContactNumber string      `json:"contactNumber,omitempty"`
}

// Empty reports whether the slot holds neither an id nor a name.
func (p PersonRef) Empty() bool {
	return p.ID.IsNil() && p.Name == ""
}

// Stage is the inferred lifecycle stage of an audit. It is computed from
// field presence on every read and never stored: external consumers key off
// the raw date fields and the draft flag, so persisting a status enum would
// fork the source of truth.
type Stage string

const (
	StageDraft      Stage = "DRAFT"
	StageScheduled  Stage = "SCHEDULED"
	StageInProgress Stage = "IN_PROGRESS"
	StageCompleted  Stage = "COMPLETED"
)

// Audit is the aggregate the scheduler reasons about.
//
// Invariants, enforced at commit time (drafts may violate all of them while
// a human iterates on the form):
//   - no person holds both an auditee role and an auditor role
//   - the lead auditor is not also a support auditor
//   - support auditors contain no duplicates
//   - a committed audit has a company, a lead auditor, and at least one auditee
//
// The draft flag transitions true→false exactly once; it never reverts.
type Audit struct {
	ID        id.AuditID   `json:"id"`
	Reference string       `json:"reference"`
	IsDraft   bool         `json:"isDraft"`
	CompanyID id.CompanyID `json:"companyId,omitempty"`

	Auditees        []PersonRef `json:"auditees,omitempty"`
	LeadAuditor     PersonRef   `json:"leadAuditor,omitzero"`
	SupportAuditors []PersonRef `json:"supportAuditors,omitempty"`

	ProposedStart *time.Time `json:"proposedStart,omitempty"`
	ProposedEnd   *time.Time `json:"proposedEnd,omitempty"`
	ExpectedStart *time.Time `json:"expectedStart,omitempty"`
	ExpectedEnd   *time.Time `json:"expectedEnd,omitempty"`
	ActualStart   *time.Time `json:"actualStart,omitempty"`
	ActualEnd     *time.Time `json:"actualEnd,omitempty"`

	Purpose string `json:"purpose,omitempty"`
	Scope   string `json:"scope,omitempty"`

	RequestLetterSentAt *time.Time `json:"requestLetterSentAt,omitempty"`
	ReportLetterSentAt  *time.Time `json:"reportLetterSentAt,omitempty"`
	ClosureLetterSentAt *time.Time `json:"closureLetterSentAt,omitempty"`
	ClosureDatetime     *time.Time `json:"closureDatetime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuditeeID returns the first auditee's id, mirroring the legacy singular
// field consumed by single-auditee readers.
func (a *Audit) AuditeeID() id.PersonID {
	for _, auditee := range a.Auditees {
		if !auditee.ID.IsNil() {
			return auditee.ID
		}
	}
	return id.PersonID{}
}

// Stage infers the lifecycle stage from field presence.
func (a *Audit) Stage() Stage {
	if a.IsDraft {
		return StageDraft
	}
	if a.ActualEnd != nil {
		return StageCompleted
	}
	if a.ActualStart != nil {
		return StageInProgress
	}
	return StageScheduled
}

// ReferenceInstant selects the single timestamp used to place the audit on
// a calendar: actualStart wins, then expectedStart, then (only when drafts
// are acceptable in the view) createdAt. Audits with none report ok=false
// and are excluded from time-ordered views rather than defaulted.
func (a *Audit) ReferenceInstant(includeDrafts bool) (time.Time, bool) {
	if a.ActualStart != nil {
		return *a.ActualStart, true
	}
	if a.ExpectedStart != nil {
		return *a.ExpectedStart, true
	}
	if includeDrafts && !a.CreatedAt.IsZero() {
		return a.CreatedAt, true
	}
	return time.Time{}, false
}

// CanCommit checks the required fields for leaving draft state.
// Role invariants are validated separately by schedule.ValidateAssignment.
func (a *Audit) CanCommit() error {
	if !a.IsDraft {
		return dErrors.New(dErrors.CodeInvariantViolation, "audit is already committed to the schedule")
	}
	if a.CompanyID.IsNil() {
		return dErrors.New(dErrors.CodeMissingField, "companyId is required to commit")
	}
	if a.LeadAuditor.Empty() || a.LeadAuditor.ID.IsNil() {
		return dErrors.New(dErrors.CodeMissingField, "leadAuditorId is required to commit")
	}
	if len(a.Auditees) == 0 || a.Auditees[0].Empty() {
		return dErrors.New(dErrors.CodeMissingField, "at least one auditee is required to commit")
	}
	return nil
}

// ApplyCommit transitions the audit out of draft state. Call CanCommit
// first; the transition is one-way.
func (a *Audit) ApplyCommit(now time.Time) {
	a.IsDraft = false
	a.UpdatedAt = now
}

// CanDelete reports whether deletion is permitted. Only drafts may be
// deleted through the service; committed audits are part of the record.
func (a *Audit) CanDelete() error {
	if !a.IsDraft {
		return dErrors.New(dErrors.CodeInvariantViolation, "only draft audits can be deleted")
	}
	return nil
}

// Clone returns a deep copy so stores can hand out audits without aliasing
// their internal state.
func (a *Audit) Clone() *Audit {
	cp := *a
	cp.Auditees = append([]PersonRef(nil), a.Auditees...)
	cp.SupportAuditors = append([]PersonRef(nil), a.SupportAuditors...)
	cp.ProposedStart = cloneTime(a.ProposedStart)
	cp.ProposedEnd = cloneTime(a.ProposedEnd)
	cp.ExpectedStart = cloneTime(a.ExpectedStart)
	cp.ExpectedEnd = cloneTime(a.ExpectedEnd)
	cp.ActualStart = cloneTime(a.ActualStart)
	cp.ActualEnd = cloneTime(a.ActualEnd)
	cp.RequestLetterSentAt = cloneTime(a.RequestLetterSentAt)
	cp.ReportLetterSentAt = cloneTime(a.ReportLetterSentAt)
	cp.ClosureLetterSentAt = cloneTime(a.ClosureLetterSentAt)
	cp.ClosureDatetime = cloneTime(a.ClosureDatetime)
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
