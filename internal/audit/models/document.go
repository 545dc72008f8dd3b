package models

import (
	"time"

	"auditdesk/internal/audit/rawdoc"
	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
)

// Wire/storage field names. These are the contract external consumers read
// directly, so they follow the historical document shape rather than Go
// naming.
const (
	fieldID                  = "id"
	fieldReference           = "reference"
	fieldIsDraft             = "isDraft"
	fieldCompanyID           = "companyId"
	fieldAuditeeID           = "auditeeId"
	fieldAuditees            = "auditees"
	fieldLeadAuditor         = "leadAuditor"
	fieldLeadAuditorID       = "leadAuditorId"
	fieldSupportAuditors     = "supportAuditors"
	fieldSupportAuditorIDs   = "supportAuditorIds"
	fieldProposedStart       = "proposedStart"
	fieldProposedEnd         = "proposedEnd"
	fieldExpectedStart       = "expectedStart"
	fieldExpectedEnd         = "expectedEnd"
	fieldActualStart         = "actualStart"
	fieldActualEnd           = "actualEnd"
	fieldPurpose             = "purpose"
	fieldScope               = "scope"
	fieldRequestLetterSentAt = "requestLetterSentAt"
	fieldReportLetterSentAt  = "reportLetterSentAt"
	fieldClosureLetterSentAt = "closureLetterSentAt"
	fieldClosureDatetime     = "closureDatetime"
	fieldCreatedAt           = "createdAt"
	fieldUpdatedAt           = "updatedAt"
)

var dateFields = []string{
	fieldProposedStart, fieldProposedEnd,
	fieldExpectedStart, fieldExpectedEnd,
	fieldActualStart, fieldActualEnd,
	fieldRequestLetterSentAt, fieldReportLetterSentAt,
	fieldClosureLetterSentAt, fieldClosureDatetime,
}

// FromDocument builds a typed Audit from a raw document, tolerating the
// historical quirks rawdoc handles. Ids that fail to parse are dropped to
// nil rather than failing the whole record; the display name is what the
// conflict logic needs, and the record must stay readable.
func FromDocument(doc rawdoc.Document) *Audit {
	a := &Audit{IsDraft: doc.Draft()}

	if s, ok := doc.ID(fieldID); ok {
		if parsed, err := id.ParseAuditID(s); err == nil {
			a.ID = parsed
		}
	}
	if s, ok := doc.String(fieldReference); ok {
		a.Reference = s
	}
	if s, ok := doc.ID(fieldCompanyID); ok {
		if parsed, err := id.ParseCompanyID(s); err == nil {
			a.CompanyID = parsed
		}
	}

	for _, nested := range doc.Docs(fieldAuditees) {
		a.Auditees = append(a.Auditees, personRefFromDoc(nested))
	}
	// Legacy single-auditee documents carry only auditeeId.
	if len(a.Auditees) == 0 {
		if s, ok := doc.ID(fieldAuditeeID); ok {
			if parsed, err := id.ParsePersonID(s); err == nil {
				a.Auditees = append(a.Auditees, PersonRef{ID: parsed})
			}
		}
	}

	if nested, ok := doc.Doc(fieldLeadAuditor); ok {
		a.LeadAuditor = personRefFromDoc(nested)
	} else if s, ok := doc.ID(fieldLeadAuditorID); ok {
		if parsed, err := id.ParsePersonID(s); err == nil {
			a.LeadAuditor = PersonRef{ID: parsed}
		}
	}

	if nested := doc.Docs(fieldSupportAuditors); len(nested) > 0 {
		for _, n := range nested {
			a.SupportAuditors = append(a.SupportAuditors, personRefFromDoc(n))
		}
	} else {
		for _, s := range doc.IDs(fieldSupportAuditorIDs) {
			if parsed, err := id.ParsePersonID(s); err == nil {
				a.SupportAuditors = append(a.SupportAuditors, PersonRef{ID: parsed})
			}
		}
	}

	if s, ok := doc.String(fieldPurpose); ok {
		a.Purpose = s
	}
	if s, ok := doc.String(fieldScope); ok {
		a.Scope = s
	}

	a.ProposedStart = docTime(doc, fieldProposedStart)
	a.ProposedEnd = docTime(doc, fieldProposedEnd)
	a.ExpectedStart = docTime(doc, fieldExpectedStart)
	a.ExpectedEnd = docTime(doc, fieldExpectedEnd)
	a.ActualStart = docTime(doc, fieldActualStart)
	a.ActualEnd = docTime(doc, fieldActualEnd)
	a.RequestLetterSentAt = docTime(doc, fieldRequestLetterSentAt)
	a.ReportLetterSentAt = docTime(doc, fieldReportLetterSentAt)
	a.ClosureLetterSentAt = docTime(doc, fieldClosureLetterSentAt)
	a.ClosureDatetime = docTime(doc, fieldClosureDatetime)

	if t, ok := doc.Time(fieldCreatedAt); ok {
		a.CreatedAt = t
	}
	if t, ok := doc.Time(fieldUpdatedAt); ok {
		a.UpdatedAt = t
	}
	return a
}

// Document encodes the audit in canonical form: RFC 3339 dates, the
// canonical isDraft casing, and the singular auditeeId mirror of the first
// auditee. Writing always repairs the historical quirks.
func (a *Audit) Document() rawdoc.Document {
	doc := rawdoc.Document{
		fieldID:        a.ID.String(),
		fieldReference: a.Reference,
		fieldIsDraft:   a.IsDraft,
		fieldCreatedAt: a.CreatedAt.Format(time.RFC3339Nano),
		fieldUpdatedAt: a.UpdatedAt.Format(time.RFC3339Nano),
	}
	if !a.CompanyID.IsNil() {
		doc[fieldCompanyID] = a.CompanyID.String()
	}
	if len(a.Auditees) > 0 {
		auditees := make([]any, 0, len(a.Auditees))
		for _, p := range a.Auditees {
			auditees = append(auditees, personRefToDoc(p))
		}
		doc[fieldAuditees] = auditees
	}
	if primary := a.AuditeeID(); !primary.IsNil() {
		doc[fieldAuditeeID] = primary.String()
	}
	if !a.LeadAuditor.Empty() {
		doc[fieldLeadAuditor] = personRefToDoc(a.LeadAuditor)
		if !a.LeadAuditor.ID.IsNil() {
			doc[fieldLeadAuditorID] = a.LeadAuditor.ID.String()
		}
	}
	if len(a.SupportAuditors) > 0 {
		support := make([]any, 0, len(a.SupportAuditors))
		supportIDs := make([]any, 0, len(a.SupportAuditors))
		for _, p := range a.SupportAuditors {
			support = append(support, personRefToDoc(p))
			if !p.ID.IsNil() {
				supportIDs = append(supportIDs, p.ID.String())
			}
		}
		doc[fieldSupportAuditors] = support
		if len(supportIDs) > 0 {
			doc[fieldSupportAuditorIDs] = supportIDs
		}
	}
	if a.Purpose != "" {
		doc[fieldPurpose] = a.Purpose
	}
	if a.Scope != "" {
		doc[fieldScope] = a.Scope
	}
	putTime(doc, fieldProposedStart, a.ProposedStart)
	putTime(doc, fieldProposedEnd, a.ProposedEnd)
	putTime(doc, fieldExpectedStart, a.ExpectedStart)
	putTime(doc, fieldExpectedEnd, a.ExpectedEnd)
	putTime(doc, fieldActualStart, a.ActualStart)
	putTime(doc, fieldActualEnd, a.ActualEnd)
	putTime(doc, fieldRequestLetterSentAt, a.RequestLetterSentAt)
	putTime(doc, fieldReportLetterSentAt, a.ReportLetterSentAt)
	putTime(doc, fieldClosureLetterSentAt, a.ClosureLetterSentAt)
	putTime(doc, fieldClosureDatetime, a.ClosureDatetime)
	return doc
}

// ApplyPatch replaces fields present in the patch document, matching the
// field-replacement granularity of the original partial update (last write
// wins; no merge). The draft flag is excluded: leaving draft state goes
// through the commit operation, and reverting is never allowed.
func (a *Audit) ApplyPatch(patch rawdoc.Document) error {
	if v, ok := patch.Bool(fieldIsDraft); ok && v && !a.IsDraft {
		return dErrors.New(dErrors.CodeInvariantViolation, "a committed audit cannot revert to draft")
	}
	if v, ok := patch.Bool("isdraft"); ok && v && !a.IsDraft {
		return dErrors.New(dErrors.CodeInvariantViolation, "a committed audit cannot revert to draft")
	}

	if s, ok := patch.String(fieldReference); ok {
		a.Reference = s
	}
	if patch.Has(fieldCompanyID) {
		a.CompanyID = id.CompanyID{}
		if s, ok := patch.ID(fieldCompanyID); ok {
			parsed, err := id.ParseCompanyID(s)
			if err != nil {
				return err
			}
			a.CompanyID = parsed
		}
	}
	if patch.Has(fieldAuditees) {
		a.Auditees = nil
		for _, nested := range patch.Docs(fieldAuditees) {
			a.Auditees = append(a.Auditees, personRefFromDoc(nested))
		}
	}
	if patch.Has(fieldLeadAuditor) {
		a.LeadAuditor = PersonRef{}
		if nested, ok := patch.Doc(fieldLeadAuditor); ok {
			a.LeadAuditor = personRefFromDoc(nested)
		}
	}
	if patch.Has(fieldSupportAuditors) {
		a.SupportAuditors = nil
		for _, nested := range patch.Docs(fieldSupportAuditors) {
			a.SupportAuditors = append(a.SupportAuditors, personRefFromDoc(nested))
		}
	}
	if s, ok := patch.String(fieldPurpose); ok {
		a.Purpose = s
	}
	if s, ok := patch.String(fieldScope); ok {
		a.Scope = s
	}

	for _, field := range dateFields {
		if !patch.Has(field) {
			continue
		}
		var value *time.Time
		if patch[field] != nil {
			t, ok := patch.Time(field)
			if !ok {
				return dErrors.New(dErrors.CodeInvalidInput, field+" is not a valid timestamp")
			}
			value = &t
		}
		a.setDate(field, value)
	}
	return nil
}

func (a *Audit) setDate(field string, value *time.Time) {
	switch field {
	case fieldProposedStart:
		a.ProposedStart = value
	case fieldProposedEnd:
		a.ProposedEnd = value
	case fieldExpectedStart:
		a.ExpectedStart = value
	case fieldExpectedEnd:
		a.ExpectedEnd = value
	case fieldActualStart:
		a.ActualStart = value
	case fieldActualEnd:
		a.ActualEnd = value
	case fieldRequestLetterSentAt:
		a.RequestLetterSentAt = value
	case fieldReportLetterSentAt:
		a.ReportLetterSentAt = value
	case fieldClosureLetterSentAt:
		a.ClosureLetterSentAt = value
	case fieldClosureDatetime:
		a.ClosureDatetime = value
	}
}

func personRefFromDoc(doc rawdoc.Document) PersonRef {
	var p PersonRef
	if s, ok := doc.ID("id"); ok {
		if parsed, err := id.ParsePersonID(s); err == nil {
			p.ID = parsed
		}
	}
	if s, ok := doc.String("name"); ok {
		p.Name = s
	}
	if s, ok := doc.String("contactEmail"); ok {
		p.ContactEmail = s
	}
	if s, ok := doc.String("contactNumber"); ok {
		p.ContactNumber = s
	}
	return p
}

func personRefToDoc(p PersonRef) map[string]any {
	m := map[string]any{"name": p.Name}
	if !p.ID.IsNil() {
		m["id"] = p.ID.String()
	}
	if p.ContactEmail != "" {
		m["contactEmail"] = p.ContactEmail
	}
	if p.ContactNumber != "" {
		m["contactNumber"] = p.ContactNumber
	}
	return m
}

func docTime(doc rawdoc.Document, field string) *time.Time {
	if t, ok := doc.Time(field); ok {
		return &t
	}
	return nil
}

func putTime(doc rawdoc.Document, field string, t *time.Time) {
	if t != nil {
		doc[field] = t.Format(time.RFC3339Nano)
	}
}
