// Package seed loads a small demo dataset: a handful of companies and
// auditors, plus audits spread across the current week so the calendar has
// something to show on first run.
package seed

import (
	"context"
	"fmt"
	"time"

	"auditdesk/internal/audit/rawdoc"
	auditservice "auditdesk/internal/audit/service"
	companyservice "auditdesk/internal/company/service"
	directoryservice "auditdesk/internal/directory/service"
	id "auditdesk/pkg/domain"
)

// Demo populates the stores through the services so every invariant and
// side effect applies to seeded data too.
func Demo(ctx context.Context, audits *auditservice.Service, directory *directoryservice.Service, companies *companyservice.Service) error {
	companyIDs := make([]id.CompanyID, 0, 3)
	for _, spec := range []struct{ name, address, country string }{
		{"Acme Pharma", "1 Main Street, Copenhagen", "DK"},
		{"Borealis Biotech", "22 Fjord Road, Oslo", "NO"},
		{"Cimber Labs", "5 Harbour Lane, Malmo", "SE"},
	} {
		company, err := companies.Create(ctx, spec.name, spec.address, spec.country)
		if err != nil {
			return fmt.Errorf("seed company %q: %w", spec.name, err)
		}
		companyIDs = append(companyIDs, company.ID)
	}

	personIDs := make(map[string]id.PersonID)
	personEmails := make(map[string]string)
	for i, spec := range []struct{ name, email string }{
		{"Jane Doe", "jane.doe@auditdesk.test"},
		{"John Roe", "john.roe@auditdesk.test"},
		{"Janet Smith", "janet.smith@auditdesk.test"},
		{"Niels Larsen", "niels.larsen@auditdesk.test"},
	} {
		person, err := directory.Create(ctx, spec.name, spec.email, "", companyIDs[i%len(companyIDs)])
		if err != nil {
			return fmt.Errorf("seed person %q: %w", spec.name, err)
		}
		personIDs[spec.name] = person.ID
		personEmails[spec.name] = spec.email
	}

	personDoc := func(name string) map[string]any {
		return map[string]any{
			"id":           personIDs[name].String(),
			"name":         name,
			"contactEmail": personEmails[name],
		}
	}

	// One committed audit per weekday of the current week, plus a couple of
	// drafts in various states of completeness.
	monday := startOfWeek(time.Now().UTC(), time.Monday)
	scheduled := []struct {
		day                         int
		company                     id.CompanyID
		lead, auditee, support, ref string
	}{
		{0, companyIDs[0], "Jane Doe", "John Roe", "Janet Smith", "AUD-SEED-001"},
		{2, companyIDs[1], "Janet Smith", "Niels Larsen", "", "AUD-SEED-002"},
		{4, companyIDs[2], "John Roe", "Jane Doe", "", "AUD-SEED-003"},
	}
	for _, spec := range scheduled {
		doc := rawdoc.Document{
			"reference":     spec.ref,
			"companyId":     spec.company.String(),
			"leadAuditor":   personDoc(spec.lead),
			"auditees":      []any{personDoc(spec.auditee)},
			"expectedStart": monday.AddDate(0, 0, spec.day).Add(9 * time.Hour).Format(time.RFC3339),
			"purpose":       "Routine GMP surveillance audit",
		}
		if spec.support != "" {
			doc["supportAuditors"] = []any{personDoc(spec.support)}
		}
		created, err := audits.Create(ctx, doc)
		if err != nil {
			return fmt.Errorf("seed audit %q: %w", spec.ref, err)
		}
		if _, err := audits.Commit(ctx, created.ID); err != nil {
			return fmt.Errorf("commit seeded audit %q: %w", spec.ref, err)
		}
	}

	drafts := []rawdoc.Document{
		{
			"reference": "AUD-SEED-004",
			"companyId": companyIDs[0].String(),
			"purpose":   "Supplier qualification",
		},
		{
			"reference":     "AUD-SEED-005",
			"leadAuditor":   personDoc("Jane Doe"),
			"expectedStart": monday.AddDate(0, 0, 14).Add(9 * time.Hour).Format(time.RFC3339),
		},
	}
	for _, doc := range drafts {
		if _, err := audits.Create(ctx, doc); err != nil {
			return fmt.Errorf("seed draft: %w", err)
		}
	}
	return nil
}

func startOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	back := (int(t.Weekday()) - int(weekStart) + 7) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, t.Location())
}
