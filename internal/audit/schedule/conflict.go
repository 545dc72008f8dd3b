// Package schedule holds the scheduling core: role-conflict checking,
// lifecycle classification, and the week calendar projection. Everything in
// this package is a pure function over in-memory data; callers own all I/O
// and all statefulness (which week is current, what error is shown where).
package schedule

import (
	"fmt"
	"strings"

	"auditdesk/internal/audit/models"
	dErrors "auditdesk/pkg/domain-errors"
)

// Role is a slot kind on an audit assignment.
type Role string

const (
	RoleAuditee        Role = "AUDITEE"
	RoleLeadAuditor    Role = "LEAD_AUDITOR"
	RoleSupportAuditor Role = "SUPPORT_AUDITOR"
)

// Slot identifies the assignment slot being edited. Index is meaningful for
// auditee and support-auditor slots; the lead slot ignores it.
type Slot struct {
	Role  Role
	Index int
}

// Assignment is the full in-progress state of an audit being composed.
// Names may be free text not yet resolved against the directory.
type Assignment struct {
	Auditees        []models.PersonRef
	LeadAuditor     models.PersonRef
	SupportAuditors []models.PersonRef
}

// Conflict is the validator's verdict. It informs; it never forbids
// keystrokes. The caller decides whether to surface Reason inline and still
// accept the raw text into the field.
type Conflict struct {
	Conflict bool   `json:"conflict"`
	Reason   string `json:"reason,omitempty"`
}

// NormalizeName produces the comparison key for free-text names: trimmed
// and case-folded, compared as a full string. "Jane Doe" and "jane doe"
// collide; "Jane Doe" and "Jane" do not. This is a deliberately coarse
// heuristic for names that have no directory id yet.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CheckAssignment decides whether placing candidate into slot would give one
// person two incompatible roles on the same audit. The slot under edit is
// excluded from comparison: a slot may always keep its own current value.
// An empty candidate never conflicts; empty is not a role-holder.
func CheckAssignment(candidate models.PersonRef, slot Slot, state Assignment) Conflict {
	key := NormalizeName(candidate.Name)
	if key == "" && candidate.ID.IsNil() {
		return Conflict{}
	}

	for _, occupied := range occupiedSlots(state) {
		if occupied.slot == slot {
			continue
		}
		if !samePerson(candidate, occupied.ref) {
			continue
		}
		return Conflict{Conflict: true, Reason: conflictReason(slot.Role, occupied.slot)}
	}
	return Conflict{}
}

// ValidateAssignment enforces the committed-audit role invariants over a
// complete assignment: auditees disjoint from auditors, lead not doubling as
// support, no duplicate support auditors. Drafts are allowed to violate
// these while being composed; commits are not.
func ValidateAssignment(state Assignment) error {
	slots := occupiedSlots(state)
	for i, a := range slots {
		for _, b := range slots[i+1:] {
			if samePerson(a.ref, b.ref) {
				return dErrors.New(dErrors.CodeRoleConflict, conflictReason(b.slot.Role, a.slot))
			}
		}
	}
	return nil
}

// TakenNames returns the normalized names occupying every slot except the
// one under edit. Callers use it to filter directory suggestions.
func TakenNames(state Assignment, slot Slot) map[string]struct{} {
	taken := make(map[string]struct{})
	for _, occupied := range occupiedSlots(state) {
		if occupied.slot == slot {
			continue
		}
		if key := NormalizeName(occupied.ref.Name); key != "" {
			taken[key] = struct{}{}
		}
	}
	return taken
}

type occupiedSlot struct {
	slot Slot
	ref  models.PersonRef
}

func occupiedSlots(state Assignment) []occupiedSlot {
	slots := make([]occupiedSlot, 0, len(state.Auditees)+len(state.SupportAuditors)+1)
	for i, ref := range state.Auditees {
		if !ref.Empty() {
			slots = append(slots, occupiedSlot{Slot{RoleAuditee, i}, ref})
		}
	}
	if !state.LeadAuditor.Empty() {
		slots = append(slots, occupiedSlot{Slot{Role: RoleLeadAuditor}, state.LeadAuditor})
	}
	for i, ref := range state.SupportAuditors {
		if !ref.Empty() {
			slots = append(slots, occupiedSlot{Slot{RoleSupportAuditor, i}, ref})
		}
	}
	return slots
}

// samePerson compares directory ids when both sides are resolved, falling
// back to normalized display names for free text. Two distinct people who
// share a display name still collide here; resolving that needs a directory
// match, not a smarter string comparison.
func samePerson(a, b models.PersonRef) bool {
	if !a.ID.IsNil() && !b.ID.IsNil() {
		return a.ID == b.ID
	}
	keyA, keyB := NormalizeName(a.Name), NormalizeName(b.Name)
	return keyA != "" && keyA == keyB
}

func conflictReason(candidate Role, occupied Slot) string {
	switch candidate {
	case RoleAuditee:
		if occupied.Role == RoleAuditee {
			return "this person is already selected as an auditee"
		}
		return "this person is already assigned as an auditor"
	case RoleLeadAuditor:
		if occupied.Role == RoleAuditee {
			return "lead auditor cannot also be an auditee"
		}
		return "lead auditor is already assigned as a support auditor"
	case RoleSupportAuditor:
		switch occupied.Role {
		case RoleAuditee:
			return "support auditor cannot also be an auditee"
		case RoleLeadAuditor:
			return "support auditor is already assigned as lead auditor"
		default:
			return fmt.Sprintf("already assigned as support auditor #%d", occupied.Index+1)
		}
	}
	return "role conflict"
}
