package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditdesk/internal/audit/models"
	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
)

func ref(name string) models.PersonRef {
	return models.PersonRef{Name: name}
}

func boundRef(name string) models.PersonRef {
	return models.PersonRef{ID: id.NewPersonID(), Name: name}
}

func TestCheckAssignment_AuditorVsAuditee(t *testing.T) {
	state := Assignment{
		Auditees: []models.PersonRef{ref("Jane Doe")},
	}

	t.Run("lead auditor matching an auditee conflicts", func(t *testing.T) {
		c := CheckAssignment(ref("jane doe"), Slot{Role: RoleLeadAuditor}, state)
		assert.True(t, c.Conflict)
		assert.Equal(t, "lead auditor cannot also be an auditee", c.Reason)
	})

	t.Run("comparison is case-insensitive and trimmed", func(t *testing.T) {
		c := CheckAssignment(ref("  JANE DOE  "), Slot{Role: RoleLeadAuditor}, state)
		assert.True(t, c.Conflict)
	})

	t.Run("full-string comparison, not token-wise", func(t *testing.T) {
		c := CheckAssignment(ref("Jane"), Slot{Role: RoleLeadAuditor}, state)
		assert.False(t, c.Conflict)
	})

	t.Run("support auditor matching an auditee conflicts", func(t *testing.T) {
		c := CheckAssignment(ref("Jane Doe"), Slot{Role: RoleSupportAuditor, Index: 0}, state)
		assert.True(t, c.Conflict)
		assert.Equal(t, "support auditor cannot also be an auditee", c.Reason)
	})
}

func TestCheckAssignment_EmptyNeverConflicts(t *testing.T) {
	state := Assignment{
		Auditees:    []models.PersonRef{ref("Jane Doe")},
		LeadAuditor: ref("John Smith"),
	}
	for _, candidate := range []string{"", "   "} {
		c := CheckAssignment(ref(candidate), Slot{Role: RoleSupportAuditor}, state)
		assert.False(t, c.Conflict, "candidate %q", candidate)
	}
}

func TestCheckAssignment_OwnSlotIsCompatible(t *testing.T) {
	state := Assignment{
		SupportAuditors: []models.PersonRef{ref("Ada Lovelace"), ref("Grace Hopper")},
	}

	t.Run("a slot may keep its own current value", func(t *testing.T) {
		c := CheckAssignment(ref("Ada Lovelace"), Slot{Role: RoleSupportAuditor, Index: 0}, state)
		assert.False(t, c.Conflict)
	})

	t.Run("the same name in a different support slot conflicts", func(t *testing.T) {
		c := CheckAssignment(ref("Ada Lovelace"), Slot{Role: RoleSupportAuditor, Index: 1}, state)
		assert.True(t, c.Conflict)
		assert.Equal(t, "already assigned as support auditor #1", c.Reason)
	})
}

func TestCheckAssignment_LeadVsSupport(t *testing.T) {
	state := Assignment{
		LeadAuditor:     ref("John Smith"),
		SupportAuditors: []models.PersonRef{ref("Ada Lovelace")},
	}

	c := CheckAssignment(ref("ada lovelace"), Slot{Role: RoleLeadAuditor}, state)
	assert.True(t, c.Conflict)
	assert.Equal(t, "lead auditor is already assigned as a support auditor", c.Reason)

	c = CheckAssignment(ref("John Smith"), Slot{Role: RoleSupportAuditor, Index: 1}, state)
	assert.True(t, c.Conflict)
	assert.Equal(t, "support auditor is already assigned as lead auditor", c.Reason)
}

func TestCheckAssignment_IDComparisonWinsOverName(t *testing.T) {
	jane := boundRef("Jane Doe")
	state := Assignment{Auditees: []models.PersonRef{jane}}

	t.Run("same id conflicts even with a different display name", func(t *testing.T) {
		renamed := models.PersonRef{ID: jane.ID, Name: "J. Doe"}
		c := CheckAssignment(renamed, Slot{Role: RoleLeadAuditor}, state)
		assert.True(t, c.Conflict)
	})

	t.Run("different ids with the same name do not conflict", func(t *testing.T) {
		otherJane := boundRef("Jane Doe")
		c := CheckAssignment(otherJane, Slot{Role: RoleLeadAuditor}, state)
		assert.False(t, c.Conflict)
	})

	t.Run("unbound candidate falls back to name comparison", func(t *testing.T) {
		c := CheckAssignment(ref("Jane Doe"), Slot{Role: RoleLeadAuditor}, state)
		assert.True(t, c.Conflict)
	})
}

func TestValidateAssignment(t *testing.T) {
	t.Run("disjoint roles pass", func(t *testing.T) {
		err := ValidateAssignment(Assignment{
			Auditees:        []models.PersonRef{ref("Jane Doe")},
			LeadAuditor:     ref("John Smith"),
			SupportAuditors: []models.PersonRef{ref("Ada Lovelace")},
		})
		require.NoError(t, err)
	})

	t.Run("auditee doubling as auditor fails", func(t *testing.T) {
		err := ValidateAssignment(Assignment{
			Auditees:    []models.PersonRef{ref("Jane Doe")},
			LeadAuditor: ref("Jane Doe"),
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeRoleConflict))
	})

	t.Run("lead doubling as support fails", func(t *testing.T) {
		err := ValidateAssignment(Assignment{
			LeadAuditor:     ref("John Smith"),
			SupportAuditors: []models.PersonRef{ref("john smith")},
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeRoleConflict))
	})

	t.Run("duplicate support auditors fail", func(t *testing.T) {
		err := ValidateAssignment(Assignment{
			SupportAuditors: []models.PersonRef{ref("Ada Lovelace"), ref("ada lovelace")},
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeRoleConflict))
	})
}

func TestTakenNames(t *testing.T) {
	state := Assignment{
		Auditees:        []models.PersonRef{ref("Jane Doe"), ref("")},
		LeadAuditor:     ref("John Smith"),
		SupportAuditors: []models.PersonRef{ref("Ada Lovelace")},
	}

	taken := TakenNames(state, Slot{Role: RoleSupportAuditor, Index: 0})
	assert.Contains(t, taken, "jane doe")
	assert.Contains(t, taken, "john smith")
	assert.NotContains(t, taken, "ada lovelace") // own slot excluded
	assert.NotContains(t, taken, "")
}
