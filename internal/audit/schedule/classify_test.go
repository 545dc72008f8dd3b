package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditdesk/internal/audit/rawdoc"
)

func TestClassify_DraftCasingInvariance(t *testing.T) {
	assert.True(t, Classify(rawdoc.Document{"isDraft": true}, false).Draft)
	assert.True(t, Classify(rawdoc.Document{"isdraft": true}, false).Draft)
	assert.False(t, Classify(rawdoc.Document{}, false).Draft)
}

func TestClassify_ReferenceInstantPriority(t *testing.T) {
	doc := rawdoc.Document{
		"actualStart":   "2026-01-05T09:00:00Z",
		"expectedStart": "2026-01-01T09:00:00Z",
	}
	c := Classify(doc, false)
	require.True(t, c.Schedulable)
	assert.True(t, c.Instant.Equal(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)))
}

func TestClassify_WrappedDateEqualsPlainString(t *testing.T) {
	plain := Classify(rawdoc.Document{"expectedStart": "2026-01-01T09:00:00Z"}, false)
	wrapped := Classify(rawdoc.Document{
		"expectedStart": map[string]any{"$date": "2026-01-01T09:00:00Z"},
	}, false)
	require.True(t, plain.Schedulable)
	require.True(t, wrapped.Schedulable)
	assert.True(t, plain.Instant.Equal(wrapped.Instant))
}

func TestClassify_CreatedAtFallbackOnlyWithDrafts(t *testing.T) {
	doc := rawdoc.Document{"isDraft": true, "createdAt": "2026-01-02T12:00:00Z"}

	withDrafts := Classify(doc, true)
	require.True(t, withDrafts.Schedulable)
	assert.True(t, withDrafts.Instant.Equal(time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)))

	withoutDrafts := Classify(doc, false)
	assert.False(t, withoutDrafts.Schedulable)
}

func TestClassify_UnparseableIsExcludedNotDefaulted(t *testing.T) {
	c := Classify(rawdoc.Document{
		"actualStart":   "garbage",
		"expectedStart": map[string]any{"$date": "also garbage"},
	}, true)
	assert.False(t, c.Schedulable)
	assert.True(t, c.Instant.IsZero())
}
