package schedule

import (
	"time"

	"auditdesk/internal/audit/rawdoc"
)

// Classification is the read-side verdict on a stored audit document:
// whether it is a draft, and the single instant that places it on a
// calendar. Schedulable is false when no usable instant exists; such
// records are excluded from time-ordered views, never defaulted to now or
// the epoch.
type Classification struct {
	Draft       bool
	Instant     time.Time
	Schedulable bool
}

// Classify inspects a raw audit document. Draft detection honors both
// isDraft casings (historical data, see rawdoc). The reference instant is
// selected by priority: actualStart, then expectedStart, and finally
// createdAt when includeDrafts is set (that is, the view accepts drafts).
// Unparseable dates are skipped, not errors: a record whose every candidate
// fails to parse is simply unschedulable for this view.
func Classify(doc rawdoc.Document, includeDrafts bool) Classification {
	c := Classification{Draft: doc.Draft()}

	if t, ok := doc.Time("actualStart"); ok {
		c.Instant, c.Schedulable = t, true
		return c
	}
	if t, ok := doc.Time("expectedStart"); ok {
		c.Instant, c.Schedulable = t, true
		return c
	}
	if includeDrafts {
		if t, ok := doc.Time("createdAt"); ok {
			c.Instant, c.Schedulable = t, true
		}
	}
	return c
}
