package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instant(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWeekBounds_SundayStart(t *testing.T) {
	// 2026-01-07 is a Wednesday; its Sunday-start week is Jan 4 .. Jan 10.
	anchor := instant("2026-01-07T15:30:00Z")
	start, end := WeekBounds(anchor, time.Sunday)

	assert.Equal(t, time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 10, 23, 59, 59, 999999999, time.UTC), end)
}

func TestWeekBounds_AnchorOnWeekStart(t *testing.T) {
	anchor := instant("2026-01-04T00:00:00Z") // a Sunday
	start, _ := WeekBounds(anchor, time.Sunday)
	assert.Equal(t, time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), start)
}

func TestWeekBounds_MondayStartIsConfiguration(t *testing.T) {
	anchor := instant("2026-01-07T15:30:00Z")
	start, end := WeekBounds(anchor, time.Monday)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 11, 23, 59, 59, 999999999, time.UTC), end)
}

func TestProjectWeek_FiltersAndSortsAscending(t *testing.T) {
	audits := []CalendarAudit{
		{ID: "a", Reference: "AUD-1", Instant: instant("2026-01-06T10:00:00Z")},
		{ID: "b", Reference: "AUD-2", Instant: instant("2026-01-04T00:00:01Z")},
		{ID: "c", Reference: "AUD-3", Instant: instant("2026-01-10T23:59:59Z")},
		{ID: "d", Reference: "AUD-4", Instant: instant("2026-01-11T00:00:00Z")}, // next week
		{ID: "e", Reference: "AUD-5", Instant: instant("2026-01-03T23:59:59Z")}, // previous week
	}

	view := ProjectWeek(audits, instant("2026-01-07T12:00:00Z"), time.Sunday)

	require.Len(t, view.Audits, 3)
	assert.Equal(t, "b", view.Audits[0].ID)
	assert.Equal(t, "a", view.Audits[1].ID)
	assert.Equal(t, "c", view.Audits[2].ID)
}

func TestProjectWeek_BoundsInclusive(t *testing.T) {
	start := instant("2026-01-04T00:00:00Z")
	end := time.Date(2026, 1, 10, 23, 59, 59, 999999999, time.UTC)
	audits := []CalendarAudit{
		{ID: "start", Instant: start},
		{ID: "end", Instant: end},
	}

	view := ProjectWeek(audits, instant("2026-01-07T12:00:00Z"), time.Sunday)
	require.Len(t, view.Audits, 2)
}

func TestProjectWeek_TiesKeepInputOrder(t *testing.T) {
	at := instant("2026-01-06T10:00:00Z")
	audits := []CalendarAudit{
		{ID: "first", Instant: at},
		{ID: "second", Instant: at},
		{ID: "third", Instant: at},
	}

	view := ProjectWeek(audits, at, time.Sunday)
	require.Len(t, view.Audits, 3)
	assert.Equal(t, "first", view.Audits[0].ID)
	assert.Equal(t, "second", view.Audits[1].ID)
	assert.Equal(t, "third", view.Audits[2].ID)
}

func TestProjectWeek_NavigationByAnchorShift(t *testing.T) {
	audits := []CalendarAudit{
		{ID: "prev", Instant: instant("2026-01-01T09:00:00Z")},
		{ID: "this", Instant: instant("2026-01-06T09:00:00Z")},
		{ID: "next", Instant: instant("2026-01-13T09:00:00Z")},
	}
	anchor := instant("2026-01-07T12:00:00Z")

	thisWeek := ProjectWeek(audits, anchor, time.Sunday)
	require.Len(t, thisWeek.Audits, 1)
	assert.Equal(t, "this", thisWeek.Audits[0].ID)

	prevWeek := ProjectWeek(audits, anchor.AddDate(0, 0, -7), time.Sunday)
	require.Len(t, prevWeek.Audits, 1)
	assert.Equal(t, "prev", prevWeek.Audits[0].ID)

	nextWeek := ProjectWeek(audits, anchor.AddDate(0, 0, 7), time.Sunday)
	require.Len(t, nextWeek.Audits, 1)
	assert.Equal(t, "next", nextWeek.Audits[0].ID)
}
