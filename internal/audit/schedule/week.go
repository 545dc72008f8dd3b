package schedule

import (
	"sort"
	"time"
)

// CalendarAudit is one row of a weekly agenda. Company and lead-auditor
// names are resolved by the caller via its directory lookups before
// projection; this package never fetches.
type CalendarAudit struct {
	ID              string    `json:"id"`
	Reference       string    `json:"reference"`
	Instant         time.Time `json:"datetime"`
	CompanyName     string    `json:"companyName,omitempty"`
	LeadAuditorName string    `json:"leadAuditorName,omitempty"`
}

// WeekView is the projection of a set of audits onto one calendar week.
type WeekView struct {
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Audits []CalendarAudit `json:"audits"`
}

// WeekBounds computes the 7-day window containing anchor: the most recent
// weekStart day at local midnight at or before anchor, through six days
// later at the last nanosecond. The week-start day is configuration, not a
// constant; the algorithm is the same for Sunday-start and Monday-start
// calendars.
func WeekBounds(anchor time.Time, weekStart time.Weekday) (time.Time, time.Time) {
	back := (int(anchor.Weekday()) - int(weekStart) + 7) % 7
	y, m, d := anchor.Date()
	start := time.Date(y, m, d-back, 0, 0, 0, 0, anchor.Location())
	end := time.Date(y, m, d-back+6, 23, 59, 59, int(time.Second-time.Nanosecond), anchor.Location())
	return start, end
}

// ProjectWeek filters audits to those whose instant falls inside the week
// containing anchor (both bounds inclusive) and orders them ascending.
// The sort is stable: ties keep input order, since no secondary key is
// defined. The projector is stateless; callers navigate by shifting the
// anchor ±7 days and calling again.
func ProjectWeek(audits []CalendarAudit, anchor time.Time, weekStart time.Weekday) WeekView {
	start, end := WeekBounds(anchor, weekStart)

	view := WeekView{Start: start, End: end, Audits: []CalendarAudit{}}
	for _, a := range audits {
		if a.Instant.Before(start) || a.Instant.After(end) {
			continue
		}
		view.Audits = append(view.Audits, a)
	}
	sort.SliceStable(view.Audits, func(i, j int) bool {
		return view.Audits[i].Instant.Before(view.Audits[j].Instant)
	})
	return view
}
