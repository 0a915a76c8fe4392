package query

import (
	"time"

	"github.com/jh3/pomo/internal/session"
)

// Range is a half-open time interval [Start, End)
type Range struct {
	Start time.Time
	End   time.Time
}

// Day returns the calendar day containing t, midnight to midnight in t's
// location. Days shortened or lengthened by DST keep their real length.
func Day(t time.Time) Range {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return Range{Start: start, End: start.AddDate(0, 0, 1)}
}

// Today returns the day containing now
func Today(now time.Time) Range {
	return Day(now)
}

// Yesterday returns the day before the one containing now
func Yesterday(now time.Time) Range {
	today := Day(now)
	return Day(today.Start.AddDate(0, 0, -1))
}

// FindIn is FindInRange over r
func (e *Engine) FindIn(r Range, query string) ([]session.Session, error) {
	return e.FindInRange(r.Start, r.End, query)
}
