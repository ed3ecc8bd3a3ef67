package scheduling

import "time"

// Context is the per-operation snapshot the date search starts from. It is
// built once via NewContext and never mutated afterwards.
type Context struct {
	Today               time.Time
	LastAppointmentDate *time.Time
	StartDate           time.Time
	Rules               Rules
}

// NewContext computes the first candidate date for a scheduling operation.
// The search starts at the later of today and the most recently scheduled
// appointment date, so new bookings never cluster before dates that are
// already taken. "Today" is an explicit parameter, never read from the
// system clock, to keep the engine deterministic under test.
func NewContext(today time.Time, lastAppointmentDate *time.Time, rules Rules) Context {
	todayDate := DateOnly(today)
	start := todayDate

	var last *time.Time
	if lastAppointmentDate != nil {
		l := DateOnly(*lastAppointmentDate)
		last = &l
		if l.After(start) {
			start = l
		}
	}

	return Context{
		Today:               todayDate,
		LastAppointmentDate: last,
		StartDate:           start,
		Rules:               rules,
	}
}

// WithStartDate returns a copy of the context whose walk starts at the given
// date. Used to resume the search past a date that filled up between the
// capacity check and the commit.
func (c Context) WithStartDate(start time.Time) Context {
	c.StartDate = DateOnly(start)
	return c
}
