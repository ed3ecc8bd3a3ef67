package scheduling

import "time"

// DateLayout is the wire format for civil dates across the service.
const DateLayout = "2006-01-02"

// DateOnly strips the clock and timezone from t, returning the civil date at
// midnight UTC. Every date entering the engine passes through this so that
// equality and ordering checks never trip over wall-clock components.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDay returns the civil date one day after t.
func NextDay(t time.Time) time.Time {
	return DateOnly(t).AddDate(0, 0, 1)
}

// SameDate reports whether a and b fall on the same civil date.
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
