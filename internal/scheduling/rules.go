package scheduling

import (
	"errors"
	"time"

	"clinic-appointment-service/internal/domain/entity"
)

var (
	ErrNoAllowedDays      = errors.New("scheduling rules must allow at least one weekday")
	ErrInvalidCapacity    = errors.New("daily capacity must be positive")
	ErrDuplicateWeekday   = errors.New("allowed days contain duplicates")
	ErrInvalidSearchBound = errors.New("search horizon must be positive")
)

// Rules is the immutable snapshot of the clinic calendar used by one
// scheduling operation. It is never mutated after construction; concurrent
// operations may share a snapshot.
type Rules struct {
	allowedDays   map[time.Weekday]struct{}
	holidays      []entity.Holiday
	dailyCapacity int
}

// NewRules validates and builds a rules snapshot. An empty allowed-day set or
// a non-positive capacity is a hard misconfiguration, not something the date
// walk should silently spin on.
func NewRules(allowedDays []time.Weekday, holidays []entity.Holiday, dailyCapacity int) (Rules, error) {
	if len(allowedDays) == 0 {
		return Rules{}, ErrNoAllowedDays
	}
	if dailyCapacity <= 0 {
		return Rules{}, ErrInvalidCapacity
	}

	days := make(map[time.Weekday]struct{}, len(allowedDays))
	for _, d := range allowedDays {
		if _, ok := days[d]; ok {
			return Rules{}, ErrDuplicateWeekday
		}
		days[d] = struct{}{}
	}

	hs := make([]entity.Holiday, len(holidays))
	copy(hs, holidays)

	return Rules{
		allowedDays:   days,
		holidays:      hs,
		dailyCapacity: dailyCapacity,
	}, nil
}

// AllowsWeekday reports whether appointments may be booked on the given weekday.
func (r Rules) AllowsWeekday(d time.Weekday) bool {
	_, ok := r.allowedDays[d]
	return ok
}

// DailyCapacity returns the maximum number of non-cancelled appointments
// permitted on a single date.
func (r Rules) DailyCapacity() int {
	return r.dailyCapacity
}

// Holidays returns the active holiday definitions in the snapshot.
func (r Rules) Holidays() []entity.Holiday {
	return r.holidays
}

// AllowedDays returns the allowed weekdays in Sunday-first order, used for
// diagnostics when the search horizon is exhausted.
func (r Rules) AllowedDays() []time.Weekday {
	out := make([]time.Weekday, 0, len(r.allowedDays))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if _, ok := r.allowedDays[d]; ok {
			out = append(out, d)
		}
	}
	return out
}
