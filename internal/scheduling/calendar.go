package scheduling

import (
	"time"

	"clinic-appointment-service/internal/domain/entity"
)

// IsHoliday reports whether date falls on any active holiday. It is a pure
// predicate: no I/O, total over any input date.
//
// Fixed holidays match on month and day regardless of year; a fixed holiday
// on Feb 29 therefore only matches in leap years, it does not shift to
// Feb 28 or Mar 1. Temporary holidays cover the inclusive range
// [StartDate, EndDate], where a missing EndDate means a single day.
func IsHoliday(date time.Time, holidays []entity.Holiday) bool {
	d := DateOnly(date)
	for i := range holidays {
		h := &holidays[i]
		if !h.IsActive {
			continue
		}
		switch h.Type {
		case entity.HolidayTypeFixed:
			if matchesFixed(d, h) {
				return true
			}
		case entity.HolidayTypeTemporary:
			if matchesTemporary(d, h) {
				return true
			}
		}
	}
	return false
}

// matchesFixed is deliberately a month/day equality check rather than a
// degenerate range comparison, so a fixed holiday can never span years.
func matchesFixed(d time.Time, h *entity.Holiday) bool {
	return h.StartDate.Month() == d.Month() && h.StartDate.Day() == d.Day()
}

func matchesTemporary(d time.Time, h *entity.Holiday) bool {
	start := DateOnly(h.StartDate)
	end := start
	if h.EndDate != nil {
		end = DateOnly(*h.EndDate)
	}
	return !d.Before(start) && !d.After(end)
}
