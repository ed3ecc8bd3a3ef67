package scheduling

import (
	"context"
	"fmt"
	"time"
)

// DefaultSearchHorizonDays bounds the date walk. A year is far beyond any
// legitimate booking distance for a walk-in clinic; hitting the bound means
// the rules are misconfigured, and the finder fails instead of looping.
const DefaultSearchHorizonDays = 365

// CountForDateFunc reports how many appointments already occupy a date. It
// may perform I/O and may block; the finder calls it at most once per
// candidate date, strictly in ascending date order. For reschedules the
// caller supplies a closure that excludes the appointment being moved.
type CountForDateFunc func(ctx context.Context, date time.Time) (int, error)

// Finder walks the calendar forward from a context's start date until it
// finds a date that is on an allowed weekday, is not a holiday, and still has
// capacity. The walk is single-pass and sequential: candidates are never
// probed out of order or in parallel, so the counts it sees form one
// point-in-time view.
type Finder struct {
	horizonDays int
}

func NewFinder(horizonDays int) (*Finder, error) {
	if horizonDays <= 0 {
		return nil, ErrInvalidSearchBound
	}
	return &Finder{horizonDays: horizonDays}, nil
}

// NextValidDate returns the first bookable date at or after sctx.StartDate.
// It fails with *NoAvailableDatesError once the horizon is exhausted, and
// aborts between iterations if ctx is cancelled.
func (f *Finder) NextValidDate(ctx context.Context, sctx Context, countForDate CountForDateFunc) (time.Time, error) {
	candidate := DateOnly(sctx.StartDate)

	for i := 0; i < f.horizonDays; i++ {
		select {
		case <-ctx.Done():
			return time.Time{}, ctx.Err()
		default:
		}

		if !sctx.Rules.AllowsWeekday(candidate.Weekday()) {
			candidate = NextDay(candidate)
			continue
		}
		if IsHoliday(candidate, sctx.Rules.Holidays()) {
			candidate = NextDay(candidate)
			continue
		}

		n, err := countForDate(ctx, candidate)
		if err != nil {
			return time.Time{}, fmt.Errorf("count appointments for %s: %w", candidate.Format(DateLayout), err)
		}
		if n < sctx.Rules.DailyCapacity() {
			return candidate, nil
		}

		candidate = NextDay(candidate)
	}

	return time.Time{}, &NoAvailableDatesError{
		StartDate:     DateOnly(sctx.StartDate),
		HorizonDays:   f.horizonDays,
		AllowedDays:   sctx.Rules.AllowedDays(),
		DailyCapacity: sctx.Rules.DailyCapacity(),
		HolidayCount:  len(sctx.Rules.Holidays()),
	}
}
