package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// NoAvailableDatesError is returned when the date walk exhausts its search
// horizon without finding a bookable date. It carries a summary of the rules
// snapshot so operators can spot the misconfiguration that caused it.
type NoAvailableDatesError struct {
	StartDate     time.Time
	HorizonDays   int
	AllowedDays   []time.Weekday
	DailyCapacity int
	HolidayCount  int
}

func (e *NoAvailableDatesError) Error() string {
	days := make([]string, len(e.AllowedDays))
	for i, d := range e.AllowedDays {
		days[i] = d.String()
	}
	return fmt.Sprintf(
		"no available dates within %d days of %s (allowed days: %s, daily capacity: %d, active holidays: %d)",
		e.HorizonDays,
		e.StartDate.Format(DateLayout),
		strings.Join(days, ","),
		e.DailyCapacity,
		e.HolidayCount,
	)
}
