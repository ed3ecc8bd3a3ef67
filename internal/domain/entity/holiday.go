package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// HolidayType distinguishes yearly recurring holidays from one-off closures.
type HolidayType string

const (
	HolidayTypeFixed     HolidayType = "fixed"
	HolidayTypeTemporary HolidayType = "temporary"
)

// FixedHolidayYear is the sentinel year stored for fixed holidays; only the
// month and day of StartDate are meaningful for them.
const FixedHolidayYear = 1

const holidayNameMaxLen = 100

var (
	ErrHolidayNameRequired      = errors.New("holiday name is required")
	ErrHolidayNameTooLong       = errors.New("holiday name must be at most 100 characters")
	ErrHolidayTypeInvalid       = errors.New("holiday type must be fixed or temporary")
	ErrFixedHolidayNotRecurring = errors.New("fixed holidays must be recurring")
	ErrHolidayRangeInvalid      = errors.New("holiday end date must not be before start date")
)

// Holiday is a clinic closure definition consumed read-only by the
// scheduling engine. Fixed holidays recur every year on the same month/day;
// temporary holidays occupy a concrete inclusive date range.
type Holiday struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string      `gorm:"type:varchar(100);not null" json:"name"`
	Type        HolidayType `gorm:"type:holiday_type;not null;index" json:"type"`
	StartDate   time.Time   `gorm:"type:date;not null" json:"start_date"`
	EndDate     *time.Time  `gorm:"type:date" json:"end_date,omitempty"`
	IsRecurring bool        `gorm:"not null;default:false" json:"is_recurring"`
	IsActive    bool        `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Holiday) TableName() string {
	return "holidays"
}

// NewHoliday validates and constructs a holiday. Invariants enforced here
// rather than scattered across callers: fixed holidays are recurring and
// single-day with a sentinel year; temporary ranges are inclusive and ordered.
func NewHoliday(name string, typ HolidayType, startDate time.Time, endDate *time.Time, isRecurring bool) (*Holiday, error) {
	if name == "" {
		return nil, ErrHolidayNameRequired
	}
	if len(name) > holidayNameMaxLen {
		return nil, ErrHolidayNameTooLong
	}

	h := &Holiday{
		Name:        name,
		Type:        typ,
		IsRecurring: isRecurring,
		IsActive:    true,
	}

	switch typ {
	case HolidayTypeFixed:
		if !isRecurring {
			return nil, ErrFixedHolidayNotRecurring
		}
		// Normalize to the sentinel year so month/day matching never
		// accidentally compares years.
		h.StartDate = time.Date(FixedHolidayYear, startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
		h.EndDate = nil
	case HolidayTypeTemporary:
		start := dateOnly(startDate)
		h.StartDate = start
		if endDate != nil {
			end := dateOnly(*endDate)
			if end.Before(start) {
				return nil, ErrHolidayRangeInvalid
			}
			h.EndDate = &end
		}
	default:
		return nil, ErrHolidayTypeInvalid
	}

	return h, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
