package entity

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

var (
	ErrSettingsNoAllowedDays   = errors.New("clinic settings must allow at least one weekday")
	ErrSettingsInvalidCapacity = errors.New("clinic settings daily capacity must be positive")
	ErrSettingsInvalidWeekday  = errors.New("allowed days must be weekday numbers 0 (Sunday) through 6 (Saturday)")
)

// ClinicSettings is the single-row table holding the clinic's operating
// calendar: which weekdays accept appointments and how many fit in a day.
// The scheduling engine consumes it as an immutable snapshot per operation.
type ClinicSettings struct {
	ID            int           `gorm:"primaryKey" json:"id"`
	AllowedDays   pq.Int64Array `gorm:"type:integer[];not null" json:"allowed_days"`
	DailyCapacity int           `gorm:"not null" json:"daily_capacity"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClinicSettings) TableName() string {
	return "clinic_settings"
}

// Validate rejects configurations the engine cannot schedule against.
func (s *ClinicSettings) Validate() error {
	if len(s.AllowedDays) == 0 {
		return ErrSettingsNoAllowedDays
	}
	if s.DailyCapacity <= 0 {
		return ErrSettingsInvalidCapacity
	}
	for _, d := range s.AllowedDays {
		if d < 0 || d > 6 {
			return ErrSettingsInvalidWeekday
		}
	}
	return nil
}

// Weekdays converts the stored day numbers to time.Weekday values.
func (s *ClinicSettings) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 0, len(s.AllowedDays))
	for _, d := range s.AllowedDays {
		out = append(out, time.Weekday(d))
	}
	return out
}
