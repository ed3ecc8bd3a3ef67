package entity

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewHoliday_Fixed(t *testing.T) {
	h, err := NewHoliday("Christmas", HolidayTypeFixed, testDate(2025, time.December, 25), nil, true)
	if err != nil {
		t.Fatalf("NewHoliday: %v", err)
	}

	if h.StartDate.Year() != FixedHolidayYear {
		t.Fatalf("fixed holiday year = %d, want sentinel %d", h.StartDate.Year(), FixedHolidayYear)
	}
	if h.StartDate.Month() != time.December || h.StartDate.Day() != 25 {
		t.Fatalf("month/day = %s %d, want December 25", h.StartDate.Month(), h.StartDate.Day())
	}
	if h.EndDate != nil {
		t.Fatalf("fixed holidays must be single-day")
	}
	if !h.IsActive {
		t.Fatalf("new holidays start active")
	}
}

func TestNewHoliday_FixedMustRecur(t *testing.T) {
	_, err := NewHoliday("Christmas", HolidayTypeFixed, testDate(2025, time.December, 25), nil, false)
	if !errors.Is(err, ErrFixedHolidayNotRecurring) {
		t.Fatalf("error = %v, want ErrFixedHolidayNotRecurring", err)
	}
}

func TestNewHoliday_TemporaryRange(t *testing.T) {
	end := testDate(2025, time.June, 3)
	h, err := NewHoliday("Renovation", HolidayTypeTemporary, testDate(2025, time.June, 1), &end, false)
	if err != nil {
		t.Fatalf("NewHoliday: %v", err)
	}
	if h.EndDate == nil || !h.EndDate.Equal(end) {
		t.Fatalf("EndDate = %v, want %v", h.EndDate, end)
	}

	// Single-day range where end equals start is valid.
	same := testDate(2025, time.June, 1)
	if _, err := NewHoliday("One day", HolidayTypeTemporary, same, &same, false); err != nil {
		t.Fatalf("end == start should be valid: %v", err)
	}
}

func TestNewHoliday_InvalidRange(t *testing.T) {
	end := testDate(2025, time.May, 31)
	_, err := NewHoliday("Backwards", HolidayTypeTemporary, testDate(2025, time.June, 1), &end, false)
	if !errors.Is(err, ErrHolidayRangeInvalid) {
		t.Fatalf("error = %v, want ErrHolidayRangeInvalid", err)
	}
}

func TestNewHoliday_Validation(t *testing.T) {
	start := testDate(2025, time.June, 1)

	if _, err := NewHoliday("", HolidayTypeTemporary, start, nil, false); !errors.Is(err, ErrHolidayNameRequired) {
		t.Fatalf("empty name: error = %v", err)
	}
	if _, err := NewHoliday(strings.Repeat("x", 101), HolidayTypeTemporary, start, nil, false); !errors.Is(err, ErrHolidayNameTooLong) {
		t.Fatalf("long name: error = %v", err)
	}
	if _, err := NewHoliday("Mystery", HolidayType("floating"), start, nil, false); !errors.Is(err, ErrHolidayTypeInvalid) {
		t.Fatalf("bad type: error = %v", err)
	}
}

func TestClinicSettingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		days     []int64
		capacity int
		wantErr  error
	}{
		{"valid", []int64{0, 1, 2, 3, 4}, 20, nil},
		{"no days", nil, 20, ErrSettingsNoAllowedDays},
		{"zero capacity", []int64{1}, 0, ErrSettingsInvalidCapacity},
		{"weekday out of range", []int64{7}, 20, ErrSettingsInvalidWeekday},
		{"negative weekday", []int64{-1}, 20, ErrSettingsInvalidWeekday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &ClinicSettings{ID: 1, AllowedDays: tt.days, DailyCapacity: tt.capacity}
			err := s.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
