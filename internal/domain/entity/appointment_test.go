package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestAppointment(t *testing.T, attendDate time.Time) *Appointment {
	t.Helper()
	a, err := NewAppointment(uuid.New(), PatientTypeRegular, attendDate, "")
	if err != nil {
		t.Fatalf("NewAppointment: %v", err)
	}
	return a
}

func TestNewAppointment(t *testing.T) {
	noon := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	a := newTestAppointment(t, noon)

	if a.Status != AppointmentStatusScheduled {
		t.Fatalf("Status = %s, want scheduled", a.Status)
	}
	if !a.AttendDate.Equal(testDate(2025, time.March, 3)) {
		t.Fatalf("AttendDate = %v, want midnight UTC", a.AttendDate)
	}

	if _, err := NewAppointment(uuid.Nil, PatientTypeRegular, noon, ""); err == nil {
		t.Fatalf("expected error for nil ticket id")
	}
	if _, err := NewAppointment(uuid.New(), PatientType("walkin"), noon, ""); err == nil {
		t.Fatalf("expected error for unknown patient type")
	}
}

func TestMarkToday(t *testing.T) {
	attendDate := testDate(2025, time.March, 3)

	t.Run("on the attend date", func(t *testing.T) {
		a := newTestAppointment(t, attendDate)
		if err := a.MarkToday(attendDate); err != nil {
			t.Fatalf("MarkToday: %v", err)
		}
		if a.Status != AppointmentStatusToday {
			t.Fatalf("Status = %s, want today", a.Status)
		}
	})

	t.Run("on a different date", func(t *testing.T) {
		a := newTestAppointment(t, attendDate)
		err := a.MarkToday(testDate(2025, time.March, 4))

		var todayErr *TodayMarkError
		if !errors.As(err, &todayErr) {
			t.Fatalf("error = %T, want *TodayMarkError", err)
		}
		if a.Status != AppointmentStatusScheduled {
			t.Fatalf("status must not change on rejection")
		}
	})

	t.Run("from today status", func(t *testing.T) {
		a := newTestAppointment(t, attendDate)
		if err := a.MarkToday(attendDate); err != nil {
			t.Fatalf("MarkToday: %v", err)
		}
		err := a.MarkToday(attendDate)

		var transitionErr *StateTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("error = %T, want *StateTransitionError", err)
		}
	})
}

func TestMarkAttendedAndAbsent(t *testing.T) {
	attendDate := testDate(2025, time.March, 3)

	tests := []struct {
		name  string
		apply func(a *Appointment, today time.Time) error
		want  AppointmentStatus
	}{
		{"attended", (*Appointment).MarkAttended, AppointmentStatusAttended},
		{"absent", (*Appointment).MarkAbsent, AppointmentStatusAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.name+" from scheduled on the day", func(t *testing.T) {
			a := newTestAppointment(t, attendDate)
			if err := tt.apply(a, attendDate); err != nil {
				t.Fatalf("apply: %v", err)
			}
			if a.Status != tt.want {
				t.Fatalf("Status = %s, want %s", a.Status, tt.want)
			}
		})

		t.Run(tt.name+" from today", func(t *testing.T) {
			a := newTestAppointment(t, attendDate)
			if err := a.MarkToday(attendDate); err != nil {
				t.Fatalf("MarkToday: %v", err)
			}
			if err := tt.apply(a, attendDate); err != nil {
				t.Fatalf("apply: %v", err)
			}
			if a.Status != tt.want {
				t.Fatalf("Status = %s, want %s", a.Status, tt.want)
			}
		})

		t.Run(tt.name+" after the attend date", func(t *testing.T) {
			a := newTestAppointment(t, attendDate)
			if err := tt.apply(a, testDate(2025, time.March, 5)); err != nil {
				t.Fatalf("past attend dates must be markable: %v", err)
			}
		})

		t.Run(tt.name+" before the attend date", func(t *testing.T) {
			a := newTestAppointment(t, attendDate)
			err := tt.apply(a, testDate(2025, time.March, 1))

			var futureErr *FutureStatusError
			if !errors.As(err, &futureErr) {
				t.Fatalf("error = %T, want *FutureStatusError", err)
			}
		})
	}
}

func TestCancel(t *testing.T) {
	attendDate := testDate(2025, time.March, 3)

	t.Run("from scheduled", func(t *testing.T) {
		a := newTestAppointment(t, attendDate)
		if err := a.Cancel(); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if a.Status != AppointmentStatusCancelled {
			t.Fatalf("Status = %s, want cancelled", a.Status)
		}
	})

	t.Run("from today", func(t *testing.T) {
		a := newTestAppointment(t, attendDate)
		if err := a.MarkToday(attendDate); err != nil {
			t.Fatalf("MarkToday: %v", err)
		}
		if err := a.Cancel(); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
	})
}

func TestTerminalStatesAreReadonly(t *testing.T) {
	attendDate := testDate(2025, time.March, 3)

	terminal := map[string]func(a *Appointment){
		"attended":  func(a *Appointment) { _ = a.MarkAttended(attendDate) },
		"absent":    func(a *Appointment) { _ = a.MarkAbsent(attendDate) },
		"cancelled": func(a *Appointment) { _ = a.Cancel() },
	}

	for name, reach := range terminal {
		t.Run(name, func(t *testing.T) {
			a := newTestAppointment(t, attendDate)
			reach(a)

			if !a.IsReadonly() {
				t.Fatalf("%s must be read-only", name)
			}

			var transitionErr *StateTransitionError
			if err := a.Cancel(); !errors.As(err, &transitionErr) {
				t.Fatalf("Cancel on %s: error = %T, want *StateTransitionError", name, err)
			}
			if err := a.MarkAttended(attendDate); !errors.As(err, &transitionErr) {
				t.Fatalf("MarkAttended on %s: error = %T, want *StateTransitionError", name, err)
			}

			var readonlyErr *ReadonlyError
			if err := a.Reschedule(testDate(2025, time.March, 10)); !errors.As(err, &readonlyErr) {
				t.Fatalf("Reschedule on %s: error = %T, want *ReadonlyError", name, err)
			}
		})
	}
}

func TestReschedule(t *testing.T) {
	attendDate := testDate(2025, time.March, 3)

	t.Run("from scheduled", func(t *testing.T) {
		a := newTestAppointment(t, attendDate)
		if err := a.Reschedule(testDate(2025, time.March, 10)); err != nil {
			t.Fatalf("Reschedule: %v", err)
		}
		if !a.AttendDate.Equal(testDate(2025, time.March, 10)) {
			t.Fatalf("AttendDate = %v", a.AttendDate)
		}
	})

	t.Run("from today resets to scheduled", func(t *testing.T) {
		a := newTestAppointment(t, attendDate)
		if err := a.MarkToday(attendDate); err != nil {
			t.Fatalf("MarkToday: %v", err)
		}
		if err := a.Reschedule(testDate(2025, time.March, 10)); err != nil {
			t.Fatalf("Reschedule: %v", err)
		}
		if a.Status != AppointmentStatusScheduled {
			t.Fatalf("Status = %s, want scheduled after reschedule", a.Status)
		}
	})
}
