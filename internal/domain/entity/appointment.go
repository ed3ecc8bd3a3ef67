package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of an appointment. Scheduled is
// the initial state; Attended, Absent and Cancelled are terminal and make
// the appointment read-only.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusToday     AppointmentStatus = "today"
	AppointmentStatusAttended  AppointmentStatus = "attended"
	AppointmentStatusAbsent    AppointmentStatus = "absent"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// StateTransitionError rejects any transition outside the lifecycle table.
type StateTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("invalid appointment transition from %s to %s", e.From, e.To)
}

// TodayMarkError rejects marking an appointment as today's when its attend
// date is some other date.
type TodayMarkError struct {
	AttendDate time.Time
}

func (e *TodayMarkError) Error() string {
	return fmt.Sprintf("appointment on %s cannot be marked as today's appointment", e.AttendDate.Format("2006-01-02"))
}

// FutureStatusError rejects marking a future appointment as attended or absent.
type FutureStatusError struct {
	To         AppointmentStatus
	AttendDate time.Time
}

func (e *FutureStatusError) Error() string {
	return fmt.Sprintf("appointment on %s is in the future and cannot be marked %s", e.AttendDate.Format("2006-01-02"), e.To)
}

// ReadonlyError rejects rescheduling an appointment in a terminal state.
type ReadonlyError struct {
	Status AppointmentStatus
}

func (e *ReadonlyError) Error() string {
	return fmt.Sprintf("appointment is read-only in status %s", e.Status)
}

// Appointment is a single-day clinic visit owned by a ticket. Its attend
// date is always produced by the scheduling engine; its status only changes
// through the transition methods below, which all route through one guard.
// Appointments are never deleted; cancellation is a status.
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TicketID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"ticket_id"`
	PatientType PatientType       `gorm:"type:patient_type;not null;index" json:"patient_type"`
	AttendDate  time.Time         `gorm:"type:date;not null;index" json:"attend_date"`
	Status      AppointmentStatus `gorm:"type:appointment_status;not null;default:'scheduled';index" json:"status"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Ticket Ticket `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// NewAppointment constructs a scheduled appointment on a date the engine
// picked. Callers never set AttendDate ad hoc.
func NewAppointment(ticketID uuid.UUID, patientType PatientType, attendDate time.Time, notes string) (*Appointment, error) {
	if ticketID == uuid.Nil {
		return nil, fmt.Errorf("ticket id is required")
	}
	if !patientType.IsValid() {
		return nil, fmt.Errorf("invalid patient type %q", patientType)
	}
	return &Appointment{
		TicketID:    ticketID,
		PatientType: patientType,
		AttendDate:  dateOnly(attendDate),
		Status:      AppointmentStatusScheduled,
		Notes:       notes,
	}, nil
}

// IsReadonly reports whether the appointment is in a terminal state.
func (a *Appointment) IsReadonly() bool {
	switch a.Status {
	case AppointmentStatusAttended, AppointmentStatusAbsent, AppointmentStatusCancelled:
		return true
	}
	return false
}

// MarkToday moves Scheduled -> Today. Only valid on the attend date itself.
func (a *Appointment) MarkToday(today time.Time) error {
	return a.transition(AppointmentStatusToday, today)
}

// MarkAttended moves Scheduled/Today -> Attended. Rejected while the attend
// date is still in the future.
func (a *Appointment) MarkAttended(today time.Time) error {
	return a.transition(AppointmentStatusAttended, today)
}

// MarkAbsent moves Scheduled/Today -> Absent. Rejected while the attend date
// is still in the future.
func (a *Appointment) MarkAbsent(today time.Time) error {
	return a.transition(AppointmentStatusAbsent, today)
}

// Cancel moves Scheduled/Today -> Cancelled.
func (a *Appointment) Cancel() error {
	return a.transition(AppointmentStatusCancelled, time.Time{})
}

// Reschedule overwrites the attend date with a new engine-selected date.
// Terminal appointments are read-only and cannot be moved.
func (a *Appointment) Reschedule(newAttendDate time.Time) error {
	if a.IsReadonly() {
		return &ReadonlyError{Status: a.Status}
	}
	a.AttendDate = dateOnly(newAttendDate)
	// A rescheduled appointment is no longer today's visit.
	a.Status = AppointmentStatusScheduled
	return nil
}

// transition is the single place the lifecycle table lives. Every mutator
// goes through it; anything not explicitly allowed is rejected.
func (a *Appointment) transition(next AppointmentStatus, today time.Time) error {
	if a.IsReadonly() {
		return &StateTransitionError{From: a.Status, To: next}
	}

	switch next {
	case AppointmentStatusToday:
		if a.Status != AppointmentStatusScheduled {
			return &StateTransitionError{From: a.Status, To: next}
		}
		if !dateOnly(a.AttendDate).Equal(dateOnly(today)) {
			return &TodayMarkError{AttendDate: a.AttendDate}
		}
	case AppointmentStatusAttended, AppointmentStatusAbsent:
		if a.Status != AppointmentStatusScheduled && a.Status != AppointmentStatusToday {
			return &StateTransitionError{From: a.Status, To: next}
		}
		if dateOnly(a.AttendDate).After(dateOnly(today)) {
			return &FutureStatusError{To: next, AttendDate: a.AttendDate}
		}
	case AppointmentStatusCancelled:
		// Any non-terminal appointment may be cancelled.
	default:
		return &StateTransitionError{From: a.Status, To: next}
	}

	a.Status = next
	return nil
}
