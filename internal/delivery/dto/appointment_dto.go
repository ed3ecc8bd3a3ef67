package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type ScheduleAppointmentRequest struct {
	TicketID uuid.UUID `json:"ticket_id" validate:"required"`
	Notes    string    `json:"notes" validate:"max=1000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	TicketID    uuid.UUID `json:"ticket_id"`
	PatientType string    `json:"patient_type"`
	AttendDate  string    `json:"attend_date"` // Format: YYYY-MM-DD
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// DateSummaryResponse reports per-type occupancy for one date. Capacity is
// global across patient types; the breakdown is informational.
type DateSummaryResponse struct {
	Date          string         `json:"date"`
	Total         int            `json:"total"`
	ByPatientType map[string]int `json:"by_patient_type"`
	DailyCapacity int            `json:"daily_capacity"`
	Remaining     int            `json:"remaining"`
}
