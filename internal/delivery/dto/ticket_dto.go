package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterPatientRequest struct {
	FullName    string `json:"full_name" validate:"required,min=2,max=150"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
}

type CreateTicketRequest struct {
	PatientID   uuid.UUID `json:"patient_id" validate:"required"`
	PatientType string    `json:"patient_type" validate:"required,oneof=regular repair therapy"`
}

// Response DTOs

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type TicketResponse struct {
	ID          uuid.UUID        `json:"id"`
	PatientID   uuid.UUID        `json:"patient_id"`
	Patient     *PatientResponse `json:"patient,omitempty"`
	PatientType string           `json:"patient_type"`
	Status      string           `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   int              `json:"total"`
}
