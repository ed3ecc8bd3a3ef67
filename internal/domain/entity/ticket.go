package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientType classifies the visit a ticket covers. Daily capacity is global
// across types; per-type counts are reporting-only.
type PatientType string

const (
	PatientTypeRegular PatientType = "regular"
	PatientTypeRepair  PatientType = "repair"
	PatientTypeTherapy PatientType = "therapy"
)

func (t PatientType) IsValid() bool {
	switch t {
	case PatientTypeRegular, PatientTypeRepair, PatientTypeTherapy:
		return true
	}
	return false
}

// TicketStatus represents the status of a treatment ticket
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// Ticket is the treatment aggregate appointments belong to. A ticket is
// opened for one patient and one visit type; its appointments are scheduled
// against the clinic calendar one at a time.
type Ticket struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"patient_id"`
	PatientType PatientType  `gorm:"type:patient_type;not null" json:"patient_type"`
	Status      TicketStatus `gorm:"type:ticket_status;not null;default:'open';index" json:"status"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient      Patient       `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:TicketID" json:"appointments,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// IsOpen checks if the ticket still accepts appointments
func (t *Ticket) IsOpen() bool {
	return t.Status == TicketStatusOpen
}

// Close marks the ticket as closed
func (t *Ticket) Close() {
	t.Status = TicketStatusClosed
}
