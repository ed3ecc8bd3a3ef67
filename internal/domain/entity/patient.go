package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the minimal patient record tickets reference. Full demographics
// live in the registration system; the scheduling backend only needs identity
// and a contact number for reminders.
type Patient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName    string    `gorm:"type:varchar(150);not null" json:"full_name"`
	PhoneNumber string    `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Tickets []Ticket `gorm:"foreignKey:PatientID" json:"tickets,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}
