package repository

import (
	"time"

	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByTicketID(db *gorm.DB, ticketID uuid.UUID) ([]entity.Appointment, error)
	FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error

	// CountByDate counts non-cancelled appointments on a date, optionally
	// excluding one appointment (reschedule must not block its own slot).
	CountByDate(db *gorm.DB, date time.Time, excludeID *uuid.UUID) (int, error)
	// CountByDateAndPatientType is reporting-only; capacity is global.
	CountByDateAndPatientType(db *gorm.DB, date time.Time, patientType entity.PatientType) (int, error)
	// FindLatestAttendDate returns the most recent attend date across all
	// non-cancelled appointments, or nil when none exist.
	FindLatestAttendDate(db *gorm.DB) (*time.Time, error)
}
