package repository

import (
	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketRepository interface {
	Create(db *gorm.DB, ticket *entity.Ticket) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Ticket, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Ticket, error)
	FindAll(db *gorm.DB) ([]entity.Ticket, error)
	Update(db *gorm.DB, ticket *entity.Ticket) error
}
