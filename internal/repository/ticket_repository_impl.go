package repository

import (
	"errors"

	"clinic-appointment-service/internal/domain/entity"
	domainRepo "clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ticketRepository struct{}

func NewTicketRepository() domainRepo.TicketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Create(db *gorm.DB, ticket *entity.Ticket) error {
	return db.Create(ticket).Error
}

func (r *ticketRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := db.Preload("Patient").Where("id = ?", id).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Ticket, error) {
	var tickets []entity.Ticket
	err := db.Where("patient_id = ?", patientID).Order("created_at DESC").Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ticketRepository) FindAll(db *gorm.DB) ([]entity.Ticket, error) {
	var tickets []entity.Ticket
	err := db.Preload("Patient").Order("created_at DESC").Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ticketRepository) Update(db *gorm.DB, ticket *entity.Ticket) error {
	return db.Omit("Patient").Save(ticket).Error
}
