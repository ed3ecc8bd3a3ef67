package repository

import (
	"errors"
	"time"

	"clinic-appointment-service/internal/domain/entity"
	domainRepo "clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Ticket").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByTicketID(db *gorm.DB, ticketID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("ticket_id = ?", ticketID).Order("attend_date ASC, created_at ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Model(&entity.Appointment{})

	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.PatientType != "" {
			query = query.Where("patient_type = ?", filter.PatientType)
		}
		if filter.StartAt != "" {
			query = query.Where("attend_date >= ?", filter.StartAt)
		}
		if filter.EndAt != "" {
			query = query.Where("attend_date <= ?", filter.EndAt)
		}
	}

	err := query.Order("attend_date ASC, created_at ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Ticket").Save(appointment).Error
}

func (r *appointmentRepository) CountByDate(db *gorm.DB, date time.Time, excludeID *uuid.UUID) (int, error) {
	var count int64
	query := db.Model(&entity.Appointment{}).
		Where("attend_date = ? AND status != ?", date.Format("2006-01-02"), entity.AppointmentStatusCancelled)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *appointmentRepository) CountByDateAndPatientType(db *gorm.DB, date time.Time, patientType entity.PatientType) (int, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("attend_date = ? AND patient_type = ? AND status != ?",
			date.Format("2006-01-02"), patientType, entity.AppointmentStatusCancelled).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *appointmentRepository) FindLatestAttendDate(db *gorm.DB) (*time.Time, error) {
	var appointment entity.Appointment
	err := db.Model(&entity.Appointment{}).
		Where("status != ?", entity.AppointmentStatusCancelled).
		Order("attend_date DESC").
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	date := appointment.AttendDate
	return &date, nil
}
