package repository

import (
	"errors"
	"fmt"

	"clinic-appointment-service/internal/domain/entity"
	domainRepo "clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type holidayRepository struct{}

func NewHolidayRepository() domainRepo.HolidayRepository {
	return &holidayRepository{}
}

func (r *holidayRepository) Create(db *gorm.DB, holiday *entity.Holiday) error {
	return db.Create(holiday).Error
}

func (r *holidayRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Holiday, error) {
	var holiday entity.Holiday
	err := db.Where("id = ?", id).First(&holiday).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &holiday, nil
}

func (r *holidayRepository) FindAll(db *gorm.DB, filter *entity.HolidayFilter) ([]entity.Holiday, error) {
	var holidays []entity.Holiday
	query := db.Model(&entity.Holiday{})

	if filter != nil {
		if filter.Type != "" {
			query = query.Where("type = ?", filter.Type)
		}
		if filter.ActiveOnly {
			query = query.Where("is_active = ?", true)
		}
		if filter.Year != 0 {
			// Fixed holidays recur every year, so a year filter keeps them
			// alongside the temporary holidays falling inside that year.
			yearStart := fmt.Sprintf("%04d-01-01", filter.Year)
			yearEnd := fmt.Sprintf("%04d-12-31", filter.Year)
			query = query.Where(
				"type = ? OR (start_date <= ? AND COALESCE(end_date, start_date) >= ?)",
				entity.HolidayTypeFixed, yearEnd, yearStart,
			)
		}
	}

	err := query.Order("start_date ASC, name ASC").Find(&holidays).Error
	if err != nil {
		return nil, err
	}
	return holidays, nil
}

func (r *holidayRepository) FindActive(db *gorm.DB) ([]entity.Holiday, error) {
	var holidays []entity.Holiday
	err := db.Where("is_active = ?", true).Order("start_date ASC").Find(&holidays).Error
	if err != nil {
		return nil, err
	}
	return holidays, nil
}

func (r *holidayRepository) Update(db *gorm.DB, holiday *entity.Holiday) error {
	return db.Save(holiday).Error
}

func (r *holidayRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.Holiday{})
	return affected.RowsAffected, affected.Error
}
