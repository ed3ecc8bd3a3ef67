package repository

import (
	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HolidayRepository interface {
	Create(db *gorm.DB, holiday *entity.Holiday) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Holiday, error)
	FindAll(db *gorm.DB, filter *entity.HolidayFilter) ([]entity.Holiday, error)
	FindActive(db *gorm.DB) ([]entity.Holiday, error)
	Update(db *gorm.DB, holiday *entity.Holiday) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
