package repository

import (
	"clinic-appointment-service/internal/domain/entity"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	// Get returns the clinic settings row, or nil when none has been
	// provisioned yet.
	Get(db *gorm.DB) (*entity.ClinicSettings, error)
	Upsert(db *gorm.DB, settings *entity.ClinicSettings) error
}
