package repository

import (
	"errors"

	"clinic-appointment-service/internal/domain/entity"
	domainRepo "clinic-appointment-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// clinic_settings holds exactly one row with this id.
const settingsRowID = 1

type settingsRepository struct{}

func NewSettingsRepository() domainRepo.SettingsRepository {
	return &settingsRepository{}
}

func (r *settingsRepository) Get(db *gorm.DB) (*entity.ClinicSettings, error) {
	var settings entity.ClinicSettings
	err := db.Where("id = ?", settingsRowID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Upsert(db *gorm.DB, settings *entity.ClinicSettings) error {
	settings.ID = settingsRowID
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"allowed_days", "daily_capacity", "updated_at"}),
	}).Create(settings).Error
}
