package usecase

import (
	"context"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/service"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SettingsUsecase interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	settingsRepo repository.SettingsRepository
	auditService service.AuditService
}

func NewSettingsUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	settingsRepo repository.SettingsRepository,
	auditService service.AuditService,
) SettingsUsecase {
	return &settingsUsecase{
		db:           db,
		log:          log,
		settingsRepo: settingsRepo,
		auditService: auditService,
	}
}

func (u *settingsUsecase) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := u.settingsRepo.Get(u.dbWithCtx(ctx))
	if err != nil {
		u.log.Warnf("Failed to load clinic settings: %+v", err)
		return nil, err
	}
	if settings == nil {
		return nil, ErrSettingsNotConfigured
	}
	return settingsToResponse(settings), nil
}

// Update replaces the operating calendar. The change only affects future
// scheduling operations; existing appointments keep their dates.
func (u *settingsUsecase) Update(ctx context.Context, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	days := make(pq.Int64Array, 0, len(req.AllowedDays))
	for _, d := range req.AllowedDays {
		days = append(days, int64(d))
	}

	settings := &entity.ClinicSettings{
		AllowedDays:   days,
		DailyCapacity: req.DailyCapacity,
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	db := u.dbWithCtx(ctx)
	if err := u.settingsRepo.Upsert(db, settings); err != nil {
		u.log.Warnf("Failed to update clinic settings: %+v", err)
		return nil, err
	}

	actorID := actorFromContext(ctx)
	u.auditService.Record(db, actorID, entity.AuditActionSettingsUpdate, "clinic_settings", "", map[string]interface{}{
		"allowed_days":   req.AllowedDays,
		"daily_capacity": req.DailyCapacity,
	})

	u.log.Infof("Clinic settings updated: days=%v, capacity=%d", req.AllowedDays, req.DailyCapacity)
	return settingsToResponse(settings), nil
}

func settingsToResponse(settings *entity.ClinicSettings) *dto.SettingsResponse {
	days := make([]int, 0, len(settings.AllowedDays))
	for _, d := range settings.AllowedDays {
		days = append(days, int(d))
	}
	return &dto.SettingsResponse{
		AllowedDays:   days,
		DailyCapacity: settings.DailyCapacity,
		UpdatedAt:     settings.UpdatedAt,
	}
}

func (u *settingsUsecase) dbWithCtx(ctx context.Context) *gorm.DB {
	if u.db == nil {
		return nil
	}
	return u.db.WithContext(ctx)
}
