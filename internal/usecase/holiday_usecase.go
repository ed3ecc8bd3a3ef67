package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-appointment-service/internal/converter"
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/scheduling"
	"clinic-appointment-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrHolidayNotFound = errors.New("holiday not found")

type HolidayUsecase interface {
	Create(ctx context.Context, req *dto.CreateHolidayRequest) (*dto.HolidayResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.HolidayResponse, error)
	List(ctx context.Context, filter *entity.HolidayFilter) (*dto.HolidayListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateHolidayRequest) (*dto.HolidayResponse, error)
	SetActive(ctx context.Context, id uuid.UUID, req *dto.SetHolidayActiveRequest) (*dto.HolidayResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type holidayUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	holidayRepo  repository.HolidayRepository
	auditService service.AuditService
}

func NewHolidayUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	holidayRepo repository.HolidayRepository,
	auditService service.AuditService,
) HolidayUsecase {
	return &holidayUsecase{
		db:           db,
		log:          log,
		holidayRepo:  holidayRepo,
		auditService: auditService,
	}
}

func (u *holidayUsecase) Create(ctx context.Context, req *dto.CreateHolidayRequest) (*dto.HolidayResponse, error) {
	startDate, err := time.Parse(scheduling.DateLayout, req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse(scheduling.DateLayout, req.EndDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		endDate = &parsed
	}

	// Fixed holidays are recurring unless the client says otherwise; the
	// entity rejects fixed non-recurring combinations anyway.
	isRecurring := entity.HolidayType(req.Type) == entity.HolidayTypeFixed
	if req.IsRecurring != nil {
		isRecurring = *req.IsRecurring
	}

	holiday, err := entity.NewHoliday(req.Name, entity.HolidayType(req.Type), startDate, endDate, isRecurring)
	if err != nil {
		return nil, err
	}

	db := u.dbWithCtx(ctx)
	if err := u.holidayRepo.Create(db, holiday); err != nil {
		u.log.Warnf("Failed to create holiday: %+v", err)
		return nil, err
	}

	actorID := actorFromContext(ctx)
	u.auditService.Record(db, actorID, entity.AuditActionHolidayCreate, "holiday", holiday.ID.String(), map[string]interface{}{
		"name": holiday.Name,
		"type": string(holiday.Type),
	})

	u.log.Infof("Holiday created: id=%s, name=%s, type=%s", holiday.ID, holiday.Name, holiday.Type)
	return converter.HolidayToResponse(holiday), nil
}

func (u *holidayUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.HolidayResponse, error) {
	holiday, err := u.holidayRepo.FindByID(u.dbWithCtx(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find holiday %s: %+v", id, err)
		return nil, err
	}
	if holiday == nil {
		return nil, ErrHolidayNotFound
	}
	return converter.HolidayToResponse(holiday), nil
}

func (u *holidayUsecase) List(ctx context.Context, filter *entity.HolidayFilter) (*dto.HolidayListResponse, error) {
	holidays, err := u.holidayRepo.FindAll(u.dbWithCtx(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list holidays: %+v", err)
		return nil, err
	}

	return &dto.HolidayListResponse{
		Holidays: converter.HolidaysToResponses(holidays),
		Total:    len(holidays),
	}, nil
}

// Update rebuilds the holiday through the entity constructor so the same
// invariants hold for edits as for creation.
func (u *holidayUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateHolidayRequest) (*dto.HolidayResponse, error) {
	db := u.dbWithCtx(ctx)

	holiday, err := u.holidayRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find holiday %s: %+v", id, err)
		return nil, err
	}
	if holiday == nil {
		return nil, ErrHolidayNotFound
	}

	name := holiday.Name
	if req.Name != nil {
		name = *req.Name
	}

	startDate := holiday.StartDate
	if req.StartDate != nil {
		parsed, err := time.Parse(scheduling.DateLayout, *req.StartDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		startDate = parsed
	}

	// Omitted keeps the current end date; an explicit empty string collapses
	// the range back to a single day.
	endDate := holiday.EndDate
	if req.EndDate != nil {
		if *req.EndDate == "" {
			endDate = nil
		} else {
			parsed, err := time.Parse(scheduling.DateLayout, *req.EndDate)
			if err != nil {
				return nil, ErrInvalidDate
			}
			endDate = &parsed
		}
	}

	rebuilt, err := entity.NewHoliday(name, holiday.Type, startDate, endDate, holiday.IsRecurring)
	if err != nil {
		return nil, err
	}

	holiday.Name = rebuilt.Name
	holiday.StartDate = rebuilt.StartDate
	holiday.EndDate = rebuilt.EndDate

	if err := u.holidayRepo.Update(db, holiday); err != nil {
		u.log.Warnf("Failed to update holiday %s: %+v", id, err)
		return nil, err
	}

	actorID := actorFromContext(ctx)
	u.auditService.Record(db, actorID, entity.AuditActionHolidayUpdate, "holiday", holiday.ID.String(), map[string]interface{}{
		"name": holiday.Name,
	})

	return converter.HolidayToResponse(holiday), nil
}

// SetActive toggles a holiday without deleting it. Inactive holidays are
// ignored by the scheduling engine but stay visible to admins.
func (u *holidayUsecase) SetActive(ctx context.Context, id uuid.UUID, req *dto.SetHolidayActiveRequest) (*dto.HolidayResponse, error) {
	db := u.dbWithCtx(ctx)

	holiday, err := u.holidayRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find holiday %s: %+v", id, err)
		return nil, err
	}
	if holiday == nil {
		return nil, ErrHolidayNotFound
	}

	holiday.IsActive = *req.IsActive
	if err := u.holidayRepo.Update(db, holiday); err != nil {
		u.log.Warnf("Failed to update holiday %s: %+v", id, err)
		return nil, err
	}

	actorID := actorFromContext(ctx)
	u.auditService.Record(db, actorID, entity.AuditActionHolidayUpdate, "holiday", holiday.ID.String(), map[string]interface{}{
		"is_active": holiday.IsActive,
	})

	return converter.HolidayToResponse(holiday), nil
}

func (u *holidayUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	db := u.dbWithCtx(ctx)

	affected, err := u.holidayRepo.Delete(db, id)
	if err != nil {
		u.log.Warnf("Failed to delete holiday %s: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrHolidayNotFound
	}

	actorID := actorFromContext(ctx)
	u.auditService.Record(db, actorID, entity.AuditActionHolidayDelete, "holiday", id.String(), nil)

	u.log.Infof("Holiday deleted: id=%s", id)
	return nil
}

func (u *holidayUsecase) dbWithCtx(ctx context.Context) *gorm.DB {
	if u.db == nil {
		return nil
	}
	return u.db.WithContext(ctx)
}
