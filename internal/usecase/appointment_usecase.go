package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-appointment-service/internal/converter"
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/delivery/http/middleware"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/scheduling"
	"clinic-appointment-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrTicketClosed          = errors.New("ticket is closed")
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrSettingsNotConfigured = errors.New("clinic settings are not configured")
	ErrInvalidDate           = errors.New("invalid date format, use YYYY-MM-DD")
)

// How many times a Schedule/Reschedule retries the date walk after losing a
// commit-time capacity race on the chosen date.
const maxReserveAttempts = 3

// Deadline for slot releases, which run on a background context because the
// status change they compensate for has already committed.
const releaseSlotTimeout = 5 * time.Second

// CapacityCache is the commit-time capacity guard (Redis-backed in
// production). Reservations close the window between the engine's capacity
// check and the database insert; SyncDate overwrites a counter with an
// authoritative recount when a release is lost.
type CapacityCache interface {
	ReserveSlot(ctx context.Context, date time.Time, capacity int) error
	ReleaseSlot(ctx context.Context, date time.Time) error
	SyncDate(ctx context.Context, date time.Time, recount func(ctx context.Context, date time.Time) (int, error)) error
}

type AppointmentUsecase interface {
	Schedule(ctx context.Context, req *dto.ScheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	MarkToday(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	MarkAttended(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	MarkAbsent(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListByTicket(ctx context.Context, ticketID uuid.UUID) (*dto.AppointmentListResponse, error)
	List(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error)
	DateSummary(ctx context.Context, date string) (*dto.DateSummaryResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	ticketRepo      repository.TicketRepository
	holidayRepo     repository.HolidayRepository
	settingsRepo    repository.SettingsRepository
	capacityCache   CapacityCache
	auditService    service.AuditService
	finder          *scheduling.Finder

	// Injected clock; tests pin this to a fixed date.
	now func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	ticketRepo repository.TicketRepository,
	holidayRepo repository.HolidayRepository,
	settingsRepo repository.SettingsRepository,
	capacityCache CapacityCache,
	auditService service.AuditService,
	finder *scheduling.Finder,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		ticketRepo:      ticketRepo,
		holidayRepo:     holidayRepo,
		settingsRepo:    settingsRepo,
		capacityCache:   capacityCache,
		auditService:    auditService,
		finder:          finder,
		now:             time.Now,
	}
}

// Schedule books the next valid date for a new appointment on an open ticket.
//
// Flow:
// 1. Validate ticket exists and is open
// 2. Load the rules snapshot (settings + active holidays) and the latest
//    scheduled date
// 3. Walk the calendar for the first bookable date
// 4. Reserve the slot in Redis (atomic); on a capacity race, resume the walk
//    from the next day
// 5. Insert the appointment; compensate the reservation if the insert fails
func (u *appointmentUsecase) Schedule(ctx context.Context, req *dto.ScheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	db := u.dbWithCtx(ctx)

	ticket, err := u.ticketRepo.FindByID(db, req.TicketID)
	if err != nil {
		u.log.Warnf("Failed to find ticket %s: %+v", req.TicketID, err)
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	if !ticket.IsOpen() {
		return nil, ErrTicketClosed
	}

	rules, err := u.loadRules(db)
	if err != nil {
		return nil, err
	}

	lastDate, err := u.appointmentRepo.FindLatestAttendDate(db)
	if err != nil {
		u.log.Warnf("Failed to load latest attend date: %+v", err)
		return nil, err
	}

	sctx := scheduling.NewContext(u.now(), lastDate, rules)
	attendDate, err := u.findAndReserve(ctx, db, sctx, nil)
	if err != nil {
		return nil, err
	}

	appointment, err := entity.NewAppointment(ticket.ID, ticket.PatientType, attendDate, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := u.appointmentRepo.Create(db, appointment); err != nil {
		u.log.Errorf("Failed to insert appointment, compensating reservation: %+v", err)
		u.releaseSlot(attendDate)
		return nil, err
	}

	actorID := actorFromContext(ctx)
	u.auditService.Record(db, actorID, entity.AuditActionAppointmentSchedule, "appointment", appointment.ID.String(), map[string]interface{}{
		"ticket_id":   appointment.TicketID.String(),
		"attend_date": appointment.AttendDate.Format(scheduling.DateLayout),
	})

	u.log.Infof("Appointment scheduled: id=%s, ticket=%s, date=%s",
		appointment.ID, appointment.TicketID, appointment.AttendDate.Format(scheduling.DateLayout))
	return converter.AppointmentToResponse(appointment), nil
}

// Reschedule moves an existing appointment to the next valid date. The
// appointment's own slot is excluded from the capacity count so it never
// blocks itself; in particular, rescheduling onto its current date succeeds
// even when that date is otherwise full.
func (u *appointmentUsecase) Reschedule(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	db := u.dbWithCtx(ctx)

	appointment, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.IsReadonly() {
		return nil, &entity.ReadonlyError{Status: appointment.Status}
	}

	rules, err := u.loadRules(db)
	if err != nil {
		return nil, err
	}

	lastDate, err := u.appointmentRepo.FindLatestAttendDate(db)
	if err != nil {
		u.log.Warnf("Failed to load latest attend date: %+v", err)
		return nil, err
	}

	oldDate := scheduling.DateOnly(appointment.AttendDate)
	sctx := scheduling.NewContext(u.now(), lastDate, rules)

	excludeID := appointment.ID
	newDate, err := u.findAndReserveForReschedule(ctx, db, sctx, excludeID, oldDate)
	if err != nil {
		return nil, err
	}

	if err := appointment.Reschedule(newDate); err != nil {
		if !scheduling.SameDate(newDate, oldDate) {
			u.releaseSlot(newDate)
		}
		return nil, err
	}

	if err := u.appointmentRepo.Update(db, appointment); err != nil {
		u.log.Errorf("Failed to persist reschedule, compensating reservation: %+v", err)
		if !scheduling.SameDate(newDate, oldDate) {
			u.releaseSlot(newDate)
		}
		return nil, err
	}

	// The old date gained a free slot.
	if !scheduling.SameDate(newDate, oldDate) {
		u.releaseSlot(oldDate)
	}

	actorID := actorFromContext(ctx)
	u.auditService.Record(db, actorID, entity.AuditActionAppointmentReschedule, "appointment", appointment.ID.String(), map[string]interface{}{
		"old_date": oldDate.Format(scheduling.DateLayout),
		"new_date": appointment.AttendDate.Format(scheduling.DateLayout),
	})

	u.log.Infof("Appointment rescheduled: id=%s, %s -> %s",
		appointment.ID, oldDate.Format(scheduling.DateLayout), appointment.AttendDate.Format(scheduling.DateLayout))
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) MarkToday(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.applyTransition(ctx, appointmentID, entity.AuditActionAppointmentToday, func(a *entity.Appointment) error {
		return a.MarkToday(u.now())
	})
}

func (u *appointmentUsecase) MarkAttended(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.applyTransition(ctx, appointmentID, entity.AuditActionAppointmentAttended, func(a *entity.Appointment) error {
		return a.MarkAttended(u.now())
	})
}

func (u *appointmentUsecase) MarkAbsent(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.applyTransition(ctx, appointmentID, entity.AuditActionAppointmentAbsent, func(a *entity.Appointment) error {
		return a.MarkAbsent(u.now())
	})
}

// Cancel releases the appointment's capacity slot after the status change
// commits. The release never fails the request; the source of truth is
// PostgreSQL and a lost release falls back to a counter re-sync.
func (u *appointmentUsecase) Cancel(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	resp, err := u.applyTransition(ctx, appointmentID, entity.AuditActionAppointmentCancel, func(a *entity.Appointment) error {
		return a.Cancel()
	})
	if err != nil {
		return nil, err
	}

	if attendDate, parseErr := time.Parse(scheduling.DateLayout, resp.AttendDate); parseErr == nil {
		u.releaseSlot(attendDate)
	}

	return resp, nil
}

func (u *appointmentUsecase) ListByTicket(ctx context.Context, ticketID uuid.UUID) (*dto.AppointmentListResponse, error) {
	db := u.dbWithCtx(ctx)

	appointments, err := u.appointmentRepo.FindByTicketID(db, ticketID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for ticket %s: %+v", ticketID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) List(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	db := u.dbWithCtx(ctx)

	appointments, err := u.appointmentRepo.FindAll(db, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// DateSummary reports occupancy for one date broken down by patient type.
// Capacity is global; the per-type counts are informational only.
func (u *appointmentUsecase) DateSummary(ctx context.Context, date string) (*dto.DateSummaryResponse, error) {
	parsed, err := time.Parse(scheduling.DateLayout, date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	db := u.dbWithCtx(ctx)

	rules, err := u.loadRules(db)
	if err != nil {
		return nil, err
	}

	total, err := u.appointmentRepo.CountByDate(db, parsed, nil)
	if err != nil {
		u.log.Warnf("Failed to count appointments for %s: %+v", date, err)
		return nil, err
	}

	byType := make(map[string]int)
	for _, pt := range []entity.PatientType{entity.PatientTypeRegular, entity.PatientTypeRepair, entity.PatientTypeTherapy} {
		n, err := u.appointmentRepo.CountByDateAndPatientType(db, parsed, pt)
		if err != nil {
			u.log.Warnf("Failed to count %s appointments for %s: %+v", pt, date, err)
			return nil, err
		}
		byType[string(pt)] = n
	}

	remaining := rules.DailyCapacity() - total
	if remaining < 0 {
		remaining = 0
	}

	return &dto.DateSummaryResponse{
		Date:          parsed.Format(scheduling.DateLayout),
		Total:         total,
		ByPatientType: byType,
		DailyCapacity: rules.DailyCapacity(),
		Remaining:     remaining,
	}, nil
}

// loadRules builds the immutable rules snapshot for one operation.
func (u *appointmentUsecase) loadRules(db *gorm.DB) (scheduling.Rules, error) {
	settings, err := u.settingsRepo.Get(db)
	if err != nil {
		u.log.Warnf("Failed to load clinic settings: %+v", err)
		return scheduling.Rules{}, err
	}
	if settings == nil {
		return scheduling.Rules{}, ErrSettingsNotConfigured
	}
	if err := settings.Validate(); err != nil {
		return scheduling.Rules{}, err
	}

	holidays, err := u.holidayRepo.FindActive(db)
	if err != nil {
		u.log.Warnf("Failed to load holidays: %+v", err)
		return scheduling.Rules{}, err
	}

	return scheduling.NewRules(settings.Weekdays(), holidays, settings.DailyCapacity)
}

// findAndReserve walks the calendar and claims the found date atomically,
// resuming the walk when a concurrent booking wins the race for a date.
func (u *appointmentUsecase) findAndReserve(ctx context.Context, db *gorm.DB, sctx scheduling.Context, excludeID *uuid.UUID) (time.Time, error) {
	countForDate := func(ctx context.Context, date time.Time) (int, error) {
		return u.appointmentRepo.CountByDate(db, date, excludeID)
	}

	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		date, err := u.finder.NextValidDate(ctx, sctx, countForDate)
		if err != nil {
			return time.Time{}, err
		}

		err = u.capacityCache.ReserveSlot(ctx, date, sctx.Rules.DailyCapacity())
		if err == nil {
			return date, nil
		}
		if !errors.Is(err, service.ErrDateFull) {
			return time.Time{}, err
		}

		u.log.Infof("Lost capacity race for %s, resuming search", date.Format(scheduling.DateLayout))
		sctx = sctx.WithStartDate(scheduling.NextDay(date))
	}

	return time.Time{}, service.ErrDateFull
}

// findAndReserveForReschedule is findAndReserve with one special case: when
// the walk lands on the appointment's current date, that slot is already the
// appointment's own, so no reservation is needed.
func (u *appointmentUsecase) findAndReserveForReschedule(ctx context.Context, db *gorm.DB, sctx scheduling.Context, excludeID uuid.UUID, currentDate time.Time) (time.Time, error) {
	countForDate := func(ctx context.Context, date time.Time) (int, error) {
		return u.appointmentRepo.CountByDate(db, date, &excludeID)
	}

	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		date, err := u.finder.NextValidDate(ctx, sctx, countForDate)
		if err != nil {
			return time.Time{}, err
		}

		if scheduling.SameDate(date, currentDate) {
			return date, nil
		}

		err = u.capacityCache.ReserveSlot(ctx, date, sctx.Rules.DailyCapacity())
		if err == nil {
			return date, nil
		}
		if !errors.Is(err, service.ErrDateFull) {
			return time.Time{}, err
		}

		u.log.Infof("Lost capacity race for %s, resuming search", date.Format(scheduling.DateLayout))
		sctx = sctx.WithStartDate(scheduling.NextDay(date))
	}

	return time.Time{}, service.ErrDateFull
}

// applyTransition loads an appointment, runs one status-machine mutation and
// persists the result. All guard logic lives in the entity.
func (u *appointmentUsecase) applyTransition(ctx context.Context, appointmentID uuid.UUID, auditAction string, mutate func(*entity.Appointment) error) (*dto.AppointmentResponse, error) {
	db := u.dbWithCtx(ctx)

	appointment, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	previous := appointment.Status
	if err := mutate(appointment); err != nil {
		return nil, err
	}

	if err := u.appointmentRepo.Update(db, appointment); err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	actorID := actorFromContext(ctx)
	u.auditService.Record(db, actorID, auditAction, "appointment", appointment.ID.String(), map[string]interface{}{
		"from_status": string(previous),
		"to_status":   string(appointment.Status),
	})

	u.log.Infof("Appointment %s: %s -> %s", appointment.ID, previous, appointment.Status)
	return converter.AppointmentToResponse(appointment), nil
}

// releaseSlot frees one slot on a date, either as compensation for an insert
// that failed after reserving or because an appointment left the date. When
// the release itself fails the counter would keep a phantom booking, so the
// fallback overwrites it with a fresh database recount.
func (u *appointmentUsecase) releaseSlot(date time.Time) {
	releaseCtx, cancel := context.WithTimeout(context.Background(), releaseSlotTimeout)
	defer cancel()

	if err := u.capacityCache.ReleaseSlot(releaseCtx, date); err == nil {
		return
	}

	db := u.dbWithCtx(releaseCtx)
	err := u.capacityCache.SyncDate(releaseCtx, date, func(ctx context.Context, d time.Time) (int, error) {
		return u.appointmentRepo.CountByDate(db, d, nil)
	})
	if err != nil {
		u.log.Errorf("CRITICAL: Failed to release and re-sync slot counter on %s: %+v", date.Format(scheduling.DateLayout), err)
	}
}

// dbWithCtx attaches the request context to the shared gorm handle. Nil in
// unit tests, where fake repositories ignore the handle entirely.
func (u *appointmentUsecase) dbWithCtx(ctx context.Context) *gorm.DB {
	if u.db == nil {
		return nil
	}
	return u.db.WithContext(ctx)
}

func actorFromContext(ctx context.Context) *uuid.UUID {
	if actorID, ok := middleware.GetActorIDFromContext(ctx); ok {
		return &actorID
	}
	return nil
}
