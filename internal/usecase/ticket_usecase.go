package usecase

import (
	"context"
	"errors"

	"clinic-appointment-service/internal/converter"
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrInvalidPatientType = errors.New("invalid patient type")
)

type TicketUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error)
	Create(ctx context.Context, req *dto.CreateTicketRequest) (*dto.TicketResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.TicketResponse, error)
	List(ctx context.Context) (*dto.TicketListResponse, error)
	Close(ctx context.Context, id uuid.UUID) (*dto.TicketResponse, error)
}

type ticketUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	ticketRepo   repository.TicketRepository
	patientRepo  repository.PatientRepository
	auditService service.AuditService
}

func NewTicketUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ticketRepo repository.TicketRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) TicketUsecase {
	return &ticketUsecase{
		db:           db,
		log:          log,
		ticketRepo:   ticketRepo,
		patientRepo:  patientRepo,
		auditService: auditService,
	}
}

func (u *ticketUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error) {
	patient := &entity.Patient{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	}

	if err := u.patientRepo.Create(u.dbWithCtx(ctx), patient); err != nil {
		u.log.Warnf("Failed to register patient: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient registered: id=%s", patient.ID)
	return converter.PatientToResponse(patient), nil
}

func (u *ticketUsecase) Create(ctx context.Context, req *dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	patientType := entity.PatientType(req.PatientType)
	if !patientType.IsValid() {
		return nil, ErrInvalidPatientType
	}

	db := u.dbWithCtx(ctx)

	patient, err := u.patientRepo.FindByID(db, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	ticket := &entity.Ticket{
		PatientID:   patient.ID,
		PatientType: patientType,
		Status:      entity.TicketStatusOpen,
	}

	if err := u.ticketRepo.Create(db, ticket); err != nil {
		u.log.Warnf("Failed to create ticket: %+v", err)
		return nil, err
	}

	actorID := actorFromContext(ctx)
	u.auditService.Record(db, actorID, entity.AuditActionTicketCreate, "ticket", ticket.ID.String(), map[string]interface{}{
		"patient_id":   ticket.PatientID.String(),
		"patient_type": string(ticket.PatientType),
	})

	u.log.Infof("Ticket created: id=%s, patient=%s, type=%s", ticket.ID, ticket.PatientID, ticket.PatientType)
	return converter.TicketToResponse(ticket), nil
}

func (u *ticketUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.TicketResponse, error) {
	ticket, err := u.ticketRepo.FindByID(u.dbWithCtx(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find ticket %s: %+v", id, err)
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	return converter.TicketToResponse(ticket), nil
}

func (u *ticketUsecase) List(ctx context.Context) (*dto.TicketListResponse, error) {
	tickets, err := u.ticketRepo.FindAll(u.dbWithCtx(ctx))
	if err != nil {
		u.log.Warnf("Failed to list tickets: %+v", err)
		return nil, err
	}

	return &dto.TicketListResponse{
		Tickets: converter.TicketsToResponses(tickets),
		Total:   len(tickets),
	}, nil
}

// Close is idempotent; closing an already closed ticket returns it unchanged.
func (u *ticketUsecase) Close(ctx context.Context, id uuid.UUID) (*dto.TicketResponse, error) {
	db := u.dbWithCtx(ctx)

	ticket, err := u.ticketRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find ticket %s: %+v", id, err)
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}

	if ticket.IsOpen() {
		ticket.Close()
		if err := u.ticketRepo.Update(db, ticket); err != nil {
			u.log.Warnf("Failed to close ticket %s: %+v", id, err)
			return nil, err
		}

		actorID := actorFromContext(ctx)
		u.auditService.Record(db, actorID, entity.AuditActionTicketClose, "ticket", ticket.ID.String(), nil)
		u.log.Infof("Ticket closed: id=%s", ticket.ID)
	}

	return converter.TicketToResponse(ticket), nil
}

func (u *ticketUsecase) dbWithCtx(ctx context.Context) *gorm.DB {
	if u.db == nil {
		return nil
	}
	return u.db.WithContext(ctx)
}
