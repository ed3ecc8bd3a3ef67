package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/scheduling"
	"clinic-appointment-service/internal/service"
	"clinic-appointment-service/internal/usecase"
	"clinic-appointment-service/pkg/response"
	"clinic-appointment-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req dto.ScheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Schedule(r.Context(), &req)
	if err != nil {
		h.writeSchedulingError(w, err, "Failed to schedule appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment scheduled successfully", appointment)
}

func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Reschedule(r.Context(), appointmentID)
	if err != nil {
		h.writeSchedulingError(w, err, "Failed to reschedule appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment rescheduled successfully", appointment)
}

func (h *AppointmentHandler) MarkToday(w http.ResponseWriter, r *http.Request) {
	h.applyStatusChange(w, r, h.appointmentUsecase.MarkToday, "Appointment marked as today's appointment")
}

func (h *AppointmentHandler) MarkAttended(w http.ResponseWriter, r *http.Request) {
	h.applyStatusChange(w, r, h.appointmentUsecase.MarkAttended, "Appointment marked as attended")
}

func (h *AppointmentHandler) MarkAbsent(w http.ResponseWriter, r *http.Request) {
	h.applyStatusChange(w, r, h.appointmentUsecase.MarkAbsent, "Appointment marked as absent")
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.applyStatusChange(w, r, h.appointmentUsecase.Cancel, "Appointment cancelled successfully")
}

func (h *AppointmentHandler) ListByTicket(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ticketID, err := uuid.Parse(vars["ticketId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	appointments, err := h.appointmentUsecase.ListByTicket(r.Context(), ticketID)
	if err != nil {
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := &entity.AppointmentFilter{
		Status:      entity.AppointmentStatus(query.Get("status")),
		PatientType: entity.PatientType(query.Get("patient_type")),
		StartAt:     query.Get("start_at"),
		EndAt:       query.Get("end_at"),
	}

	appointments, err := h.appointmentUsecase.List(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) DateSummary(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	summary, err := h.appointmentUsecase.DateSummary(r.Context(), vars["date"])
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidDate):
			response.Error(w, http.StatusBadRequest, "Invalid date, use YYYY-MM-DD", nil)
		case errors.Is(err, usecase.ErrSettingsNotConfigured):
			response.Conflict(w, "settings_not_configured", "Clinic settings have not been configured")
		default:
			response.InternalServerError(w, "Failed to build date summary")
		}
		return
	}

	response.Success(w, http.StatusOK, "Date summary retrieved successfully", summary)
}

func (h *AppointmentHandler) applyStatusChange(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error),
	message string,
) {
	appointmentID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	appointment, err := apply(r.Context(), appointmentID)
	if err != nil {
		h.writeSchedulingError(w, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, message, appointment)
}

func (h *AppointmentHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return uuid.Nil, false
	}
	return appointmentID, true
}

// writeSchedulingError maps domain rejections to HTTP statuses with
// machine-readable codes.
func (h *AppointmentHandler) writeSchedulingError(w http.ResponseWriter, err error, fallback string) {
	var (
		transitionErr *entity.StateTransitionError
		todayErr      *entity.TodayMarkError
		futureErr     *entity.FutureStatusError
		readonlyErr   *entity.ReadonlyError
		noDatesErr    *scheduling.NoAvailableDatesError
	)

	switch {
	case errors.Is(err, usecase.ErrTicketNotFound):
		response.NotFound(w, "Ticket not found")
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrTicketClosed):
		response.Conflict(w, "ticket_closed", "Ticket is closed and no longer accepts appointments")
	case errors.Is(err, usecase.ErrSettingsNotConfigured):
		response.Conflict(w, "settings_not_configured", "Clinic settings have not been configured")
	case errors.Is(err, service.ErrDateFull):
		response.Conflict(w, "no_available_dates", "No date with remaining capacity could be reserved")
	case errors.As(err, &noDatesErr):
		response.Conflict(w, "no_available_dates", noDatesErr.Error())
	case errors.As(err, &readonlyErr):
		response.Conflict(w, "appointment_readonly", readonlyErr.Error())
	case errors.As(err, &todayErr):
		response.Conflict(w, "invalid_today_mark", todayErr.Error())
	case errors.As(err, &futureErr):
		response.Conflict(w, "future_attend_date", futureErr.Error())
	case errors.As(err, &transitionErr):
		response.Conflict(w, "invalid_transition", transitionErr.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
