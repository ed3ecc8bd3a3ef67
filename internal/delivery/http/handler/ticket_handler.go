package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/usecase"
	"clinic-appointment-service/pkg/response"
	"clinic-appointment-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type TicketHandler struct {
	ticketUsecase usecase.TicketUsecase
	validator     *validator.CustomValidator
}

func NewTicketHandler(ticketUsecase usecase.TicketUsecase, validator *validator.CustomValidator) *TicketHandler {
	return &TicketHandler{
		ticketUsecase: ticketUsecase,
		validator:     validator,
	}
}

func (h *TicketHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.ticketUsecase.RegisterPatient(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to register patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient registered successfully", patient)
}

func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	ticket, err := h.ticketUsecase.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		case errors.Is(err, usecase.ErrInvalidPatientType):
			response.Error(w, http.StatusBadRequest, "Invalid patient type", nil)
		default:
			response.InternalServerError(w, "Failed to create ticket")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Ticket created successfully", ticket)
}

func (h *TicketHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	ticket, err := h.ticketUsecase.GetByID(r.Context(), ticketID)
	if err != nil {
		if errors.Is(err, usecase.ErrTicketNotFound) {
			response.NotFound(w, "Ticket not found")
			return
		}
		response.InternalServerError(w, "Failed to get ticket")
		return
	}

	response.Success(w, http.StatusOK, "Ticket retrieved successfully", ticket)
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.ticketUsecase.List(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list tickets")
		return
	}

	response.Success(w, http.StatusOK, "Tickets retrieved successfully", tickets)
}

func (h *TicketHandler) Close(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	ticket, err := h.ticketUsecase.Close(r.Context(), ticketID)
	if err != nil {
		if errors.Is(err, usecase.ErrTicketNotFound) {
			response.NotFound(w, "Ticket not found")
			return
		}
		response.InternalServerError(w, "Failed to close ticket")
		return
	}

	response.Success(w, http.StatusOK, "Ticket closed successfully", ticket)
}

func (h *TicketHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	ticketID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid ticket ID", nil)
		return uuid.Nil, false
	}
	return ticketID, true
}
