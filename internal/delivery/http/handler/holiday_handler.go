package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/usecase"
	"clinic-appointment-service/pkg/response"
	"clinic-appointment-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type HolidayHandler struct {
	holidayUsecase usecase.HolidayUsecase
	validator      *validator.CustomValidator
}

func NewHolidayHandler(holidayUsecase usecase.HolidayUsecase, validator *validator.CustomValidator) *HolidayHandler {
	return &HolidayHandler{
		holidayUsecase: holidayUsecase,
		validator:      validator,
	}
}

func (h *HolidayHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	holiday, err := h.holidayUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writeHolidayError(w, err, "Failed to create holiday")
		return
	}

	response.Success(w, http.StatusCreated, "Holiday created successfully", holiday)
}

func (h *HolidayHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	holidayID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	holiday, err := h.holidayUsecase.GetByID(r.Context(), holidayID)
	if err != nil {
		h.writeHolidayError(w, err, "Failed to get holiday")
		return
	}

	response.Success(w, http.StatusOK, "Holiday retrieved successfully", holiday)
}

func (h *HolidayHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := &entity.HolidayFilter{
		Type:       entity.HolidayType(query.Get("type")),
		ActiveOnly: query.Get("active") == "true",
	}
	if yearStr := query.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid year", nil)
			return
		}
		filter.Year = year
	}

	holidays, err := h.holidayUsecase.List(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list holidays")
		return
	}

	response.Success(w, http.StatusOK, "Holidays retrieved successfully", holidays)
}

func (h *HolidayHandler) Update(w http.ResponseWriter, r *http.Request) {
	holidayID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	holiday, err := h.holidayUsecase.Update(r.Context(), holidayID, &req)
	if err != nil {
		h.writeHolidayError(w, err, "Failed to update holiday")
		return
	}

	response.Success(w, http.StatusOK, "Holiday updated successfully", holiday)
}

func (h *HolidayHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	holidayID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req dto.SetHolidayActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	holiday, err := h.holidayUsecase.SetActive(r.Context(), holidayID, &req)
	if err != nil {
		h.writeHolidayError(w, err, "Failed to update holiday")
		return
	}

	response.Success(w, http.StatusOK, "Holiday updated successfully", holiday)
}

func (h *HolidayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	holidayID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.holidayUsecase.Delete(r.Context(), holidayID); err != nil {
		h.writeHolidayError(w, err, "Failed to delete holiday")
		return
	}

	response.Success(w, http.StatusOK, "Holiday deleted successfully", nil)
}

func (h *HolidayHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	holidayID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid holiday ID", nil)
		return uuid.Nil, false
	}
	return holidayID, true
}

func (h *HolidayHandler) writeHolidayError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrHolidayNotFound):
		response.NotFound(w, "Holiday not found")
	case errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, entity.ErrHolidayNameRequired),
		errors.Is(err, entity.ErrHolidayNameTooLong),
		errors.Is(err, entity.ErrHolidayTypeInvalid),
		errors.Is(err, entity.ErrFixedHolidayNotRecurring),
		errors.Is(err, entity.ErrHolidayRangeInvalid):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
