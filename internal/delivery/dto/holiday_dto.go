package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateHolidayRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Type        string `json:"type" validate:"required,oneof=fixed temporary"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"` // Format: YYYY-MM-DD
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsRecurring *bool  `json:"is_recurring" validate:"omitempty"`
}

type UpdateHolidayRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"` // empty string clears the end date
}

type SetHolidayActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// Response DTOs

type HolidayResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date,omitempty"`
	IsRecurring bool      `json:"is_recurring"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type HolidayListResponse struct {
	Holidays []HolidayResponse `json:"holidays"`
	Total    int               `json:"total"`
}
