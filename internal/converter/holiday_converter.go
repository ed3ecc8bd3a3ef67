package converter

import (
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
)

// HolidayToResponse converts a Holiday entity to HolidayResponse DTO.
// Fixed holidays render their start date as MM-DD since the stored year is
// a sentinel.
func HolidayToResponse(holiday *entity.Holiday) *dto.HolidayResponse {
	if holiday == nil {
		return nil
	}

	response := &dto.HolidayResponse{
		ID:          holiday.ID,
		Name:        holiday.Name,
		Type:        string(holiday.Type),
		IsRecurring: holiday.IsRecurring,
		IsActive:    holiday.IsActive,
		CreatedAt:   holiday.CreatedAt,
		UpdatedAt:   holiday.UpdatedAt,
	}

	if holiday.Type == entity.HolidayTypeFixed {
		response.StartDate = holiday.StartDate.Format("01-02")
	} else {
		response.StartDate = holiday.StartDate.Format("2006-01-02")
		if holiday.EndDate != nil {
			response.EndDate = holiday.EndDate.Format("2006-01-02")
		}
	}

	return response
}

// HolidaysToResponses converts a slice of Holiday entities to response DTOs
func HolidaysToResponses(holidays []entity.Holiday) []dto.HolidayResponse {
	responses := make([]dto.HolidayResponse, len(holidays))
	for i := range holidays {
		responses[i] = *HolidayToResponse(&holidays[i])
	}
	return responses
}
