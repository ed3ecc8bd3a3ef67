package converter

import (
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}
	return &dto.PatientResponse{
		ID:          patient.ID,
		FullName:    patient.FullName,
		PhoneNumber: patient.PhoneNumber,
		CreatedAt:   patient.CreatedAt,
	}
}

// TicketToResponse converts a Ticket entity to TicketResponse DTO
func TicketToResponse(ticket *entity.Ticket) *dto.TicketResponse {
	if ticket == nil {
		return nil
	}

	response := &dto.TicketResponse{
		ID:          ticket.ID,
		PatientID:   ticket.PatientID,
		PatientType: string(ticket.PatientType),
		Status:      string(ticket.Status),
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}

	// Include patient info if preloaded
	if ticket.Patient.ID != uuid.Nil {
		response.Patient = PatientToResponse(&ticket.Patient)
	}

	return response
}

// TicketsToResponses converts a slice of Ticket entities to response DTOs
func TicketsToResponses(tickets []entity.Ticket) []dto.TicketResponse {
	responses := make([]dto.TicketResponse, len(tickets))
	for i := range tickets {
		responses[i] = *TicketToResponse(&tickets[i])
	}
	return responses
}
