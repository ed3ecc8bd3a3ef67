package http

import (
	"net/http"

	"clinic-appointment-service/internal/delivery/http/handler"
	"clinic-appointment-service/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	appointmentHandler *handler.AppointmentHandler
	ticketHandler      *handler.TicketHandler
	holidayHandler     *handler.HolidayHandler
	settingsHandler    *handler.SettingsHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	ticketHandler *handler.TicketHandler,
	holidayHandler *handler.HolidayHandler,
	settingsHandler *handler.SettingsHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		appointmentHandler: appointmentHandler,
		ticketHandler:      ticketHandler,
		holidayHandler:     holidayHandler,
		settingsHandler:    settingsHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Staff routes (front desk and admins)
	staff := api.PathPrefix("").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)

	// Patient registration and tickets
	staff.HandleFunc("/patients", r.ticketHandler.RegisterPatient).Methods(http.MethodPost)
	staff.HandleFunc("/tickets", r.ticketHandler.Create).Methods(http.MethodPost)
	staff.HandleFunc("/tickets", r.ticketHandler.List).Methods(http.MethodGet)
	staff.HandleFunc("/tickets/{id}", r.ticketHandler.GetByID).Methods(http.MethodGet)
	staff.HandleFunc("/tickets/{id}/close", r.ticketHandler.Close).Methods(http.MethodPost)
	staff.HandleFunc("/tickets/{ticketId}/appointments", r.appointmentHandler.ListByTicket).Methods(http.MethodGet)

	// Appointment lifecycle
	staff.HandleFunc("/appointments", r.appointmentHandler.Schedule).Methods(http.MethodPost)
	staff.HandleFunc("/appointments", r.appointmentHandler.List).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}/reschedule", r.appointmentHandler.Reschedule).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}/today", r.appointmentHandler.MarkToday).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}/attended", r.appointmentHandler.MarkAttended).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}/absent", r.appointmentHandler.MarkAbsent).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPost)
	staff.HandleFunc("/dates/{date}/summary", r.appointmentHandler.DateSummary).Methods(http.MethodGet)

	// Admin routes (calendar and settings management)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/holidays", r.holidayHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/holidays", r.holidayHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/holidays/{id}", r.holidayHandler.GetByID).Methods(http.MethodGet)
	admin.HandleFunc("/holidays/{id}", r.holidayHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/holidays/{id}/active", r.holidayHandler.SetActive).Methods(http.MethodPatch)
	admin.HandleFunc("/holidays/{id}", r.holidayHandler.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/settings", r.settingsHandler.Get).Methods(http.MethodGet)
	admin.HandleFunc("/settings", r.settingsHandler.Update).Methods(http.MethodPut)

	admin.HandleFunc("/audit-logs", r.auditLogHandler.List).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
