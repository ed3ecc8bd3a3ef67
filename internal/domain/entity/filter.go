package entity

// HolidayFilter narrows holiday listings. Zero values mean "no filter".
type HolidayFilter struct {
	Type       HolidayType
	ActiveOnly bool
	Year       int
}

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	Status      AppointmentStatus
	PatientType PatientType
	StartAt     string // YYYY-MM-DD, inclusive
	EndAt       string // YYYY-MM-DD, inclusive
}
