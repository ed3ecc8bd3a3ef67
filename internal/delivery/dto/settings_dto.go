package dto

import "time"

// Request DTOs

type UpdateSettingsRequest struct {
	AllowedDays   []int `json:"allowed_days" validate:"required,min=1,max=7,unique,dive,gte=0,lte=6"` // 0 = Sunday .. 6 = Saturday
	DailyCapacity int   `json:"daily_capacity" validate:"required,min=1"`
}

// Response DTOs

type SettingsResponse struct {
	AllowedDays   []int     `json:"allowed_days"`
	DailyCapacity int       `json:"daily_capacity"`
	UpdatedAt     time.Time `json:"updated_at"`
}
