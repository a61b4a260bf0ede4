package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateWeeklyTemplateRequest struct {
	DayOfWeek   *int   `json:"day_of_week" validate:"required"` // 0=Sunday .. 6=Saturday
	StartTime   string `json:"start_time" validate:"required,clock"`
	EndTime     string `json:"end_time" validate:"required,clock"`
	IsAvailable *bool  `json:"is_available"` // defaults to true
}

type UpdateWeeklyTemplateRequest struct {
	DayOfWeek   *int    `json:"day_of_week"`
	StartTime   *string `json:"start_time" validate:"omitempty,clock"`
	EndTime     *string `json:"end_time" validate:"omitempty,clock"`
	IsAvailable *bool   `json:"is_available"`
}

// Response DTOs

type WeeklyTemplateResponse struct {
	ID          int       `json:"id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	DayOfWeek   int       `json:"day_of_week"`
	DayName     string    `json:"day_name"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type WeeklyTemplateListResponse struct {
	Templates []WeeklyTemplateResponse `json:"templates"`
	Total     int                      `json:"total"`
}
