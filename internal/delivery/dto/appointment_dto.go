package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" validate:"required"`
	AppointmentDate string    `json:"appointment_date" validate:"required,date"`
	StartTime       string    `json:"start_time" validate:"required,clock"`
	EndTime         string    `json:"end_time" validate:"required,clock"`
	Reason          string    `json:"reason" validate:"required,max=2000"`
	Notes           *string   `json:"notes" validate:"omitempty"`
}

type RescheduleAppointmentRequest struct {
	AppointmentDate string  `json:"appointment_date" validate:"required,date"`
	StartTime       string  `json:"start_time" validate:"required,clock"`
	EndTime         string  `json:"end_time" validate:"required,clock"`
	Notes           *string `json:"notes" validate:"omitempty"`
}

type AppointmentListQuery struct {
	Status string
	Date   string
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID        `json:"id"`
	DoctorID        uuid.UUID        `json:"doctor_id"`
	PatientID       uuid.UUID        `json:"patient_id"`
	Doctor          *DoctorResponse  `json:"doctor,omitempty"`
	Patient         *PatientResponse `json:"patient,omitempty"`
	AppointmentDate string           `json:"appointment_date"`
	StartTime       string           `json:"start_time"`
	EndTime         string           `json:"end_time"`
	DurationMinutes int              `json:"duration_minutes"`
	Status          string           `json:"status"`
	Reason          string           `json:"reason"`
	Notes           *string          `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsFree    bool   `json:"is_free"`
}

type AvailabilityResponse struct {
	DoctorID uuid.UUID      `json:"doctor_id"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}

type NotificationResponse struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Kind          string    `json:"kind"`
	Status        string    `json:"status"`
}
