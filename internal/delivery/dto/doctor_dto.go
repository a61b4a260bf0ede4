package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type DoctorListQuery struct {
	Specialization string
	OnlyAvailable  bool
}

// UpdateDoctorRequest is used by doctors on their own profile and by admins.
// Nil fields are left unchanged.
type UpdateDoctorRequest struct {
	FullName        *string          `json:"full_name" validate:"omitempty,min=2"`
	Phone           *string          `json:"phone" validate:"omitempty,min=7,max=20"`
	Specialization  *string          `json:"specialization" validate:"omitempty,max=100"`
	ExperienceYears *int             `json:"experience_years" validate:"omitempty,gte=0"`
	Qualifications  *string          `json:"qualifications" validate:"omitempty"`
	ConsultationFee *decimal.Decimal `json:"consultation_fee"`
	Bio             *string          `json:"bio" validate:"omitempty"`
	IsAvailable     *bool            `json:"is_available"`
}

// Response DTOs

type DoctorResponse struct {
	ID              uuid.UUID       `json:"id"`
	Email           string          `json:"email,omitempty"`
	FullName        string          `json:"full_name"`
	LicenseNumber   string          `json:"license_number"`
	Specialization  string          `json:"specialization"`
	ExperienceYears int             `json:"experience_years"`
	Qualifications  string          `json:"qualifications"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	Bio             string          `json:"bio,omitempty"`
	IsAvailable     bool            `json:"is_available"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
