package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterPatientRequest struct {
	Email            string  `json:"email" validate:"required,email"`
	Password         string  `json:"password" validate:"required,min=8"`
	FullName         string  `json:"full_name" validate:"required,min=2"`
	Phone            string  `json:"phone" validate:"omitempty,min=7,max=20"`
	DateOfBirth      string  `json:"date_of_birth" validate:"required,date"`
	MedicalHistory   *string `json:"medical_history" validate:"omitempty"`
	EmergencyContact *string `json:"emergency_contact" validate:"omitempty,max=15"`
	BloodGroup       *string `json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies        *string `json:"allergies" validate:"omitempty"`
}

type RegisterDoctorRequest struct {
	Email           string          `json:"email" validate:"required,email"`
	Password        string          `json:"password" validate:"required,min=8"`
	FullName        string          `json:"full_name" validate:"required,min=2"`
	Phone           string          `json:"phone" validate:"omitempty,min=7,max=20"`
	LicenseNumber   string          `json:"license_number" validate:"required,max=50"`
	Specialization  string          `json:"specialization" validate:"required,max=100"`
	ExperienceYears int             `json:"experience_years" validate:"gte=0"`
	Qualifications  string          `json:"qualifications" validate:"required"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	Bio             string          `json:"bio" validate:"omitempty"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID             uuid.UUID               `json:"id"`
	Email          string                  `json:"email"`
	FullName       string                  `json:"full_name"`
	Phone          string                  `json:"phone,omitempty"`
	Role           string                  `json:"role"`
	DoctorProfile  *DoctorResponse         `json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfileResponse `json:"patient_profile,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}
