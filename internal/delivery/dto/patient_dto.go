package dto

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfileResponse represents patient profile data in responses
type PatientProfileResponse struct {
	UserID           uuid.UUID `json:"user_id"`
	DateOfBirth      string    `json:"date_of_birth"`
	Age              int       `json:"age"`
	MedicalHistory   *string   `json:"medical_history,omitempty"`
	EmergencyContact *string   `json:"emergency_contact,omitempty"`
	BloodGroup       *string   `json:"blood_group,omitempty"`
	Allergies        *string   `json:"allergies,omitempty"`
}

// PatientResponse represents a patient user with profile data
type PatientResponse struct {
	ID        uuid.UUID              `json:"id"`
	Email     string                 `json:"email"`
	FullName  string                 `json:"full_name"`
	Phone     string                 `json:"phone,omitempty"`
	Profile   PatientProfileResponse `json:"profile"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}

type UpdatePatientRequest struct {
	FullName         *string `json:"full_name" validate:"omitempty,min=2"`
	Phone            *string `json:"phone" validate:"omitempty,min=7,max=20"`
	MedicalHistory   *string `json:"medical_history" validate:"omitempty"`
	EmergencyContact *string `json:"emergency_contact" validate:"omitempty,max=15"`
	BloodGroup       *string `json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies        *string `json:"allergies" validate:"omitempty"`
}
