package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile represents patient-specific profile data
type PatientProfile struct {
	UserID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	DateOfBirth      time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	MedicalHistory   *string   `gorm:"type:text" json:"medical_history,omitempty"`
	EmergencyContact *string   `gorm:"type:varchar(15)" json:"emergency_contact,omitempty"`
	BloodGroup       *string   `gorm:"type:varchar(5)" json:"blood_group,omitempty"`
	Allergies        *string   `gorm:"type:text" json:"allergies,omitempty"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// AgeOn returns the patient's age in whole years on the given day.
func (p *PatientProfile) AgeOn(today time.Time) int {
	age := today.Year() - p.DateOfBirth.Year()
	if today.Month() < p.DateOfBirth.Month() ||
		(today.Month() == p.DateOfBirth.Month() && today.Day() < p.DateOfBirth.Day()) {
		age--
	}
	return age
}
