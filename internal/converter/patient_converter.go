package converter

import (
	"time"

	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
)

func PatientProfileToProfileResponse(profile *entity.PatientProfile) *dto.PatientProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.PatientProfileResponse{
		UserID:           profile.UserID,
		DateOfBirth:      profile.DateOfBirth.Format(time.DateOnly),
		Age:              profile.AgeOn(time.Now()),
		MedicalHistory:   profile.MedicalHistory,
		EmergencyContact: profile.EmergencyContact,
		BloodGroup:       profile.BloodGroup,
		Allergies:        profile.Allergies,
	}
}

// PatientProfileToResponse expects the User relation to be preloaded
func PatientProfileToResponse(profile *entity.PatientProfile) *dto.PatientResponse {
	if profile == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:        profile.UserID,
		Email:     profile.User.Email,
		FullName:  profile.User.FullName,
		Phone:     profile.User.Phone,
		Profile:   *PatientProfileToProfileResponse(profile),
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

func PatientProfilesToResponses(profiles []entity.PatientProfile) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(profiles))
	for i := range profiles {
		responses[i] = *PatientProfileToResponse(&profiles[i])
	}
	return responses
}
