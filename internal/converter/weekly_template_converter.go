package converter

import (
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
)

func WeeklyTemplateToResponse(template *entity.WeeklyTemplate) *dto.WeeklyTemplateResponse {
	if template == nil {
		return nil
	}

	return &dto.WeeklyTemplateResponse{
		ID:          template.ID,
		DoctorID:    template.DoctorID,
		DayOfWeek:   template.DayOfWeek,
		DayName:     template.Weekday().String(),
		StartTime:   template.StartTime.String(),
		EndTime:     template.EndTime.String(),
		IsAvailable: template.IsAvailable,
		CreatedAt:   template.CreatedAt,
		UpdatedAt:   template.UpdatedAt,
	}
}

func WeeklyTemplatesToResponses(templates []entity.WeeklyTemplate) []dto.WeeklyTemplateResponse {
	responses := make([]dto.WeeklyTemplateResponse, len(templates))
	for i := range templates {
		responses[i] = *WeeklyTemplateToResponse(&templates[i])
	}
	return responses
}
