package handler

import (
	"net/http"

	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/usecase"
	"clinic-appointment-api/pkg/response"
	"clinic-appointment-api/pkg/validator"
)

type WeeklyTemplateHandler struct {
	templateUsecase usecase.WeeklyTemplateUsecase
	validator       *validator.CustomValidator
}

func NewWeeklyTemplateHandler(templateUsecase usecase.WeeklyTemplateUsecase, validator *validator.CustomValidator) *WeeklyTemplateHandler {
	return &WeeklyTemplateHandler{
		templateUsecase: templateUsecase,
		validator:       validator,
	}
}

func (h *WeeklyTemplateHandler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	templates, err := h.templateUsecase.ListByDoctor(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get weekly templates")
		return
	}

	response.Success(w, http.StatusOK, "Weekly templates retrieved successfully", templates)
}

func (h *WeeklyTemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req dto.CreateWeeklyTemplateRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	template, err := h.templateUsecase.Create(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, "Failed to create weekly template")
		return
	}

	response.Success(w, http.StatusCreated, "Weekly template created successfully", template)
}

func (h *WeeklyTemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateWeeklyTemplateRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	template, err := h.templateUsecase.Update(r.Context(), actor, id, &req)
	if err != nil {
		writeError(w, err, "Failed to update weekly template")
		return
	}

	response.Success(w, http.StatusOK, "Weekly template updated successfully", template)
}

func (h *WeeklyTemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.templateUsecase.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err, "Failed to delete weekly template")
		return
	}

	response.Success(w, http.StatusOK, "Weekly template deleted successfully", nil)
}
