package handler

import (
	"context"
	"net/http"

	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/usecase"
	"clinic-appointment-api/pkg/response"
	"clinic-appointment-api/pkg/validator"

	"github.com/google/uuid"
)

type AppointmentHandler struct {
	appointmentUsecase  usecase.AppointmentUsecase
	notificationUsecase usecase.NotificationUsecase
	validator           *validator.CustomValidator
}

func NewAppointmentHandler(
	appointmentUsecase usecase.AppointmentUsecase,
	notificationUsecase usecase.NotificationUsecase,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase:  appointmentUsecase,
		notificationUsecase: notificationUsecase,
		validator:           validator,
	}
}

// ListAppointments lists the appointments visible to the caller
// @Summary List appointments
// @Tags Appointments
// @Security BearerAuth
// @Param status query string false "pending, confirmed, cancelled or completed"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	query := dto.AppointmentListQuery{
		Status: r.URL.Query().Get("status"),
		Date:   r.URL.Query().Get("date"),
	}

	appointments, err := h.appointmentUsecase.ListAppointments(r.Context(), actor, query)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// CreateAppointment books an appointment for the calling patient
// @Summary Book appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Create Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	h.withAppointment(w, r, "Appointment retrieved successfully", "Failed to get appointment",
		h.appointmentUsecase.GetAppointment)
}

func (h *AppointmentHandler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req dto.RescheduleAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.RescheduleAppointment(r.Context(), actor, id, &req)
	if err != nil {
		writeError(w, err, "Failed to reschedule appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment rescheduled successfully", appointment)
}

func (h *AppointmentHandler) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	h.withAppointment(w, r, "Appointment confirmed successfully", "Failed to confirm appointment",
		h.appointmentUsecase.ConfirmAppointment)
}

func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	h.withAppointment(w, r, "Appointment completed successfully", "Failed to complete appointment",
		h.appointmentUsecase.CompleteAppointment)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	h.withAppointment(w, r, "Appointment cancelled successfully", "Failed to cancel appointment",
		h.appointmentUsecase.CancelAppointment)
}

func (h *AppointmentHandler) SendConfirmation(w http.ResponseWriter, r *http.Request) {
	h.withNotification(w, r, "Confirmation email queued", h.notificationUsecase.SendConfirmation)
}

func (h *AppointmentHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	h.withNotification(w, r, "Reminder email queued", h.notificationUsecase.SendReminder)
}

func (h *AppointmentHandler) withAppointment(
	w http.ResponseWriter,
	r *http.Request,
	successMessage, failureMessage string,
	action func(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error),
) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	appointment, err := action(r.Context(), actor, id)
	if err != nil {
		writeError(w, err, failureMessage)
		return
	}

	response.Success(w, http.StatusOK, successMessage, appointment)
}

func (h *AppointmentHandler) withNotification(
	w http.ResponseWriter,
	r *http.Request,
	successMessage string,
	action func(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.NotificationResponse, error),
) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	result, err := action(r.Context(), actor, id)
	if err != nil {
		writeError(w, err, "Failed to queue notification")
		return
	}

	response.Success(w, http.StatusAccepted, successMessage, result)
}
