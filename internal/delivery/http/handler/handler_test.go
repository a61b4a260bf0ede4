package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/delivery/http/middleware"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/usecase"
	"clinic-appointment-api/pkg/response"
	"clinic-appointment-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAvailabilityUsecase struct {
	resp *dto.AvailabilityResponse
	err  error
	hits int
}

func (s *stubAvailabilityUsecase) GetAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	s.hits++
	return s.resp, s.err
}

// stubAppointmentUsecase implements only what the tests call.
type stubAppointmentUsecase struct {
	usecase.AppointmentUsecase
	gotActor entity.Actor
	resp     *dto.AppointmentResponse
	err      error
}

func (s *stubAppointmentUsecase) CreateAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	s.gotActor = actor
	return s.resp, s.err
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{usecase.ErrDoctorNotFound, http.StatusNotFound},
		{usecase.ErrInvalidDate, http.StatusBadRequest},
		{usecase.ErrAppointmentConflict, http.StatusConflict},
		{usecase.ErrInvalidStatusTransition, http.StatusConflict},
		{usecase.ErrPermissionDenied, http.StatusForbidden},
		{usecase.ErrTokenRevoked, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "Something failed")

			assert.Equal(t, tt.code, rec.Code)
			body := decodeBody(t, rec)
			assert.False(t, body.Success)
			if tt.code == http.StatusInternalServerError {
				assert.Equal(t, "Something failed", body.Message)
			} else {
				assert.Equal(t, tt.err.Error(), body.Message)
			}
		})
	}
}

func TestGetAvailability(t *testing.T) {
	doctorID := uuid.New()

	newRequest := func(id, query string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors/"+id+"/availability"+query, nil)
		return mux.SetURLVars(req, map[string]string{"id": id})
	}

	t.Run("ok", func(t *testing.T) {
		stub := &stubAvailabilityUsecase{resp: &dto.AvailabilityResponse{
			DoctorID: doctorID,
			Date:     "2026-11-02",
			Slots:    []dto.SlotResponse{{StartTime: "09:00", EndTime: "09:30", IsFree: true}},
		}}
		h := NewDoctorHandler(nil, stub, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.GetAvailability(rec, newRequest(doctorID.String(), "?date=2026-11-02"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"start_time":"09:00"`)
	})

	t.Run("missing date", func(t *testing.T) {
		stub := &stubAvailabilityUsecase{}
		h := NewDoctorHandler(nil, stub, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.GetAvailability(rec, newRequest(doctorID.String(), ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, stub.hits)
	})

	t.Run("malformed date", func(t *testing.T) {
		h := NewDoctorHandler(nil, &stubAvailabilityUsecase{err: usecase.ErrInvalidDate}, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.GetAvailability(rec, newRequest(doctorID.String(), "?date=02-11-2026"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		h := NewDoctorHandler(nil, &stubAvailabilityUsecase{err: usecase.ErrDoctorNotFound}, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.GetAvailability(rec, newRequest(doctorID.String(), "?date=2026-11-02"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad doctor id", func(t *testing.T) {
		stub := &stubAvailabilityUsecase{}
		h := NewDoctorHandler(nil, stub, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.GetAvailability(rec, newRequest("not-a-uuid", "?date=2026-11-02"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, stub.hits)
	})
}

func TestCreateAppointment(t *testing.T) {
	patient := entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDPatient}
	body := `{"doctor_id":"` + uuid.NewString() + `","appointment_date":"2026-11-02","start_time":"09:00","end_time":"09:30","reason":"Check-up"}`

	newRequest := func(payload string, withActor bool) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(payload))
		if withActor {
			req = req.WithContext(middleware.WithActor(req.Context(), patient))
		}
		return req
	}

	t.Run("created", func(t *testing.T) {
		stub := &stubAppointmentUsecase{resp: &dto.AppointmentResponse{ID: uuid.New(), Status: "pending"}}
		h := NewAppointmentHandler(stub, nil, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.CreateAppointment(rec, newRequest(body, true))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, patient, stub.gotActor)
	})

	t.Run("conflict", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{err: usecase.ErrAppointmentConflict}, nil, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.CreateAppointment(rec, newRequest(body, true))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid clock value", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{}, nil, validator.NewValidator())
		payload := strings.Replace(body, `"09:00"`, `"9 o'clock"`, 1)

		rec := httptest.NewRecorder()
		h.CreateAppointment(rec, newRequest(payload, true))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation failed", decodeBody(t, rec).Message)
	})

	t.Run("no actor", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{}, nil, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.CreateAppointment(rec, newRequest(body, false))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
