package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)

type appointmentFixture struct {
	*fixture
	uc      AppointmentUsecase
	doctor  entity.DoctorProfile
	patient entity.PatientProfile
}

func newAppointmentFixture() *appointmentFixture {
	f := newFixture()
	uc := NewAppointmentUsecase(nil, f.log, f.transactor, f.appointments, f.doctors, f.patients,
		service.NewConflictGuard(f.appointments), f.auditService, f.dispatcher)
	uc.(*appointmentUsecase).now = func() time.Time { return testNow }

	return &appointmentFixture{
		fixture: f,
		uc:      uc,
		doctor:  f.store.addDoctor("Ana Ruiz"),
		patient: f.store.addPatient("Tom Lee"),
	}
}

func (f *appointmentFixture) patientActor() entity.Actor {
	return actorOf(f.patient.UserID, entity.RoleIDPatient)
}

func (f *appointmentFixture) doctorActor() entity.Actor {
	return actorOf(f.doctor.UserID, entity.RoleIDDoctor)
}

func (f *appointmentFixture) request(date, start, end string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		DoctorID:        f.doctor.UserID,
		AppointmentDate: date,
		StartTime:       start,
		EndTime:         end,
		Reason:          "Check-up",
	}
}

func (f *appointmentFixture) seed(date, start, end string, status entity.AppointmentStatus) entity.Appointment {
	return f.store.addAppointment(entity.Appointment{
		DoctorID:        f.doctor.UserID,
		PatientID:       f.patient.UserID,
		AppointmentDate: day(date),
		StartTime:       mustClock(start),
		EndTime:         mustClock(end),
		Status:          status,
		Reason:          "Follow-up",
	})
}

func TestCreateAppointment_Success(t *testing.T) {
	f := newAppointmentFixture()

	resp, err := f.uc.CreateAppointment(context.Background(), f.patientActor(), f.request("2026-11-02", "09:00", "09:30"))
	require.NoError(t, err)

	assert.Equal(t, string(entity.AppointmentStatusPending), resp.Status)
	assert.Equal(t, "2026-11-02", resp.AppointmentDate)
	assert.Equal(t, "09:00", resp.StartTime)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, f.patient.UserID, resp.PatientID)
	require.NotNil(t, resp.Doctor)

	tasks := f.dispatcher.queued()
	require.Len(t, tasks, 1)
	assert.Equal(t, entity.NotificationConfirmation, tasks[0].Kind)
	assert.Equal(t, resp.ID, tasks[0].AppointmentID)
	assert.Equal(t, 1, f.store.auditCount())
}

func TestCreateAppointment_ConflictWithConfirmed(t *testing.T) {
	f := newAppointmentFixture()
	f.seed("2026-11-02", "09:15", "09:45", entity.AppointmentStatusConfirmed)

	_, err := f.uc.CreateAppointment(context.Background(), f.patientActor(), f.request("2026-11-02", "09:00", "09:30"))
	assert.ErrorIs(t, err, ErrAppointmentConflict)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, f.dispatcher.queued())
	assert.Equal(t, 0, f.store.auditCount())
}

func TestCreateAppointment_TouchingAndCancelledDoNotConflict(t *testing.T) {
	f := newAppointmentFixture()
	f.seed("2026-11-02", "09:30", "10:00", entity.AppointmentStatusConfirmed)
	f.seed("2026-11-02", "09:00", "09:30", entity.AppointmentStatusCancelled)

	_, err := f.uc.CreateAppointment(context.Background(), f.patientActor(), f.request("2026-11-02", "09:00", "09:30"))
	assert.NoError(t, err)
}

func TestCreateAppointment_UniqueIndexBackstop(t *testing.T) {
	f := newAppointmentFixture()
	f.seed("2026-11-02", "09:00", "09:30", entity.AppointmentStatusPending)
	f.store.hideLive = true

	_, err := f.uc.CreateAppointment(context.Background(), f.patientActor(), f.request("2026-11-02", "09:00", "09:30"))
	assert.ErrorIs(t, err, ErrAppointmentConflict)
}

func TestCreateAppointment_ConcurrentIdenticalRequests(t *testing.T) {
	f := newAppointmentFixture()
	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.CreateAppointment(context.Background(), f.patientActor(), f.request("2026-11-02", "09:00", "09:30"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrAppointmentConflict)
	}
	assert.Equal(t, 1, succeeded)
}

func TestCreateAppointment_DispatchFailureDoesNotFailBooking(t *testing.T) {
	f := newAppointmentFixture()
	f.dispatcher.err = errQueueDown

	resp, err := f.uc.CreateAppointment(context.Background(), f.patientActor(), f.request("2026-11-02", "09:00", "09:30"))
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentStatusPending, f.store.appointment(resp.ID).Status)
}

func TestCreateAppointment_Validation(t *testing.T) {
	f := newAppointmentFixture()

	tests := []struct {
		name    string
		req     *dto.CreateAppointmentRequest
		wantErr error
	}{
		{"malformed date", f.request("02/11/2026", "09:00", "09:30"), ErrInvalidDate},
		{"malformed time", f.request("2026-11-02", "9am", "09:30"), ErrInvalidTimeFormat},
		{"end before start", f.request("2026-11-02", "10:00", "09:30"), ErrInvalidTimeRange},
		{"empty range", f.request("2026-11-02", "10:00", "10:00"), ErrInvalidTimeRange},
		{"past date", f.request("2026-10-31", "09:00", "09:30"), ErrAppointmentPast},
		{"earlier today", f.request("2026-11-01", "09:00", "09:30"), ErrAppointmentPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateAppointment(context.Background(), f.patientActor(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateAppointment_UnknownDoctor(t *testing.T) {
	f := newAppointmentFixture()
	req := f.request("2026-11-02", "09:00", "09:30")
	req.DoctorID = uuid.New()

	_, err := f.uc.CreateAppointment(context.Background(), f.patientActor(), req)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestCreateAppointment_CallerWithoutPatientProfile(t *testing.T) {
	f := newAppointmentFixture()

	_, err := f.uc.CreateAppointment(context.Background(), f.doctorActor(), f.request("2026-11-02", "09:00", "09:30"))
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestStatusTransitions(t *testing.T) {
	f := newAppointmentFixture()
	ctx := context.Background()
	a := f.seed("2026-11-02", "09:00", "09:30", entity.AppointmentStatusPending)

	_, err := f.uc.CompleteAppointment(ctx, f.doctorActor(), a.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = f.uc.ConfirmAppointment(ctx, f.patientActor(), a.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	resp, err := f.uc.ConfirmAppointment(ctx, f.doctorActor(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	resp, err = f.uc.CompleteAppointment(ctx, f.doctorActor(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	_, err = f.uc.CancelAppointment(ctx, f.patientActor(), a.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, entity.AppointmentStatusCompleted, f.store.appointment(a.ID).Status)
}

func TestCancelAppointment_Twice(t *testing.T) {
	f := newAppointmentFixture()
	ctx := context.Background()
	a := f.seed("2026-11-02", "09:00", "09:30", entity.AppointmentStatusConfirmed)

	resp, err := f.uc.CancelAppointment(ctx, f.patientActor(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	audits := f.store.auditCount()

	_, err = f.uc.CancelAppointment(ctx, f.patientActor(), a.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, audits, f.store.auditCount())

	// the freed slot can be booked again
	_, err = f.uc.CreateAppointment(ctx, f.patientActor(), f.request("2026-11-02", "09:00", "09:30"))
	assert.NoError(t, err)
}

func TestCancelAppointment_OtherPatientDenied(t *testing.T) {
	f := newAppointmentFixture()
	a := f.seed("2026-11-02", "09:00", "09:30", entity.AppointmentStatusPending)
	stranger := f.store.addPatient("Eve")

	_, err := f.uc.CancelAppointment(context.Background(), actorOf(stranger.UserID, entity.RoleIDPatient), a.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.uc.CancelAppointment(context.Background(), f.patientActor(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRescheduleAppointment(t *testing.T) {
	f := newAppointmentFixture()
	ctx := context.Background()
	a := f.seed("2026-11-02", "09:00", "09:30", entity.AppointmentStatusPending)
	f.seed("2026-11-02", "11:00", "11:30", entity.AppointmentStatusConfirmed)

	t.Run("overlapping itself is allowed", func(t *testing.T) {
		resp, err := f.uc.RescheduleAppointment(ctx, f.patientActor(), a.ID, &dto.RescheduleAppointmentRequest{
			AppointmentDate: "2026-11-02", StartTime: "09:15", EndTime: "09:45",
		})
		require.NoError(t, err)
		assert.Equal(t, "09:15", resp.StartTime)
	})

	t.Run("overlapping another appointment", func(t *testing.T) {
		_, err := f.uc.RescheduleAppointment(ctx, f.patientActor(), a.ID, &dto.RescheduleAppointmentRequest{
			AppointmentDate: "2026-11-02", StartTime: "11:15", EndTime: "11:45",
		})
		assert.ErrorIs(t, err, ErrAppointmentConflict)
		assert.Equal(t, mustClock("09:15"), f.store.appointment(a.ID).StartTime)
	})

	t.Run("cancelled appointment cannot move", func(t *testing.T) {
		cancelled := f.seed("2026-11-03", "09:00", "09:30", entity.AppointmentStatusCancelled)
		_, err := f.uc.RescheduleAppointment(ctx, f.patientActor(), cancelled.ID, &dto.RescheduleAppointmentRequest{
			AppointmentDate: "2026-11-04", StartTime: "09:00", EndTime: "09:30",
		})
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})
}

func TestListAppointments_RoleScoped(t *testing.T) {
	f := newAppointmentFixture()
	ctx := context.Background()
	f.seed("2026-11-02", "09:00", "09:30", entity.AppointmentStatusPending)
	f.seed("2026-11-03", "09:00", "09:30", entity.AppointmentStatusConfirmed)

	other := f.store.addPatient("Eve")
	f.store.addAppointment(entity.Appointment{
		DoctorID: f.doctor.UserID, PatientID: other.UserID, AppointmentDate: day("2026-11-02"),
		StartTime: mustClock("10:00"), EndTime: mustClock("10:30"), Status: entity.AppointmentStatusPending,
	})

	mine, err := f.uc.ListAppointments(ctx, f.patientActor(), dto.AppointmentListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Total)
	assert.Equal(t, "2026-11-03", mine.Appointments[0].AppointmentDate)

	all, err := f.uc.ListAppointments(ctx, f.doctorActor(), dto.AppointmentListQuery{Date: "2026-11-02"})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
	assert.Equal(t, "10:00", all.Appointments[0].StartTime)

	confirmed, err := f.uc.ListAppointments(ctx, actorOf(uuid.New(), entity.RoleIDAdmin), dto.AppointmentListQuery{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed.Total)

	_, err = f.uc.ListAppointments(ctx, f.patientActor(), dto.AppointmentListQuery{Status: "booked"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestIsPast(t *testing.T) {
	now := time.Date(2026, 11, 1, 10, 30, 0, 0, time.UTC)

	assert.True(t, isPast(now, day("2026-10-31"), mustClock("23:00")))
	assert.True(t, isPast(now, day("2026-11-01"), mustClock("10:00")))
	assert.False(t, isPast(now, day("2026-11-01"), mustClock("10:30")))
	assert.False(t, isPast(now, day("2026-11-02"), mustClock("08:00")))
}
