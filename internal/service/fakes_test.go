package service

import (
	"context"
	"errors"
	"time"

	"clinic-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errStore = errors.New("store unavailable")

type fakeAppointmentRepo struct {
	appointments []entity.Appointment
	err          error
	liveCalls    int
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	r.appointments = append(r.appointments, *appointment)
	return nil
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	for i := range r.appointments {
		if r.appointments[i].ID == id {
			a := r.appointments[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindAll(ctx context.Context, db *gorm.DB, actor entity.Actor, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	return r.appointments, nil
}

func (r *fakeAppointmentRepo) FindLiveByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	r.liveCalls++
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate.Equal(date) && a.IsLive() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindByDateAndStatus(ctx context.Context, db *gorm.DB, date time.Time, status entity.AppointmentStatus) ([]entity.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) UpdateSchedule(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return nil
}

func (r *fakeAppointmentRepo) TransitionStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus) (int64, error) {
	return 0, nil
}

type fakeTemplateRepo struct {
	templates []entity.WeeklyTemplate
	err       error
}

func (r *fakeTemplateRepo) Create(ctx context.Context, db *gorm.DB, template *entity.WeeklyTemplate) error {
	return nil
}

func (r *fakeTemplateRepo) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.WeeklyTemplate, error) {
	return nil, nil
}

func (r *fakeTemplateRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.WeeklyTemplate, error) {
	return r.templates, nil
}

func (r *fakeTemplateRepo) FindAvailableByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, dayOfWeek int) ([]entity.WeeklyTemplate, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.WeeklyTemplate
	for _, t := range r.templates {
		if t.DoctorID == doctorID && t.DayOfWeek == dayOfWeek && t.IsAvailable {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, db *gorm.DB, template *entity.WeeklyTemplate) error {
	return nil
}

func (r *fakeTemplateRepo) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	return 0, nil
}

func clock(s string) entity.ClockTime {
	c, err := entity.ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

func appointmentAt(doctorID uuid.UUID, date time.Time, start, end string, status entity.AppointmentStatus) entity.Appointment {
	return entity.Appointment{
		ID:              uuid.New(),
		DoctorID:        doctorID,
		PatientID:       uuid.New(),
		AppointmentDate: date,
		StartTime:       clock(start),
		EndTime:         clock(end),
		Status:          status,
	}
}

func templateOn(doctorID uuid.UUID, day time.Weekday, start, end string, available bool) entity.WeeklyTemplate {
	return entity.WeeklyTemplate{
		DoctorID:    doctorID,
		DayOfWeek:   int(day),
		StartTime:   clock(start),
		EndTime:     clock(end),
		IsAvailable: available,
	}
}
