package repository

import (
	"context"
	"time"

	"clinic-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(ctx context.Context, db *gorm.DB, actor entity.Actor, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	FindLiveByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error)
	FindByDateAndStatus(ctx context.Context, db *gorm.DB, date time.Time, status entity.AppointmentStatus) ([]entity.Appointment, error)
	UpdateSchedule(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	// TransitionStatus sets status to `to` only if the current status is one of `from`.
	// It returns the number of rows changed.
	TransitionStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus) (int64, error)
}
