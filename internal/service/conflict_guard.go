package service

import (
	"context"
	"fmt"
	"time"

	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConflictGuard decides whether a proposed appointment window collides with a
// live appointment of the same doctor on the same date.
//
// Callers must run IsConflicting on the same transaction that performs the
// write, after locking the doctor row, or two bookings can pass the check together.
type ConflictGuard struct {
	appointmentRepo repository.AppointmentRepository
}

func NewConflictGuard(appointmentRepo repository.AppointmentRepository) *ConflictGuard {
	return &ConflictGuard{appointmentRepo: appointmentRepo}
}

// IsConflicting reports whether [start, end) overlaps any live appointment of the doctor
// on date. excludeID skips one appointment, used when an appointment is moved in place.
func (g *ConflictGuard) IsConflicting(
	ctx context.Context,
	db *gorm.DB,
	doctorID uuid.UUID,
	date time.Time,
	start, end entity.ClockTime,
	excludeID *uuid.UUID,
) (bool, error) {
	existing, err := g.appointmentRepo.FindLiveByDoctorAndDate(ctx, db, doctorID, date)
	if err != nil {
		return false, fmt.Errorf("load appointments of doctor %s on %s: %w", doctorID, date.Format(time.DateOnly), err)
	}
	return HasConflict(existing, entity.TimeRange{Start: start, End: end}, excludeID), nil
}

// HasConflict is the overlap rule shared by the guard and the availability resolver.
// Non-live appointments never conflict.
func HasConflict(existing []entity.Appointment, window entity.TimeRange, excludeID *uuid.UUID) bool {
	for i := range existing {
		appointment := &existing[i]
		if !appointment.IsLive() {
			continue
		}
		if excludeID != nil && appointment.ID == *excludeID {
			continue
		}
		if appointment.Range().Overlaps(window) {
			return true
		}
	}
	return false
}
