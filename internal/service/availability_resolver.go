package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SlotGranularity is the length of every bookable interval.
const SlotGranularity = 30 * time.Minute

// Slot is one bookable interval of a doctor's day.
type Slot struct {
	Start  entity.ClockTime
	End    entity.ClockTime
	IsFree bool
}

// AvailabilityResolver expands weekly templates into concrete slots for a date.
type AvailabilityResolver struct {
	templateRepo    repository.WeeklyTemplateRepository
	appointmentRepo repository.AppointmentRepository
}

func NewAvailabilityResolver(
	templateRepo repository.WeeklyTemplateRepository,
	appointmentRepo repository.AppointmentRepository,
) *AvailabilityResolver {
	return &AvailabilityResolver{
		templateRepo:    templateRepo,
		appointmentRepo: appointmentRepo,
	}
}

// Resolve loads the doctor's templates for the weekday of date and the live
// appointments on date, then expands them. The doctor is assumed to exist.
func (r *AvailabilityResolver) Resolve(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]Slot, error) {
	templates, err := r.templateRepo.FindAvailableByDoctorAndDay(ctx, db, doctorID, int(date.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("load weekly templates of doctor %s: %w", doctorID, err)
	}
	if len(templates) == 0 {
		return []Slot{}, nil
	}

	appointments, err := r.appointmentRepo.FindLiveByDoctorAndDate(ctx, db, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("load appointments of doctor %s: %w", doctorID, err)
	}

	return ResolveAvailability(date, templates, appointments), nil
}

// ResolveAvailability cuts every available template matching date's weekday into
// SlotGranularity steps, the last step truncated at the template end, and marks each
// step busy when a live appointment overlaps it.
//
// Output is ordered by start then end. Overlapping templates yield overlapping slots;
// they are not merged.
func ResolveAvailability(date time.Time, templates []entity.WeeklyTemplate, appointments []entity.Appointment) []Slot {
	weekday := date.Weekday()
	slots := make([]Slot, 0)

	for i := range templates {
		template := &templates[i]
		if template.Weekday() != weekday || !template.IsAvailable || !template.Range().Valid() {
			continue
		}

		for start := template.StartTime; start < template.EndTime; start = start.Add(SlotGranularity) {
			end := min(start.Add(SlotGranularity), template.EndTime)
			window := entity.TimeRange{Start: start, End: end}
			slots = append(slots, Slot{
				Start:  start,
				End:    end,
				IsFree: !HasConflict(appointments, window, nil),
			})
		}
	}

	slices.SortStableFunc(slots, func(a, b Slot) int {
		if a.Start != b.Start {
			return int(a.Start - b.Start)
		}
		return int(a.End - b.End)
	})
	return slots
}
