package entity

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyTemplate is a recurring weekly availability window of a doctor.
// DayOfWeek follows time.Weekday: 0 is Sunday, 6 is Saturday.
type WeeklyTemplate struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	DayOfWeek   int       `gorm:"type:smallint;not null" json:"day_of_week"`
	StartTime   ClockTime `gorm:"type:time;not null" json:"start_time"`
	EndTime     ClockTime `gorm:"type:time;not null" json:"end_time"`
	IsAvailable bool      `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID;references:UserID" json:"doctor,omitempty"`
}

func (WeeklyTemplate) TableName() string {
	return "weekly_templates"
}

func (t *WeeklyTemplate) Range() TimeRange {
	return TimeRange{Start: t.StartTime, End: t.EndTime}
}

func (t *WeeklyTemplate) Weekday() time.Weekday {
	return time.Weekday(t.DayOfWeek)
}

// ValidDayOfWeek reports whether d is within 0 (Sunday) through 6 (Saturday).
func ValidDayOfWeek(d int) bool {
	return d >= int(time.Sunday) && d <= int(time.Saturday)
}
