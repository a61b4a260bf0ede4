package entity

import "time"

// AppointmentFilter is a domain-level filter for listing appointments.
// Zero values mean "no filter".
type AppointmentFilter struct {
	Status AppointmentStatus
	Date   *time.Time
}
