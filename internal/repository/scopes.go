package repository

import (
	"clinic-appointment-api/internal/domain/entity"

	"gorm.io/gorm"
)

// ScopeAppointments restricts an appointment query to what the actor may see.
// Unknown roles see nothing.
func ScopeAppointments(actor entity.Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch actor.RoleID {
		case entity.RoleIDAdmin:
			return db
		case entity.RoleIDDoctor:
			return db.Where("appointments.doctor_id = ?", actor.UserID)
		case entity.RoleIDPatient:
			return db.Where("appointments.patient_id = ?", actor.UserID)
		default:
			return db.Where("1 = 0")
		}
	}
}

// ScopePatients restricts a patient query: admins see all, doctors see patients
// who have booked with them, patients see themselves.
func ScopePatients(actor entity.Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch actor.RoleID {
		case entity.RoleIDAdmin:
			return db
		case entity.RoleIDDoctor:
			return db.Where(
				"patient_profiles.user_id IN (?)",
				db.Session(&gorm.Session{NewDB: true}).
					Model(&entity.Appointment{}).
					Select("patient_id").
					Where("doctor_id = ?", actor.UserID),
			)
		case entity.RoleIDPatient:
			return db.Where("patient_profiles.user_id = ?", actor.UserID)
		default:
			return db.Where("1 = 0")
		}
	}
}
