package entity

import "github.com/google/uuid"

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	RoleID int
}

func (a Actor) IsAdmin() bool   { return a.RoleID == RoleIDAdmin }
func (a Actor) IsDoctor() bool  { return a.RoleID == RoleIDDoctor }
func (a Actor) IsPatient() bool { return a.RoleID == RoleIDPatient }

// CanAccess reports whether the actor may see or act on the appointment:
// admins see everything, doctors and patients only their own.
func (a Actor) CanAccess(appointment *Appointment) bool {
	switch a.RoleID {
	case RoleIDAdmin:
		return true
	case RoleIDDoctor:
		return appointment.DoctorID == a.UserID
	case RoleIDPatient:
		return appointment.PatientID == a.UserID
	}
	return false
}

// CanManageTemplate reports whether the actor may edit a doctor's weekly templates.
func (a Actor) CanManageTemplate(template *WeeklyTemplate) bool {
	return a.IsAdmin() || (a.IsDoctor() && template.DoctorID == a.UserID)
}
