package usecase

import "errors"

// Error kinds. Every sentinel below matches exactly one kind with errors.Is,
// which is what the HTTP layer maps to a status code.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrPermission      = errors.New("permission denied")
	ErrUnauthenticated = errors.New("unauthenticated")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrDoctorNotFound      = newError(ErrNotFound, "doctor not found")
	ErrPatientNotFound     = newError(ErrNotFound, "patient not found")
	ErrAppointmentNotFound = newError(ErrNotFound, "appointment not found")
	ErrTemplateNotFound    = newError(ErrNotFound, "weekly template not found")
	ErrUserNotFound        = newError(ErrNotFound, "user not found")
	ErrAuditLogNotFound    = newError(ErrNotFound, "audit log not found")

	ErrInvalidDate       = newError(ErrValidation, "invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat = newError(ErrValidation, "invalid time format, use HH:MM")
	ErrInvalidTimeRange  = newError(ErrValidation, "start time must be before end time")
	ErrInvalidDayOfWeek  = newError(ErrValidation, "day of week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidStatus     = newError(ErrValidation, "unknown appointment status")
	ErrInvalidFee        = newError(ErrValidation, "consultation fee must not be negative")
	ErrAppointmentPast   = newError(ErrValidation, "cannot book an appointment in the past")

	ErrAppointmentConflict     = newError(ErrConflict, "this time slot is already booked")
	ErrTemplateDuplicate       = newError(ErrConflict, "a template with this day and start time already exists")
	ErrInvalidStatusTransition = newError(ErrConflict, "appointment status does not allow this action")
	ErrEmailAlreadyExists      = newError(ErrConflict, "email already exists")
	ErrLicenseAlreadyExists    = newError(ErrConflict, "license number already exists")

	ErrPermissionDenied = newError(ErrPermission, "permission denied")

	ErrInvalidCredentials = newError(ErrUnauthenticated, "invalid email or password")
	ErrInvalidToken       = newError(ErrUnauthenticated, "invalid or expired token")
	ErrTokenRevoked       = newError(ErrUnauthenticated, "token has been revoked")
	ErrAccountInactive    = newError(ErrUnauthenticated, "account is inactive")
)
