package usecase

import (
	"context"
	"time"

	"clinic-appointment-api/internal/converter"
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/domain/repository"
	repoImpl "clinic-appointment-api/internal/repository"
	"clinic-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const appointmentSlotConstraint = "uq_appointments_doctor_slot"

// NotificationDispatcher hands a notification to the background workers.
type NotificationDispatcher interface {
	Enqueue(ctx context.Context, task entity.NotificationTask) error
}

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, actor entity.Actor, query dto.AppointmentListQuery) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	RescheduleAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	ConfirmAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	CompleteAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	transactor      repository.Transactor
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorProfileRepository
	patientRepo     repository.PatientProfileRepository
	guard           *service.ConflictGuard
	auditService    service.AuditService
	dispatcher      NotificationDispatcher
	now             func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor repository.Transactor,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorProfileRepository,
	patientRepo repository.PatientProfileRepository,
	guard *service.ConflictGuard,
	auditService service.AuditService,
	dispatcher NotificationDispatcher,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		transactor:      transactor,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		guard:           guard,
		auditService:    auditService,
		dispatcher:      dispatcher,
		now:             time.Now,
	}
}

// CreateAppointment books a pending appointment for the calling patient.
//
// The doctor row is locked before the conflict check so concurrent bookings of the
// same doctor run one after another; the partial unique index on live slots catches
// anything that still slips through. The confirmation e-mail is queued after commit
// and a queueing failure does not fail the booking.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, window, err := parseSchedule(req.AppointmentDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if isPast(u.now(), date, window.Start) {
		return nil, ErrAppointmentPast
	}

	patient, err := u.patientRepo.FindByUserID(ctx, u.db, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile %s: %+v", actor.UserID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointment := &entity.Appointment{
		DoctorID:        req.DoctorID,
		PatientID:       patient.UserID,
		AppointmentDate: date,
		StartTime:       window.Start,
		EndTime:         window.End,
		Status:          entity.AppointmentStatusPending,
		Reason:          req.Reason,
		Notes:           req.Notes,
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.lockDoctorAndCheck(ctx, tx, appointment, nil); err != nil {
			return err
		}

		if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
			if repoImpl.IsUniqueViolation(err, appointmentSlotConstraint) {
				return ErrAppointmentConflict
			}
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditActionAppointmentCreate,
			"appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment))
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"appointment_id": appointment.ID,
		"doctor_id":      appointment.DoctorID,
		"date":           req.AppointmentDate,
		"start_time":     appointment.StartTime.String(),
	}).Info("Appointment booked")

	u.dispatch(ctx, entity.NotificationConfirmation, appointment.ID)

	return u.reload(ctx, appointment), nil
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, actor entity.Actor, query dto.AppointmentListQuery) (*dto.AppointmentListResponse, error) {
	filter := &entity.AppointmentFilter{}
	if query.Status != "" {
		status := entity.AppointmentStatus(query.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = status
	}
	if query.Date != "" {
		date, err := parseDate(query.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = &date
	}

	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, actor, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments for %s: %+v", actor.UserID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

// RescheduleAppointment moves a live appointment to a new date and window.
// The appointment itself is excluded from the conflict check.
func (u *appointmentUsecase) RescheduleAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !appointment.IsLive() {
		return nil, ErrInvalidStatusTransition
	}

	date, window, err := parseSchedule(req.AppointmentDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if isPast(u.now(), date, window.Start) {
		return nil, ErrAppointmentPast
	}

	before := converter.AppointmentToResponse(appointment)
	appointment.AppointmentDate = date
	appointment.StartTime = window.Start
	appointment.EndTime = window.End
	if req.Notes != nil {
		appointment.Notes = req.Notes
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.lockDoctorAndCheck(ctx, tx, appointment, &appointment.ID); err != nil {
			return err
		}

		if err := u.appointmentRepo.UpdateSchedule(ctx, tx, appointment); err != nil {
			if repoImpl.IsUniqueViolation(err, appointmentSlotConstraint) {
				return ErrAppointmentConflict
			}
			u.log.Warnf("Failed to reschedule appointment %s: %+v", appointment.ID, err)
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditActionAppointmentUpdate,
			"appointment", appointment.ID.String(), before, converter.AppointmentToResponse(appointment))
	})
	if err != nil {
		return nil, err
	}

	return u.reload(ctx, appointment), nil
}

func (u *appointmentUsecase) ConfirmAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	if actor.IsPatient() {
		return nil, ErrPermissionDenied
	}
	return u.transition(ctx, actor, id, entity.AppointmentStatusConfirmed, entity.AuditActionAppointmentConfirm)
}

func (u *appointmentUsecase) CompleteAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	if actor.IsPatient() {
		return nil, ErrPermissionDenied
	}
	return u.transition(ctx, actor, id, entity.AppointmentStatusCompleted, entity.AuditActionAppointmentComplete)
}

// CancelAppointment cancels a pending or confirmed appointment. Cancelling an
// appointment that is already cancelled or completed is rejected and writes nothing.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, actor, id, entity.AppointmentStatusCancelled, entity.AuditActionAppointmentCancel)
}

func (u *appointmentUsecase) transition(ctx context.Context, actor entity.Actor, id uuid.UUID, to entity.AppointmentStatus, action string) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !appointment.Status.CanTransitionTo(to) {
		return nil, ErrInvalidStatusTransition
	}

	from := appointment.Status
	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.appointmentRepo.TransitionStatus(ctx, tx, id, entity.SourceStatusesFor(to), to)
		if err != nil {
			u.log.Warnf("Failed to set appointment %s to %s: %+v", id, to, err)
			return err
		}
		// someone else moved it out of a source state first
		if rows == 0 {
			return ErrInvalidStatusTransition
		}

		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, action, "appointment", id.String(),
			map[string]interface{}{"status": from}, map[string]interface{}{"status": to})
	})
	if err != nil {
		return nil, err
	}

	appointment.Status = to
	return u.reload(ctx, appointment), nil
}

// lockDoctorAndCheck must run inside the write transaction.
func (u *appointmentUsecase) lockDoctorAndCheck(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment, excludeID *uuid.UUID) error {
	found, err := u.doctorRepo.LockForBooking(ctx, tx, appointment.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to lock doctor %s: %+v", appointment.DoctorID, err)
		return err
	}
	if !found {
		return ErrDoctorNotFound
	}

	conflict, err := u.guard.IsConflicting(ctx, tx, appointment.DoctorID, appointment.AppointmentDate,
		appointment.StartTime, appointment.EndTime, excludeID)
	if err != nil {
		u.log.Warnf("Failed to check appointment conflicts: %+v", err)
		return err
	}
	if conflict {
		return ErrAppointmentConflict
	}
	return nil
}

func (u *appointmentUsecase) findAccessible(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !actor.CanAccess(appointment) {
		return nil, ErrPermissionDenied
	}
	return appointment, nil
}

// reload fetches the appointment with doctor and patient for the response,
// falling back to what is in memory.
func (u *appointmentUsecase) reload(ctx context.Context, appointment *entity.Appointment) *dto.AppointmentResponse {
	full, err := u.appointmentRepo.FindByID(ctx, u.db, appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment)
	}
	return converter.AppointmentToResponse(full)
}

func (u *appointmentUsecase) dispatch(ctx context.Context, kind entity.NotificationKind, appointmentID uuid.UUID) {
	task := entity.NotificationTask{Kind: kind, AppointmentID: appointmentID, EnqueuedAt: u.now()}
	if err := u.dispatcher.Enqueue(ctx, task); err != nil {
		u.log.Warnf("Failed to queue %s notification for appointment %s: %+v", kind, appointmentID, err)
	}
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

func parseTimeRange(start, end string) (entity.TimeRange, error) {
	startTime, err := entity.ParseClockTime(start)
	if err != nil {
		return entity.TimeRange{}, ErrInvalidTimeFormat
	}
	endTime, err := entity.ParseClockTime(end)
	if err != nil {
		return entity.TimeRange{}, ErrInvalidTimeFormat
	}

	window := entity.TimeRange{Start: startTime, End: endTime}
	if !window.Valid() {
		return entity.TimeRange{}, ErrInvalidTimeRange
	}
	return window, nil
}

func parseSchedule(date, start, end string) (time.Time, entity.TimeRange, error) {
	parsedDate, err := parseDate(date)
	if err != nil {
		return time.Time{}, entity.TimeRange{}, err
	}
	window, err := parseTimeRange(start, end)
	if err != nil {
		return time.Time{}, entity.TimeRange{}, err
	}
	return parsedDate, window, nil
}

// isPast compares the calendar date and wall clock of now with the booking start.
func isPast(now time.Time, date time.Time, start entity.ClockTime) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return true
	}
	return date.Equal(today) && start < entity.NewClockTime(now.Hour(), now.Minute())
}
