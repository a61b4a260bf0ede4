package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/domain/repository"
	"clinic-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const notificationQueued = "queued"

type NotificationUsecase interface {
	// Deliver renders and sends one queued notification. The returned string
	// describes the outcome; a missing appointment is not an error.
	Deliver(ctx context.Context, task entity.NotificationTask) (string, error)
	SendConfirmation(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.NotificationResponse, error)
	SendReminder(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.NotificationResponse, error)
	// QueueDailyReminders queues a reminder for every confirmed appointment on the day after today.
	QueueDailyReminders(ctx context.Context, today time.Time) (int, error)
}

type notificationUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	dispatcher      NotificationDispatcher
	mailer          service.Mailer
	now             func() time.Time
}

func NewNotificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	dispatcher NotificationDispatcher,
	mailer service.Mailer,
) NotificationUsecase {
	return &notificationUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		dispatcher:      dispatcher,
		mailer:          mailer,
		now:             time.Now,
	}
}

func (u *notificationUsecase) Deliver(ctx context.Context, task entity.NotificationTask) (string, error) {
	label := notificationLabel(task.Kind)

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, task.AppointmentID)
	if err != nil {
		return fmt.Sprintf("Failed to send %s email: %v", strings.ToLower(label), err), err
	}
	if appointment == nil {
		return fmt.Sprintf("Appointment %s not found", task.AppointmentID), nil
	}

	msg, err := service.RenderNotification(task.Kind, appointment.Patient.User.Email, service.NewNotificationData(appointment))
	if err != nil {
		return fmt.Sprintf("Failed to send %s email: %v", strings.ToLower(label), err), err
	}

	if err := u.mailer.Send(ctx, msg); err != nil {
		return fmt.Sprintf("Failed to send %s email: %v", strings.ToLower(label), err), err
	}

	return fmt.Sprintf("%s email sent for appointment %s", label, task.AppointmentID), nil
}

func (u *notificationUsecase) SendConfirmation(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.NotificationResponse, error) {
	return u.enqueueFor(ctx, actor, appointmentID, entity.NotificationConfirmation)
}

func (u *notificationUsecase) SendReminder(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.NotificationResponse, error) {
	return u.enqueueFor(ctx, actor, appointmentID, entity.NotificationReminder)
}

func (u *notificationUsecase) enqueueFor(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, kind entity.NotificationKind) (*dto.NotificationResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !actor.CanAccess(appointment) {
		return nil, ErrPermissionDenied
	}

	task := entity.NotificationTask{Kind: kind, AppointmentID: appointmentID, EnqueuedAt: u.now()}
	if err := u.dispatcher.Enqueue(ctx, task); err != nil {
		u.log.Warnf("Failed to queue %s notification for appointment %s: %+v", kind, appointmentID, err)
		return nil, err
	}

	return &dto.NotificationResponse{
		AppointmentID: appointmentID,
		Kind:          string(kind),
		Status:        notificationQueued,
	}, nil
}

func (u *notificationUsecase) QueueDailyReminders(ctx context.Context, today time.Time) (int, error) {
	tomorrow := time.Date(today.Year(), today.Month(), today.Day()+1, 0, 0, 0, 0, time.UTC)

	appointments, err := u.appointmentRepo.FindByDateAndStatus(ctx, u.db, tomorrow, entity.AppointmentStatusConfirmed)
	if err != nil {
		u.log.Warnf("Failed to load confirmed appointments for %s: %+v", tomorrow.Format(time.DateOnly), err)
		return 0, err
	}

	queued := 0
	for _, appointment := range appointments {
		task := entity.NotificationTask{
			Kind:          entity.NotificationReminder,
			AppointmentID: appointment.ID,
			EnqueuedAt:    u.now(),
		}
		if err := u.dispatcher.Enqueue(ctx, task); err != nil {
			u.log.Warnf("Failed to queue reminder for appointment %s: %+v", appointment.ID, err)
			continue
		}
		queued++
	}

	u.log.Infof("Queued %d appointment reminders for %s", queued, tomorrow.Format(time.DateOnly))
	return queued, nil
}

func notificationLabel(kind entity.NotificationKind) string {
	if kind == entity.NotificationReminder {
		return "Reminder"
	}
	return "Confirmation"
}
