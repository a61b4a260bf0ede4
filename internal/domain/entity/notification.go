package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationConfirmation NotificationKind = "confirmation"
	NotificationReminder     NotificationKind = "reminder"
)

// NotificationTask is the message handed to the notification queue.
type NotificationTask struct {
	Kind          NotificationKind `json:"kind"`
	AppointmentID uuid.UUID        `json:"appointment_id"`
	EnqueuedAt    time.Time        `json:"enqueued_at"`
}
