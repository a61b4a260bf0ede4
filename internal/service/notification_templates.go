package service

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"clinic-appointment-api/internal/domain/entity"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl"))
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl"))
)

// NotificationData is what the e-mail templates render
type NotificationData struct {
	PatientName string
	DoctorName  string
	Date        string
	StartTime   string
	EndTime     string
	Reason      string
}

// NewNotificationData flattens an appointment with its doctor and patient preloaded.
func NewNotificationData(appointment *entity.Appointment) NotificationData {
	return NotificationData{
		PatientName: appointment.Patient.User.FullName,
		DoctorName:  appointment.Doctor.User.FullName,
		Date:        appointment.AppointmentDate.Format("2006-01-02"),
		StartTime:   appointment.StartTime.String(),
		EndTime:     appointment.EndTime.String(),
		Reason:      appointment.Reason,
	}
}

// RenderNotification builds the e-mail for a notification kind.
func RenderNotification(kind entity.NotificationKind, to string, data NotificationData) (Message, error) {
	var subject, name string
	switch kind {
	case entity.NotificationConfirmation:
		subject = fmt.Sprintf("Appointment Confirmation - %s", data.Date)
		name = "appointment_confirmation"
	case entity.NotificationReminder:
		subject = fmt.Sprintf("Appointment Reminder - Tomorrow at %s", data.StartTime)
		name = "appointment_reminder"
	default:
		return Message{}, fmt.Errorf("unknown notification kind %q", kind)
	}

	var plain, html bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&plain, name+".txt.tmpl", data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html.tmpl", data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", name, err)
	}

	return Message{
		To:        to,
		Subject:   subject,
		PlainBody: plain.String(),
		HTMLBody:  html.String(),
	}, nil
}
