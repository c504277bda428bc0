package reminder

import (
	"fmt"
	"time"

	"telemedicine-reminder-server/internal/models"
)

// Due-window tolerances. The 24-hour reminder only needs rough timing and
// tolerates the gap between poll cycles; the 1-hour reminder is
// time-sensitive and assumes the scheduler fires at least every 5 minutes.
const (
	tolerance24Hours = 30 * time.Minute
	tolerance1Hour   = 5 * time.Minute
)

// PendingReminder is one pending reminder row joined to its appointment and
// the doctor's display name. Appointment is nil when the referenced
// appointment row no longer exists.
type PendingReminder struct {
	ID          string
	Type        models.ReminderType
	Appointment *AppointmentInfo
}

// AppointmentInfo is the slice of an appointment the dispatcher needs.
type AppointmentInfo struct {
	ID              string
	StartTime       time.Time
	PatientID       string
	DoctorFirstName string
	DoctorLastName  string
}

// windowFor returns the target offset and tolerance for a reminder type.
// ok is false for types outside the known set.
func windowFor(t models.ReminderType) (offset, tolerance time.Duration, ok bool) {
	switch t {
	case models.Reminder24Hours:
		return 24 * time.Hour, tolerance24Hours, true
	case models.Reminder1Hour:
		return time.Hour, tolerance1Hour, true
	default:
		return 0, 0, false
	}
}

// Due reports whether a reminder of the given type is inside its dispatch
// window at instant now, for an appointment starting at startTime. The
// appointment is compared against the anchor now+offset, not against now
// itself, so a reminder becomes due once the start time is within the
// tolerance of exactly one offset away. The boundary is exclusive: a delta
// equal to the tolerance does not fire.
func Due(t models.ReminderType, startTime, now time.Time) bool {
	offset, tolerance, ok := windowFor(t)
	if !ok {
		return false
	}
	anchor := now.Add(offset)
	delta := startTime.Sub(anchor)
	if delta < 0 {
		delta = -delta
	}
	return delta < tolerance
}

// Compose builds the notification title and message for a due reminder.
// loc is the timezone used to render the appointment's start time-of-day
// in the 24-hour message.
func Compose(t models.ReminderType, appt *AppointmentInfo, loc *time.Location) (title, message string) {
	doctorName := fmt.Sprintf("Dr. %s %s", appt.DoctorFirstName, appt.DoctorLastName)
	switch t {
	case models.Reminder24Hours:
		startOfDay := appt.StartTime.In(loc).Format("3:04 PM")
		return "Appointment Tomorrow",
			fmt.Sprintf("You have an appointment with %s tomorrow at %s.", doctorName, startOfDay)
	case models.Reminder1Hour:
		return "Appointment in 1 Hour",
			fmt.Sprintf("Your appointment with %s starts in 1 hour.", doctorName)
	default:
		return "", ""
	}
}

// BuildNotification creates the notification row for a due reminder.
// Reminders always notify the patient, not the doctor.
func BuildNotification(t models.ReminderType, appt *AppointmentInfo, loc *time.Location) models.Notification {
	title, message := Compose(t, appt, loc)
	return models.Notification{
		UserID:        appt.PatientID,
		Title:         title,
		Message:       message,
		Type:          models.NotificationAppointmentReminder,
		RelatedID:     appt.ID,
		AppointmentID: appt.ID,
	}
}
