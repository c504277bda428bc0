package models

import (
	"time"
)

// ReminderType identifies the lead time of a reminder
type ReminderType string

const (
	Reminder24Hours ReminderType = "24_hours"
	Reminder1Hour   ReminderType = "1_hour"
)

// ReminderStatus represents the delivery state of a reminder.
// The transition is monotonic: pending -> sent, never back.
type ReminderStatus string

const (
	ReminderPending ReminderStatus = "pending"
	ReminderSent    ReminderStatus = "sent"
)

// Reminder represents a scheduled notification intent tied to one appointment
// and one fixed lead time. The booking flow inserts one 24_hours and one
// 1_hour row per appointment; the dispatcher only reads and updates them.
// SentAt is null exactly while Status is pending.
type Reminder struct {
	BaseModel
	AppointmentID string         `gorm:"size:36;index" json:"appointmentId"`
	ReminderType  ReminderType   `gorm:"size:20" json:"reminderType"`
	Status        ReminderStatus `gorm:"size:20;default:'pending'" json:"status"`
	SentAt        *time.Time     `json:"sentAt,omitempty"`

	// Relations
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}
