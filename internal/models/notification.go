package models

// NotificationType tags the kind of event a notification refers to
type NotificationType string

const (
	NotificationAppointmentReminder NotificationType = "appointment_reminder"
)

// Notification represents an in-app message delivered to a user.
// RelatedID and AppointmentID carry the appointment id so the client can
// deep-link from the notification to the appointment view.
type Notification struct {
	BaseModel
	UserID        string           `gorm:"size:36;index" json:"userId"`
	Title         string           `gorm:"size:255" json:"title"`
	Message       string           `gorm:"type:text" json:"message"`
	Type          NotificationType `gorm:"size:40" json:"type"`
	RelatedID     string           `gorm:"size:36" json:"relatedId"`
	AppointmentID string           `gorm:"size:36" json:"appointmentId"`
	IsRead        bool             `gorm:"default:false" json:"isRead"`
}
