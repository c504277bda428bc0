package store

import (
	"context"
	"time"

	"telemedicine-reminder-server/internal/models"
	"telemedicine-reminder-server/internal/reminder"

	"gorm.io/gorm"
)

// ReminderStore implements the dispatcher's Source and Sink over GORM.
type ReminderStore struct {
	DB *gorm.DB
}

// NewReminderStore creates a new ReminderStore.
func NewReminderStore(db *gorm.DB) *ReminderStore {
	return &ReminderStore{DB: db}
}

// PendingReminders returns every reminder that is still pending and unsent,
// joined to its appointment and the doctor's display name. The fetch is
// unbounded, matching the dispatcher's single-pass design.
func (s *ReminderStore) PendingReminders(ctx context.Context) ([]reminder.PendingReminder, error) {
	var rows []models.Reminder
	err := s.DB.WithContext(ctx).
		Preload("Appointment").
		Preload("Appointment.Doctor").
		Where("status = ? AND sent_at IS NULL", models.ReminderPending).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	pending := make([]reminder.PendingReminder, 0, len(rows))
	for _, row := range rows {
		p := reminder.PendingReminder{
			ID:   row.ID,
			Type: row.ReminderType,
		}
		// A zero-ID appointment means the preload found nothing: the row
		// is orphaned and the dispatcher will skip it.
		if row.Appointment.ID != "" {
			p.Appointment = &reminder.AppointmentInfo{
				ID:              row.Appointment.ID,
				StartTime:       row.Appointment.StartTime,
				PatientID:       row.Appointment.PatientID,
				DoctorFirstName: row.Appointment.Doctor.FirstName,
				DoctorLastName:  row.Appointment.Doctor.LastName,
			}
		}
		pending = append(pending, p)
	}
	return pending, nil
}

// CreateNotification inserts one notification row.
func (s *ReminderStore) CreateNotification(ctx context.Context, notification models.Notification) error {
	return s.DB.WithContext(ctx).Create(&notification).Error
}

// MarkReminderSent transitions a reminder to sent and stamps sent_at.
// The transition is monotonic; callers only invoke this for rows they
// fetched as pending in the same cycle.
func (s *ReminderStore) MarkReminderSent(ctx context.Context, reminderID string, sentAt time.Time) error {
	return s.DB.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ?", reminderID).
		Updates(map[string]interface{}{
			"status":  models.ReminderSent,
			"sent_at": sentAt,
		}).Error
}
