package store

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"telemedicine-reminder-server/internal/models"
	"telemedicine-reminder-server/internal/reminder"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *ReminderStore {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite memory: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Appointment{}, &models.Reminder{}, &models.Notification{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	return NewReminderStore(db)
}

func seedAppointment(t *testing.T, s *ReminderStore, start time.Time) models.Appointment {
	t.Helper()

	doctor := models.User{
		Email:     fmt.Sprintf("doctor_%d@example.com", time.Now().UnixNano()),
		FirstName: "Neema",
		LastName:  "Kileo",
		Role:      models.RoleDoctor,
	}
	if err := s.DB.Create(&doctor).Error; err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	patient := models.User{
		Email:     fmt.Sprintf("patient_%d@example.com", time.Now().UnixNano()),
		FirstName: "Juma",
		LastName:  "Hassan",
		Role:      models.RolePatient,
	}
	if err := s.DB.Create(&patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	appointment := models.Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Status:    models.StatusConfirmed,
		Reason:    "checkup",
	}
	if err := s.DB.Create(&appointment).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	return appointment
}

func seedReminder(t *testing.T, s *ReminderStore, appointmentID string, rt models.ReminderType) models.Reminder {
	t.Helper()

	row := models.Reminder{
		AppointmentID: appointmentID,
		ReminderType:  rt,
		Status:        models.ReminderPending,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		t.Fatalf("seed reminder: %v", err)
	}
	return row
}

func TestPendingRemindersJoinsAppointmentAndDoctor(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	appointment := seedAppointment(t, s, start)
	seedReminder(t, s, appointment.ID, models.Reminder24Hours)

	pending, err := s.PendingReminders(context.Background())
	if err != nil {
		t.Fatalf("PendingReminders: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending reminder, got %d", len(pending))
	}

	row := pending[0]
	if row.Appointment == nil {
		t.Fatalf("appointment must be joined")
	}
	if row.Appointment.ID != appointment.ID {
		t.Errorf("appointment id = %q, want %q", row.Appointment.ID, appointment.ID)
	}
	if row.Appointment.PatientID != appointment.PatientID {
		t.Errorf("patient id = %q, want %q", row.Appointment.PatientID, appointment.PatientID)
	}
	if row.Appointment.DoctorFirstName != "Neema" || row.Appointment.DoctorLastName != "Kileo" {
		t.Errorf("doctor name = %q %q, want the seeded doctor",
			row.Appointment.DoctorFirstName, row.Appointment.DoctorLastName)
	}
	if !row.Appointment.StartTime.Equal(start) {
		t.Errorf("start time = %v, want %v", row.Appointment.StartTime, start)
	}
}

func TestPendingRemindersExcludesSentRows(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	appointment := seedAppointment(t, s, time.Now().Add(time.Hour))
	kept := seedReminder(t, s, appointment.ID, models.Reminder1Hour)
	done := seedReminder(t, s, appointment.ID, models.Reminder24Hours)

	if err := s.MarkReminderSent(context.Background(), done.ID, time.Now()); err != nil {
		t.Fatalf("MarkReminderSent: %v", err)
	}

	pending, err := s.PendingReminders(context.Background())
	if err != nil {
		t.Fatalf("PendingReminders: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != kept.ID {
		t.Fatalf("expected only the pending row %q, got %+v", kept.ID, pending)
	}
}

func TestPendingRemindersMarksOrphans(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	// Reminder pointing at an appointment that does not exist.
	seedReminder(t, s, "00000000-0000-0000-0000-000000000000", models.Reminder1Hour)

	pending, err := s.PendingReminders(context.Background())
	if err != nil {
		t.Fatalf("PendingReminders: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("orphaned rows are still fetched, got %d", len(pending))
	}
	if pending[0].Appointment != nil {
		t.Fatalf("orphaned reminder must have a nil appointment")
	}
}

func TestMarkReminderSentStampsSentAt(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	appointment := seedAppointment(t, s, time.Now().Add(time.Hour))
	row := seedReminder(t, s, appointment.ID, models.Reminder1Hour)

	sentAt := time.Now().UTC().Truncate(time.Second)
	if err := s.MarkReminderSent(context.Background(), row.ID, sentAt); err != nil {
		t.Fatalf("MarkReminderSent: %v", err)
	}

	var updated models.Reminder
	if err := s.DB.First(&updated, "id = ?", row.ID).Error; err != nil {
		t.Fatalf("reload reminder: %v", err)
	}
	if updated.Status != models.ReminderSent {
		t.Errorf("status = %q, want sent", updated.Status)
	}
	if updated.SentAt == nil || !updated.SentAt.Equal(sentAt) {
		t.Errorf("sent_at = %v, want %v", updated.SentAt, sentAt)
	}
}

// A second cycle against the same store state must not re-notify rows the
// first cycle already sent.
func TestSecondCycleDoesNotResend(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	now := time.Now().UTC()
	appointment := seedAppointment(t, s, now.Add(time.Hour))
	seedReminder(t, s, appointment.ID, models.Reminder1Hour)

	d := reminder.NewDispatcher(s, s, time.UTC, log.New(io.Discard, "", 0))

	first, err := d.RunDispatchCycle(context.Background(), now)
	if err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	if first.Sent != 1 {
		t.Fatalf("first cycle sent = %d, want 1", first.Sent)
	}

	second, err := d.RunDispatchCycle(context.Background(), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if second.Processed != 0 || second.Sent != 0 {
		t.Fatalf("second cycle = %+v, want nothing to process", second)
	}

	var count int64
	if err := s.DB.Model(&models.Notification{}).Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one notification, got %d", count)
	}
}
