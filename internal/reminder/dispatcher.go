package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"telemedicine-reminder-server/internal/models"
)

// Source provides the pending reminders a dispatch cycle operates on.
type Source interface {
	PendingReminders(ctx context.Context) ([]PendingReminder, error)
}

// Sink receives the side effects of a dispatch cycle.
type Sink interface {
	CreateNotification(ctx context.Context, notification models.Notification) error
	MarkReminderSent(ctx context.Context, reminderID string, sentAt time.Time) error
}

// DispatchResult summarizes one dispatch cycle. Processed counts every
// fetched row regardless of whether it was due.
type DispatchResult struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Dispatcher runs dispatch cycles over pending reminders. It is stateless
// between cycles; an external scheduler invokes RunDispatchCycle
// periodically.
type Dispatcher struct {
	source Source
	sink   Sink
	loc    *time.Location
	logger *log.Logger
}

// NewDispatcher creates a Dispatcher. loc controls how appointment times
// are rendered in message text and may be nil for UTC.
func NewDispatcher(source Source, sink Sink, loc *time.Location, logger *log.Logger) *Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{
		source: source,
		sink:   sink,
		loc:    loc,
		logger: logger,
	}
}

// RunDispatchCycle fetches all pending reminders, sends a notification for
// each one whose due window contains now, and marks it sent. now is
// injected rather than read from the system clock so window boundaries are
// deterministic under test.
//
// A fetch failure aborts the cycle. Per-row write failures are logged and
// the cycle continues; a row whose notification write failed stays pending
// and is retried naturally on a later cycle. The notification write and the
// status update are sequential, not atomic: if the status update fails
// after the notification landed, the next cycle may re-send.
func (d *Dispatcher) RunDispatchCycle(ctx context.Context, now time.Time) (DispatchResult, error) {
	rows, err := d.source.PendingReminders(ctx)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("fetch pending reminders: %w", err)
	}

	result := DispatchResult{Processed: len(rows)}
	for _, row := range rows {
		if row.Appointment == nil {
			// Orphaned row; the appointment was deleted out from under it.
			d.logger.Printf("dispatch: reminder %s has no appointment, skipping", row.ID)
			result.Skipped++
			continue
		}
		if _, _, ok := windowFor(row.Type); !ok {
			d.logger.Printf("dispatch: reminder %s has unknown type %q, skipping", row.ID, row.Type)
			result.Skipped++
			continue
		}
		if !Due(row.Type, row.Appointment.StartTime, now) {
			// Not in the window yet; reconsidered on a future cycle.
			continue
		}

		notification := BuildNotification(row.Type, row.Appointment, d.loc)
		if err := d.sink.CreateNotification(ctx, notification); err != nil {
			d.logger.Printf("dispatch: create notification for reminder %s: %v", row.ID, err)
			result.Failed++
			continue
		}
		if err := d.sink.MarkReminderSent(ctx, row.ID, now); err != nil {
			d.logger.Printf("dispatch: mark reminder %s sent: %v", row.ID, err)
			result.Failed++
			continue
		}
		result.Sent++
	}

	return result, nil
}
