package scheduler

import (
	"context"
	"log"
	"time"

	"telemedicine-reminder-server/internal/reminder"

	"github.com/robfig/cron/v3"
)

// Scheduler periodically triggers reminder dispatch cycles. The dispatch
// windows assume a cadence of 5 minutes or faster; see the default in
// config.ReminderCron.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher *reminder.Dispatcher
	spec       string
	logger     *log.Logger
}

// New creates a Scheduler that runs the dispatcher on the given cron spec.
func New(dispatcher *reminder.Dispatcher, spec string, logger *log.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		dispatcher: dispatcher,
		spec:       spec,
		logger:     logger,
	}
}

// Start registers the dispatch job and starts the scheduler loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runCycle)
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runCycle() {
	result, err := s.dispatcher.RunDispatchCycle(context.Background(), time.Now())
	if err != nil {
		// No internal retry; the next scheduled firing retries naturally.
		s.logger.Printf("scheduler: dispatch cycle failed: %v", err)
		return
	}
	s.logger.Printf("scheduler: dispatch cycle done: processed=%d sent=%d skipped=%d failed=%d",
		result.Processed, result.Sent, result.Skipped, result.Failed)
}
