package handlers

import (
	"context"
	"net/http"
	"time"

	"telemedicine-reminder-server/internal/reminder"

	"github.com/gin-gonic/gin"
)

// CycleRunner runs one reminder dispatch cycle at a given instant.
type CycleRunner interface {
	RunDispatchCycle(ctx context.Context, now time.Time) (reminder.DispatchResult, error)
}

// DispatchHandler exposes the reminder dispatch cycle as an
// HTTP-triggerable job for external schedulers.
type DispatchHandler struct {
	Runner CycleRunner
	Now    func() time.Time
}

// NewDispatchHandler creates a new DispatchHandler using the system clock.
func NewDispatchHandler(runner CycleRunner) *DispatchHandler {
	return &DispatchHandler{Runner: runner, Now: time.Now}
}

// TriggerDispatch runs one dispatch cycle. Any request method and body are
// accepted; CORS preflights are answered by the global CORS middleware
// before reaching here. Responds 200 with the processed count on normal
// completion, 500 when the pending reminders could not be fetched.
func (h *DispatchHandler) TriggerDispatch(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	result, err := h.Runner.RunDispatchCycle(c.Request.Context(), h.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": result.Processed,
		"sent":      result.Sent,
	})
}
