// Package notify provides the in-process notification channel consumed by
// the presentation layer: transient messages with a severity, auto-dismissed
// after a fixed duration.
package notify

import (
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Center holds the currently active notifications.
type Center struct {
	logger       *common.Logger
	dismissAfter time.Duration

	mu     sync.Mutex
	nextID int64
	active []models.Notification
	timers map[int64]*time.Timer
}

// NewCenter creates a notification center with the given auto-dismiss duration.
func NewCenter(logger *common.Logger, dismissAfter time.Duration) *Center {
	return &Center{
		logger:       logger,
		dismissAfter: dismissAfter,
		timers:       make(map[int64]*time.Timer),
	}
}

// Success posts a success notification.
func (c *Center) Success(message string) { c.show(message, models.SeveritySuccess) }

// Error posts an error notification.
func (c *Center) Error(message string) { c.show(message, models.SeverityError) }

// Info posts an informational notification.
func (c *Center) Info(message string) { c.show(message, models.SeverityInfo) }

func (c *Center) show(message string, severity models.Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.active = append(c.active, models.Notification{
		ID:        id,
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	})
	c.timers[id] = time.AfterFunc(c.dismissAfter, func() { c.Dismiss(id) })

	c.logger.Debug().
		Str("severity", string(severity)).
		Str("message", message).
		Msg("Notification posted")
}

// Dismiss removes a notification by id. No-op for unknown ids.
func (c *Center) Dismiss(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	for i, n := range c.active {
		if n.ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			break
		}
	}
}

// Active returns a copy of the notifications not yet dismissed.
func (c *Center) Active() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Notification, len(c.active))
	copy(out, c.active)
	return out
}

// Close stops all pending dismiss timers.
func (c *Center) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	c.active = nil
	return nil
}

// Compile-time check
var _ interfaces.Notifier = (*Center)(nil)
