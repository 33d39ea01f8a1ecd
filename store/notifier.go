package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// DefaultNotificationTimeout is applied by the Success/Error helpers.
const DefaultNotificationTimeout = 5 * time.Second

// Notification is a transient user-facing message
type Notification struct {
	ID        string
	Message   string
	Type      Severity
	Timeout   time.Duration
	CreatedAt time.Time
}

// Notifier holds the single most recent notification. A newer one
// replaces the current one rather than queueing behind it. The mutex is
// needed because auto-clear timers fire on their own goroutine.
type Notifier struct {
	mu      sync.Mutex
	current *Notification
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Notify replaces the current notification and schedules auto-clear
// after timeout. A timeout <= 0 keeps the notification until Clear.
func (n *Notifier) Notify(message string, severity Severity, timeout time.Duration) Notification {
	note := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      severity,
		Timeout:   timeout,
		CreatedAt: time.Now(),
	}

	n.mu.Lock()
	n.current = &note
	n.mu.Unlock()

	if timeout > 0 {
		time.AfterFunc(timeout, func() {
			n.clearIf(note.ID)
		})
	}
	return note
}

// Success posts a success notification with the default timeout.
func (n *Notifier) Success(message string) Notification {
	return n.Notify(message, SeveritySuccess, DefaultNotificationTimeout)
}

// Error posts an error notification with the default timeout.
func (n *Notifier) Error(message string) Notification {
	return n.Notify(message, SeverityError, DefaultNotificationTimeout)
}

// Current returns a copy of the visible notification, or nil.
func (n *Notifier) Current() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	note := *n.current
	return &note
}

// Clear removes the visible notification.
func (n *Notifier) Clear() {
	n.mu.Lock()
	n.current = nil
	n.mu.Unlock()
}

// clearIf clears only when the notification with the given id is still
// visible, so an expired timer never removes a newer message.
func (n *Notifier) clearIf(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil && n.current.ID == id {
		n.current = nil
	}
}
