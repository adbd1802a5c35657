// Package notify carries short user-facing messages (the "toast" channel)
// raised when a backend operation fails.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

type Notification struct {
	// Subject is the auth user the notification belongs to, empty when the
	// failing call was made without a signed-in user.
	Subject   string    `json:"-"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier receives user-facing notifications.
type Notifier interface {
	Notify(n Notification)
}

// Feed keeps the most recent notifications of each subject in a fixed-size
// ring and logs each one.
type Feed struct {
	mu       sync.Mutex
	logger   *zap.Logger
	capacity int
	rings    map[string]*ring
}

type ring struct {
	items []Notification
	next  int
	full  bool
}

func NewFeed(logger *zap.Logger, capacity int) *Feed {
	if capacity <= 0 {
		capacity = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{
		logger:   logger,
		capacity: capacity,
		rings:    map[string]*ring{},
	}
}

func (f *Feed) Notify(n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	f.mu.Lock()
	r, ok := f.rings[n.Subject]
	if !ok {
		r = &ring{items: make([]Notification, f.capacity)}
		f.rings[n.Subject] = r
	}
	r.items[r.next] = n
	r.next = (r.next + 1) % len(r.items)
	if r.next == 0 {
		r.full = true
	}
	f.mu.Unlock()

	f.logger.Info("notification",
		zap.String("subject", n.Subject),
		zap.String("level", string(n.Level)),
		zap.String("message", n.Message),
		zap.String("detail", n.Detail),
	)
}

// Recent returns up to limit notifications raised for subject, newest first.
// limit <= 0 returns all.
func (f *Feed) Recent(subject string, limit int) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rings[subject]
	if !ok {
		return []Notification{}
	}

	size := r.next
	if r.full {
		size = len(r.items)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Notification, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (r.next - 1 - i + len(r.items)) % len(r.items)
		out = append(out, r.items[idx])
	}
	return out
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(Notification) {}
