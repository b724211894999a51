package usecase

import (
	"sync"
	"time"

	"github.com/whhaicheng/news-scraper/internal/app/clock"
	"github.com/whhaicheng/news-scraper/internal/domain/notice"
)

// DefaultToastDuration is how long a toast stays visible.
const DefaultToastDuration = 4 * time.Second

// Toast is a notice on screen.
type Toast struct {
	ID        int
	Notice    notice.Notice
	CreatedAt time.Time
}

// ToastQueue holds the visible toasts, oldest first. Each toast is
// removed automatically after the configured duration.
type ToastQueue struct {
	mu       sync.Mutex
	clock    clock.Clock
	duration time.Duration
	onChange func([]Toast)
	nextID   int
	toasts   []Toast
	timers   map[int]clock.Timer
	closed   bool
}

// NewToastQueue creates a queue. onChange, if set, receives the visible
// toasts after every change and is called without internal locks held.
func NewToastQueue(c clock.Clock, duration time.Duration, onChange func([]Toast)) *ToastQueue {
	if c == nil {
		c = clock.System
	}
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &ToastQueue{
		clock:    c,
		duration: duration,
		onChange: onChange,
		timers:   make(map[int]clock.Timer),
	}
}

// Push shows a notice and returns its toast ID.
func (q *ToastQueue) Push(n notice.Notice) int {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0
	}
	q.nextID++
	id := q.nextID
	q.toasts = append(q.toasts, Toast{ID: id, Notice: n, CreatedAt: q.clock.Now()})
	q.timers[id] = q.clock.AfterFunc(q.duration, func() { q.Dismiss(id) })
	visible := q.snapshot()
	q.mu.Unlock()

	q.notify(visible)
	return id
}

// Dismiss removes a toast. It reports whether the toast was visible.
func (q *ToastQueue) Dismiss(id int) bool {
	q.mu.Lock()
	idx := -1
	for i, t := range q.toasts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return false
	}
	q.toasts = append(q.toasts[:idx:idx], q.toasts[idx+1:]...)
	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
	visible := q.snapshot()
	q.mu.Unlock()

	q.notify(visible)
	return true
}

// List returns the visible toasts, oldest first.
func (q *ToastQueue) List() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshot()
}

// Close cancels pending dismissals and ignores further pushes.
func (q *ToastQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
}

func (q *ToastQueue) snapshot() []Toast {
	out := make([]Toast, len(q.toasts))
	copy(out, q.toasts)
	return out
}

func (q *ToastQueue) notify(visible []Toast) {
	if q.onChange != nil {
		q.onChange(visible)
	}
}
