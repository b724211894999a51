package usecase

import (
	"context"
	"sync"

	"github.com/whhaicheng/news-scraper/internal/domain/notice"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

// Sink receives every snapshot published by a RunController.
// Snapshots are shared and must be treated as read-only.
type Sink func(scrape.State)

// FanOut returns a sink that forwards each snapshot to every non-nil sink
// in order.
func FanOut(sinks ...Sink) Sink {
	active := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return func(s scrape.State) {
		for _, sink := range active {
			sink(s)
		}
	}
}

// Relay is a sink whose subscribers can be attached after the controller
// is built. Subscribers are called in attach order.
type Relay struct {
	mu    sync.RWMutex
	sinks []Sink
}

// NewRelay creates a relay with no subscribers.
func NewRelay() *Relay {
	return &Relay{}
}

// Attach adds a subscriber. Nil sinks are ignored.
func (r *Relay) Attach(s Sink) {
	if s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, s)
}

// Publish forwards a snapshot to every subscriber. It is a Sink.
func (r *Relay) Publish(s scrape.State) {
	r.mu.RLock()
	sinks := r.sinks
	r.mu.RUnlock()
	for _, sink := range sinks {
		sink(s)
	}
}

// NoticeSink returns a sink that calls show for every transition that
// warrants a toast. initial is the state the controller started from.
func NoticeSink(initial scrape.State, show func(notice.Notice)) Sink {
	var mu sync.Mutex
	prev := initial
	return func(s scrape.State) {
		mu.Lock()
		n, ok := notice.FromTransition(prev, s)
		prev = s
		mu.Unlock()
		if ok {
			show(n)
		}
	}
}

// SnapshotQueue buffers snapshots for a consumer running on its own
// goroutine, such as a terminal event loop. Push never blocks. The queue
// is unbounded and delivers every snapshot in publish order, so the
// consumer sees each transition.
type SnapshotQueue struct {
	mu     sync.Mutex
	items  []scrape.State
	ready  chan struct{}
	closed bool
}

// NewSnapshotQueue creates an empty queue.
func NewSnapshotQueue() *SnapshotQueue {
	return &SnapshotQueue{ready: make(chan struct{}, 1)}
}

// Push appends a snapshot. It is a Sink.
func (q *SnapshotQueue) Push(s scrape.State) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, s)
	select {
	case q.ready <- struct{}{}:
	default:
	}
	q.mu.Unlock()
}

// Pop waits for the oldest snapshot. It returns false when the queue is
// closed and drained or ctx is done.
func (q *SnapshotQueue) Pop(ctx context.Context) (scrape.State, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			s := q.items[0]
			q.items[0] = scrape.State{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return s, true
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return scrape.State{}, false
		}

		select {
		case <-q.ready:
		case <-ctx.Done():
			return scrape.State{}, false
		}
	}
}

// Close wakes up waiting consumers. Snapshots already queued can still
// be popped.
func (q *SnapshotQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ready)
}
