package usecase

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/whhaicheng/news-scraper/internal/app/repository"
	"github.com/whhaicheng/news-scraper/internal/domain/history"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

// DefaultHistoryBuffer is the number of snapshots the recorder queues
// before it starts dropping.
const DefaultHistoryBuffer = 256

// HistoryRecorder persists run sessions and their log entries from the
// snapshots of a RunController. Writes happen on a background goroutine
// so a slow store never delays the controller.
type HistoryRecorder struct {
	repo    repository.HistoryRepository
	logger  *slog.Logger
	events  chan scrape.State
	done    chan struct{}
	dropped atomic.Int64

	mu     sync.Mutex
	closed bool

	// Owned by the worker goroutine.
	recorded int
	session  *history.Session
}

// NewHistoryRecorder starts a recorder. initial is the controller state at
// the time of subscription; entries already in it are not recorded.
func NewHistoryRecorder(repo repository.HistoryRepository, initial scrape.State, buffer int, logger *slog.Logger) *HistoryRecorder {
	if buffer <= 0 {
		buffer = DefaultHistoryBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &HistoryRecorder{
		repo:     repo,
		logger:   logger,
		events:   make(chan scrape.State, buffer),
		done:     make(chan struct{}),
		recorded: initial.LogTotal,
	}
	go r.run()
	return r
}

// Observe queues a snapshot for recording without blocking. It can be
// used as a Sink.
func (r *HistoryRecorder) Observe(s scrape.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.events <- s:
	default:
		n := r.dropped.Add(1)
		r.logger.Warn("History recorder queue full, dropping snapshot",
			"run_id", s.RunID, "dropped", n)
	}
}

// Dropped returns the number of snapshots discarded because the queue was full.
func (r *HistoryRecorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops accepting snapshots and waits until the queued ones are
// written or ctx is done.
func (r *HistoryRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.events)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *HistoryRecorder) run() {
	defer close(r.done)
	for s := range r.events {
		r.record(context.Background(), s)
	}
}

func (r *HistoryRecorder) record(ctx context.Context, s scrape.State) {
	fresh := s.LogTotal - r.recorded
	if fresh < 0 {
		fresh = 0
	}
	r.recorded = s.LogTotal

	if s.RunID == "" || fresh == 0 {
		return
	}

	entries := s.Log
	if fresh < len(entries) {
		entries = entries[len(entries)-fresh:]
	}
	last := entries[len(entries)-1]

	if r.session == nil || r.session.ID != s.RunID {
		r.session = &history.Session{
			ID:        s.RunID,
			StartedAt: entries[0].Timestamp,
		}
		r.logger.Info("Recording session", "run_id", s.RunID)
	}
	r.session.Phase = s.Phase
	r.session.WorkCount = s.WorkCount
	r.session.UpdatedAt = last.Timestamp
	if s.Phase == scrape.PhaseStopped {
		stoppedAt := last.Timestamp
		r.session.StoppedAt = &stoppedAt
	} else {
		r.session.StoppedAt = nil
	}

	if err := r.repo.SaveSession(ctx, r.session); err != nil {
		r.logger.Warn("Failed to save session", "run_id", s.RunID, "error", err)
		return
	}

	// Seq numbers follow the controller log, so a capped log still yields
	// stable positions.
	firstSeq := s.LogTotal - len(entries) + 1
	for i, e := range entries {
		rec := history.LogRecord{
			RunID:     s.RunID,
			Seq:       firstSeq + i,
			Timestamp: e.Timestamp,
			Message:   e.Message,
		}
		if err := r.repo.AppendLog(ctx, rec); err != nil {
			r.logger.Warn("Failed to append log", "run_id", s.RunID, "seq", rec.Seq, "error", err)
		}
	}
}
