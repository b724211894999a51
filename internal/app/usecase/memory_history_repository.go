package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/whhaicheng/news-scraper/internal/app/repository"
	"github.com/whhaicheng/news-scraper/internal/domain/history"
)

// MemoryHistoryRepository provides an in-memory implementation of
// repository.HistoryRepository, used when history storage is disabled
// and in tests.
type MemoryHistoryRepository struct {
	sessions map[string]*history.Session
	logs     map[string][]history.LogRecord
	mu       sync.RWMutex
}

// NewMemoryHistoryRepository creates a new in-memory history repository.
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		sessions: make(map[string]*history.Session),
		logs:     make(map[string][]history.LogRecord),
	}
}

// SaveSession saves a copy of the session.
func (r *MemoryHistoryRepository) SaveSession(ctx context.Context, session *history.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = copySession(session)
	slog.Debug("MemoryHistoryRepository: Saved session", "id", session.ID, "phase", session.Phase)
	return nil
}

// FindSession finds a session by its run ID.
func (r *MemoryHistoryRepository) FindSession(ctx context.Context, id string) (*history.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return copySession(s), nil
}

// ListSessions returns sessions, most recently started first.
func (r *MemoryHistoryRepository) ListSessions(ctx context.Context, opts *repository.ListOptions) ([]*history.Session, error) {
	r.mu.RLock()
	sessions := make([]*history.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, copySession(s))
	}
	r.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})

	if opts != nil {
		if opts.Offset > 0 {
			if opts.Offset >= len(sessions) {
				return []*history.Session{}, nil
			}
			sessions = sessions[opts.Offset:]
		}
		if opts.Limit > 0 && len(sessions) > opts.Limit {
			sessions = sessions[:opts.Limit]
		}
	}
	return sessions, nil
}

// AppendLog stores a log record for a run.
func (r *MemoryHistoryRepository) AppendLog(ctx context.Context, record history.LogRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[record.RunID] = append(r.logs[record.RunID], record)
	return nil
}

// ListLogs returns the log records of a run ordered by sequence.
func (r *MemoryHistoryRepository) ListLogs(ctx context.Context, runID string) ([]history.LogRecord, error) {
	r.mu.RLock()
	out := make([]history.LogRecord, len(r.logs[runID]))
	copy(out, r.logs[runID])
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func copySession(s *history.Session) *history.Session {
	c := *s
	if s.StoppedAt != nil {
		t := *s.StoppedAt
		c.StoppedAt = &t
	}
	return &c
}
