// Package repository provides history repository interfaces.
package repository

import (
	"context"
	"errors"

	"github.com/whhaicheng/news-scraper/internal/domain/history"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
)

// HistoryRepository defines the interface for run history persistence.
type HistoryRepository interface {
	// SaveSession inserts the session or updates it if it already exists.
	SaveSession(ctx context.Context, session *history.Session) error

	// FindSession retrieves a session by run ID.
	// Returns ErrSessionNotFound if it does not exist.
	FindSession(ctx context.Context, id string) (*history.Session, error)

	// ListSessions retrieves sessions, most recently started first.
	ListSessions(ctx context.Context, opts *ListOptions) ([]*history.Session, error)

	// AppendLog stores a log entry for a session.
	AppendLog(ctx context.Context, record history.LogRecord) error

	// ListLogs retrieves the log entries of a session ordered by Seq.
	ListLogs(ctx context.Context, runID string) ([]history.LogRecord, error)
}

// ListOptions defines options for listing sessions.
type ListOptions struct {
	// Limit limits the number of sessions returned. Zero means no limit.
	Limit int

	// Offset skips the first N sessions.
	Offset int
}
