// Package repository provides SQL repository implementations.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/whhaicheng/news-scraper/internal/app/repository"
	"github.com/whhaicheng/news-scraper/internal/domain/history"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
	"github.com/whhaicheng/news-scraper/internal/infra/database"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLHistoryRepository implements repository.HistoryRepository on any
// supported SQL dialect.
type SQLHistoryRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLHistoryRepository creates a new SQL history repository.
func NewSQLHistoryRepository(db *database.DB) *SQLHistoryRepository {
	return &SQLHistoryRepository{db: db.DB, dialect: db.Dialect}
}

// SaveSession inserts the session or updates the existing row.
func (r *SQLHistoryRepository) SaveSession(ctx context.Context, session *history.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Check if session already exists
	var count int
	err = tx.QueryRowContext(ctx, r.q("SELECT COUNT(*) FROM run_sessions WHERE id = ?"), session.ID).Scan(&count)
	if err != nil {
		return fmt.Errorf("check existing session: %w", err)
	}

	var stoppedAt sql.NullString
	if session.StoppedAt != nil {
		stoppedAt = sql.NullString{String: formatTime(*session.StoppedAt), Valid: true}
	}

	if count == 0 {
		_, err = tx.ExecContext(ctx, r.q(`
			INSERT INTO run_sessions (id, started_at, updated_at, stopped_at, phase, work_count)
			VALUES (?, ?, ?, ?, ?, ?)`),
			session.ID,
			formatTime(session.StartedAt),
			formatTime(session.UpdatedAt),
			stoppedAt,
			string(session.Phase),
			session.WorkCount,
		)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	} else {
		_, err = tx.ExecContext(ctx, r.q(`
			UPDATE run_sessions
			SET updated_at = ?, stopped_at = ?, phase = ?, work_count = ?
			WHERE id = ?`),
			formatTime(session.UpdatedAt),
			stoppedAt,
			string(session.Phase),
			session.WorkCount,
			session.ID,
		)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	slog.Debug("SQLHistoryRepository: Saved session", "id", session.ID, "phase", session.Phase)
	return nil
}

// FindSession retrieves a session by run ID.
func (r *SQLHistoryRepository) FindSession(ctx context.Context, id string) (*history.Session, error) {
	row := r.db.QueryRowContext(ctx, r.q(`
		SELECT id, started_at, updated_at, stopped_at, phase, work_count
		FROM run_sessions WHERE id = ?`), id)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// ListSessions retrieves sessions, most recently started first.
func (r *SQLHistoryRepository) ListSessions(ctx context.Context, opts *repository.ListOptions) ([]*history.Session, error) {
	query := `
		SELECT id, started_at, updated_at, stopped_at, phase, work_count
		FROM run_sessions
		ORDER BY started_at DESC, id`
	if opts != nil {
		query += r.dialect.Paginate(opts.Limit, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*history.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// AppendLog stores a log entry for a session.
func (r *SQLHistoryRepository) AppendLog(ctx context.Context, record history.LogRecord) error {
	_, err := r.db.ExecContext(ctx, r.q(`
		INSERT INTO run_log_entries (run_id, seq, logged_at, message)
		VALUES (?, ?, ?, ?)`),
		record.RunID,
		record.Seq,
		formatTime(record.Timestamp),
		record.Message,
	)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

// ListLogs retrieves the log entries of a session ordered by Seq.
func (r *SQLHistoryRepository) ListLogs(ctx context.Context, runID string) ([]history.LogRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.q(`
		SELECT run_id, seq, logged_at, message
		FROM run_log_entries
		WHERE run_id = ?
		ORDER BY seq`), runID)
	if err != nil {
		return nil, fmt.Errorf("query log entries: %w", err)
	}
	defer rows.Close()

	records := []history.LogRecord{}
	for rows.Next() {
		var rec history.LogRecord
		var loggedAt string
		if err := rows.Scan(&rec.RunID, &rec.Seq, &loggedAt, &rec.Message); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		if rec.Timestamp, err = parseTime(loggedAt); err != nil {
			return nil, fmt.Errorf("parse logged_at: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log entries: %w", err)
	}
	return records, nil
}

func (r *SQLHistoryRepository) q(query string) string {
	return r.dialect.Rebind(query)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*history.Session, error) {
	var s history.Session
	var startedAt, updatedAt, phase string
	var stoppedAt sql.NullString

	if err := row.Scan(&s.ID, &startedAt, &updatedAt, &stoppedAt, &phase, &s.WorkCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	var err error
	if s.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if stoppedAt.Valid {
		t, err := parseTime(stoppedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse stopped_at: %w", err)
		}
		s.StoppedAt = &t
	}
	s.Phase = scrape.Phase(phase)
	return &s, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
