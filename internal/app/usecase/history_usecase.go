package usecase

import (
	"context"
	"fmt"

	"github.com/whhaicheng/news-scraper/internal/app/repository"
	"github.com/whhaicheng/news-scraper/internal/domain/history"
)

// HistoryUseCase provides read access to recorded run sessions.
type HistoryUseCase struct {
	historyRepo repository.HistoryRepository
}

// NewHistoryUseCase creates a new history use case.
func NewHistoryUseCase(historyRepo repository.HistoryRepository) *HistoryUseCase {
	return &HistoryUseCase{
		historyRepo: historyRepo,
	}
}

// ListSessions returns up to limit sessions, newest first. A limit of
// zero returns every session.
func (uc *HistoryUseCase) ListSessions(ctx context.Context, limit int) ([]*history.Session, error) {
	if limit < 0 {
		return nil, fmt.Errorf("invalid limit %d", limit)
	}
	sessions, err := uc.historyRepo.ListSessions(ctx, &repository.ListOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns a session by run ID.
func (uc *HistoryUseCase) GetSession(ctx context.Context, id string) (*history.Session, error) {
	session, err := uc.historyRepo.FindSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return session, nil
}

// GetSessionLogs returns the session and its recorded log entries.
func (uc *HistoryUseCase) GetSessionLogs(ctx context.Context, id string) (*history.Session, []history.LogRecord, error) {
	session, err := uc.GetSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	logs, err := uc.historyRepo.ListLogs(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list logs %s: %w", id, err)
	}
	return session, logs, nil
}
