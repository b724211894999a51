package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/whhaicheng/news-scraper/internal/domain/history"
	"github.com/whhaicheng/news-scraper/internal/domain/report"
)

// DefaultExportDir is used when no export directory is configured.
const DefaultExportDir = "./data/exports"

// ExportUseCase writes session reports to disk.
type ExportUseCase struct {
	historyUC  *HistoryUseCase
	generators map[report.ReportFormat]report.Generator
	exportDir  string // Default export directory
}

// NewExportUseCase creates a new export use case.
func NewExportUseCase(historyUC *HistoryUseCase, exportDir string, generators ...report.Generator) *ExportUseCase {
	if exportDir == "" {
		exportDir = DefaultExportDir
	}
	uc := &ExportUseCase{
		historyUC:  historyUC,
		generators: make(map[report.ReportFormat]report.Generator, len(generators)),
		exportDir:  exportDir,
	}
	for _, g := range generators {
		uc.generators[g.Format()] = g
	}
	return uc
}

// ExportSession renders one session and writes it into the export directory.
func (uc *ExportUseCase) ExportSession(ctx context.Context, id string, format report.ReportFormat) (*report.Report, error) {
	gen, err := uc.generator(format)
	if err != nil {
		return nil, err
	}

	session, logs, err := uc.historyUC.GetSessionLogs(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(uc.exportDir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return uc.write(gen, session, logs)
}

// ExportAllSessions exports up to limit sessions (0 for all).
// Returns the count of successfully exported sessions and the directory path.
func (uc *ExportUseCase) ExportAllSessions(ctx context.Context, format report.ReportFormat, limit int) (int, string, error) {
	gen, err := uc.generator(format)
	if err != nil {
		return 0, "", err
	}

	sessions, err := uc.historyUC.ListSessions(ctx, limit)
	if err != nil {
		return 0, "", err
	}
	if len(sessions) == 0 {
		return 0, "", fmt.Errorf("no sessions to export")
	}

	if err := os.MkdirAll(uc.exportDir, 0755); err != nil {
		return 0, "", fmt.Errorf("create export directory: %w", err)
	}

	successCount := 0
	var failed []string
	for _, s := range sessions {
		logs, err := uc.historyUC.historyRepo.ListLogs(ctx, s.ID)
		if err == nil {
			_, err = uc.write(gen, s, logs)
		}
		if err != nil {
			slog.Error("Failed to export session", "run_id", s.ID, "error", err)
			failed = append(failed, s.ID)
			continue
		}
		successCount++
	}

	if len(failed) > 0 {
		return successCount, uc.exportDir, fmt.Errorf("failed to export %d sessions: %v", len(failed), failed)
	}
	return successCount, uc.exportDir, nil
}

// ExportDir returns the directory reports are written to.
func (uc *ExportUseCase) ExportDir() string {
	return uc.exportDir
}

func (uc *ExportUseCase) generator(format report.ReportFormat) (report.Generator, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	gen, ok := uc.generators[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return gen, nil
}

func (uc *ExportUseCase) write(gen report.Generator, session *history.Session, logs []history.LogRecord) (*report.Report, error) {
	rpt, err := gen.Generate(report.NewGenerateContext(session, logs))
	if err != nil {
		return nil, fmt.Errorf("generate %s report: %w", gen.Format(), err)
	}

	path := filepath.Join(uc.exportDir, generateFilename(session, gen.Format()))
	if err := os.WriteFile(path, rpt.Content, 0644); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	rpt.FilePath = path

	slog.Info("Session exported", "run_id", session.ID, "format", gen.Format(), "path", path)
	return rpt, nil
}

// generateFilename returns session_{short id}_{start}.{ext}.
func generateFilename(session *history.Session, format report.ReportFormat) string {
	id := session.ID
	if len(id) > 8 {
		id = id[:8]
	}
	timestamp := session.StartedAt.UTC().Format("20060102_150405")
	return fmt.Sprintf("session_%s_%s%s", id, timestamp, format.FileExtension())
}
