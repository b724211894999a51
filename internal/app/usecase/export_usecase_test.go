package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whhaicheng/news-scraper/internal/app/repository"
	"github.com/whhaicheng/news-scraper/internal/domain/history"
	"github.com/whhaicheng/news-scraper/internal/domain/report"
)

// stubGenerator renders "<run id>:<log count>".
type stubGenerator struct {
	format report.ReportFormat
}

func (g stubGenerator) Generate(ctx *report.GenerateContext) (*report.Report, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	content := []byte(ctx.Session.ID + ":" + string(rune('0'+len(ctx.Logs))))
	return &report.Report{Format: g.format, Content: content, RunID: ctx.Session.ID}, nil
}

func (g stubGenerator) Format() report.ReportFormat { return g.format }

func newExportFixture(t *testing.T) (*ExportUseCase, string) {
	t.Helper()
	ctx := context.Background()
	repo := NewMemoryHistoryRepository()
	require.NoError(t, repo.SaveSession(ctx, &history.Session{ID: "aaaaaaaa-1111", StartedAt: epoch}))
	require.NoError(t, repo.SaveSession(ctx, &history.Session{ID: "bbbbbbbb-2222", StartedAt: epoch.Add(time.Hour)}))
	require.NoError(t, repo.AppendLog(ctx, history.LogRecord{RunID: "bbbbbbbb-2222", Seq: 2, Message: "Scraping started"}))

	dir := filepath.Join(t.TempDir(), "exports")
	uc := NewExportUseCase(NewHistoryUseCase(repo), dir, stubGenerator{format: report.FormatMarkdown})
	return uc, dir
}

func TestExportUseCase_ExportSession(t *testing.T) {
	uc, dir := newExportFixture(t)

	rpt, err := uc.ExportSession(context.Background(), "bbbbbbbb-2222", report.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "session_bbbbbbbb_20240501_100000.md"), rpt.FilePath)

	data, err := os.ReadFile(rpt.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbb-2222:1", string(data))
}

func TestExportUseCase_Errors(t *testing.T) {
	uc, _ := newExportFixture(t)
	ctx := context.Background()

	_, err := uc.ExportSession(ctx, "missing", report.FormatMarkdown)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	_, err = uc.ExportSession(ctx, "bbbbbbbb-2222", report.FormatJSON)
	assert.ErrorContains(t, err, "unsupported format")

	_, err = uc.ExportSession(ctx, "bbbbbbbb-2222", report.ReportFormat("pdf"))
	assert.Error(t, err)
}

func TestExportUseCase_ExportAllSessions(t *testing.T) {
	uc, dir := newExportFixture(t)

	n, outDir, err := uc.ExportAllSessions(context.Background(), report.FormatMarkdown, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, dir, outDir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	empty := NewExportUseCase(NewHistoryUseCase(NewMemoryHistoryRepository()), dir, stubGenerator{format: report.FormatMarkdown})
	_, _, err = empty.ExportAllSessions(context.Background(), report.FormatMarkdown, 0)
	assert.Error(t, err)
}

func TestNewExportUseCase_DefaultDir(t *testing.T) {
	uc := NewExportUseCase(nil, "")
	assert.Equal(t, DefaultExportDir, uc.ExportDir())
}
