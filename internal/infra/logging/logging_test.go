package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whhaicheng/news-scraper/internal/domain/config"
)

func TestMultiHandler_WritesToAll(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(slog.LevelInfo, &a, &b))

	logger.Debug("hidden")
	logger.With("run_id", "r1").WithGroup("tick").Info("Unit created", "unit", 3)

	for _, out := range []string{a.String(), b.String()} {
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "msg=\"Unit created\"")
		assert.Contains(t, out, "run_id=r1")
		assert.Contains(t, out, "tick.unit=3")
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := NewMultiHandler(slog.LevelWarn, &bytes.Buffer{})
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilePath(t *testing.T) {
	day := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, filepath.Join("logs", "news-scraper-2024-05-01.log"), FilePath("logs", day))
}

func TestSetup_WritesDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer

	logger, closer, err := Setup(config.LogConfig{Level: "info", Dir: dir}, &console)
	require.NoError(t, err)
	logger.Info("Scraping started", "run_id", "r1")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(FilePath(dir, time.Now()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Scraping started")
	assert.Contains(t, console.String(), "Scraping started")
}

func TestSetup_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	logger, closer, err := Setup(config.LogConfig{Level: "debug"}, &console)
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("tick")
	assert.Contains(t, console.String(), "level=DEBUG")

	_, _, err = Setup(config.LogConfig{Level: "loud"}, &console)
	assert.Error(t, err)
}
