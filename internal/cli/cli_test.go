package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whhaicheng/news-scraper/internal/app/repository"
	"github.com/whhaicheng/news-scraper/internal/domain/config"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
	"github.com/whhaicheng/news-scraper/internal/infra/configfile"
)

func resetGlobalOpts(t *testing.T) {
	t.Helper()
	orig := *globalOpts
	t.Cleanup(func() {
		*globalOpts = orig
	})
}

// executeCommand runs a fresh command tree and returns its stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetGlobalOpts(t)

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeConfig stores a config with a fast ticker and an sqlite history
// database inside a temporary directory.
func writeConfig(t *testing.T, historyEnabled bool) string {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Scraper.TickInterval = 10 * time.Millisecond
	cfg.History.Enabled = historyEnabled
	cfg.History.DSN = filepath.Join(dir, "history.db")
	cfg.Log.Dir = ""
	cfg.Log.Level = "error"

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, configfile.Save(path, cfg))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "news-scraper "+Version)
}

func TestConfigCommand_PrintsEffectiveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	out, err := executeCommand(t, "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "tick_interval: 2s")
	assert.Contains(t, out, "title: News Scraper")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	out, err := executeCommand(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := configfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().UI.Title, cfg.UI.Title)

	// A second init refuses to overwrite.
	_, err = executeCommand(t, "--config", path, "config", "init")
	require.Error(t, err)

	_, err = executeCommand(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)
}

func TestRunCommand_RecordsSession(t *testing.T) {
	path := writeConfig(t, true)

	out, err := executeCommand(t, "--config", path, "run", "--for", "80ms")
	require.NoError(t, err)
	assert.Contains(t, out, "Scraping started")
	assert.Contains(t, out, "Scraping stopped")
	assert.Contains(t, out, "finished with")

	out, err = executeCommand(t, "--config", path, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "RUN")
	assert.Contains(t, out, "Stopped")

	resetGlobalOpts(t)
	globalOpts.ConfigPath = path
	uc, closeFn, err := OpenHistory(context.Background(), bootstrapOptions())
	require.NoError(t, err)
	sessions, err := uc.ListSessions(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, closeFn())
	require.Len(t, sessions, 1)
	assert.Equal(t, scrape.PhaseStopped, sessions[0].Phase)

	out, err = executeCommand(t, "--config", path, "history", "--logs", sessions[0].ID[:6])
	require.NoError(t, err)
	assert.Contains(t, out, sessions[0].ID)
	assert.Contains(t, out, "Scraping started")
	assert.Contains(t, out, "Scraping stopped")
}

func TestRunCommand_JSON(t *testing.T) {
	path := writeConfig(t, false)

	out, err := executeCommand(t, "--config", path, "run", "--for", "30ms", "--json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[0], `"phase":"running"`)
	assert.Contains(t, lines[len(lines)-1], `"phase":"stopped"`)
}

func TestHistoryCommand_Errors(t *testing.T) {
	t.Run("unknown run", func(t *testing.T) {
		path := writeConfig(t, true)

		_, err := executeCommand(t, "--config", path, "history", "--logs", "does-not-exist")
		require.Error(t, err)
		assert.True(t, errors.Is(err, repository.ErrSessionNotFound))
		assert.Equal(t, ExitSessionNotFound, exitCode(err))
	})

	t.Run("history disabled", func(t *testing.T) {
		path := writeConfig(t, false)

		_, err := executeCommand(t, "--config", path, "history")
		require.Error(t, err)
		assert.Equal(t, ExitConfigError, exitCode(err))
	})

	t.Run("empty", func(t *testing.T) {
		path := writeConfig(t, true)

		out, err := executeCommand(t, "--config", path, "history")
		require.NoError(t, err)
		assert.Contains(t, out, "No sessions recorded")
	})
}

func TestBootstrap_InvalidLogLevel(t *testing.T) {
	path := writeConfig(t, false)

	_, err := Bootstrap(context.Background(), BootstrapOptions{ConfigPath: path, LogLevel: "loud"})
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfiguration)
}

func TestSnapshotPrinter_PrintsOnlyNewEntries(t *testing.T) {
	var buf bytes.Buffer
	p := &snapshotPrinter{out: &buf, seen: 1}

	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := scrape.NewState(at)
	s.Phase = scrape.PhaseRunning
	s.AppendEntry(scrape.LogEntry{Timestamp: at, Message: scrape.LogStarted}, 0)
	p.Print(s)

	s.AppendEntry(scrape.LogEntry{Timestamp: at, Message: scrape.UnitLog(1)}, 0)
	s.AppendEntry(scrape.LogEntry{Timestamp: at, Message: scrape.UnitLog(2)}, 0)
	p.Print(s)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], scrape.LogStarted)
	assert.Contains(t, lines[2], scrape.UnitLog(2))
	assert.NotContains(t, buf.String(), scrape.InitialMessage)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, exitCode(nil))
	assert.Equal(t, ExitInternalError, exitCode(errors.New("boom")))
	assert.Equal(t, ExitConfigError, exitCode(errHistoryDisabled))
}

func TestHistoryExport(t *testing.T) {
	path := writeConfig(t, true)
	_, err := executeCommand(t, "--config", path, "run", "--for", "40ms")
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "exports")

	out, err := executeCommand(t, "--config", path, "history", "export", "--all", "--dir", dir, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 sessions to "+dir)

	matches, err := filepath.Glob(filepath.Join(dir, "session_*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	_, err = executeCommand(t, "--config", path, "history", "export", "--dir", dir)
	assert.Error(t, err)

	_, err = executeCommand(t, "--config", path, "history", "export", "--all", "--format", "pdf", "--dir", dir)
	assert.Error(t, err)
}

func TestConfigPassword(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.History.SecretsDir = filepath.Join(dir, "secrets")
	cfg.History.DSN = filepath.Join(dir, "history-{password}.db")
	cfg.Log.Dir = ""
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, configfile.Save(path, cfg))

	resetGlobalOpts(t)
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("hunter2\n"))
	root.SetArgs([]string{"--config", path, "config", "set-password"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Password stored")

	// The DSN placeholder resolves to the stored password.
	db, err := openHistoryDB(context.Background(), cfg.History)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	assert.FileExists(t, filepath.Join(dir, "history-hunter2.db"))

	_, err = executeCommand(t, "--config", path, "config", "delete-password")
	require.NoError(t, err)

	_, err = openHistoryDB(context.Background(), cfg.History)
	assert.Error(t, err)
}
