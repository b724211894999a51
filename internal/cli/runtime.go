package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/whhaicheng/news-scraper/internal/app/repository"
	"github.com/whhaicheng/news-scraper/internal/app/usecase"
	"github.com/whhaicheng/news-scraper/internal/domain/config"
	"github.com/whhaicheng/news-scraper/internal/infra/configfile"
	"github.com/whhaicheng/news-scraper/internal/infra/database"
	sqlrepo "github.com/whhaicheng/news-scraper/internal/infra/database/repository"
	"github.com/whhaicheng/news-scraper/internal/infra/keyring"
	"github.com/whhaicheng/news-scraper/internal/infra/logging"
	reportgen "github.com/whhaicheng/news-scraper/internal/infra/report"
)

// BootstrapOptions selects how the runtime is assembled.
type BootstrapOptions struct {
	// ConfigPath is the YAML config file. Missing files fall back to defaults.
	ConfigPath string
	// LogLevel overrides log.level when set.
	LogLevel string
	// Interval overrides scraper.tick_interval when positive.
	Interval time.Duration
	// Console receives log output besides the log file.
	Console io.Writer
}

// Runtime holds the assembled application: configuration, logging, the
// run controller and run history.
type Runtime struct {
	Config     *config.Config
	Logger     *slog.Logger
	Relay      *usecase.Relay
	Controller *usecase.RunController
	History    *usecase.HistoryUseCase
	Export     *usecase.ExportUseCase

	recorder  *usecase.HistoryRecorder
	db        *database.DB
	logCloser io.Closer
}

// Bootstrap loads configuration and wires the application together.
// When history is disabled sessions are kept in memory for the process.
func Bootstrap(ctx context.Context, opts BootstrapOptions) (*Runtime, error) {
	cfg, err := configfile.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Interval > 0 {
		cfg.Scraper.TickInterval = opts.Interval
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Console == nil {
		opts.Console = io.Discard
	}

	logger, logCloser, err := logging.Setup(cfg.Log, opts.Console)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	slog.SetDefault(logger)

	rt := &Runtime{
		Config:    cfg,
		Logger:    logger,
		Relay:     usecase.NewRelay(),
		logCloser: logCloser,
	}

	var historyRepo repository.HistoryRepository
	if cfg.History.Enabled {
		db, err := openHistoryDB(ctx, cfg.History)
		if err != nil {
			logCloser.Close()
			return nil, fmt.Errorf("open history database: %w", err)
		}
		rt.db = db
		historyRepo = sqlrepo.NewSQLHistoryRepository(db)
		logger.Info("History database initialized", "driver", cfg.History.Driver)
	} else {
		historyRepo = usecase.NewMemoryHistoryRepository()
		logger.Info("History recording kept in memory")
	}
	rt.History = usecase.NewHistoryUseCase(historyRepo)
	rt.Export = usecase.NewExportUseCase(rt.History, usecase.DefaultExportDir, reportgen.Generators()...)

	rt.Controller = usecase.NewRunController(rt.Relay.Publish,
		usecase.WithInterval(cfg.Scraper.TickInterval),
		usecase.WithLogCapacity(cfg.Scraper.LogCapacity),
		usecase.WithLogger(logger),
	)
	rt.recorder = usecase.NewHistoryRecorder(historyRepo, rt.Controller.Snapshot(), 0, logger)
	rt.Relay.Attach(rt.recorder.Observe)

	return rt, nil
}

// OpenHistory opens only the history store, for read-only commands.
func OpenHistory(ctx context.Context, opts BootstrapOptions) (*usecase.HistoryUseCase, func() error, error) {
	cfg, err := configfile.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if !cfg.History.Enabled {
		return nil, nil, errHistoryDisabled
	}
	db, err := openHistoryDB(ctx, cfg.History)
	if err != nil {
		return nil, nil, fmt.Errorf("open history database: %w", err)
	}
	return usecase.NewHistoryUseCase(sqlrepo.NewSQLHistoryRepository(db)), db.Close, nil
}

var errHistoryDisabled = errors.New("history recording is disabled")

// MasterKeyEnv names the variable holding the secrets master password.
const MasterKeyEnv = configfile.EnvPrefix + "MASTER_KEY"

// openSecrets opens the encrypted password store of cfg.
func openSecrets(cfg config.HistoryConfig) (*keyring.FileFallback, error) {
	dir := cfg.SecretsDir
	if dir == "" {
		dir = config.DefaultConfig().History.SecretsDir
	}
	return keyring.NewFileFallback(dir, os.Getenv(MasterKeyEnv))
}

// openHistoryDB opens the history database, filling in a stored password
// when the DSN asks for one.
func openHistoryDB(ctx context.Context, cfg config.HistoryConfig) (*database.DB, error) {
	dsn := cfg.DSN
	if strings.Contains(dsn, keyring.PasswordPlaceholder) {
		secrets, err := openSecrets(cfg)
		if err != nil {
			return nil, err
		}
		dsn, err = keyring.ExpandDSN(ctx, secrets, keyring.HistoryPasswordKey, dsn)
		if err != nil {
			return nil, err
		}
	}
	return database.Open(ctx, cfg.Driver, dsn)
}

// Close stops the run, flushes history and releases resources.
func (r *Runtime) Close(ctx context.Context) error {
	r.Controller.Close()

	var errs []error
	if err := r.recorder.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush history: %w", err))
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close history database: %w", err))
		}
	}
	if err := r.logCloser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close log file: %w", err))
	}
	return errors.Join(errs...)
}

// Shutdown stops an active run so the stop is recorded, then closes the runtime.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r.Controller.Snapshot().IsRunning() {
		r.Controller.Stop()
	}
	return r.Close(ctx)
}
