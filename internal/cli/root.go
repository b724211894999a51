// Package cli implements the news-scraper-cli command tree.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/whhaicheng/news-scraper/internal/app/repository"
	"github.com/whhaicheng/news-scraper/internal/domain/config"
	"github.com/whhaicheng/news-scraper/internal/infra/configfile"
)

// Exit codes
const (
	ExitOK              = 0
	ExitSessionNotFound = 2
	ExitConfigError     = 3
	ExitInternalError   = 10
)

// Version is the build version, set with -ldflags.
var Version = "dev"

// GlobalOptions holds options shared across all commands
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
}

var globalOpts = &GlobalOptions{}

// rootCmd represents the base command
var rootCmd = newRootCmd()

// newRootCmd builds the command tree. Flag defaults are written back into
// globalOpts, so every tree starts from a clean state.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news-scraper-cli",
		Short: "Simulated news scraping run controller",
		Long: `news-scraper-cli drives a simulated scraping run.

A run can be started, paused, resumed and stopped. While it is active one
work unit is produced per tick. Runs can be watched headless, in a terminal
dashboard or in the desktop window, and finished sessions are kept in the
history database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&globalOpts.ConfigPath, "config", configfile.DefaultPath, "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&globalOpts.LogLevel, "log-level", "", "Log level override (debug|info|warn|error)")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newGUICmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, repository.ErrSessionNotFound):
		return ExitSessionNotFound
	case errors.Is(err, errHistoryDisabled), errors.Is(err, config.ErrInvalidConfiguration):
		return ExitConfigError
	}
	return ExitInternalError
}

// bootstrapOptions builds runtime options from the global flags.
func bootstrapOptions() BootstrapOptions {
	return BootstrapOptions{
		ConfigPath: globalOpts.ConfigPath,
		LogLevel:   globalOpts.LogLevel,
		Console:    os.Stderr,
	}
}
