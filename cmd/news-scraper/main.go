// Package main is the entry point for the news scraper desktop application.
// cmd/ only does assembly and I/O; the application lives in internal/.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/whhaicheng/news-scraper/internal/cli"
	"github.com/whhaicheng/news-scraper/internal/infra/configfile"
)

func main() {
	configPath := flag.String("config", configfile.DefaultPath, "Path to the YAML config file")
	logLevel := flag.String("log-level", "", "Log level override (debug|info|warn|error)")
	flag.Parse()

	// Set locale to avoid Fyne warning
	if os.Getenv("LANG") == "" || os.Getenv("LANG") == "C" {
		os.Setenv("LANG", "en_US.UTF-8")
	}

	err := cli.RunGUI(context.Background(), cli.BootstrapOptions{
		ConfigPath: *configPath,
		LogLevel:   *logLevel,
		Console:    os.Stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "news-scraper: %v\n", err)
		os.Exit(1)
	}
}
