// Package report provides session report domain models.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/whhaicheng/news-scraper/internal/domain/history"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

// ReportFormat represents the output format for a report.
type ReportFormat string

const (
	// FormatMarkdown generates Markdown format reports.
	FormatMarkdown ReportFormat = "markdown"
	// FormatJSON generates JSON format reports.
	FormatJSON ReportFormat = "json"
	// FormatText generates plain text reports.
	FormatText ReportFormat = "txt"
)

// String returns the string representation of the format.
func (f ReportFormat) String() string {
	return string(f)
}

// Validate checks if the format is valid.
func (f ReportFormat) Validate() error {
	switch f {
	case FormatMarkdown, FormatJSON, FormatText:
		return nil
	default:
		return fmt.Errorf("invalid report format: %s", f)
	}
}

// ParseFormat converts a user supplied name, accepting "md" for Markdown.
func ParseFormat(s string) (ReportFormat, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "md" {
		name = string(FormatMarkdown)
	}
	f := ReportFormat(name)
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// FileExtension returns the file extension for this format.
func (f ReportFormat) FileExtension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// Report represents a generated report.
type Report struct {
	Format      ReportFormat
	Content     []byte
	GeneratedAt time.Time
	RunID       string

	// FilePath is the file path if saved to disk.
	FilePath string
}

// Generator is the interface for report generators.
type Generator interface {
	// Generate generates a report from the provided data.
	Generate(ctx *GenerateContext) (*Report, error)

	// Format returns the format this generator produces.
	Format() ReportFormat
}

// GenerateContext contains data for report generation.
type GenerateContext struct {
	Session *history.Session
	Logs    []history.LogRecord

	// Title overrides the default report title.
	Title string

	// IncludeLogs adds the activity log.
	IncludeLogs bool

	// IncludeChart adds the activity chart to text based formats.
	IncludeChart bool

	// ChartWidth is the number of chart columns (default: 40).
	ChartWidth int

	// GeneratedAt stamps the report. Zero means now.
	GeneratedAt time.Time
}

// NewGenerateContext returns a context with logs and chart enabled.
func NewGenerateContext(session *history.Session, logs []history.LogRecord) *GenerateContext {
	return &GenerateContext{
		Session:      session,
		Logs:         logs,
		IncludeLogs:  true,
		IncludeChart: true,
		ChartWidth:   40,
	}
}

// Validate checks that the context carries a session.
func (c *GenerateContext) Validate() error {
	if c.Session == nil {
		return errors.New("session is required")
	}
	if c.Session.ID == "" {
		return errors.New("session id is required")
	}
	return nil
}

// ReportTitle returns the custom title or the default one.
func (c *GenerateContext) ReportTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "Scraping Session " + c.Session.ID
}

// Timestamp returns GeneratedAt, defaulting to now.
func (c *GenerateContext) Timestamp() time.Time {
	if c.GeneratedAt.IsZero() {
		return time.Now()
	}
	return c.GeneratedAt
}

// UnitTimes returns the creation time of every recorded work unit.
func (c *GenerateContext) UnitTimes() []time.Time {
	var times []time.Time
	for _, r := range c.Logs {
		if _, ok := scrape.ParseUnitLog(r.Message); ok {
			times = append(times, r.Timestamp)
		}
	}
	return times
}

// GetTimestamp formats an optional time, "-" when unset.
func GetTimestamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}
