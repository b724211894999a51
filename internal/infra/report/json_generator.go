// Package report provides JSON report generator implementation.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/whhaicheng/news-scraper/internal/domain/history"
	"github.com/whhaicheng/news-scraper/internal/domain/report"
)

// JSONGenerator generates JSON format reports.
type JSONGenerator struct{}

// NewJSONGenerator creates a new JSON generator.
func NewJSONGenerator() *JSONGenerator {
	return &JSONGenerator{}
}

// jsonReport represents the JSON report structure.
type jsonReport struct {
	Meta    jsonMeta            `json:"meta"`
	Session *history.Session    `json:"session"`
	Summary jsonSummary         `json:"summary"`
	Logs    []history.LogRecord `json:"logs,omitempty"`
}

type jsonMeta struct {
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_at"`
	Generator   string    `json:"generator"`
}

type jsonSummary struct {
	DurationSeconds float64 `json:"duration_seconds"`
	Finished        bool    `json:"finished"`
	UnitsPerMinute  float64 `json:"units_per_minute"`
}

// Generate generates a JSON report.
func (g *JSONGenerator) Generate(data *report.GenerateContext) (*report.Report, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	generatedAt := data.Timestamp()
	output := g.buildJSON(data, generatedAt)

	content, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}

	return &report.Report{
		Format:      report.FormatJSON,
		Content:     content,
		GeneratedAt: generatedAt,
		RunID:       data.Session.ID,
	}, nil
}

// Format returns the format this generator produces.
func (g *JSONGenerator) Format() report.ReportFormat {
	return report.FormatJSON
}

func (g *JSONGenerator) buildJSON(data *report.GenerateContext, generatedAt time.Time) jsonReport {
	s := data.Session
	duration := s.Duration()

	out := jsonReport{
		Meta: jsonMeta{
			Title:       data.ReportTitle(),
			GeneratedAt: generatedAt,
			Generator:   "news-scraper",
		},
		Session: s,
		Summary: jsonSummary{
			DurationSeconds: duration.Seconds(),
			Finished:        s.IsFinished(),
		},
	}
	if duration > 0 {
		out.Summary.UnitsPerMinute = float64(s.WorkCount) / duration.Minutes()
	}
	if data.IncludeLogs {
		out.Logs = data.Logs
	}
	return out
}
