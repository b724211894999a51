package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/whhaicheng/news-scraper/internal/domain/report"
)

// TextGenerator generates plain text reports.
type TextGenerator struct {
	chartGen *ChartGenerator
}

// NewTextGenerator creates a new text generator.
func NewTextGenerator() *TextGenerator {
	return &TextGenerator{chartGen: NewChartGenerator()}
}

// Generate generates a plain text report.
func (g *TextGenerator) Generate(data *report.GenerateContext) (*report.Report, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s := data.Session
	title := data.ReportTitle()

	var sb strings.Builder
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n\n")
	sb.WriteString(fmt.Sprintf("Run ID:   %s\n", s.ID))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", s.Phase.Label()))
	sb.WriteString(fmt.Sprintf("Units:    %s\n", humanize.Comma(int64(s.WorkCount))))
	sb.WriteString(fmt.Sprintf("Duration: %s\n", s.Duration().Round(time.Second)))
	sb.WriteString(fmt.Sprintf("Started:  %s\n", report.GetTimestamp(&s.StartedAt)))
	sb.WriteString(fmt.Sprintf("Stopped:  %s\n", report.GetTimestamp(s.StoppedAt)))

	if data.IncludeChart {
		end := s.StartedAt.Add(s.Duration())
		if chart := g.chartGen.GenerateActivitySparkline(data.UnitTimes(), s.StartedAt, end, data.ChartWidth); chart != "" {
			sb.WriteString("\nActivity: " + chart + "\n")
		}
	}

	if data.IncludeLogs && len(data.Logs) > 0 {
		sb.WriteString("\nActivity Log\n------------\n")
		for _, r := range data.Logs {
			sb.WriteString(r.Entry().String() + "\n")
		}
	}

	return &report.Report{
		Format:      report.FormatText,
		Content:     []byte(sb.String()),
		GeneratedAt: data.Timestamp(),
		RunID:       s.ID,
	}, nil
}

// Format returns the format this generator produces.
func (g *TextGenerator) Format() report.ReportFormat {
	return report.FormatText
}

// Generators returns one generator per supported format.
func Generators() []report.Generator {
	return []report.Generator{
		NewMarkdownGenerator(),
		NewJSONGenerator(),
		NewTextGenerator(),
	}
}
