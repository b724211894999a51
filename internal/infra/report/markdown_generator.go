// Package report provides Markdown report generator implementation.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/whhaicheng/news-scraper/internal/domain/report"
)

// MarkdownGenerator generates Markdown format reports.
type MarkdownGenerator struct {
	chartGen *ChartGenerator
}

// NewMarkdownGenerator creates a new Markdown generator.
func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{
		chartGen: NewChartGenerator(),
	}
}

// Generate generates a Markdown report.
func (g *MarkdownGenerator) Generate(data *report.GenerateContext) (*report.Report, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var sb strings.Builder

	// Title
	sb.WriteString("# ")
	sb.WriteString(data.ReportTitle())
	sb.WriteString("\n\n")

	// Summary
	g.writeSummary(&sb, data)

	// Activity
	if data.IncludeChart {
		g.writeActivity(&sb, data)
	}

	// Logs
	if data.IncludeLogs && len(data.Logs) > 0 {
		g.writeLogs(&sb, data)
	}

	// Footer
	generatedAt := data.Timestamp()
	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("*Generated by news-scraper on %s*\n", generatedAt.Format(time.RFC1123)))

	return &report.Report{
		Format:      report.FormatMarkdown,
		Content:     []byte(sb.String()),
		GeneratedAt: generatedAt,
		RunID:       data.Session.ID,
	}, nil
}

// Format returns the format this generator produces.
func (g *MarkdownGenerator) Format() report.ReportFormat {
	return report.FormatMarkdown
}

// writeSummary writes the summary table.
func (g *MarkdownGenerator) writeSummary(sb *strings.Builder, data *report.GenerateContext) {
	s := data.Session

	status := "🟢 " + s.Phase.Label()
	if s.IsFinished() {
		status = "⏹ " + s.Phase.Label()
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Property | Value |\n")
	sb.WriteString("|----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Run ID | `%s` |\n", s.ID))
	sb.WriteString(fmt.Sprintf("| Status | %s |\n", status))
	sb.WriteString(fmt.Sprintf("| Units | %s |\n", humanize.Comma(int64(s.WorkCount))))
	sb.WriteString(fmt.Sprintf("| Duration | %s |\n", s.Duration().Round(time.Second)))
	sb.WriteString(fmt.Sprintf("| Started | %s |\n", report.GetTimestamp(&s.StartedAt)))
	sb.WriteString(fmt.Sprintf("| Stopped | %s |\n", report.GetTimestamp(s.StoppedAt)))
	sb.WriteString("\n")
}

// writeActivity writes the units-over-time sparkline.
func (g *MarkdownGenerator) writeActivity(sb *strings.Builder, data *report.GenerateContext) {
	s := data.Session
	end := s.StartedAt.Add(s.Duration())
	chart := g.chartGen.GenerateActivitySparkline(data.UnitTimes(), s.StartedAt, end, data.ChartWidth)
	if chart == "" {
		return
	}

	sb.WriteString("## Activity\n\n")
	sb.WriteString("```\n")
	sb.WriteString(chart)
	sb.WriteString("\n```\n\n")
}

// writeLogs writes the activity log.
func (g *MarkdownGenerator) writeLogs(sb *strings.Builder, data *report.GenerateContext) {
	sb.WriteString("## Activity Log\n\n")
	sb.WriteString("| # | Time | Message |\n")
	sb.WriteString("|---|------|---------|\n")
	for _, r := range data.Logs {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n", r.Seq, r.Timestamp.Format("15:04:05"), r.Message))
	}
	sb.WriteString("\n")
}
