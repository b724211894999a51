// Package report provides chart generation utilities for reports.
package report

import (
	"fmt"
	"strings"
	"time"
)

// sparkRunes are the bar heights of a one-line sparkline, lowest first.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// ChartGenerator generates text-based charts for reports.
type ChartGenerator struct{}

// NewChartGenerator creates a new chart generator.
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// GenerateActivitySparkline renders how many work units were created in
// each of width equal slices of [start, end]. Returns "" when there is
// nothing to plot.
func (g *ChartGenerator) GenerateActivitySparkline(units []time.Time, start, end time.Time, width int) string {
	if len(units) == 0 || width <= 0 {
		return ""
	}

	buckets := g.bucket(units, start, end, width)
	peak := 0
	for _, n := range buckets {
		if n > peak {
			peak = n
		}
	}

	var sb strings.Builder
	for _, n := range buckets {
		if n == 0 {
			sb.WriteRune(' ')
			continue
		}
		idx := (n*len(sparkRunes) - 1) / peak
		sb.WriteRune(sparkRunes[idx])
	}
	sb.WriteString(fmt.Sprintf(" peak %d/slot", peak))

	return sb.String()
}

// bucket counts the times falling into each of width slices of the span.
// Times outside the span land in the first or last slice.
func (g *ChartGenerator) bucket(times []time.Time, start, end time.Time, width int) []int {
	buckets := make([]int, width)
	span := end.Sub(start)
	if span <= 0 {
		buckets[width-1] = len(times)
		return buckets
	}

	for _, t := range times {
		i := int(float64(t.Sub(start)) / float64(span) * float64(width))
		if i < 0 {
			i = 0
		}
		if i >= width {
			i = width - 1
		}
		buckets[i]++
	}
	return buckets
}
