package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/whhaicheng/news-scraper/internal/domain/notice"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

// Color palette
var (
	colorGreen  = lipgloss.Color("42")
	colorYellow = lipgloss.Color("214")
	colorRed    = lipgloss.Color("196")
	colorIndigo = lipgloss.Color("63")
	colorGray   = lipgloss.Color("245")
	colorWhite  = lipgloss.Color("255")
	colorBorder = lipgloss.Color("240")
)

// Styles defines the visual styles of the terminal dashboard
type Styles struct {
	Card    lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	HelpBar lipgloss.Style

	BadgeRunning lipgloss.Style
	BadgePaused  lipgloss.Style
	BadgeStopped lipgloss.Style

	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastError   lipgloss.Style
}

// DefaultStyles returns the default style configuration
func DefaultStyles() Styles {
	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorWhite)
	toast := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorWhite)

	return Styles{
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(44),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorIndigo),

		Label: lipgloss.NewStyle().
			Foreground(colorGray),

		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorIndigo),

		Muted: lipgloss.NewStyle().
			Foreground(colorGray),

		HelpBar: lipgloss.NewStyle().
			Foreground(colorGray).
			Padding(0, 1),

		BadgeRunning: badge.Background(colorGreen),
		BadgePaused:  badge.Background(colorYellow),
		BadgeStopped: badge.Background(colorGray),

		ToastSuccess: toast.Background(colorGreen),
		ToastWarning: toast.Background(colorYellow),
		ToastInfo:    toast.Background(colorIndigo),
		ToastError:   toast.Background(colorRed),
	}
}

// Badge returns the badge style for a phase.
func (s Styles) Badge(phase scrape.Phase) lipgloss.Style {
	switch phase {
	case scrape.PhaseRunning:
		return s.BadgeRunning
	case scrape.PhasePaused:
		return s.BadgePaused
	}
	return s.BadgeStopped
}

// Toast returns the toast style for a notice kind.
func (s Styles) Toast(kind notice.Kind) lipgloss.Style {
	switch kind {
	case notice.KindSuccess:
		return s.ToastSuccess
	case notice.KindWarning:
		return s.ToastWarning
	case notice.KindError:
		return s.ToastError
	}
	return s.ToastInfo
}
