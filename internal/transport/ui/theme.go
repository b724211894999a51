package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme modes accepted by NewTheme.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// brandColor is the indigo used for the splash screen and primary accents.
var brandColor = color.NRGBA{R: 0x63, G: 0x66, B: 0xf1, A: 0xff}

// AppTheme applies the brand colors on top of the default theme and can
// force a light or dark variant.
type AppTheme struct {
	fyne.Theme
	mode string
}

// NewTheme creates the theme for a mode (light, dark, system).
func NewTheme(mode string) *AppTheme {
	switch mode {
	case ThemeLight, ThemeDark:
	default:
		mode = ThemeSystem
	}
	return &AppTheme{Theme: theme.DefaultTheme(), mode: mode}
}

// Mode returns the configured mode.
func (t *AppTheme) Mode() string {
	return t.mode
}

// Color returns the color for name, honoring a forced variant.
func (t *AppTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch t.mode {
	case ThemeLight:
		variant = theme.VariantLight
	case ThemeDark:
		variant = theme.VariantDark
	}
	if name == theme.ColorNamePrimary {
		return brandColor
	}
	return t.Theme.Color(name, variant)
}

// nextMode cycles light -> dark -> system.
func nextMode(mode string) string {
	switch mode {
	case ThemeLight:
		return ThemeDark
	case ThemeDark:
		return ThemeSystem
	}
	return ThemeLight
}
