package ui

import (
	"testing"

	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
)

func TestNewTheme_ForcesVariant(t *testing.T) {
	def := theme.DefaultTheme()

	dark := NewTheme(ThemeDark)
	assert.Equal(t,
		def.Color(theme.ColorNameBackground, theme.VariantDark),
		dark.Color(theme.ColorNameBackground, theme.VariantLight))

	light := NewTheme(ThemeLight)
	assert.Equal(t,
		def.Color(theme.ColorNameBackground, theme.VariantLight),
		light.Color(theme.ColorNameBackground, theme.VariantDark))

	system := NewTheme("unknown")
	assert.Equal(t, ThemeSystem, system.Mode())
	assert.Equal(t,
		def.Color(theme.ColorNameBackground, theme.VariantDark),
		system.Color(theme.ColorNameBackground, theme.VariantDark))

	assert.Equal(t, brandColor, dark.Color(theme.ColorNamePrimary, theme.VariantDark))
}

func TestNextMode(t *testing.T) {
	assert.Equal(t, ThemeDark, nextMode(ThemeLight))
	assert.Equal(t, ThemeSystem, nextMode(ThemeDark))
	assert.Equal(t, ThemeLight, nextMode(ThemeSystem))
}
