package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// touchTheme scales the default theme up for a car touchscreen.
type touchTheme struct {
	base  fyne.Theme
	scale float32
}

func newTouchTheme(scale float32) fyne.Theme {
	if scale <= 0 {
		scale = 1
	}
	return &touchTheme{base: theme.DefaultTheme(), scale: scale}
}

func (t *touchTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.base.Color(name, variant)
}

func (t *touchTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *touchTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *touchTheme) Size(name fyne.ThemeSizeName) float32 {
	size := t.base.Size(name)
	switch name {
	case theme.SizeNameText, theme.SizeNameSubHeadingText, theme.SizeNameHeadingText,
		theme.SizeNamePadding, theme.SizeNameInnerPadding, theme.SizeNameInlineIcon:
		return size * t.scale
	default:
		return size
	}
}
