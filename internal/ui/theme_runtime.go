package ui

import (
	"fyne.io/fyne/v2"

	"github.com/opkr/offroad/internal/resources"
)

type themeRuntime struct {
	fyApp   fyne.App
	sidebar sidebarLayout
}

func newThemeRuntime(fyApp fyne.App, sidebar sidebarLayout) *themeRuntime {
	return &themeRuntime{
		fyApp:   fyApp,
		sidebar: sidebar,
	}
}

func (r *themeRuntime) BindSettings() {
	r.fyApp.Settings().AddListener(func(_ fyne.Settings) {
		appLogger.Debug("theme settings changed")
		r.Apply(r.fyApp.Settings().ThemeVariant())
	})
}

func (r *themeRuntime) Apply(variant fyne.ThemeVariant) {
	appLogger.Debug("applying theme resources", "theme", variant)
	r.fyApp.SetIcon(resources.AppIconResource(variant))
	if r.sidebar.applyTheme != nil {
		r.sidebar.applyTheme(variant)
	}
}
