package ui

import (
	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/opkr/offroad/internal/app"
	"github.com/opkr/offroad/internal/resources"
)

const touchThemeScale float32 = 1.6

var newFyneApp = func() fyne.App {
	return fyneapp.NewWithID("com.opkr.offroad")
}

// Run builds the window and blocks until the app quits.
func Run(dep RuntimeDependencies) error {
	return runWithApp(dep, newFyneApp())
}

func runWithApp(dep RuntimeDependencies, fyApp fyne.App) error {
	fyApp.Settings().SetTheme(newTouchTheme(touchThemeScale))
	initialVariant := fyApp.Settings().ThemeVariant()
	fyApp.SetIcon(resources.AppIconResource(initialVariant))
	fullscreen := dep.Launch.Fullscreen || dep.Data.Config.UI.Fullscreen
	appLogger.Info(
		"starting UI runtime",
		"fullscreen", fullscreen,
		"initial_theme", initialVariant,
		"version", app.BuildSummary(),
	)

	window := fyApp.NewWindow(app.Name)
	window.Resize(fyne.NewSize(float32(dep.Data.Config.UI.WindowWidth), float32(dep.Data.Config.UI.WindowHeight)))
	if dep.UIHooks.CurrentWindow == nil {
		dep.UIHooks.CurrentWindow = func() fyne.Window {
			return window
		}
	}
	hooks := resolveHooks(dep)

	view := buildMainView(dep, hooks)

	themeRuntime := newThemeRuntime(fyApp, view.settings.sidebar)
	themeRuntime.BindSettings()

	stopUIListeners := bindPresentationListeners(dep, hooks, view)
	stopLifecycle := bindLifecycle(fyApp, view.refreshActive)

	window.SetContent(view.content)

	uiRuntime := newUIRuntime(
		fyApp,
		window,
		stopLifecycle,
		stopUIListeners,
		dep.Actions.OnQuit,
	)
	uiRuntime.BindCloseIntercept()
	themeRuntime.Apply(initialVariant)

	uiRuntime.Run(fullscreen)

	return nil
}
