package ui

import (
	"sync"

	"fyne.io/fyne/v2"
)

type uiRuntime struct {
	fyApp  fyne.App
	window fyne.Window

	stopLifecycle   func()
	stopUIListeners func()
	onQuit          func()

	shutdownOnce sync.Once
}

func newUIRuntime(
	fyApp fyne.App,
	window fyne.Window,
	stopLifecycle func(),
	stopUIListeners func(),
	onQuit func(),
) *uiRuntime {
	return &uiRuntime{
		fyApp:           fyApp,
		window:          window,
		stopLifecycle:   stopLifecycle,
		stopUIListeners: stopUIListeners,
		onQuit:          onQuit,
	}
}

// BindCloseIntercept quits the whole app when the window is closed.
func (r *uiRuntime) BindCloseIntercept() {
	if r.window == nil {
		return
	}
	r.window.SetCloseIntercept(func() {
		appLogger.Debug("main window close intercepted: quitting")
		r.Quit()
	})
}

func (r *uiRuntime) Quit() {
	r.shutdownOnce.Do(func() {
		appLogger.Info("quitting UI runtime")
		r.stop()
		if r.fyApp != nil {
			r.fyApp.Quit()
		}
	})
}

func (r *uiRuntime) Run(fullscreen bool) {
	if r.window != nil {
		if fullscreen {
			appLogger.Info("launch option fullscreen is enabled")
			r.window.SetFullScreen(true)
		}
		r.window.Show()
	}
	if r.fyApp != nil {
		r.fyApp.Run()
	}
	appLogger.Info("UI runtime stopped")
	r.shutdownOnce.Do(func() {
		r.stop()
	})
}

func (r *uiRuntime) stop() {
	if r.stopLifecycle != nil {
		r.stopLifecycle()
	}
	if r.stopUIListeners != nil {
		r.stopUIListeners()
	}
	if r.onQuit != nil {
		r.onQuit()
	}
}
