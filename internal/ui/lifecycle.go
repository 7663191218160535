package ui

import (
	"sync/atomic"

	"fyne.io/fyne/v2"
)

// bindLifecycle calls onForeground each time the app returns to the foreground, so panels
// re-read params that other services wrote meanwhile. The returned func disables the hook.
func bindLifecycle(fyApp fyne.App, onForeground func()) func() {
	var stopped atomic.Bool
	fyApp.Lifecycle().SetOnEnteredForeground(func() {
		if stopped.Load() || onForeground == nil {
			return
		}
		appLogger.Debug("app entered foreground")
		onForeground()
	})
	fyApp.Lifecycle().SetOnExitedForeground(func() {
		appLogger.Debug("app exited foreground")
	})

	return func() {
		stopped.Store(true)
	}
}
