package ui

import (
	"testing"

	fynetest "fyne.io/fyne/v2/test"
)

func TestBindLifecycleRefreshesOnForegroundUntilStopped(t *testing.T) {
	base := fynetest.NewApp()
	t.Cleanup(base.Quit)

	lifecycle := &lifecycleSpy{}
	app := &lifecycleAppSpy{App: base, lifecycle: lifecycle}

	var refreshes int
	stop := bindLifecycle(app, func() { refreshes++ })
	if lifecycle.onEnteredForeground == nil || lifecycle.onExitedForeground == nil {
		t.Fatalf("expected foreground hooks to be registered")
	}

	lifecycle.onEnteredForeground()
	lifecycle.onExitedForeground()
	stop()
	stop()
	lifecycle.onEnteredForeground()

	if refreshes != 1 {
		t.Fatalf("expected one refresh before stop, got %d", refreshes)
	}
}
