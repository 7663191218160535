package ui

import (
	"github.com/opkr/offroad/internal/events"
)

// bindPresentationListeners forwards bus events to the settings window on the UI thread.
func bindPresentationListeners(dep RuntimeDependencies, hooks uiHooks, view *mainView) func() {
	appLogger.Debug("starting UI event listeners")
	stopUIListeners := startUIEventListeners(dep.Data.Bus, uiEventHandlers{
		onOffroad: func(transition events.OffroadTransition) {
			hooks.runOnUI(func() {
				view.settings.setOffroad(transition.Offroad)
			})
		},
		onParamChanged: func(change events.ParamChanged) {
			hooks.runOnUI(func() {
				view.settings.onParamChanged(change)
			})
		},
		onActionResult: func(result events.ActionResult) {
			hooks.runOnUI(func() {
				view.settings.onActionResult(result)
			})
		},
	})
	if dep.Data.IsOffroad != nil {
		view.settings.setOffroad(dep.Data.IsOffroad())
	}

	return stopUIListeners
}
