package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/opkr/offroad/internal/bus"
	"github.com/opkr/offroad/internal/events"
	"github.com/opkr/offroad/internal/platform"
	"github.com/opkr/offroad/internal/resources"
)

const (
	tabDevice   = "Device"
	tabNetwork  = "Network"
	tabToggles  = "Toggles"
	tabSoftware = "Software"

	closeButtonText = "◀"
)

var settingsTabOrder = []string{tabDevice, tabNetwork, tabToggles, tabSoftware}

var settingsTabIcons = map[string]resources.UIIcon{
	tabDevice:   resources.UIIconDevice,
	tabNetwork:  resources.UIIconNetwork,
	tabToggles:  resources.UIIconToggles,
	tabSoftware: resources.UIIconSoftware,
}

// settingsCallbacks are the signals the settings window raises towards its parent.
type settingsCallbacks struct {
	OnReviewTrainingGuide func()
	OnShowDriverView      func()
	OnClose               func()
}

type settingsWindow struct {
	content fyne.CanvasObject
	sidebar sidebarLayout

	device   *devicePanel
	network  *networkPanel
	toggles  *togglesPanel
	software *softwarePanel

	hardware  platform.Hardware
	bus       bus.MessageBus
	callbacks settingsCallbacks
	visible   bool
}

func newSettingsWindow(dep RuntimeDependencies, hooks uiHooks, callbacks settingsCallbacks) *settingsWindow {
	w := &settingsWindow{
		hardware:  dep.Platform.Hardware,
		bus:       dep.Data.Bus,
		callbacks: callbacks,
	}

	kind := platform.KindPC
	if w.hardware != nil {
		kind = w.hardware.Kind()
	}

	w.device = newDevicePanel(devicePanelOptions{
		store:      dep.Data.Params,
		dispatcher: dep.Actions.Dispatcher,
		hooks:      hooks,
		kind:       kind,
		assetsDir:  dep.Data.Config.Device.AssetsDir,
		isOffroad:  dep.Data.IsOffroad,
		onShowDriverView: func() {
			w.raise(events.SignalShowDriverView, w.callbacks.OnShowDriverView)
		},
		onReviewTrainingGuide: func() {
			// The dispatcher already published the signal on the bus.
			if w.callbacks.OnReviewTrainingGuide != nil {
				w.callbacks.OnReviewTrainingGuide()
			}
		},
	})
	w.network = newNetworkPanel(networkPanelOptions{
		store:         dep.Data.Params,
		dispatcher:    dep.Actions.Dispatcher,
		sshKeys:       dep.Actions.SSHKeys,
		hooks:         hooks,
		hardware:      w.hardware,
		recentActions: dep.Data.RecentActions,
	})
	w.toggles = newTogglesPanel(dep.Data.Params, hooks)
	w.software = newSoftwarePanel(softwarePanelOptions{
		store:       dep.Data.Params,
		dispatcher:  dep.Actions.Dispatcher,
		hooks:       hooks,
		hardware:    w.hardware,
		isOffroad:   dep.Data.IsOffroad,
		watchParams: dep.Actions.WatchParams,
	})

	closeButton := widget.NewButton(closeButtonText, w.close)
	closeButton.Importance = widget.LowImportance

	variant := theme.VariantDark
	if current := fyne.CurrentApp(); current != nil {
		variant = current.Settings().ThemeVariant()
	}
	w.sidebar = buildSidebarLayout(
		variant,
		map[string]fyne.CanvasObject{
			tabDevice:   w.device,
			tabNetwork:  w.network,
			tabToggles:  w.toggles,
			tabSoftware: w.software,
		},
		settingsTabOrder,
		settingsTabIcons,
		closeButton,
	)
	w.content = container.NewBorder(nil, nil, container.NewPadded(w.sidebar.left), nil, w.sidebar.rightStack)
	w.content.Hide()

	return w
}

// Show makes the window visible with the first panel selected.
func (w *settingsWindow) Show() {
	w.visible = true
	w.content.Show()
	w.sidebar.selectTab(settingsTabOrder[0])
}

// Hide closes OS settings screens opened from the network panel.
func (w *settingsWindow) Hide() {
	if !w.visible {
		return
	}
	w.visible = false
	w.content.Hide()
	if w.hardware != nil {
		if err := w.hardware.CloseActivities(); err != nil {
			appLogger.Warn("close settings activities", "error", err)
		}
	}
}

func (w *settingsWindow) close() {
	appLogger.Info("settings closed")
	w.Hide()
	w.raise(events.SignalCloseSettings, w.callbacks.OnClose)
}

func (w *settingsWindow) raise(signal events.Signal, callback func()) {
	if w.bus != nil {
		w.bus.Publish(events.TopicUISignal, signal)
	}
	if callback != nil {
		callback()
	}
}

func (w *settingsWindow) setOffroad(offroad bool) {
	w.device.setOffroad(offroad)
}

func (w *settingsWindow) onParamChanged(change events.ParamChanged) {
	w.software.onParamChanged(change.Key, change.Path)
}

func (w *settingsWindow) onActionResult(events.ActionResult) {
	if w.visible && w.sidebar.active() == tabNetwork {
		w.network.refreshHistory()
	}
}
