package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/opkr/offroad/internal/app"
	"github.com/opkr/offroad/internal/params"
)

const (
	viewHome     = "home"
	viewSettings = "settings"
	viewDriver   = "driver"
	viewTraining = "training"

	driverViewPlaceholder = "Driver camera preview is shown here while the car is off."
	trainingGuideText     = "openpilot is a driver assistance system. Keep your hands on the wheel and your eyes on the road at all times. Review the rules, features, and limitations of openpilot before using it."
)

// mainView is the parent shell hosting the home screen, the settings window, the driver
// view and the training guide. Exactly one of them is visible.
type mainView struct {
	content  *fyne.Container
	settings *settingsWindow

	store           ParamStore
	trainingVersion string
	views           map[string]fyne.CanvasObject
	active          string
	trainingPrompt  *fyne.Container
	version         *widget.Label
}

func buildMainView(dep RuntimeDependencies, hooks uiHooks) *mainView {
	v := &mainView{
		store:           dep.Data.Params,
		trainingVersion: dep.Data.Config.TrainingVersion,
		views:           make(map[string]fyne.CanvasObject, 4),
	}

	v.settings = newSettingsWindow(dep, hooks, settingsCallbacks{
		OnReviewTrainingGuide: func() { v.show(viewTraining) },
		OnShowDriverView:      func() { v.show(viewDriver) },
		OnClose:               func() { v.show(viewHome) },
	})

	v.version = widget.NewLabel("")
	v.version.TextStyle = fyne.TextStyle{Bold: true}
	openSettings := widget.NewButton("Settings", func() { v.show(viewSettings) })
	openSettings.Importance = widget.HighImportance
	reviewTraining := widget.NewButton("Review training guide", func() { v.show(viewTraining) })
	v.trainingPrompt = container.NewVBox(
		widget.NewLabel("Please complete the training guide before driving."),
		reviewTraining,
	)
	v.views[viewHome] = container.NewVBox(
		v.version,
		layout.NewSpacer(),
		v.trainingPrompt,
		openSettings,
	)

	v.views[viewSettings] = v.settings.content

	backFromDriver := widget.NewButton("Back", func() { v.show(viewSettings) })
	v.views[viewDriver] = container.NewBorder(nil, backFromDriver, nil, nil,
		container.NewCenter(widget.NewLabel(driverViewPlaceholder)))

	guide := widget.NewLabel(trainingGuideText)
	guide.Wrapping = fyne.TextWrapWord
	finish := widget.NewButton("Finish", v.finishTraining)
	finish.Importance = widget.HighImportance
	v.views[viewTraining] = container.NewBorder(nil, finish, nil, nil, container.NewVScroll(guide))

	v.content = container.NewStack()
	for _, name := range []string{viewHome, viewSettings, viewDriver, viewTraining} {
		v.content.Add(v.views[name])
		v.views[name].Hide()
	}
	v.show(viewHome)

	return v
}

func (v *mainView) show(name string) {
	next := v.views[name]
	if next == nil {
		return
	}
	if v.active == viewSettings && name != viewSettings {
		v.settings.Hide()
	}
	if current := v.views[v.active]; current != nil && v.active != name {
		current.Hide()
	}
	appLogger.Debug("switching view", "from", v.active, "to", name)
	v.active = name

	switch name {
	case viewSettings:
		v.settings.Show()
	case viewHome:
		v.refreshHome()
		next.Show()
	default:
		next.Show()
	}
	v.content.Refresh()
}

// refreshActive re-reads the params behind the visible view.
func (v *mainView) refreshActive() {
	switch v.active {
	case viewSettings:
		v.settings.sidebar.selectTab(v.settings.sidebar.active())
	case viewHome:
		v.refreshHome()
	}
}

func (v *mainView) refreshHome() {
	if v.store == nil {
		return
	}
	v.version.SetText(app.LoadSoftwareInfo(v.store, "", time.Now()).Version)
	if app.TrainingPending(v.store, v.trainingVersion) {
		v.trainingPrompt.Show()
	} else {
		v.trainingPrompt.Hide()
	}
}

func (v *mainView) finishTraining() {
	if v.store != nil {
		if err := v.store.Put(params.KeyCompletedTrainingVersion, v.trainingVersion); err != nil {
			appLogger.Warn("store completed training version", "error", err)
		}
	}
	v.show(viewHome)
}
