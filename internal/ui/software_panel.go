package ui

import (
	"strings"

	"github.com/opkr/offroad/internal/actions"
	"github.com/opkr/offroad/internal/app"
	"github.com/opkr/offroad/internal/params"
	"github.com/opkr/offroad/internal/platform"
)

const (
	lastUpdateDescription = "The last time openpilot successfully checked for an update. The updater only runs while the car is off."
	updateFailedText      = "failed to fetch update"
	updateButtonIdle      = "CHECK"
	updateButtonBusy      = "CHECKING"
)

type softwarePanelOptions struct {
	store       ParamStore
	dispatcher  IntentDispatcher
	hooks       uiHooks
	hardware    platform.Hardware
	isOffroad   func() bool
	watchParams func(keys ...string)
}

type softwarePanel struct {
	panelBase

	opts   softwarePanelOptions
	runner *intentRunner

	version    *labelControl
	gitRemote  *labelControl
	gitBranch  *labelControl
	gitCommit  *labelControl
	osVersion  *labelControl
	lastUpdate *labelControl
	lastDesc   *buttonControl
	update     *buttonControl
}

func newSoftwarePanel(opts softwarePanelOptions) *softwarePanel {
	p := &softwarePanel{opts: opts, runner: newIntentRunner(opts.dispatcher, opts.hooks)}

	osLabel := "OS Version"
	if opts.hardware != nil {
		osLabel = opts.hardware.OSVersionLabel()
	}

	p.version = newLabelControl("Version", "")
	p.gitRemote = newLabelControl("Git Remote", "")
	p.gitBranch = newLabelControl("Git Branch", "")
	p.gitCommit = newLabelControl("Git Commit", "")
	p.osVersion = newLabelControl(osLabel, "")
	p.lastUpdate = newLabelControl("Last Update Check", "")
	p.lastDesc = newButtonControl("ⓘ", "", lastUpdateDescription, nil)
	p.lastDesc.button.Hide()
	p.update = newButtonControl("Check for Update", updateButtonIdle, "", p.checkForUpdate)

	p.setContent(p,
		p.version.row,
		p.gitRemote.row,
		p.gitBranch.row,
		p.gitCommit.row,
		p.osVersion.row,
		horizontalLine(),
		p.lastUpdate.row,
		p.lastDesc.row,
		p.update.row,
		p.runner.status,
	)
	p.updateLabels()

	return p
}

func (p *softwarePanel) OnShow() {
	p.updateLabels()
}

func (p *softwarePanel) checkForUpdate() {
	offroad := p.opts.isOffroad != nil && p.opts.isOffroad()
	if offroad {
		if p.opts.watchParams != nil {
			p.opts.watchParams(params.KeyLastUpdateTime, params.KeyUpdateFailedCount)
		}
		p.update.button.SetText(updateButtonBusy)
		p.update.SetEnabled(false)
	}
	p.runner.Run(actions.IntentCheckForUpdate, nil)
}

// onParamChanged reacts to the updater writing its status files.
func (p *softwarePanel) onParamChanged(key, path string) {
	switch {
	case strings.Contains(path, params.KeyUpdateFailedCount) || key == params.KeyUpdateFailedCount:
		if p.opts.store.GetInt(params.KeyUpdateFailedCount) > 0 {
			p.lastUpdate.SetText(updateFailedText)
			p.update.button.SetText(updateButtonIdle)
			p.update.SetEnabled(true)
		}
	case strings.Contains(path, params.KeyLastUpdateTime) || key == params.KeyLastUpdateTime:
		p.updateLabels()
	}
}

func (p *softwarePanel) updateLabels() {
	osVersion := ""
	if p.opts.hardware != nil {
		osVersion = strings.TrimSpace(p.opts.hardware.OSVersion())
	}
	info := app.LoadSoftwareInfo(p.opts.store, osVersion, p.opts.hooks.now())

	p.version.SetText(info.Version)
	p.lastUpdate.SetText(info.LastUpdate)
	p.update.button.SetText(updateButtonIdle)
	p.update.SetEnabled(true)
	p.gitRemote.SetText(info.GitRemote)
	p.gitBranch.SetText(info.GitBranch)
	p.gitCommit.SetText(info.GitCommit)
	p.osVersion.SetText(info.OSVersion)
}
