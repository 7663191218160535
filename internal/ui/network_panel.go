package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/opkr/offroad/internal/actions"
	"github.com/opkr/offroad/internal/app"
	"github.com/opkr/offroad/internal/params"
	"github.com/opkr/offroad/internal/persistence"
	"github.com/opkr/offroad/internal/platform"
)

const (
	sshToggleDescription = "Allow devices to connect to your device via SSH."
	sshKeysDescription   = "Warning: This grants SSH access to all public keys in your GitHub settings. Never enter a GitHub username other than your own."
	sshKeysButtonAdd     = "ADD"
	sshKeysButtonRemove  = "REMOVE"
	sshKeysButtonLoading = "LOADING"
	recentActionsTitle   = "Recent actions"
	recentActionsEmpty   = "No actions yet"
	recentActionsTimeout = 5 * time.Second
)

type selectDef struct {
	key     string
	title   string
	options []string
}

var controlSelects = []selectDef{
	{params.KeyLateralControlSelect, "Lateral Control", []string{"Pid", "Indi", "Lqr"}},
	{params.KeyMfcSelect, "MFC Camera", []string{"Lkas", "Ldws", "Lfa"}},
	{params.KeyLongControlSelect, "Long Control", []string{"Mad", "Mad+Long"}},
}

type scriptDef struct {
	title  string
	intent actions.Intent
}

var scriptButtons = []scriptDef{
	{"Git Fetch and Reset", actions.IntentGitPull},
	{"Panda Firmware Flash", actions.IntentPandaFlash},
	{"Panda Firmware Recover", actions.IntentPandaRecover},
	{"Add Function", actions.IntentAddFunction},
	{"Driving log Delete", actions.IntentDeleteDrivingLogs},
}

type networkPanelOptions struct {
	store         ParamStore
	dispatcher    IntentDispatcher
	sshKeys       SSHKeyManager
	hooks         uiHooks
	hardware      platform.Hardware
	recentActions func(ctx context.Context) ([]persistence.ActionRecord, error)
}

type networkPanel struct {
	panelBase

	opts   networkPanelOptions
	runner *intentRunner

	sshToggle   *paramToggle
	sshKeys     *buttonControl
	sshUsername *widget.Label
	selects     []*paramSelect
	scripts     map[actions.Intent]*buttonControl
	history     *fyne.Container
}

func newNetworkPanel(opts networkPanelOptions) *networkPanel {
	p := &networkPanel{
		opts:    opts,
		runner:  newIntentRunner(opts.dispatcher, opts.hooks),
		scripts: make(map[actions.Intent]*buttonControl, len(scriptButtons)),
		history: container.NewVBox(),
	}
	onError := func(err error) {
		opts.hooks.showErrorDialog(err, opts.hooks.currentWindow())
	}

	var rows []fyne.CanvasObject
	if shortcuts := p.shortcuts(); len(shortcuts) > 0 {
		for _, shortcut := range shortcuts {
			open := shortcut.Open
			title := shortcut.Title
			control := newButtonControl(title, "OPEN", "", func() {
				if err := open(); err != nil {
					appLogger.Warn("open settings shortcut", "title", title, "error", err)
					onError(err)
				}
			})
			rows = append(rows, control.row)
		}
		rows = append(rows, horizontalLine())
	}

	p.sshToggle = newParamToggle(params.KeySSHEnabled, "Enable SSH", sshToggleDescription, opts.store, onError)
	p.sshUsername = widget.NewLabel("")
	p.sshKeys = newButtonControl("SSH Keys", sshKeysButtonAdd, sshKeysDescription, p.onSSHKeysTapped)
	rows = append(rows,
		p.sshToggle.row,
		container.NewBorder(nil, nil, nil, p.sshUsername, p.sshKeys.row),
		horizontalLine(),
	)

	for _, def := range controlSelects {
		sel := newParamSelect(def.key, def.title, def.options, opts.store, onError)
		p.selects = append(p.selects, sel)
		rows = append(rows, sel.row)
	}
	rows = append(rows, horizontalLine())

	for _, def := range scriptButtons {
		intent := def.intent
		control := newButtonControl(def.title, "RUN", "", func() {
			p.runner.Run(intent, nil)
		})
		p.scripts[intent] = control
		rows = append(rows, control.row)
	}

	historyTitle := widget.NewLabel(recentActionsTitle)
	historyTitle.TextStyle = fyne.TextStyle{Bold: true}
	rows = append(rows, p.runner.status, horizontalLine(), historyTitle, p.history)

	p.setContent(p, rows...)
	p.refreshSSHKeys()

	return p
}

func (p *networkPanel) shortcuts() []platform.Shortcut {
	if p.opts.hardware == nil {
		return nil
	}
	return p.opts.hardware.SettingsShortcuts()
}

func (p *networkPanel) OnShow() {
	p.sshToggle.Reload()
	for _, sel := range p.selects {
		sel.Reload()
	}
	p.refreshSSHKeys()
	p.refreshHistory()
}

func (p *networkPanel) refreshSSHKeys() {
	if p.opts.sshKeys == nil {
		p.sshKeys.SetEnabled(false)
		return
	}
	username := p.opts.sshKeys.Username()
	p.sshUsername.SetText(username)
	if username == "" {
		p.sshKeys.button.SetText(sshKeysButtonAdd)
	} else {
		p.sshKeys.button.SetText(sshKeysButtonRemove)
	}
	p.sshKeys.SetEnabled(true)
}

func (p *networkPanel) onSSHKeysTapped() {
	keys := p.opts.sshKeys
	if keys == nil {
		return
	}
	if keys.Username() != "" {
		if err := keys.Remove(); err != nil {
			appLogger.Warn("remove ssh keys", "error", err)
			p.opts.hooks.showErrorDialog(err, p.opts.hooks.currentWindow())
		}
		p.refreshSSHKeys()
		return
	}

	p.opts.hooks.showEntry("Enter your GitHub username", "username", func(username string) {
		username = strings.TrimSpace(username)
		if username == "" {
			return
		}
		p.sshKeys.button.SetText(sshKeysButtonLoading)
		p.sshKeys.SetEnabled(false)
		p.opts.hooks.runAsync(func() {
			err := keys.Add(context.Background(), username)
			p.opts.hooks.runOnUI(func() {
				if err != nil {
					appLogger.Warn("add ssh keys", "username", username, "error", err)
					p.opts.hooks.showErrorDialog(errors.New(app.DisplayMessage(err)), p.opts.hooks.currentWindow())
				}
				p.refreshSSHKeys()
			})
		})
	}, p.opts.hooks.currentWindow())
}

// refreshHistory reloads the recent actions list off the UI thread.
func (p *networkPanel) refreshHistory() {
	if p.opts.recentActions == nil {
		return
	}
	p.opts.hooks.runAsync(func() {
		ctx, cancel := context.WithTimeout(context.Background(), recentActionsTimeout)
		defer cancel()
		records, err := p.opts.recentActions(ctx)
		if err != nil {
			appLogger.Warn("load recent actions", "error", err)
			return
		}
		now := p.opts.hooks.now()
		p.opts.hooks.runOnUI(func() {
			p.setHistory(records, now)
		})
	})
}

func (p *networkPanel) setHistory(records []persistence.ActionRecord, now time.Time) {
	p.history.RemoveAll()
	if len(records) == 0 {
		p.history.Add(widget.NewLabel(recentActionsEmpty))
		return
	}
	for _, rec := range records {
		p.history.Add(widget.NewLabel(formatActionRecord(rec, now)))
	}
}

func formatActionRecord(rec persistence.ActionRecord, now time.Time) string {
	outcome := "ok"
	if rec.Failed() {
		outcome = "failed: " + rec.Err
	}
	return fmt.Sprintf("%s  %s  %s", app.TimeAgo(rec.StartedAt, now), rec.Intent, outcome)
}
