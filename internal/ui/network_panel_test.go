package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	fynetest "fyne.io/fyne/v2/test"

	"github.com/opkr/offroad/internal/actions"
	"github.com/opkr/offroad/internal/app"
	"github.com/opkr/offroad/internal/params"
	"github.com/opkr/offroad/internal/persistence"
	"github.com/opkr/offroad/internal/platform"
)

func newTestNetworkPanel(h *uiHarness) *networkPanel {
	dep := h.deps()
	return newNetworkPanel(networkPanelOptions{
		store:         h.store,
		dispatcher:    h.dispatch,
		sshKeys:       h.sshKeys,
		hooks:         h.hooks(),
		hardware:      h.hardware,
		recentActions: dep.Data.RecentActions,
	})
}

func TestNetworkPanelShortcutsFollowHardware(t *testing.T) {
	fyApp := fynetest.NewApp()
	t.Cleanup(fyApp.Quit)

	h := newUIHarness(t)
	var opened []string
	for _, title := range []string{"📶 WiFi Settings", "📶 Tethering Settings", "⚙ Android Settings"} {
		h.hardware.shortcuts = append(h.hardware.shortcuts, platform.Shortcut{Title: title, Open: func() error {
			opened = append(opened, title)
			return nil
		}})
	}
	h.hardware.shortcuts = append(h.hardware.shortcuts, platform.Shortcut{Title: "Broken", Open: func() error {
		return errors.New("no activity")
	}})
	panel := newTestNetworkPanel(h)

	openButtons := findButtonsByText(panel, "OPEN")
	if len(openButtons) != 4 {
		t.Fatalf("expected one OPEN button per shortcut, got %d", len(openButtons))
	}
	for _, button := range openButtons {
		fynetest.Tap(button)
	}

	if strings.Join(opened, "|") != "📶 WiFi Settings|📶 Tethering Settings|⚙ Android Settings" {
		t.Fatalf("unexpected opened shortcuts: %v", opened)
	}
	if len(h.shownErrors) != 1 {
		t.Fatalf("expected failing shortcut to show an error, got %v", h.shownErrors)
	}
}

func TestNetworkPanelNoShortcutsOnTICI(t *testing.T) {
	fyApp := fynetest.NewApp()
	t.Cleanup(fyApp.Quit)

	h := newUIHarness(t)
	h.hardware.kind = platform.KindTICI
	panel := newTestNetworkPanel(h)

	if got := len(findButtonsByText(panel, "OPEN")); got != 0 {
		t.Fatalf("expected no OPEN buttons, got %d", got)
	}
}

func TestNetworkPanelScriptButtonsConfirmAndRun(t *testing.T) {
	fyApp := fynetest.NewApp()
	t.Cleanup(fyApp.Quit)

	h := newUIHarness(t)
	panel := newTestNetworkPanel(h)

	runButtons := findButtonsByText(panel, "RUN")
	if len(runButtons) != len(scriptButtons) {
		t.Fatalf("expected %d RUN buttons, got %d", len(scriptButtons), len(runButtons))
	}

	fynetest.Tap(panel.scripts[actions.IntentGitPull].button)
	if len(h.prompts) != 1 || h.prompts[0] != "Process?" {
		t.Fatalf("unexpected prompts: %v", h.prompts)
	}
	if len(h.runner.commands) != 1 || h.runner.commands[0] != "sh /data/openpilot/gitpull.sh" {
		t.Fatalf("unexpected commands: %v", h.runner.commands)
	}
	if len(h.scheduler.fns) != 1 {
		t.Fatalf("expected git pull to schedule a reboot")
	}

	fynetest.Tap(panel.scripts[actions.IntentDeleteDrivingLogs].button)
	if len(h.scheduler.fns) != 1 {
		t.Fatalf("expected log deletion not to schedule a reboot")
	}

	h.confirmAnswer = false
	fynetest.Tap(panel.scripts[actions.IntentPandaFlash].button)
	if len(h.runner.commands) != 2 {
		t.Fatalf("expected cancelled script not to run, got %v", h.runner.commands)
	}
}

func TestNetworkPanelSelectorsStoreIndex(t *testing.T) {
	fyApp := fynetest.NewApp()
	t.Cleanup(fyApp.Quit)

	h := newUIHarness(t)
	h.mustPut(t, params.KeyMfcSelect, "2")
	panel := newTestNetworkPanel(h)

	mfc := mustFindSelectWithOption(t, panel, "Lfa")
	if mfc.Selected != "Lfa" {
		t.Fatalf("expected stored index to select Lfa, got %q", mfc.Selected)
	}
	if h.store.Get(params.KeyMfcSelect) != "2" {
		t.Fatalf("expected initial selection not to rewrite the param")
	}

	lateral := mustFindSelectWithOption(t, panel, "Indi")
	lateral.SetSelected("Lqr")
	if got := h.store.Get(params.KeyLateralControlSelect); got != "2" {
		t.Fatalf("expected lateral control index 2, got %q", got)
	}

	long := mustFindSelectWithOption(t, panel, "Mad+Long")
	long.SetSelected("Mad+Long")
	if got := h.store.GetInt(params.KeyLongControlSelect); got != 1 {
		t.Fatalf("expected long control index 1, got %d", got)
	}
}

func TestNetworkPanelSSHToggle(t *testing.T) {
	fyApp := fynetest.NewApp()
	t.Cleanup(fyApp.Quit)

	h := newUIHarness(t)
	panel := newTestNetworkPanel(h)

	panel.sshToggle.check.SetChecked(true)
	if !h.store.GetBool(params.KeySSHEnabled) {
		t.Fatalf("expected ssh to be enabled")
	}
}

func TestNetworkPanelSSHKeysAddAndRemove(t *testing.T) {
	fyApp := fynetest.NewApp()
	t.Cleanup(fyApp.Quit)

	h := newUIHarness(t)
	h.entryAnswer = " octocat "
	panel := newTestNetworkPanel(h)

	if panel.sshKeys.button.Text != "ADD" {
		t.Fatalf("expected ADD without stored keys, got %q", panel.sshKeys.button.Text)
	}
	fynetest.Tap(panel.sshKeys.button)
	if len(h.sshKeys.added) != 1 || h.sshKeys.added[0] != "octocat" {
		t.Fatalf("unexpected add calls: %v", h.sshKeys.added)
	}
	if panel.sshKeys.button.Text != "REMOVE" || panel.sshUsername.Text != "octocat" {
		t.Fatalf("expected REMOVE with username, got %q / %q", panel.sshKeys.button.Text, panel.sshUsername.Text)
	}

	fynetest.Tap(panel.sshKeys.button)
	if h.sshKeys.removes != 1 || panel.sshKeys.button.Text != "ADD" {
		t.Fatalf("expected keys to be removed, removes=%d text=%q", h.sshKeys.removes, panel.sshKeys.button.Text)
	}
}

func TestNetworkPanelSSHKeysAddErrorIsShown(t *testing.T) {
	fyApp := fynetest.NewApp()
	t.Cleanup(fyApp.Quit)

	h := newUIHarness(t)
	h.entryAnswer = "ghost"
	h.sshKeys.addErr = errors.Join(errors.New("Username 'ghost' doesn't exist on GitHub"), app.ErrUnknownUser)
	panel := newTestNetworkPanel(h)

	fynetest.Tap(panel.sshKeys.button)

	if len(h.shownErrors) != 1 {
		t.Fatalf("expected one error dialog, got %v", h.shownErrors)
	}
	if panel.sshKeys.button.Text != "ADD" || panel.sshKeys.button.Disabled() {
		t.Fatalf("expected button to reset after failure")
	}
}

func TestNetworkPanelRecentActions(t *testing.T) {
	fyApp := fynetest.NewApp()
	t.Cleanup(fyApp.Quit)

	h := newUIHarness(t)
	panel := newTestNetworkPanel(h)

	panel.OnShow()
	if len(panel.history.Objects) != 1 {
		t.Fatalf("expected placeholder row, got %d rows", len(panel.history.Objects))
	}
	mustFindLabelByPrefix(t, panel, "No actions yet")

	h.history = []persistence.ActionRecord{
		{Intent: "git_pull", StartedAt: h.now.Add(-5 * time.Minute), Err: "exit status 1"},
		{Intent: "reboot", StartedAt: h.now.Add(-2 * time.Hour)},
	}
	panel.OnShow()

	if len(panel.history.Objects) != 2 {
		t.Fatalf("expected two history rows, got %d", len(panel.history.Objects))
	}
	mustFindLabelByPrefix(t, panel, "5 minutes ago  git_pull  failed: exit status 1")
	mustFindLabelByPrefix(t, panel, "2 hours ago  reboot  ok")
}
