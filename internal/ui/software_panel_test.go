package ui

import (
	"testing"

	fynetest "fyne.io/fyne/v2/test"

	"github.com/opkr/offroad/internal/params"
)

func newTestSoftwarePanel(h *uiHarness) *softwarePanel {
	dep := h.deps()
	return newSoftwarePanel(softwarePanelOptions{
		store:       h.store,
		dispatcher:  h.dispatch,
		hooks:       h.hooks(),
		hardware:    h.hardware,
		isOffroad:   dep.Data.IsOffroad,
		watchParams: dep.Actions.WatchParams,
	})
}

func TestSoftwarePanelLabels(t *testing.T) {
	app := fynetest.NewApp()
	t.Cleanup(app.Quit)

	h := newUIHarness(t)
	h.mustPut(t, params.KeyVersion, "0.8.13-release-extra")
	h.mustPut(t, params.KeyGitRemote, "https://github.com/openpilotkr/openpilot")
	h.mustPut(t, params.KeyGitBranch, "OPKR")
	h.mustPut(t, params.KeyGitCommit, "0123456789abcdef")
	h.mustPut(t, params.KeyLastUpdateTime, "2026-01-30T09:00:00.000000")
	panel := newTestSoftwarePanel(h)

	panel.OnShow()

	checks := map[string]string{
		"version":     panel.version.value.Text,
		"remote":      panel.gitRemote.value.Text,
		"branch":      panel.gitBranch.value.Text,
		"commit":      panel.gitCommit.value.Text,
		"os":          panel.osVersion.value.Text,
		"last update": panel.lastUpdate.value.Text,
	}
	want := map[string]string{
		"version":     "openpilot v0.8.13-release",
		"remote":      "openpilotkr/openpilot",
		"branch":      "OPKR",
		"commit":      "0123456",
		"os":          "NEOS 19.1",
		"last update": "3 hours ago",
	}
	for name, got := range checks {
		if got != want[name] {
			t.Fatalf("%s: expected %q, got %q", name, want[name], got)
		}
	}
}

func TestSoftwarePanelCheckWhileOffroadWatchesAndDisables(t *testing.T) {
	app := fynetest.NewApp()
	t.Cleanup(app.Quit)

	h := newUIHarness(t)
	panel := newTestSoftwarePanel(h)

	fynetest.Tap(panel.update.button)

	if len(h.watched) != 2 || h.watched[0] != params.KeyLastUpdateTime || h.watched[1] != params.KeyUpdateFailedCount {
		t.Fatalf("unexpected watched keys: %v", h.watched)
	}
	if panel.update.button.Text != "CHECKING" || !panel.update.button.Disabled() {
		t.Fatalf("expected CHECKING and disabled, got %q disabled=%v", panel.update.button.Text, panel.update.button.Disabled())
	}
	if len(h.runner.commands) != 1 || h.runner.commands[0] != "pkill -1 -f selfdrive.updated" {
		t.Fatalf("expected updater to be signalled, got %v", h.runner.commands)
	}
	if len(h.prompts) != 0 {
		t.Fatalf("check for update must not ask for confirmation")
	}
}

func TestSoftwarePanelCheckWhileOnroadOnlySignals(t *testing.T) {
	app := fynetest.NewApp()
	t.Cleanup(app.Quit)

	h := newUIHarness(t)
	h.offroad = false
	panel := newTestSoftwarePanel(h)

	fynetest.Tap(panel.update.button)

	if len(h.watched) != 0 {
		t.Fatalf("expected no watches while onroad, got %v", h.watched)
	}
	if panel.update.button.Text != "CHECK" || panel.update.button.Disabled() {
		t.Fatalf("expected button to stay idle")
	}
	if len(h.runner.commands) != 1 {
		t.Fatalf("expected updater to be signalled anyway")
	}
}

func TestSoftwarePanelUpdateFailedCountResetsButton(t *testing.T) {
	app := fynetest.NewApp()
	t.Cleanup(app.Quit)

	h := newUIHarness(t)
	panel := newTestSoftwarePanel(h)
	fynetest.Tap(panel.update.button)

	h.mustPut(t, params.KeyUpdateFailedCount, "2")
	panel.onParamChanged(params.KeyUpdateFailedCount, h.store.KeyPath(params.KeyUpdateFailedCount))

	if got := panel.lastUpdate.value.Text; got != "failed to fetch update" {
		t.Fatalf("unexpected last update label %q", got)
	}
	if panel.update.button.Text != "CHECK" || panel.update.button.Disabled() {
		t.Fatalf("expected CHECK and enabled, got %q disabled=%v", panel.update.button.Text, panel.update.button.Disabled())
	}
}

func TestSoftwarePanelZeroFailedCountKeepsChecking(t *testing.T) {
	app := fynetest.NewApp()
	t.Cleanup(app.Quit)

	h := newUIHarness(t)
	panel := newTestSoftwarePanel(h)
	fynetest.Tap(panel.update.button)

	h.mustPut(t, params.KeyUpdateFailedCount, "0")
	panel.onParamChanged(params.KeyUpdateFailedCount, h.store.KeyPath(params.KeyUpdateFailedCount))

	if panel.update.button.Text != "CHECKING" {
		t.Fatalf("expected button to keep waiting, got %q", panel.update.button.Text)
	}

	h.mustPut(t, params.KeyLastUpdateTime, "2026-01-30T11:59:30.000000")
	panel.onParamChanged(params.KeyLastUpdateTime, h.store.KeyPath(params.KeyLastUpdateTime))
	if panel.update.button.Text != "CHECK" || panel.lastUpdate.value.Text != "now" {
		t.Fatalf("expected refreshed labels, got %q / %q", panel.update.button.Text, panel.lastUpdate.value.Text)
	}
}
