package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fyne.io/fyne/v2"

	"github.com/opkr/offroad/internal/actions"
	"github.com/opkr/offroad/internal/config"
	"github.com/opkr/offroad/internal/params"
	"github.com/opkr/offroad/internal/persistence"
	"github.com/opkr/offroad/internal/platform"
)

type deviceSpy struct {
	reboots   int
	powerOffs int
}

func (d *deviceSpy) Reboot() error   { d.reboots++; return nil }
func (d *deviceSpy) PowerOff() error { d.powerOffs++; return nil }

type schedulerSpy struct {
	delays []time.Duration
	fns    []func()
}

func (s *schedulerSpy) AfterFunc(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.fns = append(s.fns, fn)
}

func (s *schedulerSpy) fire() {
	for _, fn := range s.fns {
		fn()
	}
}

type runnerSpy struct {
	commands []string
}

func (r *runnerSpy) Run(_ context.Context, command string) error {
	r.commands = append(r.commands, command)
	return nil
}

type hardwareStub struct {
	kind      platform.Kind
	shortcuts []platform.Shortcut
	closed    int
}

func (h *hardwareStub) Kind() platform.Kind                    { return h.kind }
func (h *hardwareStub) Reboot() error                          { return nil }
func (h *hardwareStub) PowerOff() error                        { return nil }
func (h *hardwareStub) OSVersion() string                      { return "NEOS 19.1 " }
func (h *hardwareStub) OSVersionLabel() string                 { return "NEOS Version" }
func (h *hardwareStub) SettingsShortcuts() []platform.Shortcut { return h.shortcuts }
func (h *hardwareStub) CloseActivities() error {
	h.closed++
	return nil
}

type sshKeysStub struct {
	username string
	addErr   error
	added    []string
	removes  int
}

func (s *sshKeysStub) Username() string { return s.username }

func (s *sshKeysStub) Add(_ context.Context, username string) error {
	s.added = append(s.added, username)
	if s.addErr != nil {
		return s.addErr
	}
	s.username = username
	return nil
}

func (s *sshKeysStub) Remove() error {
	s.removes++
	s.username = ""
	return nil
}

// uiHarness runs panels synchronously against a real params store and dispatcher.
type uiHarness struct {
	store     *params.Store
	device    *deviceSpy
	scheduler *schedulerSpy
	runner    *runnerSpy
	hardware  *hardwareStub
	sshKeys   *sshKeysStub
	dispatch  *actions.Dispatcher

	confirmAnswer bool
	prompts       []string
	entryAnswer   string
	shownText     []string
	shownErrors   []error
	offroad       bool
	watched       []string
	history       []persistence.ActionRecord
	now           time.Time
}

func newUIHarness(t *testing.T) *uiHarness {
	t.Helper()
	store, err := params.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open params: %v", err)
	}
	h := &uiHarness{
		store:         store,
		device:        &deviceSpy{},
		scheduler:     &schedulerSpy{},
		runner:        &runnerSpy{},
		hardware:      &hardwareStub{kind: platform.KindEON},
		sshKeys:       &sshKeysStub{},
		confirmAnswer: true,
		offroad:       true,
		now:           time.Date(2026, 1, 30, 12, 0, 0, 0, time.UTC),
	}
	h.dispatch = actions.NewDispatcher(actions.Dependencies{
		Params:      store,
		Runner:      h.runner,
		Device:      h.device,
		Scheduler:   h.scheduler,
		RebootDelay: time.Second,
		Plans:       actions.Plans(config.DefaultScripts()),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return h
}

func (h *uiHarness) deps() RuntimeDependencies {
	cfg := config.Default()
	cfg.Device.AssetsDir = "/assets"

	return RuntimeDependencies{
		Data: DataDependencies{
			Config:    cfg,
			Params:    h.store,
			IsOffroad: func() bool { return h.offroad },
			RecentActions: func(context.Context) ([]persistence.ActionRecord, error) {
				return h.history, nil
			},
		},
		Actions: ActionDependencies{
			Dispatcher: h.dispatch,
			SSHKeys:    h.sshKeys,
			WatchParams: func(keys ...string) {
				h.watched = append(h.watched, keys...)
			},
		},
		Platform: PlatformDependencies{
			Hardware: h.hardware,
			ReadFile: func(path string) ([]byte, error) {
				if path == "/assets/offroad/fcc.html" {
					return []byte("<p>FCC</p>"), nil
				}
				return nil, errors.New("missing " + path)
			},
		},
		UIHooks: UIHooks{
			CurrentWindow: func() fyne.Window { return nil },
			RunOnUI:       func(fn func()) { fn() },
			RunAsync:      func(fn func()) { fn() },
			ShowConfirm: func(message string, onResult func(bool), _ fyne.Window) {
				h.prompts = append(h.prompts, message)
				onResult(h.confirmAnswer)
			},
			ShowEntry: func(_, _ string, onSubmit func(string), _ fyne.Window) {
				onSubmit(h.entryAnswer)
			},
			ShowText: func(_, body string, _ fyne.Window) {
				h.shownText = append(h.shownText, body)
			},
			ShowErrorDialog: func(err error, _ fyne.Window) {
				h.shownErrors = append(h.shownErrors, err)
			},
			ShowInfoDialog: func(string, string, fyne.Window) {},
			Now:            func() time.Time { return h.now },
		},
	}
}

func (h *uiHarness) hooks() uiHooks {
	return resolveHooks(h.deps())
}

func (h *uiHarness) mustPut(t *testing.T, key, value string) {
	t.Helper()
	if err := h.store.Put(key, value); err != nil {
		t.Fatalf("put %s: %v", key, err)
	}
}
