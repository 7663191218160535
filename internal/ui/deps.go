package ui

import (
	"context"
	"time"

	"fyne.io/fyne/v2"

	"github.com/opkr/offroad/internal/actions"
	"github.com/opkr/offroad/internal/bus"
	"github.com/opkr/offroad/internal/config"
	"github.com/opkr/offroad/internal/persistence"
	"github.com/opkr/offroad/internal/platform"
)

// ParamStore is the params surface the panels read and write.
type ParamStore interface {
	Get(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	Put(key, value string) error
	PutBool(key string, value bool) error
}

type IntentDispatcher interface {
	Prompt(intent actions.Intent) string
	Dispatch(ctx context.Context, intent actions.Intent) error
}

type SSHKeyManager interface {
	Username() string
	Add(ctx context.Context, username string) error
	Remove() error
}

type DataDependencies struct {
	Config        config.AppConfig
	Params        ParamStore
	Bus           bus.MessageBus
	IsOffroad     func() bool
	RecentActions func(ctx context.Context) ([]persistence.ActionRecord, error)
}

type ActionDependencies struct {
	Dispatcher  IntentDispatcher
	SSHKeys     SSHKeyManager
	WatchParams func(keys ...string)
	OnQuit      func()
}

type PlatformDependencies struct {
	Hardware platform.Hardware
	ReadFile func(path string) ([]byte, error)
}

type UIHooks struct {
	CurrentWindow   func() fyne.Window
	RunOnUI         func(func())
	RunAsync        func(func())
	ShowConfirm     func(message string, onResult func(bool), window fyne.Window)
	ShowEntry       func(title, placeholder string, onSubmit func(string), window fyne.Window)
	ShowText        func(title, body string, window fyne.Window)
	ShowErrorDialog func(err error, window fyne.Window)
	ShowInfoDialog  func(title, message string, window fyne.Window)
	Now             func() time.Time
}

type LaunchOptions struct {
	Fullscreen bool
}

type RuntimeDependencies struct {
	Data     DataDependencies
	Actions  ActionDependencies
	Platform PlatformDependencies
	UIHooks  UIHooks
	Launch   LaunchOptions
}
