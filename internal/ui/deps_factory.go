package ui

import (
	"os"

	offroadapp "github.com/opkr/offroad/internal/app"
)

// BuildRuntimeDependencies maps the app runtime onto the UI dependency groups.
func BuildRuntimeDependencies(rt *offroadapp.Runtime, launch LaunchOptions, onQuit func()) RuntimeDependencies {
	dep := RuntimeDependencies{
		Launch: launch,
		Actions: ActionDependencies{
			OnQuit: onQuit,
		},
		Platform: PlatformDependencies{
			ReadFile: os.ReadFile,
		},
	}

	if rt == nil {
		return dep
	}

	dep.Data = DataDependencies{
		Config:        rt.CurrentConfig(),
		Params:        rt.Params,
		Bus:           rt.Bus,
		IsOffroad:     rt.IsOffroad,
		RecentActions: rt.RecentActions,
	}
	dep.Platform.Hardware = rt.Hardware
	dep.Actions.WatchParams = rt.WatchParams
	if rt.Dispatcher != nil {
		dep.Actions.Dispatcher = rt.Dispatcher
	}
	if rt.SSHKeys != nil {
		dep.Actions.SSHKeys = rt.SSHKeys
	}

	return dep
}
