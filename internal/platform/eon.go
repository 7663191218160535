package platform

type eonHardware struct {
	exec commandExec
}

func (h *eonHardware) Kind() Kind { return KindEON }

func (h *eonHardware) Reboot() error {
	return h.exec.runSpec("reboot", commandSpec{name: "reboot"})
}

func (h *eonHardware) PowerOff() error {
	return h.exec.runSpec("power off", commandSpec{name: "svc", args: []string{"power", "shutdown"}})
}

func (h *eonHardware) OSVersion() string {
	return readVersionFile(h.exec.readFile, "NEOS", "/VERSION")
}

func (h *eonHardware) OSVersionLabel() string { return "NEOS Version" }

func (h *eonHardware) SettingsShortcuts() []Shortcut {
	return []Shortcut{
		{Title: "📶 WiFi Settings", Open: h.startActivity("open wifi settings", "com.android.settings/.wifi.WifiPickerActivity")},
		{Title: "📶 Tethering Settings", Open: h.startActivity("open tethering settings", "com.android.settings/.TetherSettings")},
		{Title: "⚙ Android Settings", Open: h.startActivity("open android settings", "com.android.settings/.Settings")},
	}
}

func (h *eonHardware) CloseActivities() error {
	// pkill exits 1 when no settings activity was open.
	return h.exec.runSpec("close settings activities", commandSpec{
		name:        "pkill",
		args:        []string{"-f", "com.android.settings"},
		okExitCodes: []int{1},
	})
}

func (h *eonHardware) startActivity(action, component string) func() error {
	return func() error {
		return h.exec.startSpec(action, commandSpec{name: "am", args: []string{"start", "-n", component}})
	}
}
