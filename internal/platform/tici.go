package platform

type ticiHardware struct {
	exec commandExec
}

func (h *ticiHardware) Kind() Kind { return KindTICI }

func (h *ticiHardware) Reboot() error {
	return h.exec.runSpec("reboot", commandSpec{name: "sudo", args: []string{"reboot"}})
}

func (h *ticiHardware) PowerOff() error {
	return h.exec.runSpec("power off", commandSpec{name: "sudo", args: []string{"poweroff"}})
}

func (h *ticiHardware) OSVersion() string {
	return readVersionFile(h.exec.readFile, "AGNOS", "/VERSION")
}

func (h *ticiHardware) OSVersionLabel() string { return "AGNOS Version" }

// TICI networking is managed by the device UI itself.
func (h *ticiHardware) SettingsShortcuts() []Shortcut { return nil }

func (h *ticiHardware) CloseActivities() error { return nil }
