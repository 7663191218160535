package platform

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

// ErrPowerActionDenied is returned when logind refuses a reboot or power off.
var ErrPowerActionDenied = errors.New("power action denied by logind")

var logindDenials = []string{
	"org.freedesktop.DBus.Error.AccessDenied",
	"org.freedesktop.DBus.Error.InteractiveAuthorizationRequired",
	"org.freedesktop.login1.OperationInProgress",
	"org.freedesktop.login1.BlockedByInhibitor",
}

const (
	logindDest    = "org.freedesktop.login1"
	logindPath    = "/org/freedesktop/login1"
	logindManager = "org.freedesktop.login1.Manager"
)

type logindCaller func(method string, interactive bool) error

type pcHardware struct {
	exec   commandExec
	logind logindCaller
}

func (h *pcHardware) Kind() Kind { return KindPC }

func (h *pcHardware) Reboot() error {
	return h.callLogind("reboot", "Reboot", commandSpec{name: "systemctl", args: []string{"reboot"}})
}

func (h *pcHardware) PowerOff() error {
	return h.callLogind("power off", "PowerOff", commandSpec{name: "systemctl", args: []string{"poweroff"}})
}

// callLogind asks logind first and falls back to systemctl when the bus is unavailable.
// A policy denial from logind is final: systemctl would hit the same polkit rule.
func (h *pcHardware) callLogind(action, method string, fallback commandSpec) error {
	err := h.logind(method, false)
	if err == nil {
		h.exec.logger.Info("logind request accepted", "action", action, "method", method)
		return nil
	}
	for _, name := range logindDenials {
		if IsDBusErrorName(err, name) {
			h.exec.logger.Warn("logind denied request", "action", action, "method", method, "error", err)
			return fmt.Errorf("%w: %s: %s", ErrPowerActionDenied, action, name)
		}
	}
	h.exec.logger.Warn("logind request failed", "action", action, "method", method, "error", err)
	if fallbackErr := h.exec.runSpec(action, fallback); fallbackErr != nil {
		return errors.Join(fmt.Errorf("logind %s: %w", method, err), fallbackErr)
	}

	return nil
}

func (h *pcHardware) OSVersion() string {
	raw, err := h.exec.readFile("/etc/os-release")
	if err != nil {
		return ""
	}

	return parseOSRelease(raw)
}

func (h *pcHardware) OSVersionLabel() string { return "OS Version" }

func (h *pcHardware) SettingsShortcuts() []Shortcut {
	return []Shortcut{{
		Title: "Network Settings",
		Open: func() error {
			return h.exec.startFirst("open network settings", []commandSpec{
				{name: "nm-connection-editor"},
				{name: "gnome-control-center", args: []string{"wifi"}},
				{name: "systemsettings", args: []string{"kcm_networkmanagement"}},
				{name: "nmtui"},
			})
		},
	}}
}

func (h *pcHardware) CloseActivities() error { return nil }

func callLogind(method string, interactive bool) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}
	defer func() { _ = conn.Close() }()

	obj := conn.Object(logindDest, dbus.ObjectPath(logindPath))
	call := obj.Call(logindManager+"."+method, 0, interactive)
	if call.Err != nil {
		return fmt.Errorf("%s.%s: %w", logindManager, method, call.Err)
	}

	return nil
}

// IsDBusErrorName reports whether err carries the named D-Bus error.
func IsDBusErrorName(err error, want string) bool {
	var dbusErrPtr *dbus.Error
	if errors.As(err, &dbusErrPtr) && dbusErrPtr != nil && dbusErrPtr.Name == want {
		return true
	}

	var dbusErr dbus.Error
	return errors.As(err, &dbusErr) && dbusErr.Name == want
}

func parseOSRelease(raw []byte) string {
	values := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[key] = strings.Trim(value, `"'`)
	}
	if pretty := values["PRETTY_NAME"]; pretty != "" {
		return pretty
	}

	return strings.TrimSpace(values["NAME"] + " " + values["VERSION_ID"])
}
