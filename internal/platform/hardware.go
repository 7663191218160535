package platform

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Kind identifies the device class the UI runs on.
type Kind string

const (
	KindEON  Kind = "eon"
	KindTICI Kind = "tici"
	KindPC   Kind = "pc"
)

// Shortcut is an OS settings screen that can be opened from the network panel.
type Shortcut struct {
	Title string
	Open  func() error
}

// Hardware is the narrow device-control surface used by the settings panels.
type Hardware interface {
	Kind() Kind
	Reboot() error
	PowerOff() error
	OSVersion() string
	OSVersionLabel() string
	SettingsShortcuts() []Shortcut
	CloseActivities() error
}

// DetectKind resolves the device class. A non-empty override ("eon", "tici", "pc") wins;
// otherwise marker files in the root filesystem decide.
func DetectKind(override string, exists func(path string) bool) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(override))) {
	case KindEON:
		return KindEON
	case KindTICI:
		return KindTICI
	case KindPC:
		return KindPC
	}
	if exists == nil {
		exists = fileExists
	}
	switch {
	case exists("/EON"):
		return KindEON
	case exists("/TICI"):
		return KindTICI
	default:
		return KindPC
	}
}

// New builds the hardware backend for kind.
func New(kind Kind, logger *slog.Logger) Hardware {
	if logger == nil {
		logger = slog.Default().With("component", "platform")
	}
	exec := commandExec{run: runCommand, start: startCommandDetached, readFile: os.ReadFile, logger: logger}

	switch kind {
	case KindEON:
		return &eonHardware{exec: exec}
	case KindTICI:
		return &ticiHardware{exec: exec}
	default:
		return &pcHardware{exec: exec, logind: callLogind}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readVersionFile(readFile func(string) ([]byte, error), prefix, path string) string {
	raw, err := readFile(path)
	if err != nil {
		return ""
	}
	version := strings.TrimSpace(string(raw))
	if version == "" {
		return ""
	}

	return fmt.Sprintf("%s %s", prefix, version)
}
