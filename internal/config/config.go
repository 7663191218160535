package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DeviceKind selects which hardware backend handles reboot, power off and OS shortcuts.
type DeviceKind string

const (
	DeviceKindAuto DeviceKind = "auto"
	DeviceKindEON  DeviceKind = "eon"
	DeviceKindTICI DeviceKind = "tici"
	DeviceKindPC   DeviceKind = "pc"

	DefaultParamsRoot      = "/data/params"
	DefaultAssetsDir       = "/data/openpilot/selfdrive/assets"
	DefaultRebootDelayMS   = 1000
	DefaultScriptTimeoutS  = 300
	DefaultSSHKeysURL      = "https://github.com/%s.keys"
	DefaultTrainingVersion = "0.2.0"
	DefaultLogMaxSizeMB    = 8
)

// LoggingConfig defines runtime logging behavior.
type LoggingConfig struct {
	Level     string `json:"level"`
	LogToFile bool   `json:"log_to_file"`
	MaxSizeMB int    `json:"max_size_mb"`
}

// ParamsConfig points at the persistent key-value store shared with the rest of the device.
type ParamsConfig struct {
	Root string `json:"root"`
}

// DeviceConfig describes the device the UI runs on.
type DeviceConfig struct {
	Kind      DeviceKind `json:"kind"`
	AssetsDir string     `json:"assets_dir"`
}

// ScriptsConfig holds the shell commands run by the maintenance buttons.
type ScriptsConfig struct {
	GitPull           string `json:"git_pull"`
	PandaFlash        string `json:"panda_flash"`
	PandaRecover      string `json:"panda_recover"`
	AddFunction       string `json:"add_function"`
	DeleteDrivingLogs string `json:"delete_driving_logs"`
	UpdateSignal      string `json:"update_signal"`
	TimeoutSeconds    int    `json:"timeout_seconds"`
}

// UIConfig stores window and timing preferences.
type UIConfig struct {
	Fullscreen    bool `json:"fullscreen"`
	WindowWidth   int  `json:"window_width"`
	WindowHeight  int  `json:"window_height"`
	RebootDelayMS int  `json:"reboot_delay_ms"`
}

// SSHConfig configures where public keys are fetched from.
type SSHConfig struct {
	KeysURL string `json:"keys_url"`
}

// AppConfig is the root persisted application configuration.
type AppConfig struct {
	Logging         LoggingConfig `json:"logging"`
	Params          ParamsConfig  `json:"params"`
	Device          DeviceConfig  `json:"device"`
	Scripts         ScriptsConfig `json:"scripts"`
	UI              UIConfig      `json:"ui"`
	SSH             SSHConfig     `json:"ssh"`
	TrainingVersion string        `json:"training_version"`
}

func DefaultScripts() ScriptsConfig {
	return ScriptsConfig{
		GitPull:           "sh /data/openpilot/gitpull.sh",
		PandaFlash:        "sh /data/openpilot/panda/board/flash.sh",
		PandaRecover:      "sh /data/openpilot/panda/board/recover.sh",
		AddFunction:       "cp -f /data/openpilot/installer/fonts/driver_monitor.py /data/openpilot/selfdrive/monitoring",
		DeleteDrivingLogs: "rm -rf /sdcard/realdata/*",
		UpdateSignal:      "pkill -1 -f selfdrive.updated",
		TimeoutSeconds:    DefaultScriptTimeoutS,
	}
}

func Default() AppConfig {
	return AppConfig{
		Logging: LoggingConfig{
			Level:     "info",
			LogToFile: false,
			MaxSizeMB: DefaultLogMaxSizeMB,
		},
		Params: ParamsConfig{
			Root: DefaultParamsRoot,
		},
		Device: DeviceConfig{
			Kind:      DeviceKindAuto,
			AssetsDir: DefaultAssetsDir,
		},
		Scripts: DefaultScripts(),
		UI: UIConfig{
			Fullscreen:    false,
			WindowWidth:   2160,
			WindowHeight:  1080,
			RebootDelayMS: DefaultRebootDelayMS,
		},
		SSH: SSHConfig{
			KeysURL: DefaultSSHKeysURL,
		},
		TrainingVersion: DefaultTrainingVersion,
	}
}

func Load(path string) (AppConfig, error) {
	cfg := Default()
	cleanPath := filepath.Clean(path)
	// #nosec G304 -- path is resolved by app runtime or passed explicitly by the operator.
	raw, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config json: %w", err)
	}

	cfg.FillMissingDefaults()

	return cfg, nil
}

func (c *AppConfig) FillMissingDefaults() {
	defaults := Default()
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaults.Logging.MaxSizeMB
	}
	if strings.TrimSpace(c.Params.Root) == "" {
		c.Params.Root = defaults.Params.Root
	}
	c.Device.Kind = normalizeDeviceKind(c.Device.Kind)
	if strings.TrimSpace(c.Device.AssetsDir) == "" {
		c.Device.AssetsDir = defaults.Device.AssetsDir
	}
	fillScriptDefaults(&c.Scripts, defaults.Scripts)
	if c.UI.WindowWidth <= 0 {
		c.UI.WindowWidth = defaults.UI.WindowWidth
	}
	if c.UI.WindowHeight <= 0 {
		c.UI.WindowHeight = defaults.UI.WindowHeight
	}
	if c.UI.RebootDelayMS <= 0 {
		c.UI.RebootDelayMS = defaults.UI.RebootDelayMS
	}
	if strings.TrimSpace(c.SSH.KeysURL) == "" {
		c.SSH.KeysURL = defaults.SSH.KeysURL
	}
	if strings.TrimSpace(c.TrainingVersion) == "" {
		c.TrainingVersion = defaults.TrainingVersion
	}
}

func fillScriptDefaults(s *ScriptsConfig, defaults ScriptsConfig) {
	fill := func(dst *string, fallback string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = fallback
		}
	}
	fill(&s.GitPull, defaults.GitPull)
	fill(&s.PandaFlash, defaults.PandaFlash)
	fill(&s.PandaRecover, defaults.PandaRecover)
	fill(&s.AddFunction, defaults.AddFunction)
	fill(&s.DeleteDrivingLogs, defaults.DeleteDrivingLogs)
	fill(&s.UpdateSignal, defaults.UpdateSignal)
	if s.TimeoutSeconds <= 0 {
		s.TimeoutSeconds = defaults.TimeoutSeconds
	}
}

func normalizeDeviceKind(kind DeviceKind) DeviceKind {
	switch DeviceKind(strings.ToLower(strings.TrimSpace(string(kind)))) {
	case DeviceKindEON:
		return DeviceKindEON
	case DeviceKindTICI:
		return DeviceKindTICI
	case DeviceKindPC:
		return DeviceKindPC
	default:
		return DeviceKindAuto
	}
}

func (c AppConfig) Validate() error {
	if strings.TrimSpace(c.Params.Root) == "" {
		return errors.New("params root is required")
	}
	if !filepath.IsAbs(c.Params.Root) {
		return fmt.Errorf("params root must be absolute: %s", c.Params.Root)
	}
	switch c.Device.Kind {
	case DeviceKindAuto, DeviceKindEON, DeviceKindTICI, DeviceKindPC:
	default:
		return fmt.Errorf("unknown device kind: %s", c.Device.Kind)
	}
	if c.UI.RebootDelayMS < 0 {
		return errors.New("reboot delay must not be negative")
	}
	if !strings.Contains(c.SSH.KeysURL, "%s") {
		return fmt.Errorf("ssh keys url must contain a %%s placeholder: %s", c.SSH.KeysURL)
	}

	return nil
}

func Save(path string, cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp config: %w", err)
	}

	return nil
}
