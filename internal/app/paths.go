package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths stores resolved runtime file locations for config, history and logs.
type Paths struct {
	RootDir    string
	ConfigFile string
	DBFile     string
	LogFile    string
}

// ResolvePaths places runtime files under the user config dir. A non-empty configFile
// overrides the config location; the other files then live next to it.
func ResolvePaths(configFile string) (Paths, error) {
	var root string
	configFile = strings.TrimSpace(configFile)
	if configFile != "" {
		abs, err := filepath.Abs(configFile)
		if err != nil {
			return Paths{}, fmt.Errorf("resolve config path: %w", err)
		}
		configFile = abs
		root = filepath.Dir(abs)
	} else {
		cfgRoot, err := os.UserConfigDir()
		if err != nil {
			return Paths{}, fmt.Errorf("resolve config dir: %w", err)
		}
		root = filepath.Join(cfgRoot, Name)
		configFile = filepath.Join(root, ConfigFilename)
	}

	if err := os.MkdirAll(root, 0o750); err != nil {
		return Paths{}, fmt.Errorf("create app config dir: %w", err)
	}

	return Paths{
		RootDir:    root,
		ConfigFile: configFile,
		DBFile:     filepath.Join(root, DBFilename),
		LogFile:    filepath.Join(root, LogFilename),
	}, nil
}
