// Package paths resolves where zoomport keeps its configuration and state.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDir = "zoomport"

// ConfigDir returns the zoomport configuration directory, honoring
// XDG_CONFIG_HOME through os.UserConfigDir.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(base, appDir), nil
}

// ConfigFile returns the default config file location.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// StateFile returns the default state database location. Remembered roots
// and run history live here.
func StateFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.db"), nil
}
