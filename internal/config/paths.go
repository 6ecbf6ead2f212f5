package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "urlname"

// GetConfigDir returns the per-user config root based on OS conventions.
// URLNAME_CONFIG_DIR overrides it, which keeps tests and scripts away from the real home.
func GetConfigDir() string {
	if dir := os.Getenv("URLNAME_CONFIG_DIR"); dir != "" {
		return dir
	}
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(appData, appDirName)
	case "darwin": //MacOS
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", appDirName)
	default: //Linux
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			home, _ := os.UserHomeDir()
			configHome = filepath.Join(home, ".config")
		}
		return filepath.Join(configHome, appDirName)
	}
}

// GetSettingsPath returns the location of settings.json.
func GetSettingsPath() string {
	return filepath.Join(GetConfigDir(), "settings.json")
}

// GetLogsDir returns the directory for debug logs.
func GetLogsDir() string {
	return filepath.Join(GetConfigDir(), "logs")
}

// EnsureDirs creates all required directories.
func EnsureDirs() error {
	dirs := []string{GetConfigDir(), GetLogsDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
