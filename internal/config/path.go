// Package config locates and loads the application's configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppName names the configuration directory and the environment prefix.
const AppName = "creditlimit"

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}

// Dir returns the configuration directory: $XDG_CONFIG_HOME/creditlimit,
// falling back to ~/.config/creditlimit.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// SheetsTokenFile is where the Google Sheets OAuth2 token is kept.
func SheetsTokenFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sheets-token.json"), nil
}
