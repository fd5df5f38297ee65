package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// GetConfigPaths returns a list of paths where branchlink looks for config files
// The order is important - first paths have higher precedence
func GetConfigPaths() []string {
	var paths []string

	// 1. Environment variable override (highest precedence)
	if envPath := os.Getenv("BRANCHLINK_CONFIG"); envPath != "" {
		paths = append(paths, filepath.Dir(envPath))
	}

	// 2. Current directory (project-specific config)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, cwd)
	}

	// 3. User config directory (platform-specific)
	if userConfigDir := getUserConfigDir(); userConfigDir != "" {
		paths = append(paths, userConfigDir)
	}

	// 4. Home directory (fallback)
	if homeDir := getHomeDir(); homeDir != "" {
		paths = append(paths, homeDir)
	}

	return paths
}

func getUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "branchlink")
		}
		return ""
	case "darwin":
		if homeDir := getHomeDir(); homeDir != "" {
			return filepath.Join(homeDir, "Library", "Application Support", "branchlink")
		}
		return ""
	default:
		// XDG Base Directory specification
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, "branchlink")
		}
		if homeDir := getHomeDir(); homeDir != "" {
			return filepath.Join(homeDir, ".config", "branchlink")
		}
		return ""
	}
}

func getHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return userProfile
	}
	return ""
}
