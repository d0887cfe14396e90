// Package storage resolves the platform-conventional data directory used
// for persistent engine state: NNUE network files and the badger-backed
// tablebase cache.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessplay"

// platformBaseDir resolves the OS-conventional root for application data,
// before appName is appended: macOS Application Support, Windows %APPDATA%,
// XDG_DATA_HOME (or ~/.local/share) elsewhere.
func platformBaseDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, "Library", "Application Support"), nil

	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData, nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, "AppData", "Roaming"), nil

	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return xdg, nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, ".local", "share"), nil
	}
}

// GetDataDir returns the platform-specific data directory for the
// application, creating it if necessary.
func GetDataDir() (string, error) {
	base, err := platformBaseDir()
	if err != nil {
		return "", err
	}

	dataDir := filepath.Join(base, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// dataSubdir returns (and creates) the named subdirectory of GetDataDir.
func dataSubdir(name string) (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(dataDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetNNUEDir returns the directory for storing NNUE network files.
func GetNNUEDir() (string, error) {
	return dataSubdir("nnue")
}

// GetDatabaseDir returns the directory for the BadgerDB database.
func GetDatabaseDir() (string, error) {
	return dataSubdir("db")
}
