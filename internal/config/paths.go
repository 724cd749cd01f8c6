// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global seqlog directory.
	GlobalDirName = ".seqlog"

	// SettingsFileName is the settings file inside the global directory.
	SettingsFileName = "settings.yaml"

	// DefaultLogFileName is used when no log file is configured.
	DefaultLogFileName = "seq_data.log"
)

// GlobalDir returns the path to the global seqlog directory (~/.seqlog/).
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// DefaultLogFile returns the fallback log path (~/.seqlog/seq_data.log),
// used when settings carry no log_file and no --log flag is given.
func DefaultLogFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultLogFileName), nil
}

// EnsureGlobalDir creates the global seqlog directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
