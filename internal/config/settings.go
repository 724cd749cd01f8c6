package config

import (
	"time"

	"github.com/seqlog-io/seqlog/internal/lock"
	"github.com/seqlog-io/seqlog/internal/models"
)

// LoadSettings loads the global settings from ~/.seqlog/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadYAMLOrDefault(path, models.NewSettings)
}

// SaveSettings saves the global settings to ~/.seqlog/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// LockPolicy builds the lock acquisition policy configured by settings,
// falling back to defaults for unset or nonsensical values.
func LockPolicy(settings *models.Settings) lock.Policy {
	policy := lock.DefaultPolicy()
	if settings.LockTimeoutSeconds > 0 {
		policy.Timeout = time.Duration(settings.LockTimeoutSeconds) * time.Second
	}
	if settings.LockStaleAgeSeconds > 0 {
		policy.StaleAge = time.Duration(settings.LockStaleAgeSeconds) * time.Second
	}
	return policy
}

// ResolveLogFile picks the log path for an operation: an explicit override
// wins, then the configured log_file, then ~/.seqlog/seq_data.log.
func ResolveLogFile(override string, settings *models.Settings) (string, error) {
	if override != "" {
		return override, nil
	}
	if settings.LogFile != "" {
		return settings.LogFile, nil
	}
	if err := EnsureGlobalDir(); err != nil {
		return "", err
	}
	return DefaultLogFile()
}
