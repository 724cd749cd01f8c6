package models

// Settings represents global application settings.
// This corresponds to ~/.seqlog/settings.yaml.
type Settings struct {
	Version int `yaml:"version"`

	// LogFile is the default sequencing-data log mutated by add/update/delete.
	LogFile string `yaml:"log_file"`

	// LockTimeoutSeconds bounds how long an operation waits for the log lock.
	LockTimeoutSeconds int `yaml:"lock_timeout_seconds"`

	// LockStaleAgeSeconds is the age after which an abandoned lock artifact
	// may be reclaimed.
	LockStaleAgeSeconds int `yaml:"lock_stale_age_seconds"`

	// DataRoots are directories scanned and watched for new run directories.
	DataRoots []string `yaml:"data_roots"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:             1,
		LogFile:             "",
		LockTimeoutSeconds:  10,
		LockStaleAgeSeconds: 600,
		DataRoots:           []string{},
	}
}
