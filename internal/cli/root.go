// Package cli implements the seqlog CLI commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/seqlog-io/seqlog/internal/config"
	"github.com/seqlog-io/seqlog/internal/lock"
	"github.com/seqlog-io/seqlog/internal/logfile"
	"github.com/seqlog-io/seqlog/internal/models"
)

var logFlag string

var rootCmd = &cobra.Command{
	Use:   "seqlog",
	Short: "Track the locations of sequencing data directories",
	Long: `Seqlog maintains a shared log of sequencing data directories.
Entries are keyed by absolute directory path and kept sorted newest first.
Concurrent invocations against the same log are serialized through a lock
file, and every rewrite replaces the log atomically.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFlag, "log", "",
		"path to the sequencing data log (overrides settings)")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
}

// newEngine loads settings and builds the engine plus the resolved log path.
func newEngine() (*logfile.Engine, string, *models.Settings, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, "", nil, err
	}
	logPath, err := config.ResolveLogFile(logFlag, settings)
	if err != nil {
		return nil, "", nil, err
	}
	manager := &lock.FileManager{Policy: config.LockPolicy(settings)}
	return logfile.NewEngine(manager), logPath, settings, nil
}
