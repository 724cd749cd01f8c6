package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/seqlog-io/seqlog/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Manage seqlog settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	RunE:  runSettingsShow,
}

var (
	setLogFile      string
	setLockTimeout  int
	setLockStaleAge int
	setAddDataRoot  string
)

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
	Long: `Change settings in ~/.seqlog/settings.yaml.

Only flags that are passed are applied; everything else keeps its value.`,
	RunE: runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().StringVar(&setLogFile, "log-file", "",
		"default sequencing data log path")
	settingsSetCmd.Flags().IntVar(&setLockTimeout, "lock-timeout", 0,
		"lock acquisition timeout in seconds")
	settingsSetCmd.Flags().IntVar(&setLockStaleAge, "lock-stale-age", 0,
		"age in seconds after which an abandoned lock is reclaimed")
	settingsSetCmd.Flags().StringVar(&setAddDataRoot, "add-data-root", "",
		"append a directory to the scanned/watched data roots")

	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsShowCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	changed := false
	if setLogFile != "" {
		settings.LogFile = setLogFile
		changed = true
	}
	if setLockTimeout > 0 {
		settings.LockTimeoutSeconds = setLockTimeout
		changed = true
	}
	if setLockStaleAge > 0 {
		settings.LockStaleAgeSeconds = setLockStaleAge
		changed = true
	}
	if setAddDataRoot != "" {
		settings.DataRoots = append(settings.DataRoots, setAddDataRoot)
		changed = true
	}

	if !changed {
		fmt.Println("Nothing to change. See 'seqlog settings set --help' for flags.")
		return nil
	}

	if err := config.SaveSettings(settings); err != nil {
		return err
	}
	fmt.Println("Settings saved.")
	return nil
}
