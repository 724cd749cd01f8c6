package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/seqlog-io/seqlog/internal/logfile"
	"github.com/seqlog-io/seqlog/internal/platform"
)

var listPlatform string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded sequencing data directories, newest first",
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVar(&listPlatform, "platform", "",
		"only show runs for this platform (e.g. miseq, hiseq)")
}

func runList(cmd *cobra.Command, args []string) error {
	_, logPath, _, err := newEngine()
	if err != nil {
		return err
	}

	// Listing is read-only and takes no lock; mutating operations replace
	// the file atomically, so a reader never observes a partial log.
	entries, err := logfile.Load(logPath)
	if err != nil {
		return err
	}

	shown := 0
	for _, entry := range entries.Entries {
		detected := platform.Identify(filepath.Base(entry.Path))
		if listPlatform != "" && string(detected) != listPlatform {
			continue
		}
		shown++

		if !stdoutIsTerminal() {
			fmt.Println(entry.Line())
			continue
		}

		when := time.Unix(entry.Timestamp, 0).Format("2006-01-02 15:04")
		line := styleTime.Render(when) + "  " + stylePath.Render(entry.Path)
		if detected != platform.Unknown {
			line += "  " + stylePlatform.Render("["+string(detected)+"]")
		}
		if entry.Description != "" {
			line += "  " + styleDesc.Render(entry.Description)
		}
		fmt.Println(line)
	}

	if shown == 0 && stdoutIsTerminal() {
		fmt.Println("No sequencing data directories recorded. Run 'seqlog add' to create one.")
	}
	return nil
}
