package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/seqlog-io/seqlog/internal/fsx"
	"github.com/seqlog-io/seqlog/internal/logfile"
	"github.com/seqlog-io/seqlog/internal/platform"
)

var scanRegister bool

var scanCmd = &cobra.Command{
	Use:   "scan [root...]",
	Short: "Find run directories under data roots that are not in the log",
	Long: `Find run directories under data roots that are not yet in the log.

Roots default to the data_roots configured in settings. Directories whose
names follow the Illumina run naming convention are reported; with
--register they are added to the log with a platform-derived description.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanRegister, "register", false,
		"add discovered run directories to the log")
}

func runScan(cmd *cobra.Command, args []string) error {
	engine, logPath, settings, err := newEngine()
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = settings.DataRoots
	}
	if len(roots) == 0 {
		return fmt.Errorf("no data roots: pass one or configure data_roots in settings")
	}

	entries, err := logfile.Load(logPath)
	if err != nil {
		return err
	}

	found := 0
	for _, root := range roots {
		dirEntries, err := os.ReadDir(root)
		if err != nil {
			return fmt.Errorf("read data root %s: %w", root, err)
		}

		for _, de := range dirEntries {
			if !de.IsDir() || !platform.LooksLikeRun(de.Name()) {
				continue
			}
			canonical, err := fsx.Canonicalize(filepath.Join(root, de.Name()))
			if err != nil {
				continue
			}
			if entries.Contains(canonical) {
				continue
			}
			found++

			if !scanRegister {
				reportUnregistered(canonical)
				continue
			}

			description := platform.DefaultDescription(de.Name())
			err = engine.Mutate(logPath, logfile.Add, canonical, description)
			if err != nil && !errors.Is(err, logfile.ErrDuplicateEntry) {
				return err
			}
			if stdoutIsTerminal() {
				fmt.Println(styleSuccess.Render("Registered ") + stylePath.Render(canonical))
			} else {
				fmt.Printf("registered %s\n", canonical)
			}
		}
	}

	if found == 0 && stdoutIsTerminal() {
		fmt.Println("No unregistered run directories found.")
	}
	return nil
}

func reportUnregistered(path string) {
	if stdoutIsTerminal() {
		fmt.Println(styleWarning.Render("Unregistered ") + stylePath.Render(path))
	} else {
		fmt.Printf("unregistered %s\n", path)
	}
}
