package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqlog-io/seqlog/internal/fsx"
	"github.com/seqlog-io/seqlog/internal/lock"
	"github.com/seqlog-io/seqlog/internal/logfile"
	"github.com/seqlog-io/seqlog/internal/platform"
)

var addCmd = &cobra.Command{
	Use:   "add <directory> [description...]",
	Short: "Record a sequencing data directory in the log",
	Long: `Record a sequencing data directory in the log.

The directory is resolved to an absolute, symlink-free path, which acts as
the entry's unique key. When no description is given and the directory name
follows the Illumina run naming convention, a platform-derived description
(e.g. "miseq run") is used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	engine, logPath, _, err := newEngine()
	if err != nil {
		return err
	}

	dir, err := fsx.Canonicalize(args[0])
	if err != nil {
		return fmt.Errorf("cannot resolve %s: %w", args[0], err)
	}

	description := strings.Join(args[1:], " ")
	if description == "" {
		description = platform.DefaultDescription(filepath.Base(dir))
	}

	if err := engine.Mutate(logPath, logfile.Add, dir, description); err != nil {
		switch {
		case errors.Is(err, logfile.ErrDuplicateEntry):
			return fmt.Errorf("%s is already in the log (use 'seqlog update' to refresh it)", dir)
		case errors.Is(err, logfile.ErrTargetNotFound):
			return fmt.Errorf("%s is not an existing directory", dir)
		case errors.Is(err, lock.ErrUnavailable):
			return fmt.Errorf("log is locked by another seqlog operation, try again: %w", err)
		default:
			return err
		}
	}

	if stdoutIsTerminal() {
		fmt.Println(styleSuccess.Render("Added ") + stylePath.Render(dir))
	} else {
		fmt.Printf("added %s\n", dir)
	}
	return nil
}
