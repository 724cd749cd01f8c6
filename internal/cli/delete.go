package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/seqlog-io/seqlog/internal/fsx"
	"github.com/seqlog-io/seqlog/internal/lock"
	"github.com/seqlog-io/seqlog/internal/logfile"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <directory>",
	Aliases: []string{"rm"},
	Short:   "Remove a directory's entry from the log",
	Long: `Remove a directory's entry from the log.

Deleting an entry that does not exist is not an error, and the backing
directory may already have been removed from disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	engine, logPath, _, err := newEngine()
	if err != nil {
		return err
	}

	// The directory may no longer exist, in which case symlink resolution
	// fails; fall back to the cleaned absolute path as the key.
	dir, err := fsx.Canonicalize(args[0])
	if err != nil {
		dir, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("cannot resolve %s: %w", args[0], err)
		}
	}

	if err := engine.Mutate(logPath, logfile.Delete, dir, ""); err != nil {
		if errors.Is(err, lock.ErrUnavailable) {
			return fmt.Errorf("log is locked by another seqlog operation, try again: %w", err)
		}
		return err
	}

	if stdoutIsTerminal() {
		fmt.Println(styleSuccess.Render("Removed ") + stylePath.Render(dir))
	} else {
		fmt.Printf("removed %s\n", dir)
	}
	return nil
}
