package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqlog-io/seqlog/internal/fsx"
	"github.com/seqlog-io/seqlog/internal/lock"
	"github.com/seqlog-io/seqlog/internal/logfile"
)

var updateCmd = &cobra.Command{
	Use:     "update <directory> [description...]",
	Aliases: []string{"set"},
	Short:   "Refresh the timestamp and description of an entry",
	Long: `Refresh the timestamp and description of a log entry.

Update is an upsert: if the directory is not yet recorded it is added.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	engine, logPath, _, err := newEngine()
	if err != nil {
		return err
	}

	dir, err := fsx.Canonicalize(args[0])
	if err != nil {
		return fmt.Errorf("cannot resolve %s: %w", args[0], err)
	}

	description := strings.Join(args[1:], " ")

	if err := engine.Mutate(logPath, logfile.Update, dir, description); err != nil {
		switch {
		case errors.Is(err, logfile.ErrTargetNotFound):
			return fmt.Errorf("%s is not an existing directory", dir)
		case errors.Is(err, lock.ErrUnavailable):
			return fmt.Errorf("log is locked by another seqlog operation, try again: %w", err)
		default:
			return err
		}
	}

	if stdoutIsTerminal() {
		fmt.Println(styleSuccess.Render("Updated ") + stylePath.Render(dir))
	} else {
		fmt.Printf("updated %s\n", dir)
	}
	return nil
}
