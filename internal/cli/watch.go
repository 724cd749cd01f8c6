package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seqlog-io/seqlog/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [root...]",
	Short: "Watch data roots and auto-register new run directories",
	Long: `Watch data roots and auto-register new run directories.

Runs until interrupted. Newly created directories whose names follow the
run naming convention are added to the log through the normal locking
discipline, so concurrent seqlog invocations stay safe.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	w, err := watcher.New(engine, logPath)
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(roots); err != nil {
		return err
	}

	fmt.Printf("Watching %d data root(s), press Ctrl-C to stop.\n", len(roots))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case path := <-w.Registered():
			if stdoutIsTerminal() {
				fmt.Println(styleSuccess.Render("Registered ") + stylePath.Render(path))
			} else {
				fmt.Printf("registered %s\n", path)
			}
		case <-interrupt:
			fmt.Println("\nStopping.")
			return nil
		}
	}
}
