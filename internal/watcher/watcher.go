// Package watcher auto-registers newly created sequencing run directories.
// It watches configured data roots and, when a directory whose name follows
// the run naming convention appears, adds it to the log through the same
// engine (and therefore the same lock discipline) as the CLI commands.
package watcher

import (
	"errors"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/seqlog-io/seqlog/internal/fsx"
	"github.com/seqlog-io/seqlog/internal/logfile"
	"github.com/seqlog-io/seqlog/internal/platform"
)

// debounceDelay gives the sequencer (or rsync) a moment to finish creating
// the directory before we try to record it.
const debounceDelay = 500 * time.Millisecond

// Watcher watches data roots for new run directories.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	engine     *logfile.Engine
	logPath    string
	registered chan string
	done       chan struct{}
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// New creates a watcher that registers discovered runs in the log at logPath.
func New(engine *logfile.Engine, logPath string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher:  fsWatcher,
		engine:     engine,
		logPath:    logPath,
		registered: make(chan string, 100),
		done:       make(chan struct{}),
		debounce:   make(map[string]*time.Timer),
	}, nil
}

// Registered returns the channel of run directory paths added to the log.
func (w *Watcher) Registered() <-chan string {
	return w.registered
}

// Start begins watching the given data roots.
func (w *Watcher) Start(roots []string) error {
	for _, root := range roots {
		if err := w.fsWatcher.Add(root); err != nil {
			return err
		}
		log.Printf("[watcher] watching data root %s", root)
	}

	go w.processEvents()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.fsWatcher.Close()
}

// processEvents drains fsnotify events until Stop.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		}
	}
}

// handleEvent processes a single file system event. Create and Rename are
// both relevant: run directories staged elsewhere and moved into the data
// root arrive as Rename on the target path.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	if !platform.LooksLikeRun(filepath.Base(event.Name)) {
		return
	}

	w.debounceEvent(event.Name, func() {
		w.register(event.Name)
	})
}

// debounceEvent debounces events for the same path.
func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(debounceDelay, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}

// register adds one discovered run directory to the log.
func (w *Watcher) register(path string) {
	if !fsx.DirExists(path) {
		return
	}
	canonical, err := fsx.Canonicalize(path)
	if err != nil {
		log.Printf("[watcher] canonicalize %s: %v", path, err)
		return
	}

	description := platform.DefaultDescription(filepath.Base(canonical))
	err = w.engine.Mutate(w.logPath, logfile.Add, canonical, description)
	switch {
	case err == nil:
		log.Printf("[watcher] registered %s", canonical)
		select {
		case w.registered <- canonical:
		default:
		}
	case errors.Is(err, logfile.ErrDuplicateEntry):
		// Already recorded, e.g. by a concurrent scan. Nothing to do.
	default:
		log.Printf("[watcher] register %s: %v", canonical, err)
	}
}
