// Package logfile implements the record log engine: loading a shared
// sequencing-data log, applying a single add/update/delete mutation under an
// exclusive lock, and rewriting the file atomically in reverse-chronological
// order.
package logfile

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/seqlog-io/seqlog/internal/fsx"
	"github.com/seqlog-io/seqlog/internal/lock"
	"github.com/seqlog-io/seqlog/internal/models"
)

// Mode selects the mutation applied by Mutate.
type Mode int

// Mutation modes.
const (
	Add Mode = iota
	Update
	Delete
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case Add:
		return "add"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Sentinel errors surfaced to callers. Lock contention is reported as
// lock.ErrUnavailable; anything else is a wrapped filesystem error.
var (
	// ErrTargetNotFound means the directory to record does not exist.
	ErrTargetNotFound = errors.New("target directory not found")
	// ErrDuplicateEntry means an add targeted a path already in the log.
	ErrDuplicateEntry = errors.New("directory already present in log")
)

// Engine performs mutations against sequencing-data log files. The
// collaborator fields exist so tests can substitute the timestamp source,
// the existence check, and the lock manager.
type Engine struct {
	Locks  lock.Manager
	Stamp  func(dir string) (int64, error)
	Exists func(dir string) bool

	writeFile func(path string, content []byte, mode os.FileMode) error
}

// NewEngine creates an engine with the real filesystem collaborators.
func NewEngine(locks lock.Manager) *Engine {
	return &Engine{
		Locks:     locks,
		Stamp:     fsx.DirTimestamp,
		Exists:    fsx.DirExists,
		writeFile: fsx.WriteFileAtomic,
	}
}

// Mutate applies one mutation to the log at logPath. dir must already be an
// absolute, canonicalized directory path. The whole scan-mutate-rewrite
// sequence runs while holding the lock for logPath; on any error the
// on-disk log is left unchanged.
func (e *Engine) Mutate(logPath string, mode Mode, dir, description string) error {
	if mode != Delete && !e.Exists(dir) {
		return fmt.Errorf("%s: %w", dir, ErrTargetNotFound)
	}

	handle, err := e.Locks.Acquire(logPath)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := handle.Release(); rerr != nil {
			log.Printf("[logfile] release lock for %s: %v", logPath, rerr)
		}
	}()

	return e.mutateLocked(logPath, mode, dir, description)
}

func (e *Engine) mutateLocked(logPath string, mode Mode, dir, description string) error {
	entries, err := Load(logPath)
	if err != nil {
		return err
	}

	switch mode {
	case Add:
		if entries.Contains(dir) {
			return fmt.Errorf("%s: %w", dir, ErrDuplicateEntry)
		}
		if err := e.appendFresh(entries, dir, description); err != nil {
			return err
		}
	case Update:
		// Upsert: absence of a prior entry is not an error.
		entries.Remove(dir)
		if err := e.appendFresh(entries, dir, description); err != nil {
			return err
		}
	case Delete:
		removed := entries.Remove(dir)
		if !removed && !fsx.FileExists(logPath) {
			// Nothing to delete and no log to rewrite. The log is only
			// created lazily by the first add.
			return nil
		}
	default:
		return fmt.Errorf("unknown mutation mode %d", int(mode))
	}

	entries.Sort()
	return e.rewrite(logPath, entries)
}

func (e *Engine) appendFresh(entries *models.Log, dir, description string) error {
	ts, err := e.Stamp(dir)
	if err != nil {
		return fmt.Errorf("timestamp for %s: %w", dir, err)
	}
	entries.Append(models.NewEntry(dir, ts, description))
	return nil
}

// rewrite atomically replaces the log file with the header plus the current
// entry set, one tab-delimited line per entry.
func (e *Engine) rewrite(logPath string, entries *models.Log) error {
	var b strings.Builder
	b.WriteString(models.Header)
	b.WriteByte('\n')
	for _, entry := range entries.Entries {
		b.WriteString(entry.Line())
		b.WriteByte('\n')
	}
	if err := e.writeFile(logPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("rewrite %s: %w", logPath, err)
	}
	return nil
}

// Load reads the log file at logPath into memory. A missing file yields an
// empty log. Comment lines and blank lines are skipped; malformed entry
// lines are skipped with a warning and will not survive the next rewrite.
func Load(logPath string) (*models.Log, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Log{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", logPath, err)
	}

	entries := &models.Log{}
	for i, line := range strings.Split(string(data), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := models.ParseEntry(line)
		if err != nil {
			log.Printf("[logfile] %s:%d: skipping: %v", logPath, i+1, err)
			continue
		}
		entries.Append(entry)
	}
	return entries, nil
}
