// Package lock provides advisory, cross-process locking for shared log
// files. A lock is a sidecar file next to the target (e.g. seq_data.log.lock)
// created with O_EXCL, holding a small YAML document that identifies the
// owning process. Stale artifacts left by dead processes are detected and
// cleared; live locks cause acquisition to fail with ErrUnavailable after a
// bounded retry window.
package lock

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrUnavailable is returned when another live process holds the lock.
var ErrUnavailable = errors.New("lock held by another process")

// Owner identifies the process that created a lock file.
type Owner struct {
	PID        int       `yaml:"pid"`
	Hostname   string    `yaml:"hostname"`
	Token      string    `yaml:"token"`
	AcquiredAt time.Time `yaml:"acquired_at"`
}

// Manager acquires exclusive locks for target file paths. The engine depends
// on this interface so the file-based implementation can be swapped out.
type Manager interface {
	Acquire(path string) (*Handle, error)
}

// Policy configures acquisition retries and stale-lock recovery.
type Policy struct {
	// Timeout bounds the total time spent retrying before ErrUnavailable.
	Timeout time.Duration
	// RetryInterval is the sleep between acquisition attempts.
	RetryInterval time.Duration
	// StaleAge is the age beyond which an unreadable or foreign-host lock
	// artifact is treated as abandoned and removed.
	StaleAge time.Duration
}

// DefaultPolicy returns the acquisition policy used by the CLI.
func DefaultPolicy() Policy {
	return Policy{
		Timeout:       10 * time.Second,
		RetryInterval: 100 * time.Millisecond,
		StaleAge:      10 * time.Minute,
	}
}

// FileManager implements Manager using sidecar lock files.
type FileManager struct {
	Policy Policy
}

// NewFileManager creates a FileManager with the default policy.
func NewFileManager() *FileManager {
	return &FileManager{Policy: DefaultPolicy()}
}

// Handle represents ownership of one acquired lock.
type Handle struct {
	path     string
	token    string
	released bool
}

// LockPath returns the sidecar lock file path for a target path.
func LockPath(path string) string {
	return path + ".lock"
}

// Acquire obtains exclusive ownership of the lock associated with path.
// It retries until the policy timeout, clearing provably stale artifacts
// along the way, and returns ErrUnavailable if a live holder remains.
func (m *FileManager) Acquire(path string) (*Handle, error) {
	lockPath := LockPath(path)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	owner := Owner{
		PID:        os.Getpid(),
		Hostname:   hostname,
		Token:      uuid.New().String(),
		AcquiredAt: time.Now().UTC(),
	}
	content, err := yaml.Marshal(owner)
	if err != nil {
		return nil, fmt.Errorf("marshal lock owner: %w", err)
	}

	deadline := time.Now().Add(m.Policy.Timeout)
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			if _, werr := f.Write(content); werr != nil {
				_ = f.Close()
				_ = os.Remove(lockPath)
				return nil, fmt.Errorf("write lock file: %w", werr)
			}
			if cerr := f.Close(); cerr != nil {
				_ = os.Remove(lockPath)
				return nil, fmt.Errorf("close lock file: %w", cerr)
			}
			return &Handle{path: lockPath, token: owner.Token}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file %s: %w", lockPath, err)
		}

		if m.removeIfStale(lockPath, hostname) {
			continue
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%s: %w", lockPath, ErrUnavailable)
		}
		time.Sleep(m.Policy.RetryInterval)
	}
}

// removeIfStale removes the lock artifact at lockPath if it is provably
// abandoned: owned by a dead pid on this host, or older than the stale age
// bound. It reports whether the artifact was removed.
func (m *FileManager) removeIfStale(lockPath, hostname string) bool {
	owner, err := readOwner(lockPath)
	if err != nil {
		// Unreadable or half-written artifact. Only reclaim it once it is
		// old enough that an in-flight writer cannot still be racing us.
		info, serr := os.Stat(lockPath)
		if serr != nil || time.Since(info.ModTime()) < m.Policy.StaleAge {
			return false
		}
		return os.Remove(lockPath) == nil
	}

	if owner.Hostname == hostname && !pidAlive(owner.PID) {
		return os.Remove(lockPath) == nil
	}
	// A lock from another host cannot be liveness-checked; reclaim it only
	// past the stale age bound.
	if owner.Hostname != hostname && time.Since(owner.AcquiredAt) > m.Policy.StaleAge {
		return os.Remove(lockPath) == nil
	}
	return false
}

// Release removes the lock artifact. It is idempotent and safe to call on a
// nil or never-acquired handle. The artifact is only deleted while it still
// carries this handle's owner token, so a lock reclaimed and re-acquired by
// another process is never removed out from under it.
func (h *Handle) Release() error {
	if h == nil || h.released {
		return nil
	}
	h.released = true

	owner, err := readOwner(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read lock file on release: %w", err)
	}
	if owner.Token != h.token {
		return nil
	}
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

func readOwner(lockPath string) (Owner, error) {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return Owner{}, err
	}
	var owner Owner
	if err := yaml.Unmarshal(data, &owner); err != nil {
		return Owner{}, fmt.Errorf("parse lock file %s: %w", lockPath, err)
	}
	if owner.PID == 0 {
		return Owner{}, fmt.Errorf("lock file %s has no owner pid", lockPath)
	}
	return owner, nil
}

// pidAlive reports whether a process with the given pid exists.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
