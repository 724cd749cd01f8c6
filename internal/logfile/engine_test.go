package logfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seqlog-io/seqlog/internal/lock"
	"github.com/seqlog-io/seqlog/internal/models"
)

func testLockManager() *lock.FileManager {
	return &lock.FileManager{Policy: lock.Policy{
		Timeout:       200 * time.Millisecond,
		RetryInterval: 20 * time.Millisecond,
		StaleAge:      time.Hour,
	}}
}

// testEngine returns an engine whose timestamp collaborator reads from the
// stamps map instead of directory mtimes.
func testEngine(stamps map[string]int64) *Engine {
	e := NewEngine(testLockManager())
	e.Stamp = func(dir string) (int64, error) {
		ts, ok := stamps[dir]
		if !ok {
			return 0, fmt.Errorf("no stamp for %s", dir)
		}
		return ts, nil
	}
	return e
}

func mkdir(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestAddUpdateDeleteScenario(t *testing.T) {
	base := t.TempDir()
	logPath := filepath.Join(base, "seq_data.log")
	run1 := mkdir(t, base, "run1")
	run2 := mkdir(t, base, "run2")

	e := testEngine(map[string]int64{run1: 1000, run2: 2000})

	if err := e.Mutate(logPath, Add, run1, "first run"); err != nil {
		t.Fatalf("add run1: %v", err)
	}
	want := models.Header + "\n" + run1 + "\t1000\tfirst run\n"
	if got := readLog(t, logPath); got != want {
		t.Fatalf("log after first add:\n%q\nwant:\n%q", got, want)
	}

	if err := e.Mutate(logPath, Add, run2, "second"); err != nil {
		t.Fatalf("add run2: %v", err)
	}
	want = models.Header + "\n" +
		run2 + "\t2000\tsecond\n" +
		run1 + "\t1000\tfirst run\n"
	if got := readLog(t, logPath); got != want {
		t.Fatalf("log after second add:\n%q\nwant:\n%q", got, want)
	}

	if err := e.Mutate(logPath, Delete, run1, ""); err != nil {
		t.Fatalf("delete run1: %v", err)
	}
	want = models.Header + "\n" + run2 + "\t2000\tsecond\n"
	if got := readLog(t, logPath); got != want {
		t.Fatalf("log after delete:\n%q\nwant:\n%q", got, want)
	}
}

func TestAddDuplicateLeavesLogUnchanged(t *testing.T) {
	base := t.TempDir()
	logPath := filepath.Join(base, "seq_data.log")
	run1 := mkdir(t, base, "run1")

	e := testEngine(map[string]int64{run1: 1000})

	if err := e.Mutate(logPath, Add, run1, "first"); err != nil {
		t.Fatalf("add: %v", err)
	}
	before := readLog(t, logPath)

	err := e.Mutate(logPath, Add, run1, "again")
	if !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("duplicate add error = %v, want ErrDuplicateEntry", err)
	}
	if after := readLog(t, logPath); after != before {
		t.Errorf("log changed by failed add:\nbefore %q\nafter  %q", before, after)
	}
}

func TestAddMissingTarget(t *testing.T) {
	base := t.TempDir()
	logPath := filepath.Join(base, "seq_data.log")
	missing := filepath.Join(base, "no-such-run")

	e := testEngine(nil)

	for _, mode := range []Mode{Add, Update} {
		err := e.Mutate(logPath, mode, missing, "")
		if !errors.Is(err, ErrTargetNotFound) {
			t.Errorf("%s missing target error = %v, want ErrTargetNotFound", mode, err)
		}
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("failed mutation created the log file")
	}
}

func TestUpdateUpserts(t *testing.T) {
	base := t.TempDir()
	logPath := filepath.Join(base, "seq_data.log")
	run1 := mkdir(t, base, "run1")

	stamps := map[string]int64{run1: 1000}
	e := testEngine(stamps)

	// No prior entry: update behaves as insert.
	if err := e.Mutate(logPath, Update, run1, "fresh"); err != nil {
		t.Fatalf("update as insert: %v", err)
	}

	stamps[run1] = 5000
	if err := e.Mutate(logPath, Update, run1, "refreshed"); err != nil {
		t.Fatalf("update existing: %v", err)
	}

	entries, err := Load(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries.Entries) != 1 {
		t.Fatalf("entry count after double update = %d, want 1", len(entries.Entries))
	}
	got := entries.Entries[0]
	if got.Timestamp != 5000 || got.Description != "refreshed" {
		t.Errorf("entry after update = %+v", got)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	base := t.TempDir()
	logPath := filepath.Join(base, "seq_data.log")
	run1 := mkdir(t, base, "run1")

	e := testEngine(map[string]int64{run1: 1000})
	if err := e.Mutate(logPath, Add, run1, "d"); err != nil {
		t.Fatal(err)
	}
	before := readLog(t, logPath)

	// Deleting a key that was never added succeeds.
	if err := e.Mutate(logPath, Delete, filepath.Join(base, "ghost"), ""); err != nil {
		t.Fatalf("delete of absent key: %v", err)
	}
	if after := readLog(t, logPath); after != before {
		t.Errorf("no-op delete changed the log:\nbefore %q\nafter  %q", before, after)
	}
}

func TestDeleteWithoutLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "seq_data.log")
	e := testEngine(nil)

	if err := e.Mutate(logPath, Delete, "/data/ghost", ""); err != nil {
		t.Fatalf("delete against missing log: %v", err)
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("delete created the log file")
	}
}

func TestDeleteWorksForVanishedDirectory(t *testing.T) {
	base := t.TempDir()
	logPath := filepath.Join(base, "seq_data.log")
	run1 := mkdir(t, base, "run1")

	e := testEngine(map[string]int64{run1: 1000})
	if err := e.Mutate(logPath, Add, run1, ""); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(run1); err != nil {
		t.Fatal(err)
	}

	// The backing directory is gone; delete must still succeed.
	if err := e.Mutate(logPath, Delete, run1, ""); err != nil {
		t.Fatalf("delete of vanished directory: %v", err)
	}
	entries, err := Load(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries.Entries) != 0 {
		t.Errorf("entries after delete = %+v", entries.Entries)
	}
}

func TestSortInvariant(t *testing.T) {
	base := t.TempDir()
	logPath := filepath.Join(base, "seq_data.log")

	stamps := map[string]int64{}
	e := testEngine(stamps)

	// Insert out of timestamp order.
	for name, ts := range map[string]int64{"a": 300, "b": 100, "c": 500, "d": 200} {
		dir := mkdir(t, base, name)
		stamps[dir] = ts
		if err := e.Mutate(logPath, Add, dir, ""); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := Load(logPath)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(entries.Entries); i++ {
		if entries.Entries[i-1].Timestamp < entries.Entries[i].Timestamp {
			t.Fatalf("timestamps not non-increasing: %+v", entries.Entries)
		}
	}
}

func TestRewriteFailureLeavesOriginalIntact(t *testing.T) {
	base := t.TempDir()
	logPath := filepath.Join(base, "seq_data.log")
	run1 := mkdir(t, base, "run1")
	run2 := mkdir(t, base, "run2")

	e := testEngine(map[string]int64{run1: 1000, run2: 2000})
	if err := e.Mutate(logPath, Add, run1, "keep me"); err != nil {
		t.Fatal(err)
	}
	before := readLog(t, logPath)

	e.writeFile = func(string, []byte, os.FileMode) error {
		return errors.New("disk full")
	}
	if err := e.Mutate(logPath, Add, run2, "never lands"); err == nil {
		t.Fatal("mutation with failing rewrite succeeded, want error")
	}
	if after := readLog(t, logPath); after != before {
		t.Errorf("failed rewrite altered the log:\nbefore %q\nafter  %q", before, after)
	}
}

func TestMutateReleasesLock(t *testing.T) {
	base := t.TempDir()
	logPath := filepath.Join(base, "seq_data.log")
	run1 := mkdir(t, base, "run1")

	e := testEngine(map[string]int64{run1: 1000})
	if err := e.Mutate(logPath, Add, run1, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(lock.LockPath(logPath)); !os.IsNotExist(err) {
		t.Error("lock file still present after successful mutation")
	}

	// Failure paths release too.
	if err := e.Mutate(logPath, Add, run1, ""); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("duplicate add error = %v", err)
	}
	if _, err := os.Stat(lock.LockPath(logPath)); !os.IsNotExist(err) {
		t.Error("lock file still present after failed mutation")
	}
}

func TestMutateLockUnavailable(t *testing.T) {
	base := t.TempDir()
	logPath := filepath.Join(base, "seq_data.log")
	run1 := mkdir(t, base, "run1")

	e := testEngine(map[string]int64{run1: 1000})
	if err := e.Mutate(logPath, Add, run1, "before contention"); err != nil {
		t.Fatal(err)
	}
	before := readLog(t, logPath)

	// Hold the lock from "another" operation in this same (live) process.
	holder, err := testLockManager().Acquire(logPath)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = holder.Release() }()

	err = e.Mutate(logPath, Update, run1, "blocked")
	if !errors.Is(err, lock.ErrUnavailable) {
		t.Fatalf("contended mutate error = %v, want lock.ErrUnavailable", err)
	}
	if after := readLog(t, logPath); after != before {
		t.Errorf("contended mutate altered the log")
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "seq_data.log")
	content := models.Header + "\n" +
		"/data/run1\t1000\tok\n" +
		"not a log line\n" +
		"\n" +
		"/data/run2\t2000\talso ok\n"
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := Load(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries.Entries) != 2 {
		t.Fatalf("entries = %+v, want 2 parsed", entries.Entries)
	}
}

func TestLoadMissingFile(t *testing.T) {
	entries, err := Load(filepath.Join(t.TempDir(), "absent.log"))
	if err != nil {
		t.Fatalf("Load missing file: %v", err)
	}
	if len(entries.Entries) != 0 {
		t.Errorf("entries = %+v, want empty", entries.Entries)
	}
}
