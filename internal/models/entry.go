// Package models contains shared data structures used across the application.
package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Header is the literal first line of every sequencing-data log file.
const Header = "# Log of sequencing data directories"

// Entry represents one record in the sequencing-data log.
// The path is the unique key; no two entries in a log share the same path.
type Entry struct {
	Path        string // absolute, canonicalized directory path
	Timestamp   int64  // UNIX time characterizing the directory when recorded
	Description string // free text, optional
}

// NewEntry creates an entry, sanitizing the description so the
// tab-delimited line format stays parseable.
func NewEntry(path string, timestamp int64, description string) Entry {
	return Entry{
		Path:        path,
		Timestamp:   timestamp,
		Description: SanitizeDescription(description),
	}
}

// Line renders the entry as a tab-delimited log line (no trailing newline).
func (e Entry) Line() string {
	return fmt.Sprintf("%s\t%d\t%s", e.Path, e.Timestamp, e.Description)
}

// ParseEntry parses a tab-delimited log line into an Entry.
// The description field may be absent or empty.
func ParseEntry(line string) (Entry, error) {
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) < 2 || fields[0] == "" {
		return Entry{}, fmt.Errorf("malformed log line: %q", line)
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("malformed timestamp in log line %q: %w", line, err)
	}

	description := ""
	if len(fields) == 3 {
		description = fields[2]
	}

	return Entry{Path: fields[0], Timestamp: ts, Description: description}, nil
}

// SanitizeDescription replaces tabs and newlines with single spaces.
func SanitizeDescription(s string) string {
	replacer := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
	return strings.TrimSpace(replacer.Replace(s))
}

// Log represents the in-memory entry set of one log file.
type Log struct {
	Entries []Entry
}

// Find returns the index of the entry whose path matches exactly, or -1.
func (l *Log) Find(path string) int {
	for i := range l.Entries {
		if l.Entries[i].Path == path {
			return i
		}
	}
	return -1
}

// Contains reports whether an entry with the given path exists.
func (l *Log) Contains(path string) bool {
	return l.Find(path) >= 0
}

// Append adds an entry to the end of the log.
func (l *Log) Append(e Entry) {
	l.Entries = append(l.Entries, e)
}

// Remove deletes the entry with the given path, if present.
// It reports whether an entry was removed.
func (l *Log) Remove(path string) bool {
	i := l.Find(path)
	if i < 0 {
		return false
	}
	l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
	return true
}

// Sort orders entries by timestamp, newest first. The sort is stable so
// entries with equal timestamps keep their prior relative order.
func (l *Log) Sort() {
	sort.SliceStable(l.Entries, func(i, j int) bool {
		return l.Entries[i].Timestamp > l.Entries[j].Timestamp
	})
}
