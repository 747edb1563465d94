// Package datalog implements the data Logger: a per-block-run recorder of
// named groups of timestamped values, persisted as one file per group
// under a per-run output directory. Distinct from pkg/obslog, the
// diagnostic logger this package itself uses.
package datalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ilkoid/taskcore/pkg/obslog"
	"github.com/ilkoid/taskcore/pkg/signal"
)

// Format selects the on-disk serialization for group log files.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatRON  Format = "ron"
)

// Entry is one recorded row: a timestamped name/value pair.
type Entry struct {
	Time  string       `json:"time" yaml:"time"`
	Name  string       `json:"name" yaml:"name"`
	Value signal.Value `json:"value" yaml:"value"`
}

type group struct {
	entries []Entry
	dirty   bool
}

// Logger owns output/<subject>/<date>/<block>/<time>/ for one block
// invocation. Append/Extend/Write are safe to call from any goroutine;
// callers are expected to be the Async processor, which
// serializes all access through its own single-goroutine queue, but the
// internal mutex makes the type safe regardless.
type Logger struct {
	dir    string
	format Format

	mu      sync.Mutex
	groups  map[string]*group
	flushAt *time.Timer
	closed  bool
}

const flushDelay = 5 * time.Second

// New creates the per-run output directory (must not already exist) and
// returns a Logger rooted there. subject/block are joined into the path
// as given, without sanitizing; New only refuses to clobber an existing
// directory.
func New(root, subject, block string, format Format) (*Logger, error) {
	return newAt(root, subject, block, format, time.Now())
}

func newAt(root, subject, block string, format Format, now time.Time) (*Logger, error) {
	dir := filepath.Join(root, subject, now.Format("2006-01-02"), block, now.Format("15-04-05"))
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("datalog: output directory already exists: %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("datalog: stat %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("datalog: create output directory: %w", err)
	}
	if format == "" {
		format = FormatJSON
	}
	return &Logger{dir: dir, format: format, groups: make(map[string]*group)}, nil
}

// Dir returns the per-run output directory.
func (l *Logger) Dir() string { return l.dir }

// Append pushes one timestamped row onto group and schedules a coalesced
// flush ~5s out if one isn't already pending.
func (l *Logger) Append(grp, name string, value signal.Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.appendLocked(grp, name, value)
	l.scheduleFlushLocked()
}

// Extend pushes many rows onto group in one call.
func (l *Logger) Extend(grp string, rows []struct {
	Name  string
	Value signal.Value
}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, row := range rows {
		l.appendLocked(grp, row.Name, row.Value)
	}
	l.scheduleFlushLocked()
}

func (l *Logger) appendLocked(grp, name string, value signal.Value) {
	g, ok := l.groups[grp]
	if !ok {
		g = &group{}
		l.groups[grp] = g
	}
	g.entries = append(g.entries, Entry{Time: time.Now().Format(time.RFC3339Nano), Name: name, Value: value})
	g.dirty = true
}

func (l *Logger) scheduleFlushLocked() {
	if l.closed || l.flushAt != nil {
		return
	}
	l.flushAt = time.AfterFunc(flushDelay, func() {
		if err := l.Flush(); err != nil {
			obslog.WithComponent("datalog").Error().Err(err).Msg("scheduled flush failed")
		}
	})
}

// Write drops a single standalone value immediately to <name>.log,
// bypassing the group/dirty machinery. Used for info/config/tree
// snapshots at block start.
func (l *Logger) Write(name string, value signal.Value) error {
	path := filepath.Join(l.dir, name+".log")
	return writeFile(path, l.format, []Entry{{Time: time.Now().Format(time.RFC3339Nano), Name: name, Value: value}})
}

// Flush rewrites <group>.log wholesale for every dirty group.
func (l *Logger) Flush() error {
	l.mu.Lock()
	if l.flushAt != nil {
		l.flushAt.Stop()
		l.flushAt = nil
	}
	dirty := make(map[string][]Entry, len(l.groups))
	for name, g := range l.groups {
		if g.dirty {
			dirty[name] = append([]Entry(nil), g.entries...)
			g.dirty = false
		}
	}
	l.mu.Unlock()

	for name, entries := range dirty {
		path := filepath.Join(l.dir, name+".log")
		if err := writeFile(path, l.format, entries); err != nil {
			return fmt.Errorf("datalog: flush %s: %w", name, err)
		}
	}
	return nil
}

// Finish flushes synchronously and marks the Logger closed; no further
// scheduled flushes will be armed afterward.
func (l *Logger) Finish() error {
	err := l.Flush()
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return err
}
