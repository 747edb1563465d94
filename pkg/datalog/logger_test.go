package datalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ilkoid/taskcore/pkg/signal"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// loggerRoundTrip verifies that after Append followed by Flush, the group
// file parses back to a list whose last entry's (name, value) equals what
// was appended, with a parseable timestamp.
func loggerRoundTrip(t *testing.T, format Format) {
	root := t.TempDir()
	l, err := New(root, "subj", "blockA", format)
	require.NoError(t, err)

	l.Append("t", "tic", signal.Int(0))
	l.Append("t", "tic", signal.Int(1))
	require.NoError(t, l.Flush())

	path := filepath.Join(l.Dir(), "t.log")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []Entry
	switch format {
	case FormatJSON:
		require.NoError(t, json.Unmarshal(data, &entries))
	case FormatYAML:
		require.NoError(t, yaml.Unmarshal(data, &entries))
	case FormatRON:
		entries, err = parseRONEntries(data)
		require.NoError(t, err)
	}

	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	require.Equal(t, "tic", last.Name)
	require.Equal(t, int64(1), last.Value.Int)
	_, err = time.Parse(time.RFC3339Nano, last.Time)
	require.NoError(t, err)
}

func TestLoggerRoundTripJSON(t *testing.T) { loggerRoundTrip(t, FormatJSON) }
func TestLoggerRoundTripYAML(t *testing.T) { loggerRoundTrip(t, FormatYAML) }
func TestLoggerRoundTripRON(t *testing.T)  { loggerRoundTrip(t, FormatRON) }

func TestLoggerDirMustNotPreexist(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)

	l, err := newAt(root, "subj", "blockA", FormatJSON, now)
	require.NoError(t, err)
	require.NoError(t, l.Finish())

	_, err = newAt(root, "subj", "blockA", FormatJSON, now)
	require.Error(t, err)
}

func TestLoggerWriteStandalone(t *testing.T) {
	root := t.TempDir()
	l, err := New(root, "subj", "blockA", FormatJSON)
	require.NoError(t, err)

	require.NoError(t, l.Write("info", signal.Text("hello")))
	data, err := os.ReadFile(filepath.Join(l.Dir(), "info.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "hello")
}

func TestLoggerFinishFlushesAndCloses(t *testing.T) {
	root := t.TempDir()
	l, err := New(root, "subj", "blockA", FormatJSON)
	require.NoError(t, err)

	l.Append("g", "n", signal.Int(42))
	require.NoError(t, l.Finish())

	data, err := os.ReadFile(filepath.Join(l.Dir(), "g.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "42")
}
