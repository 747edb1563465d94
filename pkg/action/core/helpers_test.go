package core

import (
	"sync"
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/signal"
)

// stubSyncWriter records Emit/Poke/Repaint calls from a node's helper
// goroutines so tests can assert on them without running a real Scheduler.
type stubSyncWriter struct {
	mu     sync.Mutex
	emits  []signal.Signal
	pokes  int
	repait int
}

func (s *stubSyncWriter) Emit(_ time.Duration, sig signal.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emits = append(s.emits, sig)
}

func (s *stubSyncWriter) Poke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pokes++
}

func (s *stubSyncWriter) Repaint() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repait++
}

func (s *stubSyncWriter) pokeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pokes
}

// stubAsyncWriter records Append/Extend/Write calls in place of a real
// datalog.Logger.
type stubAsyncWriter struct {
	mu      sync.Mutex
	entries []stubEntry
}

type stubEntry struct {
	Group string
	Name  string
	Value signal.Value
}

func (a *stubAsyncWriter) Append(group, name string, value signal.Value) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, stubEntry{group, name, value})
}

func (a *stubAsyncWriter) Extend(group string, rows []action.NameValue) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range rows {
		a.entries = append(a.entries, stubEntry{group, r.Name, r.Value})
	}
}

func (a *stubAsyncWriter) Write(name string, value signal.Value) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, stubEntry{"", name, value})
}

func (a *stubAsyncWriter) snapshot() []stubEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]stubEntry, len(a.entries))
	copy(out, a.entries)
	return out
}
