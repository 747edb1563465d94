// Package core implements the concrete action variants: primitives (Nil,
// Wait, Timer, ...) and combinators (Seq, Par, ...).
package core

import (
	"sync"
	"sync/atomic"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/signal"
)

// onceDone guards stop() idempotency.
type onceDone struct {
	done sync.Once
}

func (d *onceDone) Do(f func()) {
	d.done.Do(f)
}

// workerErr lets a helper goroutine stash a failure for the next IsOver
// poll, without the goroutine ever
// touching the tree directly.
type workerErr struct {
	v atomic.Value // error
}

func (w *workerErr) Set(err error) {
	if err != nil {
		w.v.Store(err)
	}
}

func (w *workerErr) Get() error {
	if v := w.v.Load(); v != nil {
		return v.(error)
	}
	return nil
}

// stopSignal is a channel helper for telling a helper goroutine to exit;
// closing it (rather than sending) lets every select on it observe the
// close exactly once regardless of how many times Stop races in.
type stopSignal struct {
	ch   chan struct{}
	once sync.Once
}

func newStopSignal() *stopSignal {
	return &stopSignal{ch: make(chan struct{})}
}

func (s *stopSignal) Stop() {
	s.once.Do(func() { close(s.ch) })
}

func (s *stopSignal) Done() <-chan struct{} {
	return s.ch
}

// noSignals is returned by variants whose operations produce no Signal.
var noSignals = signal.Signal{}

// flag is a race-free boolean set by a helper goroutine and polled by
// IsOver/Update on the Sync processor thread.
type flag struct {
	v atomic.Bool
}

func (f *flag) Set(b bool) { f.v.Store(b) }
func (f *flag) Get() bool  { return f.v.Load() }

// register is a package-level convenience that every variant's init()
// calls to add itself to a shared default Registry, mirroring the
// teacher's tools.Registry.Register pattern (pkg/tools/registry.go)
// generalized from tool-name keys to action-tag keys.
func register(tag string, f action.Factory) {
	Default.Register(tag, f)
}

// Default is the registry pre-populated with every variant in this
// package. The task loader (pkg/block) uses it unless a caller supplies a
// custom *action.Registry.
var Default = action.NewRegistry()
