// Package scheduler implements the Scheduler façade: it spawns the Async
// processor, then the Sync processor, and forwards GUI-thread events (key
// presses, frame draws, shutdown) into both queues.
package scheduler

import (
	"sync"
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/datalog"
	"github.com/ilkoid/taskcore/pkg/obslog"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
	"gopkg.in/yaml.v3"
)

// doublePressWindow is how close together two escape key presses must
// land to count as a user-requested interrupt.
const doublePressWindow = 300 * time.Millisecond

// Scheduler is the façade a block runner drives: one per running block.
type Scheduler struct {
	sync  *SyncProcessor
	async *AsyncProcessor

	escMu      sync.Mutex
	lastEscape time.Time

	callbacks Callbacks
	info      Info
}

// New spawns the Async processor, builds and spawns the Sync processor
// against node (already Init'd/resource-collected/closure-checked by
// pkg/block), and returns a Scheduler ready for Go. Once the stateful tree
// has materialized, New dumps the tree's own structure and info (zero or
// not) to tree.log/info.log via logger.Write.
func New(node *action.Node, cfg action.Config, resMgr *resource.Manager, logger *datalog.Logger, initial map[signal.ID]signal.Value, callbacks Callbacks, info Info) (*Scheduler, error) {
	async := NewAsyncProcessor(logger, callbacks)
	go async.Run()

	sp, err := NewSyncProcessor(node, cfg, resMgr, async, callbacks, initial)
	if err != nil {
		async.Send(AsyncSignal{Kind: AsyncFinish})
		return nil, err
	}
	go sp.Run()

	writeStartupLogs(logger, node, info)

	return &Scheduler{sync: sp, async: async, callbacks: callbacks, info: info}, nil
}

// Info returns the running-block snapshot passed to New, for a
// selection/status screen to display.
func (s *Scheduler) Info() Info { return s.info }

func writeStartupLogs(logger *datalog.Logger, node *action.Node, info Info) {
	if treeYAML, err := yaml.Marshal(node); err == nil {
		if err := logger.Write("tree", signal.Text(string(treeYAML))); err != nil {
			obslog.WithComponent("scheduler").Warn().Err(err).Msg("write tree.log failed")
		}
	}
	if infoYAML, err := yaml.Marshal(info); err == nil {
		if err := logger.Write("info", signal.Text(string(infoYAML))); err != nil {
			obslog.WithComponent("scheduler").Warn().Err(err).Msg("write info.log failed")
		}
	}
}

// Go releases the Sync processor's main loop to begin running the tree.
func (s *Scheduler) Go() { s.sync.Send(SyncSignal{Kind: SyncGo}) }

// KeyPress forwards a keyboard event into the Sync queue, and detects a
// double escape-press within 300ms as a user-requested interrupt.
func (s *Scheduler) KeyPress(t time.Duration, keys map[string]struct{}) {
	s.sync.Send(SyncSignal{Kind: SyncKeyPress, Time: t, Keys: keys})

	if _, pressed := keys["escape"]; !pressed {
		return
	}
	now := time.Now()
	s.escMu.Lock()
	prev := s.lastEscape
	s.lastEscape = now
	s.escMu.Unlock()

	if !prev.IsZero() && now.Sub(prev) <= doublePressWindow {
		s.async.Send(AsyncSignal{Kind: AsyncAppend, Time: now, Group: "main", Name: "interrupt", Value: signal.Text("user request")})
		if s.callbacks != nil {
			s.callbacks.BlockInterrupted("user request")
		}
	}
}

// Frame draws the current tree, invoked once per GUI frame.
func (s *Scheduler) Frame(ui action.UI) error {
	return s.sync.Show(ui)
}

// Finish posts Finish to both queues.
func (s *Scheduler) Finish() {
	s.sync.Send(SyncSignal{Kind: SyncFinish})
	s.async.Send(AsyncSignal{Kind: AsyncFinish})
}
