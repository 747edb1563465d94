package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/action/core"
	"github.com/ilkoid/taskcore/pkg/obslog"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

// SyncSignalKind tags which signal variant a SyncSignal carries.
type SyncSignalKind int

const (
	SyncUpdateGraph SyncSignalKind = iota
	SyncKeyPress
	SyncEmit
	SyncRepaint
	SyncFinish
	SyncGo
)

// SyncSignal is one event delivered to the Sync processor's main loop.
type SyncSignal struct {
	Kind SyncSignalKind
	Time time.Duration
	Keys map[string]struct{}
	Data signal.Signal
}

// MaxQueueSize bounds the per-pass re-entry count for emitted feedback
// signals, preventing a misbehaving action from looping the Sync processor
// forever. The batch read off the queue is not bounded: each pass takes
// every signal queued at that moment.
const MaxQueueSize = 256

// SyncProcessor owns (root Live, State) behind a lock so the GUI/frame
// thread can read it to draw. It is the exclusive mutator of
// the stateful tree outside of Show calls.
type SyncProcessor struct {
	cfg       action.Config
	resMgr    *resource.Manager
	callbacks Callbacks
	aw        action.AsyncWriter

	queue *mailbox[SyncSignal]
	goCh  chan struct{}
	goOne sync.Once

	mu      sync.Mutex
	root    action.Live
	state   *signal.State
	started time.Time
}

// NewSyncProcessor builds the stateful tree from an Init'd node (pkg/block
// has already run action.InitTree/CollectResources/CheckClosure on it) and
// returns a processor ready to Run in its own goroutine. It posts
// LoadComplete once materialization succeeds.
func NewSyncProcessor(node *action.Node, cfg action.Config, resMgr *resource.Manager, async *AsyncProcessor, callbacks Callbacks, initial map[signal.ID]signal.Value) (*SyncProcessor, error) {
	p := &SyncProcessor{
		cfg:       cfg,
		resMgr:    resMgr,
		callbacks: callbacks,
		aw:        &asyncWriter{p: async},
		queue:     newMailbox[SyncSignal](),
		goCh:      make(chan struct{}),
		state:     signal.NewState(initial),
	}
	sw := &syncWriter{p: p}
	root, err := node.Value.Stateful(resMgr, cfg, sw, p.aw)
	if err != nil {
		return nil, fmt.Errorf("scheduler: materialize stateful tree: %w", err)
	}
	p.root = root
	if callbacks != nil {
		callbacks.LoadComplete()
	}
	return p, nil
}

// Send enqueues one SyncSignal.
func (p *SyncProcessor) Send(sig SyncSignal) {
	if sig.Kind == SyncGo {
		p.goOne.Do(func() { close(p.goCh) })
		return
	}
	p.queue.Send(sig)
}

// Show invokes root.Show under the tree lock if the root is currently
// visual, wrapping it in a background-filled full-panel container.
func (p *SyncProcessor) Show(ui action.UI) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.root.Props().IsVisual() {
		return nil
	}
	panel := ui.Rect(0, 0, p.cfg.Background)
	return p.root.Show(panel, p.state)
}

// Run blocks until a Go signal, then drives the main loop until a Finish
// signal is processed.
func (p *SyncProcessor) Run() {
	<-p.goCh
	p.started = time.Now()

	p.mu.Lock()
	out, err := p.root.Start(p.state)
	p.mu.Unlock()
	if err != nil {
		p.crash(err)
		return
	}
	work := p.foldOut(out)
	reentries := 0
	p.checkOver()

	for {
		if len(work) == 0 {
			p.queue.Wait()
			work = append(work, p.queue.PopAll()...)
			reentries = 0
			continue
		}

		sig := work[0]
		work = work[1:]

		if sig.Kind == SyncFinish {
			if p.callbacks != nil {
				p.callbacks.SyncComplete()
			}
			return
		}

		out, err := p.apply(sig)
		if err != nil {
			p.crash(err)
			return
		}
		if len(out) > 0 {
			if reentries < MaxQueueSize {
				reentries++
				work = append([]SyncSignal{{Kind: SyncEmit, Time: time.Since(p.started), Data: out}}, work...)
			} else {
				obslog.WithComponent("scheduler").Warn().Msg("dropping re-entrant signal: MaxQueueSize exceeded")
			}
		}
		p.checkOver()
	}
}

func (p *SyncProcessor) foldOut(out signal.Signal) []SyncSignal {
	if len(out) == 0 {
		return nil
	}
	return []SyncSignal{{Kind: SyncEmit, Time: time.Since(p.started), Data: out}}
}

func (p *SyncProcessor) apply(sig SyncSignal) (signal.Signal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch sig.Kind {
	case SyncUpdateGraph:
		return p.root.Update(action.UpdateGraph(), p.state)
	case SyncKeyPress:
		return p.root.Update(action.KeyPress(sig.Time, sig.Keys), p.state)
	case SyncEmit:
		changed := p.state.Apply(sig.Data)
		if len(changed) == 0 {
			return noSig, nil
		}
		return p.root.Update(action.StateChanged(sig.Time, changed), p.state)
	case SyncRepaint:
		return noSig, nil
	default:
		return noSig, nil
	}
}

var noSig = signal.Signal{}

// checkOver consults root.IsOver and swaps in Nil + posts BlockFinished,
// without stopping the processor's own loop.
func (p *SyncProcessor) checkOver() {
	p.mu.Lock()
	over, err := p.root.IsOver()
	if err != nil {
		p.mu.Unlock()
		p.crash(err)
		return
	}
	if !over {
		p.mu.Unlock()
		return
	}
	root := p.root
	_, _ = root.Stop(p.state)
	nilLive, nerr := mustNil(p.resMgr, p.cfg, &syncWriter{p: p}, p.aw)
	if nerr == nil {
		p.root = nilLive
	}
	p.mu.Unlock()

	if p.callbacks != nil {
		p.callbacks.BlockFinished()
	}
}

func mustNil(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	n, err := core.Default.New("nil")
	if err != nil {
		return nil, err
	}
	return n.Stateful(res, cfg, sw, aw)
}

func (p *SyncProcessor) crash(err error) {
	obslog.WithComponent("scheduler").Error().Err(err).Msg("sync processor crashed")
	if p.callbacks != nil {
		p.callbacks.BlockCrashed(err)
		p.callbacks.SyncComplete()
	}
}

// syncWriter adapts a SyncProcessor to action.SyncWriter.
type syncWriter struct {
	p *SyncProcessor
}

func (w *syncWriter) Emit(t time.Duration, sig signal.Signal) {
	w.p.Send(SyncSignal{Kind: SyncEmit, Time: t, Data: sig})
}

func (w *syncWriter) Poke() {
	w.p.Send(SyncSignal{Kind: SyncUpdateGraph})
}

func (w *syncWriter) Repaint() {
	w.p.Send(SyncSignal{Kind: SyncRepaint})
}
