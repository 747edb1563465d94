package core

import (
	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("repeat", func() action.Stateless { return &Repeat{Prefetch: 1} })
}

// Repeat runs Inner; when it completes, swaps in a fresh instance drawn
// from a queue a background goroutine keeps topped up to Prefetch depth,
// by repeatedly re-materializing Inner's Stateless blueprint via
// Stateful. Always infinite.
type Repeat struct {
	Inner    *action.Node `yaml:"inner"`
	Prefetch int          `yaml:"prefetch"`
}

func (r *Repeat) Tag() string              { return "repeat" }
func (r *Repeat) Children() []*action.Node { return []*action.Node{r.Inner} }

func (r *Repeat) Init() (action.Stateless, error) {
	if r.Prefetch <= 0 {
		r.Prefetch = 1
	}
	return r, nil
}

func (r *Repeat) Resources(cfg action.Config) []resource.Addr { return r.Inner.Value.Resources(cfg) }
func (r *Repeat) InSignals() signal.Set                       { return r.Inner.Value.InSignals() }
func (r *Repeat) OutSignals() signal.Set                      { return r.Inner.Value.OutSignals() }

func (r *Repeat) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	lr := &liveRepeat{
		blueprint: r.Inner.Value,
		res:       res, cfg: cfg, sw: sw, aw: aw,
		ready: make(chan action.Live, r.Prefetch),
		stop:  newStopSignal(),
	}
	go lr.prefetchLoop()
	return lr, nil
}

type liveRepeat struct {
	blueprint action.Stateless
	res       *resource.Manager
	cfg       action.Config
	sw        action.SyncWriter
	aw        action.AsyncWriter

	ready chan action.Live
	stop  *stopSignal
	err   workerErr

	current action.Live
}

// prefetchLoop keeps the ready channel topped up by materializing fresh
// Live instances from the shared blueprint until Stop closes stop.
func (r *liveRepeat) prefetchLoop() {
	for {
		live, err := r.blueprint.Stateful(r.res, r.cfg, r.sw, r.aw)
		if err != nil {
			r.err.Set(err)
			r.sw.Poke()
			return
		}
		select {
		case r.ready <- live:
		case <-r.stop.Done():
			return
		}
	}
}

func (r *liveRepeat) Props() action.Props { return action.Infinite }

func (r *liveRepeat) IsOver() (bool, error) {
	if err := r.err.Get(); err != nil {
		return true, err
	}
	return false, nil
}

func (r *liveRepeat) swap(state *signal.State) (signal.Signal, error) {
	select {
	case next := <-r.ready:
		r.current = next
		return r.current.Start(state)
	case <-r.stop.Done():
		return noSignals, nil
	}
}

func (r *liveRepeat) Start(state *signal.State) (signal.Signal, error) {
	return r.swap(state)
}

func (r *liveRepeat) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if r.current == nil {
		return noSignals, nil
	}
	out, err := r.current.Update(sig, state)
	if err != nil {
		return out, err
	}
	if len(out) > 0 {
		state.Apply(out)
	}
	over, err := r.current.IsOver()
	if err != nil {
		return out, err
	}
	if !over {
		return out, nil
	}
	stopSig, err := r.current.Stop(state)
	if err != nil {
		return out, err
	}
	out = out.Merge(stopSig)
	swapSig, err := r.swap(state)
	if err != nil {
		return out, err
	}
	return out.Merge(swapSig), nil
}

func (r *liveRepeat) Show(ui action.UI, state *signal.State) error {
	if r.current == nil {
		return nil
	}
	return r.current.Show(ui, state)
}

func (r *liveRepeat) Stop(state *signal.State) (signal.Signal, error) {
	r.stop.Stop()
	if r.current == nil {
		return noSignals, nil
	}
	return r.current.Stop(state)
}
