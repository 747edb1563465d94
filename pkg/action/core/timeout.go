package core

import (
	"fmt"
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("timeout", func() action.Stateless { return &Timeout{} })
}

// Timeout starts Inner immediately and also schedules a Dur deadline;
// whichever fires first terminates the node. Clears Inner's infinite
// flag.
type Timeout struct {
	Dur   float64      `yaml:"dur"`
	Inner *action.Node `yaml:"inner"`
}

func (t *Timeout) Tag() string              { return "timeout" }
func (t *Timeout) Children() []*action.Node { return []*action.Node{t.Inner} }

func (t *Timeout) Init() (action.Stateless, error) {
	if t.Dur < 0 {
		return nil, fmt.Errorf("timeout: dur must be >= 0, got %v", t.Dur)
	}
	if t.Inner == nil || t.Inner.Value == nil {
		return nil, fmt.Errorf("timeout: inner is required")
	}
	return t, nil
}

func (t *Timeout) Resources(cfg action.Config) []resource.Addr { return t.Inner.Value.Resources(cfg) }
func (t *Timeout) InSignals() signal.Set                       { return t.Inner.Value.InSignals() }
func (t *Timeout) OutSignals() signal.Set                      { return t.Inner.Value.OutSignals() }

func (t *Timeout) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	inner, err := t.Inner.Value.Stateful(res, cfg, sw, aw)
	if err != nil {
		return nil, err
	}
	return &liveTimeout{
		dur:   time.Duration(t.Dur * float64(time.Second)),
		inner: inner,
		sw:    sw,
	}, nil
}

type liveTimeout struct {
	dur     time.Duration
	inner   action.Live
	sw      action.SyncWriter
	expired flag
	stop    *stopSignal
}

func (l *liveTimeout) Props() action.Props {
	return l.inner.Props() &^ action.Infinite
}

func (l *liveTimeout) IsOver() (bool, error) {
	if l.expired.Get() {
		return true, nil
	}
	return l.inner.IsOver()
}

func (l *liveTimeout) Start(state *signal.State) (signal.Signal, error) {
	l.stop = newStopSignal()
	go func() {
		t := time.NewTimer(l.dur)
		defer t.Stop()
		select {
		case <-t.C:
			l.expired.Set(true)
			l.sw.Poke()
		case <-l.stop.Done():
		}
	}()
	return l.inner.Start(state)
}

func (l *liveTimeout) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if l.expired.Get() {
		return noSignals, nil
	}
	return l.inner.Update(sig, state)
}

func (l *liveTimeout) Show(ui action.UI, state *signal.State) error {
	return l.inner.Show(ui, state)
}

func (l *liveTimeout) Stop(state *signal.State) (signal.Signal, error) {
	if l.stop != nil {
		l.stop.Stop()
	}
	return l.inner.Stop(state)
}
