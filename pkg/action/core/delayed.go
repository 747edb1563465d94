package core

import (
	"fmt"
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("delayed", func() action.Stateless { return &Delayed{} })
}

// Delayed does nothing for Dur, then starts Inner; before Inner starts
// Delayed is non-visual and finite, after that its props are Inner's.
type Delayed struct {
	Dur   float64      `yaml:"dur"`
	Inner *action.Node `yaml:"inner"`
}

func (d *Delayed) Tag() string              { return "delayed" }
func (d *Delayed) Children() []*action.Node { return []*action.Node{d.Inner} }

func (d *Delayed) Init() (action.Stateless, error) {
	if d.Dur < 0 {
		return nil, fmt.Errorf("delayed: dur must be >= 0, got %v", d.Dur)
	}
	if d.Inner == nil || d.Inner.Value == nil {
		return nil, fmt.Errorf("delayed: inner is required")
	}
	return d, nil
}

func (d *Delayed) Resources(cfg action.Config) []resource.Addr { return d.Inner.Value.Resources(cfg) }
func (d *Delayed) InSignals() signal.Set                       { return d.Inner.Value.InSignals() }
func (d *Delayed) OutSignals() signal.Set                      { return d.Inner.Value.OutSignals() }

func (d *Delayed) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	inner, err := d.Inner.Value.Stateful(res, cfg, sw, aw)
	if err != nil {
		return nil, err
	}
	return &liveDelayed{
		dur:   time.Duration(d.Dur * float64(time.Second)),
		inner: inner,
		sw:    sw,
	}, nil
}

type liveDelayed struct {
	dur     time.Duration
	inner   action.Live
	sw      action.SyncWriter
	fired   flag
	started bool
	stop    *stopSignal
}

func (l *liveDelayed) Props() action.Props {
	if !l.started {
		return 0
	}
	return l.inner.Props()
}

func (l *liveDelayed) IsOver() (bool, error) {
	if !l.started {
		return false, nil
	}
	return l.inner.IsOver()
}

func (l *liveDelayed) Start(state *signal.State) (signal.Signal, error) {
	l.stop = newStopSignal()
	go func() {
		t := time.NewTimer(l.dur)
		defer t.Stop()
		select {
		case <-t.C:
			l.fired.Set(true)
			l.sw.Poke()
		case <-l.stop.Done():
		}
	}()
	return noSignals, nil
}

func (l *liveDelayed) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if !l.started {
		if !l.fired.Get() {
			return noSignals, nil
		}
		l.started = true
		return l.inner.Start(state)
	}
	return l.inner.Update(sig, state)
}

func (l *liveDelayed) Show(ui action.UI, state *signal.State) error {
	if !l.started {
		return nil
	}
	return l.inner.Show(ui, state)
}

func (l *liveDelayed) Stop(state *signal.State) (signal.Signal, error) {
	if l.stop != nil {
		l.stop.Stop()
	}
	if !l.started {
		return noSignals, nil
	}
	return l.inner.Stop(state)
}
