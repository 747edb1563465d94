package core

import (
	"fmt"
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("wait", func() action.Stateless { return &Wait{} })
}

// Wait sleeps for Duration seconds, then posts UpdateGraph so the tree
// re-checks completion. Non-visual.
type Wait struct {
	Duration float64 `yaml:"duration"`
}

func (w *Wait) Tag() string { return "wait" }

func (w *Wait) Init() (action.Stateless, error) {
	if w.Duration < 0 {
		return nil, fmt.Errorf("wait: duration must be >= 0, got %v", w.Duration)
	}
	return w, nil
}

func (w *Wait) Resources(action.Config) []resource.Addr { return nil }
func (w *Wait) InSignals() signal.Set                   { return signal.NewSet() }
func (w *Wait) OutSignals() signal.Set                  { return signal.NewSet() }

func (w *Wait) Stateful(_ *resource.Manager, _ action.Config, sw action.SyncWriter, _ action.AsyncWriter) (action.Live, error) {
	return &liveWait{duration: time.Duration(w.Duration * float64(time.Second)), sw: sw}, nil
}

type liveWait struct {
	duration time.Duration
	sw       action.SyncWriter
	stop     *stopSignal
	fired    flag
}

func (l *liveWait) Props() action.Props { return 0 }

func (l *liveWait) IsOver() (bool, error) { return l.fired.Get(), nil }

func (l *liveWait) Start(*signal.State) (signal.Signal, error) {
	l.stop = newStopSignal()
	go func() {
		t := time.NewTimer(l.duration)
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

func (l *liveWait) Update(action.ActionSignal, *signal.State) (signal.Signal, error) {
	return noSignals, nil
}

func (l *liveWait) Show(action.UI, *signal.State) error { return nil }

func (l *liveWait) Stop(*signal.State) (signal.Signal, error) {
	if l.stop != nil {
		l.stop.Stop()
	}
	return noSignals, nil
}
