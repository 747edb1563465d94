package core

import (
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("timer", func() action.Stateless { return &Timer{} })
}

// Timer captures a start timestamp and, on stop, emits elapsed duration
// (if OutDuration is set) and logs it under group "timer" with Name.
// Infinite: it never terminates itself.
type Timer struct {
	Name        string    `yaml:"name"`
	OutDuration signal.ID `yaml:"out_duration"`
}

func (t *Timer) Tag() string                            { return "timer" }
func (t *Timer) Init() (action.Stateless, error)         { return t, nil }
func (t *Timer) Resources(action.Config) []resource.Addr { return nil }
func (t *Timer) InSignals() signal.Set                   { return signal.NewSet() }
func (t *Timer) OutSignals() signal.Set {
	if t.OutDuration == signal.None {
		return signal.NewSet()
	}
	return signal.NewSet(t.OutDuration)
}

func (t *Timer) Stateful(_ *resource.Manager, cfg action.Config, _ action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	return &liveTimer{name: t.Name, outDuration: t.OutDuration, aw: aw, trigger: cfg.Trigger}, nil
}

type liveTimer struct {
	name        string
	outDuration signal.ID
	aw          action.AsyncWriter
	trigger     action.Trigger
	started     time.Time
	stopped     onceDone
}

func (l *liveTimer) Props() action.Props { return action.Infinite }

func (l *liveTimer) IsOver() (bool, error) { return false, nil }

func (l *liveTimer) Start(*signal.State) (signal.Signal, error) {
	l.started = time.Now()
	if l.trigger != nil {
		l.trigger.Fire("timer", "start", l.name)
	}
	return noSignals, nil
}

func (l *liveTimer) Update(action.ActionSignal, *signal.State) (signal.Signal, error) {
	return noSignals, nil
}

func (l *liveTimer) Show(action.UI, *signal.State) error { return nil }

func (l *liveTimer) Stop(*signal.State) (signal.Signal, error) {
	var out signal.Signal
	l.stopped.Do(func() {
		elapsed := time.Since(l.started).Seconds()
		if l.aw != nil {
			l.aw.Append("timer", l.name, signal.Float(elapsed))
		}
		if l.outDuration != signal.None {
			out = signal.Signal{l.outDuration: signal.Float(elapsed)}
		}
		if l.trigger != nil {
			l.trigger.Fire("timer", "stop", l.name)
		}
	})
	if out == nil {
		out = noSignals
	}
	return out, nil
}
