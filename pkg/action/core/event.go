package core

import (
	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("event", func() action.Stateless { return &Event{} })
}

// Event logs name->"start" on start and name->"stop" on stop. It carries
// no other behavior; it exists so a block's timeline can be reconstructed
// from the log alone.
type Event struct {
	Name string `yaml:"name"`
}

func (e *Event) Tag() string                            { return "event" }
func (e *Event) Init() (action.Stateless, error)         { return e, nil }
func (e *Event) Resources(action.Config) []resource.Addr { return nil }
func (e *Event) InSignals() signal.Set                   { return signal.NewSet() }
func (e *Event) OutSignals() signal.Set                  { return signal.NewSet() }

func (e *Event) Stateful(_ *resource.Manager, cfg action.Config, _ action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	return &liveEvent{name: e.Name, aw: aw, trigger: cfg.Trigger}, nil
}

type liveEvent struct {
	name    string
	aw      action.AsyncWriter
	trigger action.Trigger
	done    bool
	stopped onceDone
}

func (l *liveEvent) Props() action.Props { return 0 }

func (l *liveEvent) IsOver() (bool, error) { return l.done, nil }

func (l *liveEvent) Start(*signal.State) (signal.Signal, error) {
	if l.aw != nil {
		l.aw.Append("event", l.name, signal.Text("start"))
	}
	if l.trigger != nil {
		l.trigger.Fire("event", "start", l.name)
	}
	l.done = true
	return noSignals, nil
}

func (l *liveEvent) Update(action.ActionSignal, *signal.State) (signal.Signal, error) {
	return noSignals, nil
}

func (l *liveEvent) Show(action.UI, *signal.State) error { return nil }

func (l *liveEvent) Stop(*signal.State) (signal.Signal, error) {
	l.stopped.Do(func() {
		if l.aw != nil {
			l.aw.Append("event", l.name, signal.Text("stop"))
		}
		if l.trigger != nil {
			l.trigger.Fire("event", "stop", l.name)
		}
	})
	return noSignals, nil
}
