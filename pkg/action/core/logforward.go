package core

import (
	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("logger", func() action.Stateless { return &LogForward{} })
}

// LogForward is the "logger" combinator: on StateChanged
// it forwards every mapped id's value into the data logger under Group.
// Infinite. Distinct from pkg/datalog.Logger, the component it forwards
// into.
type LogForward struct {
	Group     string               `yaml:"group"`
	InMapping map[signal.ID]string `yaml:"in_mapping"`
}

func (l *LogForward) Tag() string                            { return "logger" }
func (l *LogForward) Init() (action.Stateless, error)         { return l, nil }
func (l *LogForward) Resources(action.Config) []resource.Addr { return nil }

func (l *LogForward) InSignals() signal.Set {
	ids := make([]signal.ID, 0, len(l.InMapping))
	for id := range l.InMapping {
		ids = append(ids, id)
	}
	return signal.NewSet(ids...)
}
func (l *LogForward) OutSignals() signal.Set { return signal.NewSet() }

func (l *LogForward) Stateful(_ *resource.Manager, _ action.Config, _ action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	return &liveLogForward{group: l.Group, mapping: l.InMapping, aw: aw}, nil
}

type liveLogForward struct {
	group   string
	mapping map[signal.ID]string
	aw      action.AsyncWriter
}

func (l *liveLogForward) Props() action.Props { return action.Infinite }

func (l *liveLogForward) IsOver() (bool, error) { return false, nil }

func (l *liveLogForward) Start(*signal.State) (signal.Signal, error) { return noSignals, nil }

func (l *liveLogForward) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if sig.Kind != action.SigStateChanged || l.aw == nil {
		return noSignals, nil
	}
	for id := range sig.Changed {
		name, ok := l.mapping[id]
		if !ok {
			continue
		}
		l.aw.Append(l.group, name, state.GetOr(id))
	}
	return noSignals, nil
}

func (l *liveLogForward) Show(action.UI, *signal.State) error { return nil }

func (l *liveLogForward) Stop(*signal.State) (signal.Signal, error) { return noSignals, nil }
