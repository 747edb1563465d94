package core

import (
	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("merge", func() action.Stateless { return &Merge{} })
}

// Merge forwards any update on any InMany id into OutOne on StateChanged.
// Infinite.
type Merge struct {
	InMany []signal.ID `yaml:"in_many"`
	OutOne signal.ID   `yaml:"out_one"`
}

func (m *Merge) Tag() string                            { return "merge" }
func (m *Merge) Init() (action.Stateless, error)         { return m, nil }
func (m *Merge) Resources(action.Config) []resource.Addr { return nil }
func (m *Merge) InSignals() signal.Set                   { return signal.NewSet(m.InMany...) }
func (m *Merge) OutSignals() signal.Set                  { return signal.NewSet(m.OutOne) }

func (m *Merge) Stateful(_ *resource.Manager, _ action.Config, _ action.SyncWriter, _ action.AsyncWriter) (action.Live, error) {
	return &liveMerge{in: signal.NewSet(m.InMany...), out: m.OutOne}, nil
}

type liveMerge struct {
	in  signal.Set
	out signal.ID
}

func (l *liveMerge) Props() action.Props { return action.Infinite }

func (l *liveMerge) IsOver() (bool, error) { return false, nil }

func (l *liveMerge) Start(*signal.State) (signal.Signal, error) { return noSignals, nil }

func (l *liveMerge) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if sig.Kind != action.SigStateChanged {
		return noSignals, nil
	}
	for id := range sig.Changed {
		if l.in.Has(id) {
			return signal.Signal{l.out: state.GetOr(id)}, nil
		}
	}
	return noSignals, nil
}

func (l *liveMerge) Show(action.UI, *signal.State) error { return nil }

func (l *liveMerge) Stop(*signal.State) (signal.Signal, error) { return noSignals, nil }
