package core

import (
	"fmt"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("until", func() action.Stateless { return &Until{} })
}

// Until runs Inner until either InEvent is produced or InCondition
// becomes truthy; at least one of the two must be configured. The moment
// the trigger fires it completes without invoking Inner.Update further.
type Until struct {
	Inner       *action.Node `yaml:"inner"`
	InEvent     signal.ID    `yaml:"in_event"`
	InCondition signal.ID    `yaml:"in_condition"`
}

func (u *Until) Tag() string              { return "until" }
func (u *Until) Children() []*action.Node { return []*action.Node{u.Inner} }

func (u *Until) Init() (action.Stateless, error) {
	if u.InEvent == signal.None && u.InCondition == signal.None {
		return nil, fmt.Errorf("until: at least one of in_event/in_condition is required")
	}
	if u.Inner == nil || u.Inner.Value == nil {
		return nil, fmt.Errorf("until: inner is required")
	}
	return u, nil
}

func (u *Until) Resources(cfg action.Config) []resource.Addr { return u.Inner.Value.Resources(cfg) }

func (u *Until) InSignals() signal.Set {
	set := u.Inner.Value.InSignals()
	if u.InEvent != signal.None {
		set.Add(u.InEvent)
	}
	if u.InCondition != signal.None {
		set.Add(u.InCondition)
	}
	return set
}
func (u *Until) OutSignals() signal.Set { return u.Inner.Value.OutSignals() }

func (u *Until) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	inner, err := u.Inner.Value.Stateful(res, cfg, sw, aw)
	if err != nil {
		return nil, err
	}
	return &liveUntil{inner: inner, inEvent: u.InEvent, inCondition: u.InCondition}, nil
}

type liveUntil struct {
	inner       action.Live
	inEvent     signal.ID
	inCondition signal.ID
	triggered   bool
}

func (l *liveUntil) Props() action.Props { return l.inner.Props() }

func (l *liveUntil) IsOver() (bool, error) {
	if l.triggered {
		return true, nil
	}
	return l.inner.IsOver()
}

func (l *liveUntil) Start(state *signal.State) (signal.Signal, error) {
	if l.inCondition != signal.None {
		if v, ok := state.Get(l.inCondition); ok && v.Truthy() {
			l.triggered = true
		}
	}
	if l.triggered {
		return noSignals, nil
	}
	return l.inner.Start(state)
}

func (l *liveUntil) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if l.triggered {
		return noSignals, nil
	}
	if sig.Kind == action.SigStateChanged {
		if l.inEvent != signal.None && sig.Changed.Has(l.inEvent) {
			l.triggered = true
			return noSignals, nil
		}
		if l.inCondition != signal.None && sig.Changed.Has(l.inCondition) {
			if v, ok := state.Get(l.inCondition); ok && v.Truthy() {
				l.triggered = true
				return noSignals, nil
			}
		}
	}
	return l.inner.Update(sig, state)
}

func (l *liveUntil) Show(ui action.UI, state *signal.State) error {
	if l.triggered {
		return nil
	}
	return l.inner.Show(ui, state)
}

func (l *liveUntil) Stop(state *signal.State) (signal.Signal, error) {
	return l.inner.Stop(state)
}
