package core

import (
	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("view", func() action.Stateless { return &View{} })
}

// View runs every child in parallel but displays only the one indexed by
// InControl (falling back to Default until InControl is set). Completes
// when the currently-selected child completes.
type View struct {
	Default   int            `yaml:"default"`
	Items     []*action.Node `yaml:"children"`
	InControl signal.ID      `yaml:"in_control"`
}

func (v *View) Tag() string              { return "view" }
func (v *View) Children() []*action.Node { return v.Items }

func (v *View) Init() (action.Stateless, error) { return v, nil }

func (v *View) Resources(cfg action.Config) []resource.Addr {
	var out []resource.Addr
	seen := map[resource.Addr]struct{}{}
	for _, c := range v.Items {
		for _, a := range c.Value.Resources(cfg) {
			if _, ok := seen[a]; !ok {
				seen[a] = struct{}{}
				out = append(out, a)
			}
		}
	}
	return out
}

func (v *View) InSignals() signal.Set {
	set := action.DeriveSignals(v.Items, func(s action.Stateless) signal.Set { return s.InSignals() })
	set.Add(v.InControl)
	return set
}
func (v *View) OutSignals() signal.Set {
	return action.DeriveSignals(v.Items, func(s action.Stateless) signal.Set { return s.OutSignals() })
}

func (v *View) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	children := make([]action.Live, len(v.Items))
	for i, c := range v.Items {
		live, err := c.Value.Stateful(res, cfg, sw, aw)
		if err != nil {
			return nil, err
		}
		children[i] = live
	}
	return &liveView{children: children, control: v.InControl, selected: v.Default}, nil
}

type liveView struct {
	children []action.Live
	control  signal.ID
	selected int
}

func (l *liveView) current() action.Live {
	if l.selected < 0 || l.selected >= len(l.children) {
		return nil
	}
	return l.children[l.selected]
}

func (l *liveView) Props() action.Props {
	var props action.Props
	for _, c := range l.children {
		props = props.Union(c.Props())
	}
	return props
}

func (l *liveView) IsOver() (bool, error) {
	c := l.current()
	if c == nil {
		return true, nil
	}
	return c.IsOver()
}

func (l *liveView) Start(state *signal.State) (signal.Signal, error) {
	out := signal.Signal{}
	for _, c := range l.children {
		s, err := c.Start(state)
		if err != nil {
			return out, err
		}
		out = out.Merge(s)
	}
	if len(out) > 0 {
		state.Apply(out)
	}
	return out, nil
}

func (l *liveView) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if sig.Kind == action.SigStateChanged && sig.Changed.Has(l.control) {
		if v, ok := state.Get(l.control); ok {
			if n, ok := v.AsInt(); ok && int(n) >= 0 && int(n) < len(l.children) {
				l.selected = int(n)
			}
		}
	}
	out := signal.Signal{}
	for _, c := range l.children {
		s, err := c.Update(sig, state)
		if err != nil {
			return out, err
		}
		out = out.Merge(s)
	}
	if len(out) > 0 {
		state.Apply(out)
	}
	return out, nil
}

func (l *liveView) Show(ui action.UI, state *signal.State) error {
	c := l.current()
	if c == nil {
		return nil
	}
	return c.Show(ui, state)
}

func (l *liveView) Stop(state *signal.State) (signal.Signal, error) {
	out := signal.Signal{}
	for _, c := range l.children {
		s, err := c.Stop(state)
		if err != nil {
			return out, err
		}
		out = out.Merge(s)
	}
	return out, nil
}
