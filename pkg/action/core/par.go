package core

import (
	"fmt"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("par", func() action.Stateless { return &Par{Require: RequireAll} })
}

type Require int

const (
	RequireAll Require = iota
	RequireAny
)

// Par runs Primary and Secondary children concurrently (logically: every
// child receives every Update/Start/Stop call on the same Sync pass).
// Require All waits for every Primary child; Require Any completes as
// soon as one Primary child completes. Secondary children run alongside
// but never gate completion. Only one visual child is drawn per frame:
// the first visual Primary child, else the first visual Secondary child.
// Props is the bitwise union over still-live children.
type Par struct {
	Primary   []*action.Node `yaml:"primary"`
	Secondary []*action.Node `yaml:"secondary"`
	Require   Require        `yaml:"require"`
}

func (p *Par) Tag() string { return "par" }

func (p *Par) Children() []*action.Node {
	out := make([]*action.Node, 0, len(p.Primary)+len(p.Secondary))
	out = append(out, p.Primary...)
	out = append(out, p.Secondary...)
	return out
}

func (p *Par) Init() (action.Stateless, error) {
	if len(p.Primary) == 0 {
		return nil, fmt.Errorf("par: primary must have at least one child")
	}
	return p, nil
}

func (p *Par) Resources(cfg action.Config) []resource.Addr {
	var out []resource.Addr
	seen := map[resource.Addr]struct{}{}
	for _, c := range p.Children() {
		for _, a := range c.Value.Resources(cfg) {
			if _, ok := seen[a]; !ok {
				seen[a] = struct{}{}
				out = append(out, a)
			}
		}
	}
	return out
}

func (p *Par) InSignals() signal.Set {
	return action.DeriveSignals(p.Children(), func(v action.Stateless) signal.Set { return v.InSignals() })
}
func (p *Par) OutSignals() signal.Set {
	return action.DeriveSignals(p.Children(), func(v action.Stateless) signal.Set { return v.OutSignals() })
}

func (p *Par) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	mk := func(nodes []*action.Node) ([]action.Live, error) {
		out := make([]action.Live, len(nodes))
		for i, n := range nodes {
			live, err := n.Value.Stateful(res, cfg, sw, aw)
			if err != nil {
				return nil, err
			}
			out[i] = live
		}
		return out, nil
	}
	primary, err := mk(p.Primary)
	if err != nil {
		return nil, err
	}
	secondary, err := mk(p.Secondary)
	if err != nil {
		return nil, err
	}
	return &livePar{primary: primary, secondary: secondary, require: p.Require}, nil
}

type livePar struct {
	primary   []action.Live
	secondary []action.Live
	require   Require
	done      []bool // parallel to primary
}

func (l *livePar) all() []action.Live {
	out := make([]action.Live, 0, len(l.primary)+len(l.secondary))
	out = append(out, l.primary...)
	out = append(out, l.secondary...)
	return out
}

func (l *livePar) Props() action.Props {
	var props action.Props
	for _, c := range l.all() {
		props = props.Union(c.Props())
	}
	return props
}

func (l *livePar) IsOver() (bool, error) {
	if l.require == RequireAny {
		for _, d := range l.done {
			if d {
				return true, nil
			}
		}
		return false, nil
	}
	for _, d := range l.done {
		if !d {
			return false, nil
		}
	}
	return true, nil
}

func (l *livePar) Start(state *signal.State) (signal.Signal, error) {
	l.done = make([]bool, len(l.primary))
	out := signal.Signal{}
	for _, c := range l.all() {
		sig, err := c.Start(state)
		if err != nil {
			return out, err
		}
		out = out.Merge(sig)
	}
	if len(out) > 0 {
		state.Apply(out)
	}
	if err := l.refreshDone(); err != nil {
		return out, err
	}
	return out, nil
}

func (l *livePar) refreshDone() error {
	for i, c := range l.primary {
		if l.done[i] {
			continue
		}
		over, err := c.IsOver()
		if err != nil {
			return err
		}
		l.done[i] = over
	}
	return nil
}

func (l *livePar) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	out := signal.Signal{}
	for _, c := range l.all() {
		s, err := c.Update(sig, state)
		if err != nil {
			return out, err
		}
		out = out.Merge(s)
	}
	if len(out) > 0 {
		state.Apply(out)
	}
	if err := l.refreshDone(); err != nil {
		return out, err
	}
	return out, nil
}

func (l *livePar) Show(ui action.UI, state *signal.State) error {
	for _, c := range l.primary {
		if c.Props().IsVisual() {
			return c.Show(ui, state)
		}
	}
	for _, c := range l.secondary {
		if c.Props().IsVisual() {
			return c.Show(ui, state)
		}
	}
	return nil
}

func (l *livePar) Stop(state *signal.State) (signal.Signal, error) {
	out := signal.Signal{}
	for _, c := range l.all() {
		s, err := c.Stop(state)
		if err != nil {
			return out, err
		}
		out = out.Merge(s)
	}
	return out, nil
}
