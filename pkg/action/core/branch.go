package core

import (
	"fmt"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("branch", func() action.Stateless { return &Branch{} })
}

// Branch is like Switch but keyed on InControl: it accepts integer
// updates on that id until it starts, at which point whichever value was
// last observed (or Default if none arrived) is picked irrevocably.
type Branch struct {
	Default   int            `yaml:"default"`
	Items     []*action.Node `yaml:"children"`
	InControl signal.ID      `yaml:"in_control"`
}

func (b *Branch) Tag() string              { return "branch" }
func (b *Branch) Children() []*action.Node { return b.Items }

func (b *Branch) Init() (action.Stateless, error) {
	if b.Default < 0 || b.Default >= len(b.Items) {
		return nil, fmt.Errorf("branch: default %d out of range [0,%d)", b.Default, len(b.Items))
	}
	return b, nil
}

func (b *Branch) Resources(cfg action.Config) []resource.Addr {
	var out []resource.Addr
	seen := map[resource.Addr]struct{}{}
	for _, c := range b.Items {
		for _, a := range c.Value.Resources(cfg) {
			if _, ok := seen[a]; !ok {
				seen[a] = struct{}{}
				out = append(out, a)
			}
		}
	}
	return out
}

func (b *Branch) InSignals() signal.Set {
	set := action.DeriveSignals(b.Items, func(v action.Stateless) signal.Set { return v.InSignals() })
	set.Add(b.InControl)
	return set
}
func (b *Branch) OutSignals() signal.Set {
	return action.DeriveSignals(b.Items, func(v action.Stateless) signal.Set { return v.OutSignals() })
}

func (b *Branch) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	return &liveBranch{
		nodes: b.Items, control: b.InControl, dflt: b.Default,
		pending: b.Default,
		res:     res, cfg: cfg, sw: sw, aw: aw,
	}, nil
}

type liveBranch struct {
	nodes   []*action.Node
	control signal.ID
	dflt    int
	pending int
	res     *resource.Manager
	cfg     action.Config
	sw      action.SyncWriter
	aw      action.AsyncWriter

	live action.Live
}

func (l *liveBranch) Props() action.Props {
	if l.live != nil {
		return l.live.Props()
	}
	return 0
}

func (l *liveBranch) IsOver() (bool, error) {
	if l.live == nil {
		return false, nil
	}
	return l.live.IsOver()
}

func (l *liveBranch) Start(state *signal.State) (signal.Signal, error) {
	idx := l.pending
	if idx < 0 || idx >= len(l.nodes) {
		idx = l.dflt
	}
	live, err := l.nodes[idx].Value.Stateful(l.res, l.cfg, l.sw, l.aw)
	if err != nil {
		return noSignals, err
	}
	l.live = live
	return l.live.Start(state)
}

func (l *liveBranch) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if l.live == nil {
		if sig.Kind == action.SigStateChanged && sig.Changed.Has(l.control) {
			if v, ok := state.Get(l.control); ok {
				if n, ok := v.AsInt(); ok {
					l.pending = int(n)
				}
			}
		}
		return noSignals, nil
	}
	return l.live.Update(sig, state)
}

func (l *liveBranch) Show(ui action.UI, state *signal.State) error {
	if l.live == nil {
		return nil
	}
	return l.live.Show(ui, state)
}

func (l *liveBranch) Stop(state *signal.State) (signal.Signal, error) {
	if l.live == nil {
		return noSignals, nil
	}
	return l.live.Stop(state)
}
