package core

import (
	"fmt"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("switch", func() action.Stateless { return &Switch{} })
}

// Switch reads Control and dispatches to exactly one child; once a final
// child is picked the branch is irrevocable. If Control is never set by
// start the Default index is used.
type Switch struct {
	Control  signal.ID      `yaml:"control"`
	Default  int            `yaml:"default"`
	Items    []*action.Node `yaml:"children"`
}

func (s *Switch) Tag() string              { return "switch" }
func (s *Switch) Children() []*action.Node { return s.Items }

func (s *Switch) Init() (action.Stateless, error) {
	if s.Default < 0 || s.Default >= len(s.Items) {
		return nil, fmt.Errorf("switch: default %d out of range [0,%d)", s.Default, len(s.Items))
	}
	return s, nil
}

func (s *Switch) Resources(cfg action.Config) []resource.Addr {
	var out []resource.Addr
	seen := map[resource.Addr]struct{}{}
	for _, c := range s.Items {
		for _, a := range c.Value.Resources(cfg) {
			if _, ok := seen[a]; !ok {
				seen[a] = struct{}{}
				out = append(out, a)
			}
		}
	}
	return out
}

func (s *Switch) InSignals() signal.Set {
	set := action.DeriveSignals(s.Items, func(v action.Stateless) signal.Set { return v.InSignals() })
	if s.Control != signal.None {
		set.Add(s.Control)
	}
	return set
}
func (s *Switch) OutSignals() signal.Set {
	return action.DeriveSignals(s.Items, func(v action.Stateless) signal.Set { return v.OutSignals() })
}

func (s *Switch) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	return &liveSwitch{
		nodes:   s.Items,
		control: s.Control,
		dflt:    s.Default,
		res:     res, cfg: cfg, sw: sw, aw: aw,
		picked: -1,
	}, nil
}

type liveSwitch struct {
	nodes   []*action.Node
	control signal.ID
	dflt    int
	res     *resource.Manager
	cfg     action.Config
	sw      action.SyncWriter
	aw      action.AsyncWriter

	picked int
	live   action.Live
}

func (l *liveSwitch) Props() action.Props {
	if l.live != nil {
		return l.live.Props()
	}
	return 0
}

func (l *liveSwitch) IsOver() (bool, error) {
	if l.live == nil {
		return false, nil
	}
	return l.live.IsOver()
}

func (l *liveSwitch) pick(idx int, state *signal.State) (signal.Signal, error) {
	l.picked = idx
	live, err := l.nodes[idx].Value.Stateful(l.res, l.cfg, l.sw, l.aw)
	if err != nil {
		return noSignals, err
	}
	l.live = live
	return l.live.Start(state)
}

func (l *liveSwitch) Start(state *signal.State) (signal.Signal, error) {
	idx := l.dflt
	if l.control != signal.None {
		if v, ok := state.Get(l.control); ok {
			if n, ok := v.AsInt(); ok && int(n) >= 0 && int(n) < len(l.nodes) {
				idx = int(n)
			}
		}
	}
	return l.pick(idx, state)
}

func (l *liveSwitch) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if l.live == nil {
		return noSignals, nil
	}
	return l.live.Update(sig, state)
}

func (l *liveSwitch) Show(ui action.UI, state *signal.State) error {
	if l.live == nil {
		return nil
	}
	return l.live.Show(ui, state)
}

func (l *liveSwitch) Stop(state *signal.State) (signal.Signal, error) {
	if l.live == nil {
		return noSignals, nil
	}
	return l.live.Stop(state)
}
