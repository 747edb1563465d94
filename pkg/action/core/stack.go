package core

import (
	"fmt"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("stack", func() action.Stateless { return &Stack{} })
}

type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// Stack lays out its visual children along Direction; Proportions is
// either empty (equal split) or a vector the same length as Children
// whose sum is <= 1. Completes when every child completes.
type Stack struct {
	Items       []*action.Node `yaml:"children"`
	Direction   Direction      `yaml:"direction"`
	Proportions []float64      `yaml:"proportions"`
}

func (s *Stack) Tag() string              { return "stack" }
func (s *Stack) Children() []*action.Node { return s.Items }

func (s *Stack) Init() (action.Stateless, error) {
	if len(s.Proportions) != 0 {
		if len(s.Proportions) != len(s.Items) {
			return nil, fmt.Errorf("stack: proportions length %d must equal children length %d", len(s.Proportions), len(s.Items))
		}
		sum := 0.0
		for _, p := range s.Proportions {
			sum += p
		}
		if sum > 1.0000001 {
			return nil, fmt.Errorf("stack: proportions must sum to <= 1, got %v", sum)
		}
	}
	return s, nil
}

func (s *Stack) Resources(cfg action.Config) []resource.Addr {
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

func (s *Stack) InSignals() signal.Set {
	return action.DeriveSignals(s.Items, func(v action.Stateless) signal.Set { return v.InSignals() })
}
func (s *Stack) OutSignals() signal.Set {
	return action.DeriveSignals(s.Items, func(v action.Stateless) signal.Set { return v.OutSignals() })
}

func (s *Stack) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	children := make([]action.Live, len(s.Items))
	for i, c := range s.Items {
		live, err := c.Value.Stateful(res, cfg, sw, aw)
		if err != nil {
			return nil, err
		}
		children[i] = live
	}
	proportions := s.Proportions
	if len(proportions) == 0 {
		proportions = make([]float64, len(children))
		if len(children) > 0 {
			each := 1.0 / float64(len(children))
			for i := range proportions {
				proportions[i] = each
			}
		}
	}
	return &liveStack{children: children, direction: s.Direction, proportions: proportions}, nil
}

type liveStack struct {
	children    []action.Live
	direction   Direction
	proportions []float64
	done        []bool
}

func (l *liveStack) Props() action.Props {
	var props action.Props
	for _, c := range l.children {
		props = props.Union(c.Props())
	}
	return props
}

func (l *liveStack) IsOver() (bool, error) {
	for _, d := range l.done {
		if !d {
			return false, nil
		}
	}
	return true, nil
}

func (l *liveStack) refreshDone() error {
	for i, c := range l.children {
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

func (l *liveStack) Start(state *signal.State) (signal.Signal, error) {
	l.done = make([]bool, len(l.children))
	out := signal.Signal{}
	for _, c := range l.children {
		sig, err := c.Start(state)
		if err != nil {
			return out, err
		}
		out = out.Merge(sig)
	}
	if len(out) > 0 {
		state.Apply(out)
	}
	return out, l.refreshDone()
}

func (l *liveStack) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
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
	return out, l.refreshDone()
}

func (l *liveStack) Show(ui action.UI, state *signal.State) error {
	// Width/height of 0 delegates sizing to the UI layer, which knows the
	// available extent and direction/proportions this pass doesn't.
	for _, c := range l.children {
		if !c.Props().IsVisual() {
			continue
		}
		if err := c.Show(ui.Rect(0, 0, ""), state); err != nil {
			return err
		}
	}
	return nil
}

func (l *liveStack) Stop(state *signal.State) (signal.Signal, error) {
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
