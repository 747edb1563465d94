package core

import (
	"fmt"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("seq", func() action.Stateless { return &Seq{} })
}

// Seq runs its children in order; exactly one is live at a time. Only the
// last child may be infinite. Props and IsOver mirror whichever child is
// currently live; Seq completes when the last child completes.
type Seq struct {
	Items []*action.Node `yaml:"children"`
}

func (s *Seq) Tag() string                   { return "seq" }
func (s *Seq) Children() []*action.Node      { return s.Items }

func (s *Seq) Init() (action.Stateless, error) {
	// Children are already Init'd bottom-up by action.InitTree via the
	// Parent interface before this runs; only validate shape here.
	for i, c := range s.Items {
		if c == nil || c.Value == nil {
			return nil, fmt.Errorf("seq: child %d is nil", i)
		}
	}
	// "Only the last child may be infinite" is a runtime property (Props
	// is only known on the live instance); task authors are responsible
	// for it and a violation simply means the sequence stalls on a child
	// that never completes, rather than a detectable init-time error.
	return s, nil
}

func (s *Seq) Resources(cfg action.Config) []resource.Addr {
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

func (s *Seq) InSignals() signal.Set {
	return action.DeriveSignals(s.Items, func(v action.Stateless) signal.Set { return v.InSignals() })
}
func (s *Seq) OutSignals() signal.Set {
	return action.DeriveSignals(s.Items, func(v action.Stateless) signal.Set { return v.OutSignals() })
}

func (s *Seq) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	children := make([]action.Live, len(s.Items))
	for i, c := range s.Items {
		live, err := c.Value.Stateful(res, cfg, sw, aw)
		if err != nil {
			return nil, err
		}
		children[i] = live
	}
	return &liveSeq{children: children}, nil
}

type liveSeq struct {
	children []action.Live
	idx      int
}

func (l *liveSeq) current() action.Live {
	if l.idx >= len(l.children) {
		return nil
	}
	return l.children[l.idx]
}

func (l *liveSeq) Props() action.Props {
	if c := l.current(); c != nil {
		return c.Props()
	}
	return 0
}

func (l *liveSeq) IsOver() (bool, error) {
	return l.idx >= len(l.children), nil
}

// advance pops any completed children, calling Stop/Start as it moves the
// cursor forward, and accumulates the signals those calls produce.
func (l *liveSeq) advance(state *signal.State) (signal.Signal, error) {
	out := signal.Signal{}
	for {
		c := l.current()
		if c == nil {
			return out, nil
		}
		over, err := c.IsOver()
		if err != nil {
			return out, err
		}
		if !over {
			return out, nil
		}
		stopSig, err := c.Stop(state)
		if err != nil {
			return out, err
		}
		out = out.Merge(stopSig)
		l.idx++
		next := l.current()
		if next == nil {
			return out, nil
		}
		startSig, err := next.Start(state)
		if err != nil {
			return out, err
		}
		out = out.Merge(startSig)
	}
}

func (l *liveSeq) Start(state *signal.State) (signal.Signal, error) {
	if len(l.children) == 0 {
		l.idx = 0
		return noSignals, nil
	}
	startSig, err := l.children[0].Start(state)
	if err != nil {
		return noSignals, err
	}
	if len(startSig) > 0 {
		state.Apply(startSig)
	}
	adv, err := l.advance(state)
	if err != nil {
		return startSig, err
	}
	return startSig.Merge(adv), nil
}

func (l *liveSeq) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	c := l.current()
	if c == nil {
		return noSignals, nil
	}
	out, err := c.Update(sig, state)
	if err != nil {
		return out, err
	}
	if len(out) > 0 {
		state.Apply(out)
	}
	adv, err := l.advance(state)
	if err != nil {
		return out, err
	}
	return out.Merge(adv), nil
}

func (l *liveSeq) Show(ui action.UI, state *signal.State) error {
	if c := l.current(); c != nil {
		return c.Show(ui, state)
	}
	return nil
}

func (l *liveSeq) Stop(state *signal.State) (signal.Signal, error) {
	if c := l.current(); c != nil {
		return c.Stop(state)
	}
	return noSignals, nil
}
