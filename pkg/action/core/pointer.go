package core

import (
	"fmt"
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("pointer", func() action.Stateless { return &Pointer{} })
}

// Pointer wraps a visual child and records click time, coordinates
// relative to the child's origin, and a reserved accuracy value. If every
// out_* id is None and Group is empty the node is rejected at Init. The
// wrapped child's infinite flag is cleared.
type Pointer struct {
	Inner       *action.Node     `yaml:"inner"`
	Group       string    `yaml:"group"`
	Mask        string    `yaml:"mask"`
	OutRT       signal.ID `yaml:"out_rt"`
	OutCoord    signal.ID `yaml:"out_coord"`
	OutAccuracy signal.ID `yaml:"out_accuracy"`
}

func (p *Pointer) Tag() string { return "pointer" }

func (p *Pointer) Init() (action.Stateless, error) {
	if p.OutRT == signal.None && p.OutCoord == signal.None && p.OutAccuracy == signal.None && p.Group == "" {
		return nil, fmt.Errorf("pointer: at least one out_* id or a non-empty group is required")
	}
	if p.Inner == nil || p.Inner.Value == nil {
		return nil, fmt.Errorf("pointer: inner is required")
	}
	// p.Inner is already Init'd bottom-up by action.InitTree via Children.
	return p, nil
}

func (p *Pointer) Children() []*action.Node { return []*action.Node{p.Inner} }

func (p *Pointer) Resources(cfg action.Config) []resource.Addr {
	return p.Inner.Value.Resources(cfg)
}
func (p *Pointer) InSignals() signal.Set  { return p.Inner.Value.InSignals() }
func (p *Pointer) OutSignals() signal.Set {
	out := p.Inner.Value.OutSignals()
	for _, id := range []signal.ID{p.OutRT, p.OutCoord, p.OutAccuracy} {
		if id != signal.None {
			out.Add(id)
		}
	}
	return out
}

func (p *Pointer) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	inner, err := p.Inner.Value.Stateful(res, cfg, sw, aw)
	if err != nil {
		return nil, err
	}
	return &livePointer{
		inner:       inner,
		group:       p.Group,
		outRT:       p.OutRT,
		outCoord:    p.OutCoord,
		outAccuracy: p.OutAccuracy,
		aw:          aw,
	}, nil
}

type livePointer struct {
	inner       action.Live
	group       string
	outRT       signal.ID
	outCoord    signal.ID
	outAccuracy signal.ID
	aw          action.AsyncWriter
	started     time.Time
}

func (l *livePointer) Props() action.Props {
	return l.inner.Props() &^ action.Infinite
}

func (l *livePointer) IsOver() (bool, error) { return l.inner.IsOver() }

func (l *livePointer) Start(state *signal.State) (signal.Signal, error) {
	l.started = time.Now()
	return l.inner.Start(state)
}

func (l *livePointer) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	return l.inner.Update(sig, state)
}

// click records a click at (x, y), relative to the wrapped child's
// origin, and emits/logs the configured out_* and group entries.
func (l *livePointer) click(x, y float64) signal.Signal {
	rt := time.Since(l.started).Seconds()
	accuracy := 0.0
	out := signal.Signal{}
	if l.outRT != signal.None {
		out[l.outRT] = signal.Float(rt)
	}
	if l.outCoord != signal.None {
		out[l.outCoord] = signal.Array(signal.Float(x), signal.Float(y))
	}
	if l.outAccuracy != signal.None {
		out[l.outAccuracy] = signal.Float(accuracy)
	}
	if l.group != "" && l.aw != nil {
		l.aw.Append(l.group, "click", signal.Map(map[string]signal.Value{
			"rt":       signal.Float(rt),
			"x":        signal.Float(x),
			"y":        signal.Float(y),
			"accuracy": signal.Float(accuracy),
		}))
	}
	return out
}

func (l *livePointer) Show(ui action.UI, state *signal.State) error {
	return l.inner.Show(ui, state)
}

func (l *livePointer) Stop(state *signal.State) (signal.Signal, error) {
	return l.inner.Stop(state)
}
