package core

import (
	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("rect", func() action.Stateless { return &Rect{} })
}

// Rect draws Inner in a fixed-size rectangle filled with Background.
type Rect struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Inner      *action.Node `yaml:"inner"`
	Background string       `yaml:"background"`
}

func (r *Rect) Tag() string              { return "rect" }
func (r *Rect) Children() []*action.Node { return []*action.Node{r.Inner} }

func (r *Rect) Init() (action.Stateless, error) { return r, nil }

func (r *Rect) Resources(cfg action.Config) []resource.Addr { return r.Inner.Value.Resources(cfg) }
func (r *Rect) InSignals() signal.Set                       { return r.Inner.Value.InSignals() }
func (r *Rect) OutSignals() signal.Set                      { return r.Inner.Value.OutSignals() }

func (r *Rect) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	inner, err := r.Inner.Value.Stateful(res, cfg, sw, aw)
	if err != nil {
		return nil, err
	}
	bg := r.Background
	if bg == "" {
		bg = cfg.Background
	}
	return &liveRect{width: r.Width, height: r.Height, background: bg, inner: inner}, nil
}

type liveRect struct {
	width, height int
	background    string
	inner         action.Live
}

func (l *liveRect) Props() action.Props { return l.inner.Props() | action.Visual }

func (l *liveRect) IsOver() (bool, error) { return l.inner.IsOver() }

func (l *liveRect) Start(state *signal.State) (signal.Signal, error) { return l.inner.Start(state) }

func (l *liveRect) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	return l.inner.Update(sig, state)
}

func (l *liveRect) Show(ui action.UI, state *signal.State) error {
	sub := ui.Rect(l.width, l.height, l.background)
	return l.inner.Show(sub, state)
}

func (l *liveRect) Stop(state *signal.State) (signal.Signal, error) { return l.inner.Stop(state) }
