package core

import (
	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("nil", func() action.Stateless { return &Nil{} })
}

// Nil is the terminal placeholder variant: it finishes the instant it
// starts and has no props. The Sync processor swaps a finished root with a
// Nil.
type Nil struct{}

func (n *Nil) Tag() string                                   { return "nil" }
func (n *Nil) Init() (action.Stateless, error)                { return n, nil }
func (n *Nil) Resources(action.Config) []resource.Addr        { return nil }
func (n *Nil) InSignals() signal.Set                          { return signal.NewSet() }
func (n *Nil) OutSignals() signal.Set                         { return signal.NewSet() }

func (n *Nil) Stateful(*resource.Manager, action.Config, action.SyncWriter, action.AsyncWriter) (action.Live, error) {
	return &liveNil{}, nil
}

type liveNil struct{}

func (l *liveNil) Props() action.Props { return 0 }
func (l *liveNil) IsOver() (bool, error) { return true, nil }
func (l *liveNil) Start(*signal.State) (signal.Signal, error) { return noSignals, nil }
func (l *liveNil) Update(action.ActionSignal, *signal.State) (signal.Signal, error) {
	return noSignals, nil
}
func (l *liveNil) Show(action.UI, *signal.State) error                 { return nil }
func (l *liveNil) Stop(*signal.State) (signal.Signal, error) { return noSignals, nil }
