package core

import (
	"fmt"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("counter", func() action.Stateless { return &Counter{From: 3} })
}

// Counter shows a button "Click me N more times" and decrements on click;
// terminates when it reaches zero.
type Counter struct {
	From int `yaml:"from"`
}

func (c *Counter) Tag() string { return "counter" }

func (c *Counter) Init() (action.Stateless, error) {
	if c.From == 0 {
		c.From = 3
	}
	return c, nil
}

func (c *Counter) Resources(action.Config) []resource.Addr { return nil }
func (c *Counter) InSignals() signal.Set                    { return signal.NewSet() }
func (c *Counter) OutSignals() signal.Set                   { return signal.NewSet() }

func (c *Counter) Stateful(*resource.Manager, action.Config, action.SyncWriter, action.AsyncWriter) (action.Live, error) {
	return &liveCounter{count: c.From}, nil
}

type liveCounter struct {
	count int
}

func (l *liveCounter) Props() action.Props { return action.Visual }

func (l *liveCounter) IsOver() (bool, error) { return l.count <= 0, nil }

func (l *liveCounter) Start(*signal.State) (signal.Signal, error) { return noSignals, nil }

func (l *liveCounter) Update(action.ActionSignal, *signal.State) (signal.Signal, error) {
	return noSignals, nil
}

func (l *liveCounter) Show(ui action.UI, _ *signal.State) error {
	if l.count <= 0 {
		return nil
	}
	label := fmt.Sprintf("Click me %d more time", l.count)
	if l.count != 1 {
		label += "s"
	}
	if ui.Button(label) {
		l.count--
	}
	return nil
}

func (l *liveCounter) Stop(*signal.State) (signal.Signal, error) { return noSignals, nil }
