package core

import (
	"fmt"
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

const minClockStep = 0.010

func init() {
	register("clock", func() action.Stateless { return &Clock{} })
}

// Clock emits an incrementing integer tick on OutTic every Step seconds.
// If OnStart, the first tick fires immediately on Start. Infinite;
// terminates only when the parent stops it.
type Clock struct {
	Step    float64   `yaml:"step"`
	From    int64     `yaml:"from"`
	OnStart bool      `yaml:"on_start"`
	OutTic  signal.ID `yaml:"out_tic"`
}

func (c *Clock) Tag() string { return "clock" }

func (c *Clock) Init() (action.Stateless, error) {
	if c.Step < minClockStep {
		return nil, fmt.Errorf("clock: step must be >= %v, got %v", minClockStep, c.Step)
	}
	return c, nil
}

func (c *Clock) Resources(action.Config) []resource.Addr { return nil }
func (c *Clock) InSignals() signal.Set                    { return signal.NewSet() }
func (c *Clock) OutSignals() signal.Set                   { return signal.NewSet(c.OutTic) }

func (c *Clock) Stateful(_ *resource.Manager, _ action.Config, sw action.SyncWriter, _ action.AsyncWriter) (action.Live, error) {
	return &liveClock{
		step:    time.Duration(c.Step * float64(time.Second)),
		from:    c.From,
		onStart: c.OnStart,
		outTic:  c.OutTic,
		sw:      sw,
	}, nil
}

type liveClock struct {
	step    time.Duration
	from    int64
	onStart bool
	outTic  signal.ID
	sw      action.SyncWriter
	stop    *stopSignal
}

func (l *liveClock) Props() action.Props { return action.Infinite }

func (l *liveClock) IsOver() (bool, error) { return false, nil }

func (l *liveClock) Start(*signal.State) (signal.Signal, error) {
	l.stop = newStopSignal()
	tic := l.from
	if l.onStart {
		l.sw.Emit(0, signal.Signal{l.outTic: signal.Int(tic)})
		tic++
	}
	go func() {
		ticker := time.NewTicker(l.step)
		defer ticker.Stop()
		start := time.Now()
		for {
			select {
			case <-ticker.C:
				l.sw.Emit(time.Since(start), signal.Signal{l.outTic: signal.Int(tic)})
				tic++
			case <-l.stop.Done():
				return
			}
		}
	}()
	return noSignals, nil
}

func (l *liveClock) Update(action.ActionSignal, *signal.State) (signal.Signal, error) {
	return noSignals, nil
}

func (l *liveClock) Show(action.UI, *signal.State) error { return nil }

func (l *liveClock) Stop(*signal.State) (signal.Signal, error) {
	if l.stop != nil {
		l.stop.Stop()
	}
	return noSignals, nil
}
