package core

import (
	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("key_logger", func() action.Stateless { return &KeyLogger{} })
}

// KeyLogger appends an entry to Group on every KeyPress ActionSignal.
// Infinite; never completes on its own.
type KeyLogger struct {
	Group string `yaml:"group"`
}

func (k *KeyLogger) Tag() string                            { return "key_logger" }
func (k *KeyLogger) Init() (action.Stateless, error)         { return k, nil }
func (k *KeyLogger) Resources(action.Config) []resource.Addr { return nil }
func (k *KeyLogger) InSignals() signal.Set                   { return signal.NewSet() }
func (k *KeyLogger) OutSignals() signal.Set                  { return signal.NewSet() }

func (k *KeyLogger) Stateful(_ *resource.Manager, _ action.Config, _ action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	return &liveKeyLogger{group: k.Group, aw: aw}, nil
}

type liveKeyLogger struct {
	group string
	aw    action.AsyncWriter
}

func (l *liveKeyLogger) Props() action.Props { return action.Infinite }

func (l *liveKeyLogger) IsOver() (bool, error) { return false, nil }

func (l *liveKeyLogger) Start(*signal.State) (signal.Signal, error) { return noSignals, nil }

func (l *liveKeyLogger) Update(sig action.ActionSignal, _ *signal.State) (signal.Signal, error) {
	if sig.Kind != action.SigKeyPress || l.aw == nil {
		return noSignals, nil
	}
	keys := make([]string, 0, len(sig.Keys))
	for k := range sig.Keys {
		keys = append(keys, k)
	}
	entries := make([]action.NameValue, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, action.NameValue{Name: k, Value: signal.Float(sig.Time.Seconds())})
	}
	if len(entries) > 0 {
		l.aw.Extend(l.group, entries)
	}
	return noSignals, nil
}

func (l *liveKeyLogger) Show(action.UI, *signal.State) error { return nil }

func (l *liveKeyLogger) Stop(*signal.State) (signal.Signal, error) { return noSignals, nil }
