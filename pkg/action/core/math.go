package core

import (
	"fmt"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/interp"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("math", func() action.Stateless { return &Math{Backend: "fast"} })
}

// Math is Function's narrower numeric-only sibling: two back-ends, "fast"
// (compiled via interp.NewSymbolic's go/ast evaluator) and "symbolic"
// (the same evaluator kind, but the instance owns its own cached parse
// tree rather than sharing a process-wide handle table — see
// interp.Symbolic's doc comment).
type Math struct {
	Name      string               `yaml:"name"`
	Expr      string               `yaml:"expr"`
	Backend   string               `yaml:"backend"` // "fast" | "symbolic"
	InMapping map[signal.ID]string `yaml:"in_mapping"`
	OutResult signal.ID            `yaml:"out_result"`
	OnStart   bool                 `yaml:"on_start"`
	OnChange  bool                 `yaml:"on_change"`
}

func (m *Math) Tag() string { return "math" }

func (m *Math) Init() (action.Stateless, error) {
	if m.OutResult != signal.None {
		if _, ok := m.InMapping[m.OutResult]; ok {
			return nil, fmt.Errorf("math: out_result %d cannot appear in in_mapping (recursive)", m.OutResult)
		}
	}
	if m.Backend != "fast" && m.Backend != "symbolic" {
		return nil, fmt.Errorf("math: unknown backend %q", m.Backend)
	}
	return m, nil
}

func (m *Math) Resources(action.Config) []resource.Addr { return nil }

func (m *Math) InSignals() signal.Set {
	ids := make([]signal.ID, 0, len(m.InMapping))
	for id := range m.InMapping {
		ids = append(ids, id)
	}
	return signal.NewSet(ids...)
}

func (m *Math) OutSignals() signal.Set {
	if m.OutResult == signal.None {
		return signal.NewSet()
	}
	return signal.NewSet(m.OutResult)
}

func (m *Math) Stateful(_ *resource.Manager, _ action.Config, _ action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	return &liveMath{
		name:      m.Name,
		expr:      m.Expr,
		inMapping: m.InMapping,
		outResult: m.OutResult,
		onStart:   m.OnStart,
		onChange:  m.OnChange,
		ev:        interp.NewSymbolic(),
		aw:        aw,
	}, nil
}

type liveMath struct {
	name      string
	expr      string
	inMapping map[signal.ID]string
	outResult signal.ID
	onStart   bool
	onChange  bool
	ev        *interp.Symbolic
	aw        action.AsyncWriter
	self      signal.Value
}

func (l *liveMath) Props() action.Props { return action.Infinite }

func (l *liveMath) IsOver() (bool, error) { return false, nil }

func (l *liveMath) evaluate(state *signal.State) (signal.Signal, error) {
	vars := make(map[string]signal.Value, len(l.inMapping)+1)
	for id, name := range l.inMapping {
		vars[name] = state.GetOr(id)
	}
	vars["self"] = l.self
	result, err := l.ev.Eval(l.expr, vars)
	if err != nil {
		return noSignals, err
	}
	l.self = result
	if l.name != "" && l.aw != nil {
		l.aw.Write("math/"+l.name, result)
	}
	if l.outResult == signal.None {
		return noSignals, nil
	}
	return signal.Signal{l.outResult: result}, nil
}

func (l *liveMath) Start(state *signal.State) (signal.Signal, error) {
	if !l.onStart {
		return noSignals, nil
	}
	return l.evaluate(state)
}

func (l *liveMath) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if !l.onChange || sig.Kind != action.SigStateChanged {
		return noSignals, nil
	}
	for id := range sig.Changed {
		if _, ok := l.inMapping[id]; ok {
			return l.evaluate(state)
		}
	}
	return noSignals, nil
}

func (l *liveMath) Show(action.UI, *signal.State) error { return nil }

func (l *liveMath) Stop(*signal.State) (signal.Signal, error) { return noSignals, nil }
