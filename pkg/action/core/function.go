package core

import (
	"fmt"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/interp"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("function", func() action.Stateless { return &Function{} })
}

// Function evaluates Expr at start (if OnStart) and whenever an id in
// InUpdate changes (if OnChange). InMapping supplies the variable bindings
// available to the expression (SignalId->variable name) regardless of
// whether that id triggered re-evaluation: a variable may be read via
// InMapping without being a member of InUpdate, meaning "use the latest
// value of this signal but don't re-run merely because it changed." The
// result is written to OutResult and, if Name is non-empty, logged under
// "math/<name>". The variable "self" is reserved and carries the previous
// result. Recursive definitions (OutResult appearing in InMapping) are
// rejected at Init.
type Function struct {
	Name        string               `yaml:"name"`
	Expr        string               `yaml:"expr"`
	Interpreter string               `yaml:"interpreter"`
	InMapping   map[signal.ID]string `yaml:"in_mapping"`
	InUpdate    []signal.ID          `yaml:"in_update"`
	OutResult   signal.ID            `yaml:"out_result"`
	OnStart     bool                 `yaml:"on_start"`
	OnChange    bool                 `yaml:"on_change"`

	inUpdate signal.Set
}

func (f *Function) Tag() string { return "function" }

func (f *Function) Init() (action.Stateless, error) {
	if f.OutResult != signal.None {
		if _, ok := f.InMapping[f.OutResult]; ok {
			return nil, fmt.Errorf("function: out_result %d cannot appear in in_mapping (recursive)", f.OutResult)
		}
	}
	f.inUpdate = signal.NewSet(f.InUpdate...)
	return f, nil
}

func (f *Function) Resources(action.Config) []resource.Addr { return nil }

func (f *Function) InSignals() signal.Set {
	ids := make([]signal.ID, 0, len(f.InMapping))
	for id := range f.InMapping {
		ids = append(ids, id)
	}
	set := signal.NewSet(ids...)
	return set.Union(f.inUpdate)
}

func (f *Function) OutSignals() signal.Set {
	if f.OutResult == signal.None {
		return signal.NewSet()
	}
	return signal.NewSet(f.OutResult)
}

func (f *Function) Stateful(_ *resource.Manager, cfg action.Config, _ action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	kind := f.Interpreter
	if kind == "" {
		kind = cfg.Interpreter
	}
	ev, ok := interp.Default.New(kind)
	if !ok {
		return nil, fmt.Errorf("function: unknown interpreter %q", kind)
	}
	return &liveFunction{
		name:      f.Name,
		expr:      f.Expr,
		inMapping: f.InMapping,
		inUpdate:  f.inUpdate,
		outResult: f.OutResult,
		onStart:   f.OnStart,
		onChange:  f.OnChange,
		ev:        ev,
		aw:        aw,
	}, nil
}

type liveFunction struct {
	name      string
	expr      string
	inMapping map[signal.ID]string
	inUpdate  signal.Set
	outResult signal.ID
	onStart   bool
	onChange  bool
	ev        interp.Evaluator
	aw        action.AsyncWriter
	self      signal.Value
}

func (l *liveFunction) Props() action.Props { return action.Infinite }

func (l *liveFunction) IsOver() (bool, error) { return false, nil }

func (l *liveFunction) vars(state *signal.State) map[string]signal.Value {
	vars := make(map[string]signal.Value, len(l.inMapping)+1)
	for id, name := range l.inMapping {
		vars[name] = state.GetOr(id)
	}
	vars["self"] = l.self
	return vars
}

func (l *liveFunction) evaluate(state *signal.State) (signal.Signal, error) {
	result, err := l.ev.Eval(l.expr, l.vars(state))
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

func (l *liveFunction) Start(state *signal.State) (signal.Signal, error) {
	if !l.onStart {
		return noSignals, nil
	}
	return l.evaluate(state)
}

func (l *liveFunction) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if !l.onChange || sig.Kind != action.SigStateChanged {
		return noSignals, nil
	}
	relevant := false
	for id := range sig.Changed {
		if l.inUpdate.Has(id) {
			relevant = true
			break
		}
	}
	if !relevant {
		return noSignals, nil
	}
	return l.evaluate(state)
}

func (l *liveFunction) Show(action.UI, *signal.State) error { return nil }

func (l *liveFunction) Stop(*signal.State) (signal.Signal, error) { return noSignals, nil }
