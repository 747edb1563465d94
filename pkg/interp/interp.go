// Package interp provides the expression evaluators Function and Math
// action variants dispatch to by name ("goja" or "symbolic"). Grounded on
// the dop251/goja usage in the example pack (joeycumines-go-utilpkg's
// goja-* modules), adapted from an event-loop/VM-host shape down to a
// synchronous single-call Eval, since task expressions are pure
// computations with no pending timers or promises to drive.
package interp

import "github.com/ilkoid/taskcore/pkg/signal"

// Evaluator evaluates a single expression against a variable binding,
// returning the result as a signal.Value. Implementations must be safe
// for concurrent use by distinct Function/Math instances but need not be
// safe for concurrent calls to the SAME instance (a live node only ever
// evaluates from the Sync-processor thread).
type Evaluator interface {
	Eval(expr string, vars map[string]signal.Value) (signal.Value, error)
}

// Registry resolves the Config.Interpreter name ("goja"/"symbolic") to a
// concrete Evaluator factory. Each Function/Math node gets its own
// Evaluator instance (see Symbolic's doc comment for why this matters).
type Registry struct {
	factories map[string]func() Evaluator
}

func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]func() Evaluator)}
	r.Register("goja", func() Evaluator { return NewJS() })
	r.Register("symbolic", func() Evaluator { return NewSymbolic() })
	return r
}

func (r *Registry) Register(name string, f func() Evaluator) {
	r.factories[name] = f
}

func (r *Registry) New(name string) (Evaluator, bool) {
	f, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Default is the process-wide registry of evaluator kinds. It hands out a
// fresh Evaluator per call; it is not itself a shared evaluator.
var Default = NewRegistry()
