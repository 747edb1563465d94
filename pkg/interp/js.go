package interp

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/ilkoid/taskcore/pkg/signal"
)

// JS evaluates expressions with a fresh goja.Runtime per call bound to
// this instance's variable table. A new Runtime per Eval call keeps
// Function/Math nodes from leaking state between evaluations (the
// footgun called out for the symbolic backend applies equally to any
// evaluator that reuses global VM state across unrelated nodes).
type JS struct {
	vm *goja.Runtime
}

func NewJS() *JS {
	return &JS{vm: goja.New()}
}

func (j *JS) Eval(expr string, vars map[string]signal.Value) (signal.Value, error) {
	j.vm = goja.New()
	for name, v := range vars {
		if err := j.vm.Set(name, v.Native()); err != nil {
			return signal.Null(), fmt.Errorf("interp/goja: bind %q: %w", name, err)
		}
	}
	result, err := j.vm.RunString(expr)
	if err != nil {
		return signal.Null(), fmt.Errorf("interp/goja: eval %q: %w", expr, err)
	}
	return signal.FromNative(result.Export()), nil
}
