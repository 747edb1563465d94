package interp

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/ilkoid/taskcore/pkg/signal"
)

// Symbolic is Math's "fast compiled numeric" back-end. It parses an
// expression into a go/ast tree using the standard library's Go
// expression grammar (a close enough match for arithmetic: + - * / %,
// comparisons, &&/||, parens, numeric literals, identifiers) the first
// time it is evaluated, then walks the cached tree on every subsequent
// call.
//
// The previous design kept parsed expressions in a process-wide table
// keyed by an interned handle; a Math node that got garbage-collected
// left its entry behind forever, and two unrelated nodes could collide
// on a handle after reuse. Symbolic instead owns its one cached *ast.Expr
// on the struct itself, scoped to the node that created it.
type Symbolic struct {
	expr   string
	parsed ast.Expr
}

func NewSymbolic() *Symbolic { return &Symbolic{} }

func (s *Symbolic) Eval(expr string, vars map[string]signal.Value) (signal.Value, error) {
	if s.parsed == nil || s.expr != expr {
		e, err := parser.ParseExpr(expr)
		if err != nil {
			return signal.Null(), fmt.Errorf("interp/symbolic: parse %q: %w", expr, err)
		}
		s.parsed = e
		s.expr = expr
	}
	f, err := evalNumeric(s.parsed, vars)
	if err != nil {
		return signal.Null(), err
	}
	return signal.Float(f), nil
}

func evalNumeric(e ast.Expr, vars map[string]signal.Value) (float64, error) {
	switch n := e.(type) {
	case *ast.ParenExpr:
		return evalNumeric(n.X, vars)
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return 0, fmt.Errorf("interp/symbolic: unsupported literal kind %v", n.Kind)
		}
		var f float64
		_, err := fmt.Sscanf(n.Value, "%g", &f)
		return f, err
	case *ast.Ident:
		v, ok := vars[n.Name]
		if !ok {
			return 0, fmt.Errorf("interp/symbolic: undefined variable %q", n.Name)
		}
		f, ok := v.AsFloat()
		if !ok {
			return 0, fmt.Errorf("interp/symbolic: variable %q is not numeric", n.Name)
		}
		return f, nil
	case *ast.UnaryExpr:
		x, err := evalNumeric(n.X, vars)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.SUB:
			return -x, nil
		case token.ADD:
			return x, nil
		case token.NOT:
			if x == 0 {
				return 1, nil
			}
			return 0, nil
		default:
			return 0, fmt.Errorf("interp/symbolic: unsupported unary op %v", n.Op)
		}
	case *ast.BinaryExpr:
		x, err := evalNumeric(n.X, vars)
		if err != nil {
			return 0, err
		}
		y, err := evalNumeric(n.Y, vars)
		if err != nil {
			return 0, err
		}
		return applyBinary(n.Op, x, y)
	default:
		return 0, fmt.Errorf("interp/symbolic: unsupported expression node %T", e)
	}
}

func applyBinary(op token.Token, x, y float64) (float64, error) {
	boolToFloat := func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	}
	switch op {
	case token.ADD:
		return x + y, nil
	case token.SUB:
		return x - y, nil
	case token.MUL:
		return x * y, nil
	case token.QUO:
		return x / y, nil
	case token.REM:
		return float64(int64(x) % int64(y)), nil
	case token.LSS:
		return boolToFloat(x < y), nil
	case token.LEQ:
		return boolToFloat(x <= y), nil
	case token.GTR:
		return boolToFloat(x > y), nil
	case token.GEQ:
		return boolToFloat(x >= y), nil
	case token.EQL:
		return boolToFloat(x == y), nil
	case token.NEQ:
		return boolToFloat(x != y), nil
	case token.LAND:
		return boolToFloat(x != 0 && y != 0), nil
	case token.LOR:
		return boolToFloat(x != 0 || y != 0), nil
	default:
		return 0, fmt.Errorf("interp/symbolic: unsupported binary op %v", op)
	}
}
