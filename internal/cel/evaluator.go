// Package cel evaluates CEL expressions against inspected state and recorded renders.
package cel

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/statelens/internal/inspector"
)

const (
	// StateVar is the variable bound to the inspected state.
	StateVar = "_"
	// RenderVar is the variable bound to one recorded render in filter predicates.
	RenderVar = "render"
)

// ErrNotBool is returned when a predicate evaluates to something other than a bool.
var ErrNotBool = errors.New("expression does not evaluate to a bool")

// Evaluator compiles and evaluates CEL expressions.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the standard extension libraries and the
// state and render variables declared.
func NewEvaluator() (*Evaluator, error) {
	env, err := newStandardCELEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 6+len(opts))
	allOpts = append(allOpts,
		cel.Variable(StateVar, cel.DynType),
		cel.Variable(RenderVar, cel.MapType(cel.StringType, cel.DynType)),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

func (e *Evaluator) compile(expr string) (cel.Program, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return prg, nil
}

// Evaluate runs expr with the state bound to "_" and converts the result back into an
// inspectable value. Example: "_.items.filter(x, x.done)".
func (e *Evaluator) Evaluate(expr string, state inspector.Value) (inspector.Value, error) {
	prg, err := e.compile(expr)
	if err != nil {
		return inspector.Value{}, err
	}
	out, _, err := prg.Eval(map[string]interface{}{
		StateVar:  state.Interface(),
		RenderVar: map[string]interface{}{},
	})
	if err != nil {
		return inspector.Value{}, fmt.Errorf("eval error: %w", err)
	}
	return inspector.FromInterface(ToGo(out)), nil
}

// Predicate is a compiled boolean expression.
type Predicate struct {
	expr string
	prg  cel.Program
}

// Compile prepares a predicate. The expression must produce a bool.
func (e *Evaluator) Compile(expr string) (*Predicate, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%q has type %s: %w", expr, t, ErrNotBool)
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string { return p.expr }

// Match evaluates the predicate with the given variables. Missing variables are bound
// to empty values.
func (p *Predicate) Match(vars map[string]interface{}) (bool, error) {
	act := map[string]interface{}{
		StateVar:  nil,
		RenderVar: map[string]interface{}{},
	}
	for k, v := range vars {
		act[k] = v
	}
	out, _, err := p.prg.Eval(act)
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("%q returned %s: %w", p.expr, out.Type(), ErrNotBool)
	}
	return bool(b), nil
}

// ToGo converts CEL values to plain Go values recursively.
func ToGo(val ref.Val) interface{} {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return string(v)
	}

	valuer, ok := val.(interface{ Value() interface{} })
	if !ok {
		return val
	}
	switch inner := valuer.Value().(type) {
	case []ref.Val:
		out := make([]interface{}, len(inner))
		for i, elem := range inner {
			out[i] = ToGo(elem)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(inner))
		for i, elem := range inner {
			out[i] = plain(elem)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(inner))
		for k, elem := range inner {
			out[k] = plain(elem)
		}
		return out
	case map[ref.Val]ref.Val:
		out := make(map[string]interface{}, len(inner))
		for k, elem := range inner {
			out[fmt.Sprintf("%v", ToGo(k))] = ToGo(elem)
		}
		return out
	default:
		return inner
	}
}

// plain converts elements of native collections that may still hold CEL values.
func plain(x interface{}) interface{} {
	switch t := x.(type) {
	case ref.Val:
		return ToGo(t)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, v := range t {
			out[k] = plain(v)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, v := range t {
			out[i] = plain(v)
		}
		return out
	default:
		return x
	}
}
