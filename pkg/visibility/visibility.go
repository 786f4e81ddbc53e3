package visibility

import (
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/state"
)

// Evaluator determines whether a rule string holds for a field given the
// current values and optional scope metadata.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values typically comes from the
// current form state while Extras lets callers inject arbitrary context such
// as user roles or feature flags.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// Expression adapts a rule string into a predicate evaluated against the
// state it is resolved with. Evaluation errors resolve to false.
func Expression(evaluator Evaluator, fieldPath, rule string, extras map[string]any) model.Predicate {
	if evaluator == nil {
		return model.Predicate{}
	}
	return model.When(func(s state.State) bool {
		ok, err := evaluator.Eval(fieldPath, rule, Context{
			Values: s.Map(),
			Extras: extras,
		})
		return err == nil && ok
	})
}
