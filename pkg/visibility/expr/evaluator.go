// Package expr implements a small expression language for conditional fields.
//
// Supported forms:
//   - truthiness: `enabled`, `!enabled`, `jobs.length`
//   - equality: `role == "admin"`, `plan != free`, `token == null`
//   - ordering against numbers: `age >= 18`
//   - composition with `&&`, `||` (or `and`, `or`, `not`) and parentheses
//
// Identifiers are dotted paths into visibility.Context.Values; the `extras.`
// prefix reads visibility.Context.Extras instead.
package expr

import (
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Program is a compiled expression.
type Program struct {
	source string
	root   node
	idents []string
}

// Compile parses rule into a Program. An empty rule compiles to a program
// that always holds.
func Compile(rule string) (*Program, error) {
	trimmed := strings.TrimSpace(rule)
	prog := &Program{source: trimmed}
	if trimmed == "" {
		return prog, nil
	}
	tokens, err := lex(trimmed)
	if err != nil {
		return nil, err
	}
	root, idents, err := parse(tokens)
	if err != nil {
		return nil, err
	}
	prog.root = root
	prog.idents = idents
	return prog, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(rule string) *Program {
	prog, err := Compile(rule)
	if err != nil {
		panic(err)
	}
	return prog
}

// Source returns the trimmed rule text.
func (p *Program) Source() string { return p.source }

// Identifiers lists the paths the program reads, in first-use order.
func (p *Program) Identifiers() []string {
	return append([]string(nil), p.idents...)
}

// Run evaluates the program against ctx.
func (p *Program) Run(ctx visibility.Context) (bool, error) {
	if p == nil || p.root == nil {
		return true, nil
	}
	return p.root.eval(ctx)
}

// Evaluator implements visibility.Evaluator and caches compiled programs by
// rule text. It is safe for concurrent use.
type Evaluator struct {
	mu    sync.RWMutex
	cache map[string]*Program
}

var _ visibility.Evaluator = (*Evaluator)(nil)

// New returns an Evaluator with an empty program cache.
func New() *Evaluator {
	return &Evaluator{cache: map[string]*Program{}}
}

// Eval compiles rule on first use and runs it against ctx. An empty rule is
// always true.
func (e *Evaluator) Eval(_, rule string, ctx visibility.Context) (bool, error) {
	prog, err := e.program(rule)
	if err != nil {
		return false, err
	}
	return prog.Run(ctx)
}

func (e *Evaluator) program(rule string) (*Program, error) {
	e.mu.RLock()
	prog, ok := e.cache[rule]
	e.mu.RUnlock()
	if ok {
		return prog, nil
	}

	prog, err := Compile(rule)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	if e.cache == nil {
		e.cache = map[string]*Program{}
	}
	e.cache[rule] = prog
	e.mu.Unlock()
	return prog, nil
}
