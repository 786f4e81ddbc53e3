package expr

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/visibility"
)

type node interface {
	eval(ctx visibility.Context) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(ctx)
}

type andNode struct{ left, right node }

func (n andNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(ctx)
}

type notNode struct{ inner node }

func (n notNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type truthyNode struct{ ident string }

func (n truthyNode) eval(ctx visibility.Context) (bool, error) {
	value, ok := lookup(ctx, n.ident)
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

type literalKind int

const (
	literalString literalKind = iota
	literalNumber
	literalBool
	literalNull
)

type literal struct {
	kind  literalKind
	text  string
	num   float64
	truth bool
}

type compareNode struct {
	ident string
	op    tokenKind
	lit   literal
}

func (n compareNode) eval(ctx visibility.Context) (bool, error) {
	value, _ := lookup(ctx, n.ident)

	switch n.lit.kind {
	case literalNull:
		return equality(n.op, value == nil, true)
	case literalBool:
		got, _ := coerceBool(value)
		return equality(n.op, got, n.lit.truth)
	case literalString:
		return equality(n.op, coerceString(value), n.lit.text)
	case literalNumber:
		got, ok := coerceNumber(value)
		if !ok {
			// missing or non-numeric values only satisfy !=
			return n.op == tokenNeq, nil
		}
		return order(n.op, got, n.lit.num)
	}
	return false, fmt.Errorf("visibility/expr: unsupported literal %q", n.lit.text)
}

func equality[T comparable](op tokenKind, got, want T) (bool, error) {
	switch op {
	case tokenEq:
		return got == want, nil
	case tokenNeq:
		return got != want, nil
	}
	return false, fmt.Errorf("visibility/expr: operator not supported for this literal")
}

func order(op tokenKind, got, want float64) (bool, error) {
	switch op {
	case tokenEq:
		return got == want, nil
	case tokenNeq:
		return got != want, nil
	case tokenLt:
		return got < want, nil
	case tokenLte:
		return got <= want, nil
	case tokenGt:
		return got > want, nil
	case tokenGte:
		return got >= want, nil
	}
	return false, fmt.Errorf("visibility/expr: unknown operator")
}
