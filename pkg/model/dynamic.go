package model

import "github.com/goliatone/go-formstate/pkg/state"

// Dynamic is either a static value or a function of form state. It is resolved
// at every call site; computed values are never cached because they may read
// arbitrary derived state.
type Dynamic[T any] struct {
	value   T
	compute func(state.State) T
	set     bool
}

// Static wraps a fixed value.
func Static[T any](value T) Dynamic[T] {
	return Dynamic[T]{value: value, set: true}
}

// Computed wraps a function of the current form state. A nil fn yields an
// unset Dynamic.
func Computed[T any](fn func(state.State) T) Dynamic[T] {
	if fn == nil {
		return Dynamic[T]{}
	}
	return Dynamic[T]{compute: fn, set: true}
}

// IsSet reports whether a value or function was supplied.
func (d Dynamic[T]) IsSet() bool {
	return d.set
}

// IsComputed reports whether the value depends on state.
func (d Dynamic[T]) IsComputed() bool {
	return d.compute != nil
}

// Resolve returns the static value, the computed value for s, or fallback when
// unset.
func (d Dynamic[T]) Resolve(s state.State, fallback T) T {
	switch {
	case !d.set:
		return fallback
	case d.compute != nil:
		return d.compute(s)
	default:
		return d.value
	}
}

// Predicate is a boolean Dynamic used by show/hide/addable/deletable.
type Predicate = Dynamic[bool]

// When builds a computed predicate.
func When(fn func(state.State) bool) Predicate {
	return Computed(fn)
}

// Always builds a static predicate.
func Always(value bool) Predicate {
	return Static(value)
}

// StaticOptions builds a fixed option list.
func StaticOptions(options ...Option) Options {
	return Static(append([]Option(nil), options...))
}

// ComputedOptions builds an option list derived from state.
func ComputedOptions(fn func(state.State) []Option) Options {
	return Computed(fn)
}

// ResolveOptions evaluates the field's options against s.
func (f Field) ResolveOptions(s state.State) []Option {
	return f.Options.Resolve(s, nil)
}
