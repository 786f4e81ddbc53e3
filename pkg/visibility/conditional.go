package visibility

import (
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/state"
)

// Visible reports whether field renders for s: show defaults to true, hide
// defaults to false, and hide wins when both hold.
func Visible(field model.Field, s state.State) bool {
	if !field.Show.Resolve(s, true) {
		return false
	}
	return !field.Hide.Resolve(s, false)
}

// Addable reports whether a repeatable group accepts a new entry. Non
// repeatable fields are never addable.
func Addable(field model.Field, s state.State) bool {
	if !field.Repeatable {
		return false
	}
	return field.Addable.Resolve(s, true)
}

// Deletable reports whether entries of a repeatable group may be removed.
func Deletable(field model.Field, s state.State) bool {
	if !field.Repeatable {
		return false
	}
	return field.Deletable.Resolve(s, true)
}

// Filter returns the visible descriptors in their original order. Nested
// sub-fields of repeatable groups are filtered against the same state.
func Filter(fields []model.Field, s state.State) []model.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]model.Field, 0, len(fields))
	for _, field := range fields {
		if !Visible(field, s) {
			continue
		}
		if field.Repeatable && len(field.Fields) > 0 {
			nested := Filter(field.Fields, s)
			field.Fields = nested
		}
		out = append(out, field)
	}
	return out
}
