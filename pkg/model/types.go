package model

import (
	"github.com/goliatone/go-formstate/pkg/rules"
)

// FieldType is the closed set of input kinds a descriptor can declare.
type FieldType string

const (
	FieldTypeText          FieldType = "text"
	FieldTypeHidden        FieldType = "hidden"
	FieldTypeTextarea      FieldType = "textarea"
	FieldTypeSelect        FieldType = "select"
	FieldTypeRadio         FieldType = "radio"
	FieldTypeSwitch        FieldType = "switch"
	FieldTypeCheckbox      FieldType = "checkbox"
	FieldTypeCheckboxGroup FieldType = "checkbox-group"
	FieldTypeCustom        FieldType = "custom"
)

// FieldTypes lists every supported type in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeHidden,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeRadio,
		FieldTypeSwitch,
		FieldTypeCheckbox,
		FieldTypeCheckboxGroup,
		FieldTypeCustom,
	}
}

// Valid reports whether t belongs to the closed enumeration.
func (t FieldType) Valid() bool {
	for _, candidate := range FieldTypes() {
		if candidate == t {
			return true
		}
	}
	return false
}

// HasOptions reports whether inputs of this type pick from an option list.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckboxGroup:
		return true
	default:
		return false
	}
}

// Option is a single value/label pair offered by choice inputs.
type Option struct {
	Value any    `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Options resolves to the option list for a field, statically or from state.
type Options = Dynamic[[]Option]

// Field describes one logical input or, when Repeatable is set, a group of
// inputs repeated per list entry. Descriptors are read-only once handed to a
// form; nothing in this module mutates them.
type Field struct {
	Key         string
	Label       string
	Type        FieldType
	Options     Options
	Show        Predicate
	Hide        Predicate
	Repeatable  bool
	Fields      []Field
	Addable     Predicate
	Deletable   Predicate
	Min         *int
	Max         *int
	Tab         string
	Rule        rules.Rule
	Placeholder string
	// Hints carries layout directives (columns, css classes, widget names)
	// for the presentation layer. The core never interprets them beyond the
	// widget lookup.
	Hints map[string]string
	// Custom is the render hook for FieldTypeCustom. It is passed through
	// verbatim.
	Custom any
}

// HasSubFields reports whether a repeatable field declares a sub-schema.
func (f Field) HasSubFields() bool {
	return f.Repeatable && len(f.Fields) > 0
}

// SubField looks up a nested descriptor by key.
func (f Field) SubField(key string) (Field, bool) {
	for _, nested := range f.Fields {
		if nested.Key == key {
			return nested, true
		}
	}
	return Field{}, false
}

// DisplayLabel falls back to the key when no label is set.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}

// Clone copies the descriptor so callers can derive variants without sharing
// slices or maps with the original.
func (f Field) Clone() Field {
	out := f
	if len(f.Fields) > 0 {
		out.Fields = make([]Field, len(f.Fields))
		for idx, nested := range f.Fields {
			out.Fields[idx] = nested.Clone()
		}
	}
	if len(f.Hints) > 0 {
		out.Hints = make(map[string]string, len(f.Hints))
		for k, v := range f.Hints {
			out.Hints[k] = v
		}
	}
	if f.Min != nil {
		v := *f.Min
		out.Min = &v
	}
	if f.Max != nil {
		v := *f.Max
		out.Max = &v
	}
	return out
}

// Bound is a convenience for populating Min/Max.
func Bound(n int) *int {
	return &n
}
