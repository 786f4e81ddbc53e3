package render

import (
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/visibility"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// Mutator receives the edits a binding forwards. The form controller
// implements it; AddEntry and RemoveEntry report whether the edit was
// accepted.
type Mutator interface {
	SetValue(key string, value any)
	SetEntryField(key string, index int, nested string, value any)
	AddEntry(key string) bool
	RemoveEntry(key string, index int) bool
}

// Binding is everything a widget needs to render one visible field.
type Binding struct {
	// Name is the ErrorMap path of the field.
	Name    string
	Field   model.Field
	Value   any
	Error   string
	Options []model.Option
	Widget  string
	// Fallback is the inline notice shown when Widget is WidgetFallback.
	Fallback string
	Props    Props

	OnChange func(value any)
	// OnAdd is nil unless the field is a repeatable group that is addable.
	OnAdd func() bool
	// OnRemove is nil unless the field is a deletable repeatable group.
	OnRemove func(index int) bool
	Entries  []Entry
}

// Entry is one element of a repeatable group.
type Entry struct {
	Index    int
	Fields   []Binding
	OnRemove func() bool
}

// Options tune Bind.
type Options struct {
	// Props applies to every binding, overriding descriptor defaults.
	Props Props
	// FieldProps applies per ErrorMap path and wins over Props.
	FieldProps map[string]Props
	// Widgets resolves widget names; nil uses the built-in registry.
	Widgets *widgets.Registry
}

var defaultWidgets = widgets.NewRegistry()

// Bind produces bindings for the fields visible in s, in field order.
func Bind(fields []model.Field, s state.State, errs validation.ErrorMap, m Mutator, opts Options) []Binding {
	visible := visibility.Filter(fields, s)
	out := make([]Binding, 0, len(visible))
	for _, field := range visible {
		out = append(out, bindField(field, s, errs, m, opts))
	}
	return out
}

// BindField binds a single field regardless of its visibility.
func BindField(field model.Field, s state.State, errs validation.ErrorMap, m Mutator, opts Options) Binding {
	if field.Repeatable {
		field.Fields = visibility.Filter(field.Fields, s)
	}
	return bindField(field, s, errs, m, opts)
}

func bindField(field model.Field, s state.State, errs validation.ErrorMap, m Mutator, opts Options) Binding {
	key := field.Key
	b := base(field, key, s, errs, opts)

	if !field.Repeatable {
		b.Value = s.Value(key)
		if m != nil {
			b.OnChange = func(value any) { m.SetValue(key, value) }
		}
		return b
	}

	entries := s.Entries(key)
	b.Value = entries
	deletable := m != nil && visibility.Deletable(field, s)
	if m != nil && visibility.Addable(field, s) {
		b.OnAdd = func() bool { return m.AddEntry(key) }
	}
	if deletable {
		b.OnRemove = func(index int) bool { return m.RemoveEntry(key, index) }
	}
	// repeatable groups without a sub-schema render no entries
	if !field.HasSubFields() {
		return b
	}

	for idx, record := range entries {
		idx := idx
		entry := Entry{Index: idx}
		for _, nested := range field.Fields {
			nestedKey := nested.Key
			nb := base(nested, validation.EntryPath(key, idx, nestedKey), s, errs, opts)
			nb.Value = record[nestedKey]
			if m != nil {
				nb.OnChange = func(value any) { m.SetEntryField(key, idx, nestedKey, value) }
			}
			entry.Fields = append(entry.Fields, nb)
		}
		if deletable {
			entry.OnRemove = func() bool { return m.RemoveEntry(key, idx) }
		}
		b.Entries = append(b.Entries, entry)
	}
	return b
}

func base(field model.Field, path string, s state.State, errs validation.ErrorMap, opts Options) Binding {
	registry := opts.Widgets
	if registry == nil {
		registry = defaultWidgets
	}
	widget, _ := registry.Resolve(field)
	return Binding{
		Name:     path,
		Field:    field,
		Error:    errs.Get(path),
		Options:  field.ResolveOptions(s),
		Widget:   widget,
		Fallback: widgets.FallbackMessage(field),
		Props:    MergeProps(FieldProps(field), opts.Props, opts.FieldProps[path]),
	}
}

// Lookup finds a binding by name, descending into repeatable entries.
func Lookup(bindings []Binding, name string) (Binding, bool) {
	for _, b := range bindings {
		if b.Name == name {
			return b, true
		}
		for _, entry := range b.Entries {
			if found, ok := Lookup(entry.Fields, name); ok {
				return found, true
			}
		}
	}
	return Binding{}, false
}
