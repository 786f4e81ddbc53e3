package widgets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetInput         = "input"
	WidgetHidden        = "hidden"
	WidgetTextArea      = "textarea"
	WidgetSelect        = "select"
	WidgetRadio         = "radio"
	WidgetToggle        = "toggle"
	WidgetCheckbox      = "checkbox"
	WidgetCheckboxGroup = "checkbox-group"
	WidgetRepeater      = "repeater"
	WidgetCodeEditor    = "code-editor"
	WidgetCustom        = "custom"
	// WidgetFallback renders an inline notice in place of a field that
	// cannot be rendered, such as a custom field without a hook.
	WidgetFallback = "fallback"
)

// HintWidget is the Field.Hints key that forces a widget.
const HintWidget = "widget"

// Matcher decides whether a widget renderer should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit hints or registered
// matchers. Higher priority wins; ties fall back to registration order. An
// empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit Hints["widget"]
// is honoured before matcher evaluation, except that a custom field without
// a render hook always resolves to WidgetFallback.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if missingHook(field) {
		return WidgetFallback, true
	}
	if explicit := explicitWidget(field); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// FallbackMessage describes why a field resolved to WidgetFallback, or ""
// when it did not.
func FallbackMessage(field model.Field) string {
	if missingHook(field) {
		return fmt.Sprintf("field %q has type custom but no render hook", field.Key)
	}
	return ""
}

func missingHook(field model.Field) bool {
	return field.Type == model.FieldTypeCustom && field.Custom == nil
}

func explicitWidget(field model.Field) string {
	if field.Hints == nil {
		return ""
	}
	return strings.TrimSpace(field.Hints[HintWidget])
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetRepeater, 100, func(field model.Field) bool {
		return field.Repeatable
	})

	r.Register(WidgetCodeEditor, 60, func(field model.Field) bool {
		if field.Type != model.FieldTypeTextarea {
			return false
		}
		format := strings.TrimSpace(strings.ToLower(field.Hints["format"]))
		return format == "json" || format == "yaml" || format == "toml"
	})

	byType := map[model.FieldType]string{
		model.FieldTypeText:          WidgetInput,
		model.FieldTypeHidden:        WidgetHidden,
		model.FieldTypeTextarea:      WidgetTextArea,
		model.FieldTypeSelect:        WidgetSelect,
		model.FieldTypeRadio:         WidgetRadio,
		model.FieldTypeSwitch:        WidgetToggle,
		model.FieldTypeCheckbox:      WidgetCheckbox,
		model.FieldTypeCheckboxGroup: WidgetCheckboxGroup,
		model.FieldTypeCustom:        WidgetCustom,
	}
	r.Register(WidgetSelect, 50, func(field model.Field) bool {
		return field.Type == model.FieldTypeText && field.Options.IsSet()
	})
	for _, typ := range model.FieldTypes() {
		typ := typ
		r.Register(byType[typ], 10, func(field model.Field) bool {
			return field.Type == typ
		})
	}
	// untyped fields render as plain inputs
	r.Register(WidgetInput, 0, func(field model.Field) bool {
		return field.Type == ""
	})
}
