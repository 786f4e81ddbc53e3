package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Definition is a parsed form definition ready to hand to form.New.
type Definition struct {
	ID      string
	Title   string
	Source  string
	Fields  []model.Field
	Initial map[string]any
	// Expressions records every show/hide/addable/deletable rule string in
	// declaration order so tooling can inspect them after compilation.
	Expressions []Expression
}

// Expression is a rule string attached to a field predicate.
type Expression struct {
	Path   string
	Kind   string
	Source string
}

// Keys returns the top-level field keys in declaration order.
func (d Definition) Keys() []string {
	out := make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		out = append(out, field.Key)
	}
	return out
}

const (
	kindShow      = "show"
	kindHide      = "hide"
	kindAddable   = "addable"
	kindDeletable = "deletable"
)

type definitionFile struct {
	ID      string         `json:"id" yaml:"id"`
	Title   string         `json:"title" yaml:"title"`
	Initial map[string]any `json:"initial" yaml:"initial"`
	Fields  []fieldFile    `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Key         string            `json:"key" yaml:"key"`
	Label       string            `json:"label" yaml:"label"`
	Type        string            `json:"type" yaml:"type"`
	Options     []any             `json:"options" yaml:"options"`
	OptionsFrom *optionsFromFile  `json:"optionsFrom" yaml:"optionsFrom"`
	Show        string            `json:"show" yaml:"show"`
	Hide        string            `json:"hide" yaml:"hide"`
	Repeatable  bool              `json:"repeatable" yaml:"repeatable"`
	Fields      []fieldFile       `json:"fields" yaml:"fields"`
	Addable     any               `json:"addable" yaml:"addable"`
	Deletable   any               `json:"deletable" yaml:"deletable"`
	Min         *int              `json:"min" yaml:"min"`
	Max         *int              `json:"max" yaml:"max"`
	Tab         string            `json:"tab" yaml:"tab"`
	Rule        *ruleFile         `json:"rule" yaml:"rule"`
	Placeholder string            `json:"placeholder" yaml:"placeholder"`
	Hints       map[string]string `json:"hints" yaml:"hints"`
}

// optionsFromFile selects an option list by the current value of another
// field. Options declared on the field itself act as the fallback.
type optionsFromFile struct {
	Field   string           `json:"field" yaml:"field"`
	Options map[string][]any `json:"options" yaml:"options"`
}

type ruleFile struct {
	Kind      string   `json:"kind" yaml:"kind"`
	Required  bool     `json:"required" yaml:"required"`
	MinLength *int     `json:"minLength" yaml:"minLength"`
	MaxLength *int     `json:"maxLength" yaml:"maxLength"`
	Pattern   string   `json:"pattern" yaml:"pattern"`
	Email     bool     `json:"email" yaml:"email"`
	OneOf     []string `json:"oneOf" yaml:"oneOf"`
	Min       *float64 `json:"min" yaml:"min"`
	Max       *float64 `json:"max" yaml:"max"`
	Integer   bool     `json:"integer" yaml:"integer"`
	MinItems  *int     `json:"minItems" yaml:"minItems"`
	MaxItems  *int     `json:"maxItems" yaml:"maxItems"`
	Message   string   `json:"message" yaml:"message"`
}

// builder converts decoded files into descriptors, collecting expressions as
// it goes.
type builder struct {
	cfg         *config
	source      string
	expressions []Expression
}

func (b *builder) fields(raw []fieldFile, parent string) ([]model.Field, error) {
	out := make([]model.Field, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for idx, file := range raw {
		key := strings.TrimSpace(file.Key)
		if key == "" {
			return nil, fmt.Errorf("schema: %s: field #%d under %q has no key", b.source, idx, parent)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("schema: %s: duplicate field key %q", b.source, validation.Path(parent, key))
		}
		seen[key] = struct{}{}

		field, err := b.field(file, key, parent)
		if err != nil {
			return nil, err
		}
		out = append(out, field)
	}
	return out, nil
}

func (b *builder) field(file fieldFile, key, parent string) (model.Field, error) {
	path := validation.Path(parent, key)

	field := model.Field{
		Key:         key,
		Label:       sanitizeText(file.Label),
		Type:        model.FieldType(strings.TrimSpace(file.Type)),
		Repeatable:  file.Repeatable,
		Min:         file.Min,
		Max:         file.Max,
		Tab:         strings.TrimSpace(file.Tab),
		Placeholder: sanitizeText(file.Placeholder),
		Hints:       cloneHints(file.Hints),
	}
	if field.Type == "" && !field.Repeatable {
		field.Type = model.FieldTypeText
	}
	if field.Type != "" && !field.Type.Valid() {
		return model.Field{}, fmt.Errorf("schema: %s: field %q has unknown type %q", b.source, path, field.Type)
	}

	if file.Repeatable {
		if parent != "" {
			return model.Field{}, fmt.Errorf("schema: %s: field %q nests a repeatable group inside %q", b.source, path, parent)
		}
		nested, err := b.fields(file.Fields, key)
		if err != nil {
			return model.Field{}, err
		}
		field.Fields = nested
	} else if len(file.Fields) > 0 {
		return model.Field{}, fmt.Errorf("schema: %s: field %q declares fields without repeatable", b.source, path)
	}
	if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
		return model.Field{}, fmt.Errorf("schema: %s: field %q has min %d above max %d", b.source, path, *field.Min, *field.Max)
	}

	var err error
	if field.Show, err = b.predicate(path, kindShow, file.Show); err != nil {
		return model.Field{}, err
	}
	if field.Hide, err = b.predicate(path, kindHide, file.Hide); err != nil {
		return model.Field{}, err
	}
	if field.Addable, err = b.flag(path, kindAddable, file.Addable); err != nil {
		return model.Field{}, err
	}
	if field.Deletable, err = b.flag(path, kindDeletable, file.Deletable); err != nil {
		return model.Field{}, err
	}

	static, err := parseOptions(file.Options)
	if err != nil {
		return model.Field{}, fmt.Errorf("schema: %s: field %q: %w", b.source, path, err)
	}
	field.Options, err = buildOptions(static, file.OptionsFrom)
	if err != nil {
		return model.Field{}, fmt.Errorf("schema: %s: field %q: %w", b.source, path, err)
	}

	if file.Rule != nil {
		rule, err := buildRule(*file.Rule, field.Type)
		if err != nil {
			return model.Field{}, fmt.Errorf("schema: %s: field %q rule: %w", b.source, path, err)
		}
		field.Rule = rule
	}
	return field, nil
}

func (b *builder) predicate(path, kind, source string) (model.Predicate, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return model.Predicate{}, nil
	}
	if b.cfg.compile != nil {
		if err := b.cfg.compile(source); err != nil {
			return model.Predicate{}, fmt.Errorf("schema: %s: field %q %s: %w", b.source, path, kind, err)
		}
	}
	b.expressions = append(b.expressions, Expression{Path: path, Kind: kind, Source: source})
	return visibility.Expression(b.cfg.evaluator, path, source, b.cfg.extras), nil
}

// flag accepts either a literal boolean or an expression string.
func (b *builder) flag(path, kind string, raw any) (model.Predicate, error) {
	switch v := raw.(type) {
	case nil:
		return model.Predicate{}, nil
	case bool:
		return model.Always(v), nil
	case string:
		return b.predicate(path, kind, v)
	default:
		return model.Predicate{}, fmt.Errorf("schema: %s: field %q %s must be a boolean or an expression, got %T", b.source, path, kind, raw)
	}
}

func parseOptions(raw []any) ([]model.Option, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]model.Option, 0, len(raw))
	for idx, item := range raw {
		switch v := item.(type) {
		case map[string]any:
			value, ok := v["value"]
			if !ok {
				return nil, fmt.Errorf("option #%d has no value", idx)
			}
			label, _ := v["label"].(string)
			if label == "" {
				label = fmt.Sprint(value)
			}
			out = append(out, model.Option{Value: value, Label: sanitizeText(label)})
		case string, bool, int, int64, float64:
			out = append(out, model.Option{Value: v, Label: sanitizeText(fmt.Sprint(v))})
		default:
			return nil, fmt.Errorf("option #%d has unsupported shape %T", idx, item)
		}
	}
	return out, nil
}

func buildOptions(static []model.Option, from *optionsFromFile) (model.Options, error) {
	if from == nil {
		if static == nil {
			return model.Options{}, nil
		}
		return model.StaticOptions(static...), nil
	}

	source := strings.TrimSpace(from.Field)
	if source == "" {
		return model.Options{}, fmt.Errorf("optionsFrom requires a field")
	}
	table := make(map[string][]model.Option, len(from.Options))
	for key, raw := range from.Options {
		parsed, err := parseOptions(raw)
		if err != nil {
			return model.Options{}, fmt.Errorf("optionsFrom %q: %w", key, err)
		}
		table[key] = parsed
	}

	return model.ComputedOptions(func(s state.State) []model.Option {
		value := s.Value(source)
		if value == nil {
			return static
		}
		if options, ok := table[fmt.Sprint(value)]; ok {
			return options
		}
		return static
	}), nil
}

func buildRule(file ruleFile, fieldType model.FieldType) (rules.Rule, error) {
	kind := strings.ToLower(strings.TrimSpace(file.Kind))
	if kind == "" {
		kind = defaultRuleKind(fieldType)
	}

	switch kind {
	case "string":
		rule := rules.String()
		if file.Required {
			rule = rule.Required()
		}
		if file.MinLength != nil {
			rule = rule.MinLength(*file.MinLength)
		}
		if file.MaxLength != nil {
			rule = rule.MaxLength(*file.MaxLength)
		}
		if file.Pattern != "" {
			re, err := regexp.Compile(file.Pattern)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", file.Pattern, err)
			}
			rule = rule.Pattern(re)
		}
		if file.Email {
			rule = rule.Email()
		}
		if len(file.OneOf) > 0 {
			rule = rule.OneOf(file.OneOf...)
		}
		if file.Message != "" {
			rule = rule.Message(file.Message)
		}
		return rule, nil
	case "number":
		rule := rules.Number()
		if file.Required {
			rule = rule.Required()
		}
		if file.Min != nil {
			rule = rule.Min(*file.Min)
		}
		if file.Max != nil {
			rule = rule.Max(*file.Max)
		}
		if file.Integer {
			rule = rule.Integer()
		}
		if file.Message != "" {
			rule = rule.Message(file.Message)
		}
		return rule, nil
	case "bool":
		rule := rules.Bool()
		if file.Required {
			rule = rule.Required()
		}
		if file.Message != "" {
			rule = rule.Message(file.Message)
		}
		return rule, nil
	case "list":
		rule := rules.List()
		if file.Required {
			rule = rule.Required()
		}
		if file.MinItems != nil {
			rule = rule.MinItems(*file.MinItems)
		}
		if file.MaxItems != nil {
			rule = rule.MaxItems(*file.MaxItems)
		}
		if len(file.OneOf) > 0 {
			rule = rule.OneOf(file.OneOf...)
		}
		if file.Message != "" {
			rule = rule.Message(file.Message)
		}
		return rule, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", file.Kind)
	}
}

func defaultRuleKind(fieldType model.FieldType) string {
	switch fieldType {
	case model.FieldTypeSwitch, model.FieldTypeCheckbox:
		return "bool"
	case model.FieldTypeCheckboxGroup:
		return "list"
	default:
		return "string"
	}
}

func cloneHints(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		out[trimmed] = value
	}
	return out
}
