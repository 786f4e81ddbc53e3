package openapi

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/rules"
)

const (
	// textareaThreshold is the maxLength above which strings become textareas.
	textareaThreshold = 255

	hintHelp   = "help"
	hintSecret = "secret"
	hintFormat = "format"
)

// convertObject maps the properties of an object schema onto fields sorted by
// name. Nested plain objects are skipped; arrays of objects become repeatable
// groups only at the top level. Defaults are collected as initial values.
func convertObject(s *openapi3.Schema, top bool) ([]model.Field, map[string]any) {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]struct{}, len(s.Required))
	for _, name := range s.Required {
		required[name] = struct{}{}
	}

	var fields []model.Field
	initial := make(map[string]any)
	for _, name := range names {
		ref := s.Properties[name]
		if ref == nil || ref.Value == nil || ref.Value.ReadOnly {
			continue
		}
		_, isRequired := required[name]
		field, ok := convertProperty(name, ref.Value, isRequired, top)
		if !ok {
			continue
		}
		fields = append(fields, field)
		if ref.Value.Default != nil && !field.Repeatable {
			initial[name] = ref.Value.Default
		}
	}
	if len(initial) == 0 {
		initial = nil
	}
	return fields, initial
}

func convertProperty(name string, s *openapi3.Schema, required, top bool) (model.Field, bool) {
	field := model.Field{
		Key:   name,
		Label: label(name, s),
		Hints: hints(s),
	}

	switch schemaType(s) {
	case openapi3.TypeString:
		convertString(&field, s, required)
	case openapi3.TypeBoolean:
		field.Type = model.FieldTypeSwitch
	case openapi3.TypeInteger, openapi3.TypeNumber:
		field.Type = model.FieldTypeText
		field.Rule = numberRule(s, required)
	case openapi3.TypeArray:
		return convertArray(field, s, required, top)
	default:
		return model.Field{}, false
	}
	return field, true
}

func convertString(field *model.Field, s *openapi3.Schema, required bool) {
	if len(s.Enum) > 0 {
		field.Type = model.FieldTypeSelect
		field.Options = model.StaticOptions(enumOptions(s.Enum)...)
	} else if s.Format == "textarea" || (s.MaxLength != nil && *s.MaxLength > textareaThreshold) {
		field.Type = model.FieldTypeTextarea
	} else {
		field.Type = model.FieldTypeText
	}

	rule := rules.String()
	if required {
		rule = rule.Required()
	}
	if s.MinLength > 0 {
		rule = rule.MinLength(int(s.MinLength))
	}
	if s.MaxLength != nil {
		rule = rule.MaxLength(int(*s.MaxLength))
	}
	if s.Pattern != "" {
		if re, err := regexp.Compile(s.Pattern); err == nil {
			rule = rule.Pattern(re)
		}
	}
	if s.Format == "email" {
		rule = rule.Email()
	}
	if len(s.Enum) > 0 {
		rule = rule.OneOf(enumStrings(s.Enum)...)
	}
	field.Rule = rule
}

func numberRule(s *openapi3.Schema, required bool) rules.Rule {
	rule := rules.Number()
	if required {
		rule = rule.Required()
	}
	if s.Min != nil {
		rule = rule.Min(*s.Min)
	}
	if s.Max != nil {
		rule = rule.Max(*s.Max)
	}
	if schemaType(s) == openapi3.TypeInteger {
		rule = rule.Integer()
	}
	return rule
}

func convertArray(field model.Field, s *openapi3.Schema, required, top bool) (model.Field, bool) {
	if s.Items == nil || s.Items.Value == nil {
		return model.Field{}, false
	}
	items := s.Items.Value

	if schemaType(items) == openapi3.TypeString && len(items.Enum) > 0 {
		field.Type = model.FieldTypeCheckboxGroup
		field.Options = model.StaticOptions(enumOptions(items.Enum)...)
		rule := rules.List().OneOf(enumStrings(items.Enum)...)
		if required {
			rule = rule.Required()
		}
		if s.MinItems > 0 {
			rule = rule.MinItems(int(s.MinItems))
		}
		if s.MaxItems != nil {
			rule = rule.MaxItems(int(*s.MaxItems))
		}
		field.Rule = rule
		return field, true
	}

	if !top || schemaType(items) != openapi3.TypeObject {
		return model.Field{}, false
	}
	nested, _ := convertObject(items, false)
	if len(nested) == 0 {
		return model.Field{}, false
	}
	field.Repeatable = true
	field.Fields = nested
	minItems := int(s.MinItems)
	if required && minItems == 0 {
		minItems = 1
	}
	if minItems > 0 {
		field.Min = model.Bound(minItems)
	}
	if s.MaxItems != nil {
		field.Max = model.Bound(int(*s.MaxItems))
	}
	return field, true
}

func schemaType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil {
		return ""
	}
	values := s.Type.Slice()
	for _, value := range values {
		if value != "null" {
			return value
		}
	}
	return ""
}

func enumOptions(values []any) []model.Option {
	out := make([]model.Option, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		out = append(out, model.Option{Value: value, Label: fmt.Sprint(value)})
	}
	return out
}

func enumStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		out = append(out, fmt.Sprint(value))
	}
	return out
}

func hints(s *openapi3.Schema) map[string]string {
	out := make(map[string]string)
	if desc := strings.TrimSpace(s.Description); desc != "" {
		out[hintHelp] = desc
	}
	if s.Format != "" {
		out[hintFormat] = s.Format
	}
	if s.Format == "password" || s.WriteOnly {
		out[hintSecret] = "true"
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func label(name string, s *openapi3.Schema) string {
	if title := strings.TrimSpace(s.Title); title != "" {
		return title
	}
	return humanize(name)
}

// humanize turns snake_case, kebab-case and camelCase names into words.
func humanize(name string) string {
	var b strings.Builder
	var prev rune
	for _, r := range name {
		if r == '_' || r == '-' || r == '.' {
			prev = ' '
			continue
		}
		if b.Len() > 0 && (prev == ' ' || (unicode.IsUpper(r) && !unicode.IsUpper(prev))) {
			b.WriteRune(' ')
		}
		if b.Len() == 0 {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
		prev = r
	}
	return b.String()
}
