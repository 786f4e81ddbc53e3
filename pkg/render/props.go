package render

import (
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Props are presentation parameters handed to a widget.
type Props map[string]any

// Prop keys derived from a field descriptor.
const (
	PropLabel       = "label"
	PropPlaceholder = "placeholder"
	PropTab         = "tab"
)

// FieldProps returns the defaults a descriptor implies: its label,
// placeholder, tab and every layout hint. Hints never override the label or
// placeholder.
func FieldProps(field model.Field) Props {
	props := make(Props, len(field.Hints)+3)
	for key, value := range field.Hints {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			props[trimmed] = value
		}
	}
	props[PropLabel] = field.DisplayLabel()
	if field.Placeholder != "" {
		props[PropPlaceholder] = field.Placeholder
	}
	if field.Tab != "" {
		props[PropTab] = field.Tab
	}
	return props
}

// MergeProps returns a copy of base with overrides applied in order. Later
// overrides win on key collisions; empty keys are dropped. The inputs are
// never modified.
func MergeProps(base Props, overrides ...Props) Props {
	size := len(base)
	for _, o := range overrides {
		size += len(o)
	}
	out := make(Props, size)
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, override := range overrides {
		for key, value := range override {
			if trimmed := strings.TrimSpace(key); trimmed != "" {
				out[trimmed] = value
			}
		}
	}
	return out
}
