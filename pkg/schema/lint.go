package schema

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

// Warning is a non-fatal finding reported by Lint.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	return w.Path + ": " + w.Message
}

// Lint inspects a parsed definition for mistakes that still parse: expressions
// referencing keys the form does not declare, repeatable groups without
// sub-fields and choice inputs without options.
func Lint(def Definition) []Warning {
	var warnings []Warning
	keys := def.Keys()
	known := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		known[key] = struct{}{}
	}

	for _, expression := range def.Expressions {
		program, err := expr.Compile(expression.Source)
		if err != nil {
			warnings = append(warnings, Warning{
				Path:    expression.Path,
				Message: fmt.Sprintf("%s expression does not compile: %v", expression.Kind, err),
			})
			continue
		}
		for _, ident := range program.Identifiers() {
			if strings.HasPrefix(strings.ToLower(ident), "extras.") {
				continue
			}
			root, _, _ := strings.Cut(ident, ".")
			if _, ok := known[root]; ok {
				continue
			}
			message := fmt.Sprintf("%s expression references unknown key %q", expression.Kind, root)
			if suggestion := closest(root, keys); suggestion != "" {
				message += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			warnings = append(warnings, Warning{Path: expression.Path, Message: message})
		}
	}

	for _, field := range def.Fields {
		warnings = append(warnings, lintField(field, field.Key)...)
		for _, nested := range field.Fields {
			warnings = append(warnings, lintField(nested, field.Key+"."+nested.Key)...)
		}
	}
	return warnings
}

func lintField(field model.Field, path string) []Warning {
	var out []Warning
	if field.Repeatable && len(field.Fields) == 0 {
		out = append(out, Warning{Path: path, Message: "repeatable field declares no sub-fields"})
	}
	if field.Type.HasOptions() && !field.Options.IsSet() {
		out = append(out, Warning{Path: path, Message: fmt.Sprintf("%s field declares no options", field.Type)})
	}
	return out
}

// closest returns the candidate within a small edit distance of target.
func closest(target string, candidates []string) string {
	limit := len(target)/2 + 1
	if limit < 2 {
		limit = 2
	}
	best, bestDistance := "", limit+1
	for _, candidate := range candidates {
		distance := levenshtein.ComputeDistance(strings.ToLower(target), strings.ToLower(candidate))
		if distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}
