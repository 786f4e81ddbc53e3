package rules

import (
	"fmt"
	"strings"
)

// ListRule validates multi-value scalar input such as checkbox groups.
type ListRule struct {
	required bool
	minItems *int
	maxItems *int
	oneOf    []string
	message  string
}

// List starts a multi-value constraint.
func List() ListRule {
	return ListRule{}
}

// Required rejects an absent or empty selection.
func (r ListRule) Required() ListRule {
	r.required = true
	return r
}

// MinItems requires at least n selections.
func (r ListRule) MinItems(n int) ListRule {
	r.minItems = &n
	return r
}

// MaxItems allows at most n selections.
func (r ListRule) MaxItems(n int) ListRule {
	r.maxItems = &n
	return r
}

// OneOf restricts every selection to the supplied set.
func (r ListRule) OneOf(values ...string) ListRule {
	r.oneOf = append([]string(nil), values...)
	return r
}

// Message replaces every message this rule reports.
func (r ListRule) Message(message string) ListRule {
	r.message = message
	return r
}

// Check implements Rule.
func (r ListRule) Check(value any) []Issue {
	items, ok := coerceList(value)
	if !ok {
		return Fail(pick(r.message, "must be a list"))
	}
	if len(items) == 0 {
		if r.required {
			return Fail(pick(r.message, "select at least one option"))
		}
		if r.minItems == nil {
			return nil
		}
	}

	var issues []Issue
	if r.minItems != nil && len(items) < *r.minItems {
		issues = append(issues, Issue{Message: pick(r.message, fmt.Sprintf("select at least %d options", *r.minItems))})
	}
	if r.maxItems != nil && len(items) > *r.maxItems {
		issues = append(issues, Issue{Message: pick(r.message, fmt.Sprintf("select at most %d options", *r.maxItems))})
	}
	if len(r.oneOf) > 0 {
		for _, item := range items {
			if !containsString(r.oneOf, item) {
				issues = append(issues, Issue{Message: pick(r.message, fmt.Sprintf("%q is not an allowed option", item))})
				break
			}
		}
	}
	return issues
}

func coerceList(value any) ([]string, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			text, ok := coerceString(item)
			if !ok {
				return nil, false
			}
			out = append(out, text)
		}
		return out, true
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, true
		}
		return []string{v}, true
	default:
		return nil, false
	}
}
