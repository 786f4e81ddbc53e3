package rules

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formstate/pkg/state"
)

// ObjectRule validates a record key by key. It is non-strict: keys without a
// rule and keys missing from the shape pass through untouched.
type ObjectRule struct {
	keys  []string
	shape map[string]Rule
}

// Object starts an empty record constraint.
func Object() ObjectRule {
	return ObjectRule{}
}

// Key registers rule for key. Registering the same key again replaces the
// earlier rule but keeps its original position.
func (r ObjectRule) Key(key string, rule Rule) ObjectRule {
	if rule == nil {
		return r
	}
	shape := make(map[string]Rule, len(r.shape)+1)
	for k, v := range r.shape {
		shape[k] = v
	}
	keys := append([]string(nil), r.keys...)
	if _, exists := shape[key]; !exists {
		keys = append(keys, key)
	}
	shape[key] = rule
	return ObjectRule{keys: keys, shape: shape}
}

// Keys lists the constrained keys in registration order.
func (r ObjectRule) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len reports how many keys carry a rule.
func (r ObjectRule) Len() int {
	return len(r.keys)
}

// Check implements Rule. Absent records are checked as empty ones so nested
// required constraints still fire.
func (r ObjectRule) Check(value any) []Issue {
	record, ok := asRecord(value)
	if !ok {
		return Fail("must be a record")
	}
	var issues []Issue
	for _, key := range r.keys {
		rule := r.shape[key]
		issues = append(issues, Prefix(rule.Check(record[key]), key)...)
	}
	return issues
}

// ArrayRule validates a list of records: its length against [min, max] and
// every element against the element rule.
type ArrayRule struct {
	min     int
	max     int
	element Rule
}

// Array builds a list constraint. A nil element rule only checks length.
func Array(minLen, maxLen int, element Rule) ArrayRule {
	return ArrayRule{min: minLen, max: maxLen, element: element}
}

// Bounds reports the configured length bounds.
func (r ArrayRule) Bounds() (int, int) {
	return r.min, r.max
}

// Check implements Rule. A nil value is checked as an empty list.
func (r ArrayRule) Check(value any) []Issue {
	items, ok := asItems(value)
	if !ok {
		return Fail("must be a list")
	}

	var issues []Issue
	if len(items) < r.min {
		issues = append(issues, Issue{Message: fmt.Sprintf("must contain at least %d %s", r.min, plural(r.min))})
	}
	if len(items) > r.max {
		issues = append(issues, Issue{Message: fmt.Sprintf("must contain at most %d %s", r.max, plural(r.max))})
	}
	if r.element == nil {
		return issues
	}
	for idx, item := range items {
		issues = append(issues, Prefix(r.element.Check(item), strconv.Itoa(idx))...)
	}
	return issues
}

func plural(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}

func asRecord(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case nil:
		return map[string]any{}, true
	case state.Record:
		return v, true
	case map[string]any:
		return v, true
	default:
		return nil, false
	}
}

func asItems(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case []state.Record:
		out := make([]any, len(v))
		for idx, record := range v {
			out[idx] = record
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(v))
		for idx, record := range v {
			out[idx] = record
		}
		return out, true
	case []any:
		return v, true
	default:
		return nil, false
	}
}
