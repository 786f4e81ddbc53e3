package rules

import (
	"fmt"
	"strings"
)

// Issue describes one violation. Path is relative to the value the rule was
// applied to; composite rules prefix it with keys and indices.
type Issue struct {
	Path    []string
	Message string
}

// Rule checks a single value and reports every violation it finds. A nil
// value means the key was absent from form state.
type Rule interface {
	Check(value any) []Issue
}

// RuleFunc adapts a function into a Rule.
type RuleFunc func(value any) []Issue

// Check delegates to the underlying function.
func (fn RuleFunc) Check(value any) []Issue {
	if fn == nil {
		return nil
	}
	return fn(value)
}

// Fail returns a single issue at the current path.
func Fail(message string) []Issue {
	return []Issue{{Message: message}}
}

// Failf formats a single issue at the current path.
func Failf(format string, args ...any) []Issue {
	return Fail(fmt.Sprintf(format, args...))
}

// All applies every rule and concatenates their issues.
func All(rules ...Rule) Rule {
	return RuleFunc(func(value any) []Issue {
		var issues []Issue
		for _, rule := range rules {
			if rule == nil {
				continue
			}
			issues = append(issues, rule.Check(value)...)
		}
		return issues
	})
}

// Prefix prepends segments to the path of every issue.
func Prefix(issues []Issue, segments ...string) []Issue {
	if len(issues) == 0 || len(segments) == 0 {
		return issues
	}
	out := make([]Issue, len(issues))
	for idx, issue := range issues {
		path := make([]string, 0, len(segments)+len(issue.Path))
		path = append(path, segments...)
		path = append(path, issue.Path...)
		out[idx] = Issue{Path: path, Message: issue.Message}
	}
	return out
}

// isEmpty treats nil, blank strings and empty lists as absent input.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

func pick(custom, fallback string) string {
	if strings.TrimSpace(custom) != "" {
		return custom
	}
	return fallback
}
