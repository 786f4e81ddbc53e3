package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// StringRule validates textual input. The zero value accepts anything; use
// String() and the chainable setters to add constraints. Setters return
// copies so a base rule can be shared safely.
type StringRule struct {
	required bool
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
	email    bool
	oneOf    []string
	message  string
}

// String starts a text constraint.
func String() StringRule {
	return StringRule{}
}

// Required rejects absent or blank values.
func (r StringRule) Required() StringRule {
	r.required = true
	return r
}

// MinLength requires at least n characters.
func (r StringRule) MinLength(n int) StringRule {
	r.minLen = &n
	return r
}

// MaxLength allows at most n characters.
func (r StringRule) MaxLength(n int) StringRule {
	r.maxLen = &n
	return r
}

// Pattern requires the value to match re.
func (r StringRule) Pattern(re *regexp.Regexp) StringRule {
	r.pattern = re
	return r
}

// Email requires a plausible email address.
func (r StringRule) Email() StringRule {
	r.email = true
	return r
}

// OneOf restricts the value to the supplied set.
func (r StringRule) OneOf(values ...string) StringRule {
	r.oneOf = append([]string(nil), values...)
	return r
}

// Message replaces every message this rule reports.
func (r StringRule) Message(message string) StringRule {
	r.message = message
	return r
}

// Check implements Rule.
func (r StringRule) Check(value any) []Issue {
	if isEmpty(value) {
		if r.required {
			return Fail(pick(r.message, "is required"))
		}
		return nil
	}

	text, ok := coerceString(value)
	if !ok {
		return Fail(pick(r.message, "must be text"))
	}

	var issues []Issue
	length := utf8.RuneCountInString(text)
	if r.minLen != nil && length < *r.minLen {
		issues = append(issues, Issue{Message: pick(r.message, fmt.Sprintf("must be at least %d characters", *r.minLen))})
	}
	if r.maxLen != nil && length > *r.maxLen {
		issues = append(issues, Issue{Message: pick(r.message, fmt.Sprintf("must be at most %d characters", *r.maxLen))})
	}
	if r.pattern != nil && !r.pattern.MatchString(text) {
		issues = append(issues, Issue{Message: pick(r.message, "does not match required pattern")})
	}
	if r.email && !emailPattern.MatchString(strings.TrimSpace(text)) {
		issues = append(issues, Issue{Message: pick(r.message, "must be a valid email address")})
	}
	if len(r.oneOf) > 0 && !containsString(r.oneOf, text) {
		issues = append(issues, Issue{Message: pick(r.message, fmt.Sprintf("must be one of %s", strings.Join(r.oneOf, ", ")))})
	}
	return issues
}

func coerceString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
