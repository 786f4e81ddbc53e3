package rules

import (
	"strconv"
	"strings"
)

// BoolRule validates switches and single checkboxes.
type BoolRule struct {
	required bool
	message  string
}

// Bool starts a boolean constraint.
func Bool() BoolRule {
	return BoolRule{}
}

// Required demands the value be true (consent checkboxes and the like).
func (r BoolRule) Required() BoolRule {
	r.required = true
	return r
}

// Message replaces every message this rule reports.
func (r BoolRule) Message(message string) BoolRule {
	r.message = message
	return r
}

// Check implements Rule.
func (r BoolRule) Check(value any) []Issue {
	if value == nil {
		if r.required {
			return Fail(pick(r.message, "must be checked"))
		}
		return nil
	}
	checked, ok := coerceBool(value)
	if !ok {
		return Fail(pick(r.message, "must be true or false"))
	}
	if r.required && !checked {
		return Fail(pick(r.message, "must be checked"))
	}
	return nil
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false, true
		}
		parsed, err := strconv.ParseBool(trimmed)
		return parsed, err == nil
	default:
		return false, false
	}
}
