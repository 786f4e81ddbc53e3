package rules

import (
	"math"
	"strconv"
	"strings"
)

// NumberRule validates numeric input. Numeric strings are coerced before the
// bounds are applied, matching what text inputs produce.
type NumberRule struct {
	required bool
	min      *float64
	max      *float64
	integer  bool
	message  string
}

// Number starts a numeric constraint.
func Number() NumberRule {
	return NumberRule{}
}

// Required rejects absent or blank values.
func (r NumberRule) Required() NumberRule {
	r.required = true
	return r
}

// Min sets an inclusive lower bound.
func (r NumberRule) Min(v float64) NumberRule {
	r.min = &v
	return r
}

// Max sets an inclusive upper bound.
func (r NumberRule) Max(v float64) NumberRule {
	r.max = &v
	return r
}

// Integer rejects values with a fractional part.
func (r NumberRule) Integer() NumberRule {
	r.integer = true
	return r
}

// Message replaces every message this rule reports.
func (r NumberRule) Message(message string) NumberRule {
	r.message = message
	return r
}

// Check implements Rule.
func (r NumberRule) Check(value any) []Issue {
	if isEmpty(value) {
		if r.required {
			return Fail(pick(r.message, "is required"))
		}
		return nil
	}

	number, ok := CoerceNumber(value)
	if !ok {
		return Fail(pick(r.message, "must be a number"))
	}

	var issues []Issue
	if r.integer && number != math.Trunc(number) {
		issues = append(issues, Issue{Message: pick(r.message, "must be a whole number")})
	}
	if r.min != nil && number < *r.min {
		issues = append(issues, Issue{Message: pick(r.message, "must be at least "+formatNumber(*r.min))})
	}
	if r.max != nil && number > *r.max {
		issues = append(issues, Issue{Message: pick(r.message, "must be at most "+formatNumber(*r.max))})
	}
	return issues
}

// CoerceNumber converts numeric kinds and numeric strings into float64.
func CoerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
