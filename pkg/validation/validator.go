package validation

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/state"
)

// DefaultMaxEntries bounds repeatable groups that declare no Max.
const DefaultMaxEntries = 1000

// Option customises a Validator.
type Option func(*Validator)

// WithLogger routes debug output to logger. Nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

type entry struct {
	key  string
	rule rules.Rule
}

// Validator applies the rules compiled from a field list to form state. It
// is built once per form and reused for every submit.
type Validator struct {
	entries []entry
	logger  *zap.Logger
}

// Compile registers the rule of every top-level field and builds a composite
// list rule for each repeatable group. For repeatable groups the composite
// replaces any rule set on the group itself. Fields without constraints are
// skipped; keys present in state but absent from fields are ignored.
func Compile(fields []model.Field, opts ...Option) *Validator {
	v := &Validator{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}

	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		switch {
		case field.HasSubFields():
			v.entries = append(v.entries, entry{key: field.Key, rule: groupRule(field)})
		case field.Rule != nil:
			v.entries = append(v.entries, entry{key: field.Key, rule: field.Rule})
		}
	}

	v.logger.Debug("validator compiled",
		zap.Int("fields", len(fields)),
		zap.Int("constrained", len(v.entries)),
	)
	return v
}

func groupRule(field model.Field) rules.Rule {
	minLen, maxLen := 0, DefaultMaxEntries
	if field.Min != nil {
		minLen = *field.Min
	}
	if field.Max != nil {
		maxLen = *field.Max
	}

	shape := rules.Object()
	for _, nested := range field.Fields {
		if nested.Key == "" || nested.Rule == nil {
			continue
		}
		shape = shape.Key(nested.Key, nested.Rule)
	}

	var element rules.Rule
	if shape.Len() > 0 {
		element = shape
	}
	return rules.Array(minLen, maxLen, element)
}

// Keys lists the top-level keys carrying a constraint, in field order.
func (v *Validator) Keys() []string {
	keys := make([]string, len(v.entries))
	for idx, e := range v.entries {
		keys[idx] = e.key
	}
	return keys
}

// Validate checks s exhaustively and returns a fresh ErrorMap. An empty map
// means s is valid. When several violations share a path the first one is
// kept.
func (v *Validator) Validate(s state.State) ErrorMap {
	errs := ErrorMap{}
	if v == nil {
		return errs
	}
	for _, e := range v.entries {
		issues := rules.Prefix(e.rule.Check(s.Value(e.key)), e.key)
		for _, issue := range issues {
			path := Path(issue.Path...)
			if _, exists := errs[path]; exists {
				continue
			}
			errs[path] = issue.Message
		}
	}

	if len(errs) > 0 {
		v.logger.Debug("validation failed", zap.Int("violations", len(errs)), zap.Strings("paths", errs.Paths()))
	}
	return errs
}

// Validate is a convenience that compiles fields and validates s once.
func Validate(fields []model.Field, s state.State) ErrorMap {
	return Compile(fields).Validate(s)
}
