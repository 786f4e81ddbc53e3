package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func TestValidateRequiredEmail(t *testing.T) {
	t.Parallel()

	fields := []model.Field{{Key: "email", Type: model.FieldTypeText, Rule: rules.String().Required().Email()}}
	v := validation.Compile(fields)

	errs := v.Validate(state.New(map[string]any{"email": ""}))
	if diff := cmp.Diff([]string{"email"}, errs.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if errs.Get("email") == "" {
		t.Fatalf("expected a message for email")
	}

	if errs := v.Validate(state.New(map[string]any{"email": "a@b.com"})); !errs.Empty() {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateRepeatableNestedPath(t *testing.T) {
	t.Parallel()

	fields := []model.Field{{
		Key:        "education",
		Repeatable: true,
		Fields: []model.Field{
			{Key: "school", Rule: rules.String().Required()},
			{Key: "year"},
		},
	}}
	s := state.New(map[string]any{
		"education": []any{
			map[string]any{"school": ""},
			map[string]any{"school": "X"},
		},
	})

	errs := validation.Compile(fields).Validate(s)
	want := validation.ErrorMap{"education.0.school": "is required"}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if errs.Has("education.1.school") {
		t.Fatalf("second entry should be valid")
	}
}

func TestValidateRepeatableBounds(t *testing.T) {
	t.Parallel()

	fields := []model.Field{{
		Key:        "jobs",
		Repeatable: true,
		Min:        model.Bound(1),
		Max:        model.Bound(2),
		Fields:     []model.Field{{Key: "title"}},
	}}
	v := validation.Compile(fields)

	if errs := v.Validate(state.Empty()); !errs.Has("jobs") {
		t.Fatalf("absent group should fail the minimum, got %v", errs)
	}

	three := state.New(map[string]any{"jobs": []any{map[string]any{}, map[string]any{}, map[string]any{}}})
	if got := v.Validate(three).Get("jobs"); got != "must contain at most 2 entries" {
		t.Fatalf("unexpected message %q", got)
	}

	one := state.Empty().AddEntry("jobs")
	if errs := v.Validate(one); !errs.Empty() {
		t.Fatalf("expected valid, got %v", errs)
	}
}

func TestValidateExhaustiveAndTolerant(t *testing.T) {
	t.Parallel()

	fields := []model.Field{
		{Key: "name", Rule: rules.String().Required()},
		{Key: "age", Rule: rules.Number().Min(18)},
		{Key: "notes"},
		{
			Key:        "refs",
			Repeatable: true,
			Fields: []model.Field{
				{Key: "email", Rule: rules.String().Required().Email()},
			},
		},
	}
	s := state.New(map[string]any{
		"age":   "12",
		"extra": "ignored",
		"refs": []any{
			map[string]any{"email": "nope", "unknown": true},
			map[string]any{},
		},
	})

	got := validation.Compile(fields, validation.WithLogger(zap.NewNop())).Validate(s)
	want := []string{"age", "name", "refs.0.email", "refs.1.email"}
	if diff := cmp.Diff(want, got.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateIdempotent(t *testing.T) {
	t.Parallel()

	fields := []model.Field{{Key: "email", Rule: rules.String().Required()}}
	v := validation.Compile(fields)
	s := state.New(map[string]any{"email": ""})

	first := v.Validate(s)
	second := v.Validate(s)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("validation not idempotent (-first +second):\n%s", diff)
	}
	first["email"] = "mutated"
	if second.Get("email") == "mutated" {
		t.Fatalf("each run must return a fresh map")
	}
}

func TestGroupRuleOverridesFieldRule(t *testing.T) {
	t.Parallel()

	fields := []model.Field{{
		Key:        "jobs",
		Repeatable: true,
		Rule:       rules.RuleFunc(func(any) []rules.Issue { return rules.Fail("never") }),
		Fields:     []model.Field{{Key: "title"}},
	}}
	if errs := validation.Validate(fields, state.Empty()); !errs.Empty() {
		t.Fatalf("expected group composite to replace the field rule, got %v", errs)
	}
}

func TestPathHelpers(t *testing.T) {
	t.Parallel()

	if got := validation.EntryPath("education", 0, "school"); got != "education.0.school" {
		t.Fatalf("EntryPath = %q", got)
	}
	if got := validation.Path("a", "", "b"); got != "a.b" {
		t.Fatalf("Path = %q", got)
	}

	errs := validation.ErrorMap{"jobs.0.title": "x", "jobs": "y", "jobsite": "z"}
	if diff := cmp.Diff([]string{"jobs", "jobs.0.title"}, errs.Under("jobs").Paths()); diff != "" {
		t.Fatalf("Under mismatch (-want +got):\n%s", diff)
	}

	var empty validation.ErrorMap
	if empty.Len() != 0 || empty.Has("x") || empty.Clone() == nil {
		t.Fatalf("nil ErrorMap should behave as empty")
	}
}
