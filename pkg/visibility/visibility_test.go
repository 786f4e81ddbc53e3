package visibility_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/visibility"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

func keys(fields []model.Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Key)
	}
	return out
}

func TestVisibleDefaultsAndHidePrecedence(t *testing.T) {
	t.Parallel()

	s := state.Empty()
	if !visibility.Visible(model.Field{Key: "a"}, s) {
		t.Fatalf("fields without predicates should be visible")
	}
	if visibility.Visible(model.Field{Key: "a", Show: model.Always(false)}, s) {
		t.Fatalf("show=false should hide")
	}
	both := model.Field{Key: "a", Show: model.Always(true), Hide: model.Always(true)}
	if visibility.Visible(both, s) {
		t.Fatalf("hide should win over show")
	}
}

func TestFilterTracksState(t *testing.T) {
	t.Parallel()

	fields := []model.Field{
		{Key: "country"},
		{Key: "state", Show: model.When(func(s state.State) bool { return s.Value("country") == "us" })},
		{Key: "notes"},
	}

	got := keys(visibility.Filter(fields, state.New(map[string]any{"country": "us"})))
	if diff := cmp.Diff([]string{"country", "state", "notes"}, got); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}

	got = keys(visibility.Filter(fields, state.New(map[string]any{"country": "ca"})))
	if diff := cmp.Diff([]string{"country", "notes"}, got); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterNestedFields(t *testing.T) {
	t.Parallel()

	fields := []model.Field{{
		Key:        "jobs",
		Repeatable: true,
		Fields: []model.Field{
			{Key: "title"},
			{Key: "salary", Hide: model.Always(true)},
		},
	}}
	got := visibility.Filter(fields, state.Empty())
	if diff := cmp.Diff([]string{"title"}, keys(got[0].Fields)); diff != "" {
		t.Fatalf("nested mismatch (-want +got):\n%s", diff)
	}
	if len(fields[0].Fields) != 2 {
		t.Fatalf("Filter must not mutate its input")
	}
}

func TestAddableDeletable(t *testing.T) {
	t.Parallel()

	s := state.New(map[string]any{"locked": true})
	group := model.Field{Key: "jobs", Repeatable: true}
	if !visibility.Addable(group, s) || !visibility.Deletable(group, s) {
		t.Fatalf("repeatable groups default to addable and deletable")
	}

	group.Addable = model.When(func(s state.State) bool { return s.Value("locked") != true })
	group.Deletable = model.Always(false)
	if visibility.Addable(group, s) || visibility.Deletable(group, s) {
		t.Fatalf("expected predicates to gate add and remove")
	}

	if visibility.Addable(model.Field{Key: "name"}, s) {
		t.Fatalf("plain fields are never addable")
	}
}

func TestExpressionPredicate(t *testing.T) {
	t.Parallel()

	pred := visibility.Expression(expr.New(), "state", `country == "us"`, nil)
	if !pred.Resolve(state.New(map[string]any{"country": "us"}), false) {
		t.Fatalf("expected expression to hold")
	}
	if pred.Resolve(state.New(map[string]any{"country": "ca"}), true) {
		t.Fatalf("expected expression to fail")
	}

	failing := visibility.EvaluatorFunc(func(string, string, visibility.Context) (bool, error) {
		return true, errors.New("boom")
	})
	if visibility.Expression(failing, "x", "x", nil).Resolve(state.Empty(), true) {
		t.Fatalf("evaluation errors should resolve to false")
	}

	if visibility.Expression(nil, "x", "x", nil).IsSet() {
		t.Fatalf("nil evaluator should yield an unset predicate")
	}
}

func TestExpressionReadsRepeatableEntries(t *testing.T) {
	t.Parallel()

	s := state.New(map[string]any{
		"education": []any{map[string]any{"school": "MIT"}},
	})
	pred := visibility.Expression(expr.New(), "gpa", `education.0.school == "MIT"`, nil)
	if !pred.Resolve(s, false) {
		t.Fatalf("expected entry lookup to succeed")
	}
}
