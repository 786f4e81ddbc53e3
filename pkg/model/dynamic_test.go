package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/state"
)

func TestDynamicResolve(t *testing.T) {
	t.Parallel()

	var unset model.Predicate
	if unset.IsSet() || !unset.Resolve(state.Empty(), true) {
		t.Fatalf("unset predicate should use the fallback")
	}

	static := model.Always(false)
	if !static.IsSet() || static.IsComputed() || static.Resolve(state.Empty(), true) {
		t.Fatalf("static predicate should resolve to its value")
	}

	computed := model.When(func(s state.State) bool { return s.Value("flag") == true })
	if computed.Resolve(state.Empty(), true) {
		t.Fatalf("computed predicate should ignore the fallback")
	}
	if !computed.Resolve(state.New(map[string]any{"flag": true}), false) {
		t.Fatalf("computed predicate should read state")
	}

	if model.Computed[bool](nil).IsSet() {
		t.Fatalf("nil computation should stay unset")
	}
}

func TestComputedOptionsAreRecomputed(t *testing.T) {
	t.Parallel()

	calls := 0
	field := model.Field{
		Key:  "city",
		Type: model.FieldTypeSelect,
		Options: model.ComputedOptions(func(s state.State) []model.Option {
			calls++
			if s.Value("country") == "ca" {
				return []model.Option{{Value: "yvr", Label: "Vancouver"}}
			}
			return []model.Option{{Value: "nyc", Label: "New York"}}
		}),
	}

	first := field.ResolveOptions(state.New(map[string]any{"country": "us"}))
	second := field.ResolveOptions(state.New(map[string]any{"country": "ca"}))

	if calls != 2 {
		t.Fatalf("expected options to be computed on every call, got %d calls", calls)
	}
	if diff := cmp.Diff([]model.Option{{Value: "yvr", Label: "Vancouver"}}, second); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if first[0].Value != "nyc" {
		t.Fatalf("unexpected first options: %v", first)
	}
}

func TestFieldTypeValid(t *testing.T) {
	t.Parallel()

	for _, typ := range model.FieldTypes() {
		if !typ.Valid() {
			t.Fatalf("%s should be valid", typ)
		}
	}
	if model.FieldType("date").Valid() {
		t.Fatalf("unknown types should be rejected")
	}
	if !model.FieldTypeCheckboxGroup.HasOptions() || model.FieldTypeText.HasOptions() {
		t.Fatalf("unexpected HasOptions result")
	}
}

func TestFieldCloneDoesNotShare(t *testing.T) {
	t.Parallel()

	original := model.Field{
		Key:        "jobs",
		Repeatable: true,
		Fields:     []model.Field{{Key: "title"}},
		Hints:      map[string]string{"columns": "2"},
		Min:        model.Bound(1),
	}
	clone := original.Clone()
	clone.Fields[0].Key = "changed"
	clone.Hints["columns"] = "3"
	*clone.Min = 5

	if original.Fields[0].Key != "title" || original.Hints["columns"] != "2" || *original.Min != 1 {
		t.Fatalf("clone shares state with original: %+v", original)
	}
	if _, ok := original.SubField("title"); !ok || !original.HasSubFields() {
		t.Fatalf("expected sub-field lookup to succeed")
	}
}
