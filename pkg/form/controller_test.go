package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/state"
)

func emailFields() []model.Field {
	return []model.Field{{Key: "email", Type: model.FieldTypeText, Rule: rules.String().Required()}}
}

func TestSubmitFailureSkipsCallback(t *testing.T) {
	t.Parallel()

	calls := 0
	c := form.New(emailFields(), map[string]any{"email": ""}, func(state.State, state.Mutate) { calls++ })

	if c.Submit() {
		t.Fatalf("expected submit to fail")
	}
	if calls != 0 {
		t.Fatalf("callback must not run on failure")
	}
	if c.ErrorFor("email") == "" || c.Errors().Len() != 1 {
		t.Fatalf("expected an email error, got %v", c.Errors())
	}
	if c.Phase() != form.PhaseIdle {
		t.Fatalf("expected idle after submit, got %s", c.Phase())
	}
}

func TestSubmitSuccessCallsOnce(t *testing.T) {
	t.Parallel()

	var got []map[string]any
	c := form.New(emailFields(), map[string]any{"email": ""}, func(data state.State, _ state.Mutate) {
		got = append(got, data.Map())
	})

	c.Submit()
	c.SetValue("email", "a@b.com")
	if !c.Submit() {
		t.Fatalf("expected submit to succeed, errors: %v", c.Errors())
	}
	if !c.Errors().Empty() {
		t.Fatalf("errors should be cleared on success")
	}
	want := []map[string]any{{"email": "a@b.com"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("callback data mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitMutateHandle(t *testing.T) {
	t.Parallel()

	c := form.New(emailFields(), map[string]any{"email": "a@b.com"}, func(_ state.State, mutate state.Mutate) {
		mutate(func(s state.State) state.State { return s.SetScalar("email", "") })
	})

	if !c.Submit() {
		t.Fatalf("expected submit to succeed")
	}
	if c.State().Value("email") != "" {
		t.Fatalf("mutate handle should clear the form, got %v", c.State().Value("email"))
	}
	if !c.Errors().Empty() {
		t.Fatalf("mutate must not touch errors")
	}
}

func TestSubmitLogsSubmissionID(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	c := form.New(emailFields(), nil, nil,
		form.WithLogger(zap.New(core)),
		form.WithIDGenerator(func() string { return "sub-1" }),
	)

	c.Submit()
	if c.Submission() != "sub-1" {
		t.Fatalf("unexpected submission id %q", c.Submission())
	}
	entries := logs.FilterMessage("submit rejected").All()
	if len(entries) != 1 || entries[0].ContextMap()["submission"] != "sub-1" {
		t.Fatalf("expected one rejected log entry with id, got %+v", entries)
	}
}

func TestRepeatableEvents(t *testing.T) {
	t.Parallel()

	fields := []model.Field{
		{
			Key:        "education",
			Repeatable: true,
			Fields:     []model.Field{{Key: "school", Rule: rules.String().Required()}},
		},
		{
			Key:        "locked",
			Repeatable: true,
			Addable:    model.Always(false),
			Deletable:  model.Always(false),
			Fields:     []model.Field{{Key: "x"}},
		},
	}
	c := form.New(fields, map[string]any{"locked": []any{map[string]any{"x": 1}}}, nil)

	if !c.AddEntry("education") || !c.AddEntry("education") {
		t.Fatalf("education should be addable")
	}
	c.SetEntryField("education", 1, "school", "X")
	if c.Submit() {
		t.Fatalf("expected first entry to fail")
	}
	if diff := cmp.Diff([]string{"education.0.school"}, c.Errors().Paths()); diff != "" {
		t.Fatalf("error paths mismatch (-want +got):\n%s", diff)
	}

	if !c.RemoveEntry("education", 0) {
		t.Fatalf("expected remove to succeed")
	}
	if c.RemoveEntry("education", 5) {
		t.Fatalf("out-of-range remove should be refused")
	}
	if c.AddEntry("locked") || c.RemoveEntry("locked", 0) {
		t.Fatalf("locked group should refuse add and remove")
	}
	if c.AddEntry("unknown") {
		t.Fatalf("unknown keys are not groups")
	}

	want := []state.Record{{"school": "X"}}
	if diff := cmp.Diff(want, c.State().Entries("education")); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if !c.Submit() {
		t.Fatalf("expected submit to succeed, got %v", c.Errors())
	}
}

func TestActiveTabSticky(t *testing.T) {
	t.Parallel()

	hideA := model.When(func(s state.State) bool { return s.Value("hideA") == true })
	fields := []model.Field{
		{Key: "a", Tab: "A", Hide: hideA},
		{Key: "b", Tab: "B"},
		{Key: "hideA", Type: model.FieldTypeSwitch},
	}
	c := form.New(fields, nil, nil)

	if c.ActiveTab() != "A" {
		t.Fatalf("expected A, got %q", c.ActiveTab())
	}
	c.SelectTab("B")
	c.SetValue("hideA", true)
	view := c.View()
	if view.ActiveTab != "B" {
		t.Fatalf("active tab changed to %q", view.ActiveTab)
	}
	if diff := cmp.Diff([]string{"B"}, view.Tabs); diff != "" {
		t.Fatalf("tabs mismatch (-want +got):\n%s", diff)
	}
	if len(view.Untabbed) != 1 || view.Untabbed[0].Name != "hideA" {
		t.Fatalf("unexpected untabbed bindings: %+v", view.Untabbed)
	}
	if len(view.Active) != 1 || view.Active[0].Name != "b" {
		t.Fatalf("unexpected active bindings: %+v", view.Active)
	}
}

func TestBindingsDriveController(t *testing.T) {
	t.Parallel()

	c := form.New(emailFields(), nil, nil)
	c.Submit()

	bindings := c.Bindings()
	if bindings[0].Error == "" {
		t.Fatalf("binding should surface the submit error")
	}
	bindings[0].OnChange("z@z.io")
	if c.State().Value("email") != "z@z.io" {
		t.Fatalf("OnChange should update the store")
	}
	if c.Version() != 1 {
		t.Fatalf("expected one transition, got %d", c.Version())
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	c := form.New(emailFields(), map[string]any{"email": "x"}, nil)
	c.SetValue("email", "")
	c.Submit()
	c.Reset(nil)

	if c.State().Value("email") != "x" || !c.Errors().Empty() {
		t.Fatalf("reset should restore initial values and clear errors")
	}
	c.Reset(map[string]any{"email": "y"})
	if c.State().Value("email") != "y" {
		t.Fatalf("reset with values should use them")
	}
}

func TestSubmittedDataDoesNotAliasStore(t *testing.T) {
	t.Parallel()

	fields := []model.Field{{
		Key:        "education",
		Repeatable: true,
		Fields:     []model.Field{{Key: "school", Type: model.FieldTypeText}},
	}}
	c := form.New(fields, map[string]any{"education": []any{map[string]any{"school": "MIT"}}},
		func(data state.State, _ state.Mutate) {
			data.Value("education").([]state.Record)[0]["school"] = "changed"
		})

	if !c.Submit() {
		t.Fatalf("expected submit to succeed, errors: %v", c.Errors())
	}
	want := []state.Record{{"school": "MIT"}}
	if diff := cmp.Diff(want, c.State().Entries("education")); diff != "" {
		t.Fatalf("store mutated by callback (-want +got):\n%s", diff)
	}
}
