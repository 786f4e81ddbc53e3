package tabs_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/tabs"
)

func keys(fields []model.Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Key)
	}
	return out
}

func hiddenWhen(flag string) model.Predicate {
	return model.When(func(s state.State) bool { return s.Value(flag) == true })
}

func sampleFields() []model.Field {
	return []model.Field{
		{Key: "title"},
		{Key: "a1", Tab: "A", Hide: hiddenWhen("hideA")},
		{Key: "b1", Tab: "B"},
		{Key: "a2", Tab: "A", Hide: hiddenWhen("hideA")},
		{Key: "footer"},
	}
}

func TestPartitionPreservesOrder(t *testing.T) {
	t.Parallel()

	layout := tabs.Partition(sampleFields(), state.Empty())
	if diff := cmp.Diff([]string{"title", "footer"}, keys(layout.Untabbed)); diff != "" {
		t.Fatalf("untabbed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B"}, layout.Names()); diff != "" {
		t.Fatalf("tab order mismatch (-want +got):\n%s", diff)
	}
	group, ok := layout.Group("A")
	if !ok {
		t.Fatalf("expected group A")
	}
	if diff := cmp.Diff([]string{"a1", "a2"}, keys(group.Fields)); diff != "" {
		t.Fatalf("group fields mismatch (-want +got):\n%s", diff)
	}
}

func TestPartitionDropsEmptyTabs(t *testing.T) {
	t.Parallel()

	layout := tabs.Partition(sampleFields(), state.New(map[string]any{"hideA": true}))
	if diff := cmp.Diff([]string{"B"}, layout.Names()); diff != "" {
		t.Fatalf("tab names mismatch (-want +got):\n%s", diff)
	}
}

func TestTrackerIsSticky(t *testing.T) {
	t.Parallel()

	var tracker tabs.Tracker
	fields := sampleFields()

	if got := tracker.Resolve(tabs.Partition(fields, state.Empty())); got != "A" {
		t.Fatalf("initial active tab = %q, want A", got)
	}

	tracker.Select("B")
	hidden := state.New(map[string]any{"hideA": true})
	if got := tracker.Resolve(tabs.Partition(fields, hidden)); got != "B" {
		t.Fatalf("active tab changed to %q", got)
	}

	tracker.Select("A")
	if got := tracker.Resolve(tabs.Partition(fields, hidden)); got != "A" {
		t.Fatalf("active tab should stay on the emptied tab, got %q", got)
	}

	tracker.Reset()
	if tracker.Active() != "" {
		t.Fatalf("reset should clear the active tab")
	}
	if got := tracker.Resolve(tabs.Layout{}); got != "" {
		t.Fatalf("no tabs should leave the active tab unset, got %q", got)
	}
}
