package state_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/state"
)

func TestRemoveEntryShiftsLaterRecords(t *testing.T) {
	t.Parallel()

	s := state.New(map[string]any{
		"items": []any{
			map[string]any{"name": "A"},
			map[string]any{"name": "B"},
			map[string]any{"name": "C"},
		},
	})

	next := s.RemoveEntry("items", 1)

	want := []state.Record{{"name": "A"}, {"name": "C"}}
	if diff := cmp.Diff(want, next.Entries("items")); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if got := s.Len("items"); got != 3 {
		t.Fatalf("expected original snapshot untouched, got len %d", got)
	}
}

func TestRemoveEntryOutOfRangeIsNoop(t *testing.T) {
	t.Parallel()

	s := state.New(map[string]any{"items": []state.Record{{"name": "A"}}})
	for _, idx := range []int{-1, 1, 42} {
		next := s.RemoveEntry("items", idx)
		if !next.Equal(s) {
			t.Fatalf("remove %d changed state: %v", idx, next.Map())
		}
	}
	if next := s.RemoveEntry("missing", 0); next.Len("missing") != 0 {
		t.Fatalf("expected empty list for missing key")
	}
}

func TestAddEntryOnAbsentKey(t *testing.T) {
	t.Parallel()

	next := state.Empty().AddEntry("education")

	want := []state.Record{{}}
	if diff := cmp.Diff(want, next.Entries("education")); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestSetEntryFieldMerges(t *testing.T) {
	t.Parallel()

	s := state.New(map[string]any{
		"education": []any{map[string]any{"year": "2020"}},
	})

	next := s.SetEntryField("education", 0, "school", "MIT")

	want := map[string]any{
		"education": []any{map[string]any{"year": "2020", "school": "MIT"}},
	}
	if diff := cmp.Diff(want, next.Map()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s.Entries("education")[0]["school"]; ok {
		t.Fatalf("previous snapshot was mutated")
	}
}

func TestSetEntryCreatesListAndPadsRecords(t *testing.T) {
	t.Parallel()

	next := state.Empty().SetEntry("jobs", 2, state.Record{"title": "dev"})

	want := []state.Record{{}, {}, {"title": "dev"}}
	if diff := cmp.Diff(want, next.Entries("jobs")); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	replaced := next.SetEntry("jobs", 2, state.Record{"company": "acme"})
	if diff := cmp.Diff(state.Record{"company": "acme"}, replaced.Entries("jobs")[2]); diff != "" {
		t.Fatalf("SetEntry should replace the record (-want +got):\n%s", diff)
	}
}

func TestSetEntryReplacesScalarWithList(t *testing.T) {
	t.Parallel()

	s := state.New(map[string]any{"jobs": "oops"})
	next := s.SetEntryField("jobs", 0, "title", "dev")

	if got := next.Len("jobs"); got != 1 {
		t.Fatalf("expected list with one record, got %d", got)
	}
}

func TestSetScalarDoesNotAlias(t *testing.T) {
	t.Parallel()

	tags := []any{"a", "b"}
	s := state.Empty().SetScalar("tags", tags)
	tags[0] = "changed"

	if diff := cmp.Diff(map[string]any{"tags": []any{"a", "b"}}, s.Map()); diff != "" {
		t.Fatalf("state aliased caller slice (-want +got):\n%s", diff)
	}
}

func TestNewNormalisesNilRecords(t *testing.T) {
	t.Parallel()

	s := state.New(map[string]any{
		"items": []any{nil, map[string]any{"a": 1}},
	})

	entries := s.Entries("items")
	if len(entries) != 2 || entries[0] == nil {
		t.Fatalf("expected nil record replaced with empty record, got %#v", entries)
	}
}

func TestStoreUpdateNotifiesListeners(t *testing.T) {
	t.Parallel()

	store := state.NewStore(state.Empty())
	var transitions int
	store.Subscribe(func(previous, current state.State) {
		transitions++
		if previous.Equal(current) {
			t.Fatalf("expected distinct snapshots")
		}
	})

	mutate := store.Mutator()
	mutate(func(s state.State) state.State { return s.SetScalar("name", "Ada") })

	if transitions != 1 || store.Version() != 1 {
		t.Fatalf("expected one transition, got %d (version %d)", transitions, store.Version())
	}
	if got := store.Current().Value("name"); got != "Ada" {
		t.Fatalf("expected Ada, got %v", got)
	}
}

func TestReadersDoNotAlias(t *testing.T) {
	t.Parallel()

	s := state.New(map[string]any{
		"education": []any{map[string]any{"school": "MIT"}},
		"tags":      []string{"z"},
		"address":   map[string]any{"city": "Boston"},
	})
	previous := s.SetScalar("name", "Ada")

	s.Value("education").([]state.Record)[0]["school"] = "changed"
	s.Value("tags").([]string)[0] = "changed"
	s.Value("address").(map[string]any)["city"] = "changed"
	if value, ok := s.Get("education"); ok {
		value.([]state.Record)[0]["year"] = 1999
	}
	s.Entries("education")[0]["school"] = "changed"
	if record, ok := s.Entry("education", 0); ok {
		record["school"] = "changed"
	}

	want := map[string]any{
		"education": []any{map[string]any{"school": "MIT"}},
		"tags":      []any{"z"},
		"address":   map[string]any{"city": "Boston"},
	}
	if diff := cmp.Diff(want, s.Map()); diff != "" {
		t.Fatalf("snapshot mutated through a reader (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want["education"], previous.Map()["education"]); diff != "" {
		t.Fatalf("derived snapshot mutated (-want +got):\n%s", diff)
	}
}
