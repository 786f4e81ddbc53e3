package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/schema"
)

func TestLintProfileIsClean(t *testing.T) {
	t.Parallel()

	if warnings := schema.Lint(loadProfile(t)); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestLintFindings(t *testing.T) {
	t.Parallel()

	doc := `
fields:
  - key: country
  - key: state
    show: contry == "us" && extras.role == "admin"
  - key: plan
    type: select
    hide: unrelated
  - key: jobs
    repeatable: true
`
	def, err := schema.Parse([]byte(doc), "lint.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var got []string
	for _, warning := range schema.Lint(def) {
		got = append(got, warning.String())
	}
	want := []string{
		`state: show expression references unknown key "contry" (did you mean "country"?)`,
		`plan: hide expression references unknown key "unrelated"`,
		"plan: select field declares no options",
		"jobs: repeatable field declares no sub-fields",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}
