package openapi

import "testing"

func TestHumanize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"name":        "Name",
		"full_name":   "Full name",
		"graduatedAt": "Graduated at",
		"userID":      "User id",
		"zip-code":    "Zip code",
		"_private":    "Private",
	}
	for in, want := range cases {
		if got := humanize(in); got != want {
			t.Errorf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}
