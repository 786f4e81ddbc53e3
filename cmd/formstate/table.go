package main

import (
	"strings"

	"github.com/bndr/gotabulate"
)

const maxCellSize = 60

// table renders rows as a left-aligned grid.
func table(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetEmptyString("-")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(maxCellSize)
	out := t.Render("grid")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}
