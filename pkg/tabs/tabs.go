// Package tabs partitions visible fields into untabbed fields and named tab
// groups, and tracks which tab is active.
package tabs

import (
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Group is one named tab and the visible fields carrying its name.
type Group struct {
	Name   string
	Fields []model.Field
}

// Layout is the grouping derived from a single state snapshot.
type Layout struct {
	Untabbed []model.Field
	Tabs     []Group
}

// HasTabs reports whether any tab group exists.
func (l Layout) HasTabs() bool {
	return len(l.Tabs) > 0
}

// Names lists tab names in first-seen order.
func (l Layout) Names() []string {
	names := make([]string, len(l.Tabs))
	for idx, group := range l.Tabs {
		names[idx] = group.Name
	}
	return names
}

// Group looks up a tab by name. A tab whose fields are all hidden is absent.
func (l Layout) Group(name string) (Group, bool) {
	for _, group := range l.Tabs {
		if group.Name == name {
			return group, true
		}
	}
	return Group{}, false
}

// Partition filters fields by visibility against s and groups the survivors.
// Group order follows the first field seen for each tab; field order within
// a group follows the input.
func Partition(fields []model.Field, s state.State) Layout {
	var layout Layout
	index := map[string]int{}
	for _, field := range visibility.Filter(fields, s) {
		if field.Tab == "" {
			layout.Untabbed = append(layout.Untabbed, field)
			continue
		}
		pos, ok := index[field.Tab]
		if !ok {
			pos = len(layout.Tabs)
			index[field.Tab] = pos
			layout.Tabs = append(layout.Tabs, Group{Name: field.Tab})
		}
		layout.Tabs[pos].Fields = append(layout.Tabs[pos].Fields, field)
	}
	return layout
}

// Tracker holds the active tab. Once set it is never changed implicitly,
// even when the tab later has no visible fields.
type Tracker struct {
	active string
}

// Resolve sets the active tab to the first group when none is active yet and
// returns the active tab.
func (t *Tracker) Resolve(layout Layout) string {
	if t.active == "" && layout.HasTabs() {
		t.active = layout.Tabs[0].Name
	}
	return t.active
}

// Select switches the active tab explicitly.
func (t *Tracker) Select(name string) {
	t.active = name
}

// Active returns the current tab, or "" before any tab was resolved.
func (t *Tracker) Active() string {
	return t.active
}

// Reset clears the active tab.
func (t *Tracker) Reset() {
	t.active = ""
}
