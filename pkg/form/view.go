package form

import (
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/tabs"
)

// View is what a presentation layer draws for the current state: untabbed
// bindings, the tab strip and the bindings of the active tab.
type View struct {
	Untabbed  []render.Binding
	Tabs      []string
	ActiveTab string
	Active    []render.Binding
}

// Layout partitions the visible fields and resolves the active tab.
func (c *Controller) Layout() tabs.Layout {
	layout := tabs.Partition(c.fields, c.State())
	c.tracker.Resolve(layout)
	return layout
}

// ActiveTab returns the active tab, resolving it first if needed.
func (c *Controller) ActiveTab() string {
	c.Layout()
	return c.tracker.Active()
}

// SelectTab switches the active tab. The choice is kept even when the tab
// later has no visible fields.
func (c *Controller) SelectTab(name string) {
	c.tracker.Select(name)
}

// Bindings binds every visible field regardless of tab.
func (c *Controller) Bindings() []render.Binding {
	return render.Bind(c.fields, c.State(), c.errors, c, c.bindOpts)
}

// View binds the fields of the current layout.
func (c *Controller) View() View {
	layout := c.Layout()
	s := c.State()
	view := View{
		Untabbed:  render.Bind(layout.Untabbed, s, c.errors, c, c.bindOpts),
		Tabs:      layout.Names(),
		ActiveTab: c.tracker.Active(),
	}
	if group, ok := layout.Group(view.ActiveTab); ok {
		view.Active = render.Bind(group.Fields, s, c.errors, c, c.bindOpts)
	}
	return view
}
