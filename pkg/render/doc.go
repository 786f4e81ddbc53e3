// Package render is the contract between form state and a presentation
// layer. Bind turns the visible fields of a snapshot into Bindings carrying
// the current value, error message, resolved options, widget name, merged
// props and change callbacks. Renderers serialise a submitted snapshot.
package render
