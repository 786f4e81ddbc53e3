package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// Option customises a Controller.
type Option func(*Controller)

// WithLogger routes controller and validator logs to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProps sets props applied to every binding. They override descriptor
// defaults.
func WithProps(props render.Props) Option {
	return func(c *Controller) {
		c.bindOpts.Props = render.MergeProps(c.bindOpts.Props, props)
	}
}

// WithFieldProps sets props for the binding at path, overriding WithProps.
func WithFieldProps(path string, props render.Props) Option {
	return func(c *Controller) {
		if c.bindOpts.FieldProps == nil {
			c.bindOpts.FieldProps = map[string]render.Props{}
		}
		c.bindOpts.FieldProps[path] = render.MergeProps(c.bindOpts.FieldProps[path], props)
	}
}

// WithWidgets overrides the widget registry used by Bindings.
func WithWidgets(registry *widgets.Registry) Option {
	return func(c *Controller) {
		if registry != nil {
			c.bindOpts.Widgets = registry
		}
	}
}

// WithIDGenerator overrides how submission ids are produced.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}
