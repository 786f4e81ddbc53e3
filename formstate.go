// Package formstate ties the form packages together for callers that start
// from a definition file or an OpenAPI document and want a controller.
package formstate

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// Definition aliases schema.Definition so callers rarely import pkg/schema.
type Definition = schema.Definition

// Controller aliases form.Controller.
type Controller = form.Controller

// LoadDefinition parses a YAML or JSON definition from disk.
func LoadDefinition(path string, options ...schema.Option) (Definition, error) {
	return schema.LoadFile(path, options...)
}

// ImportOperation builds a definition from the request body of an OpenAPI
// operation stored at path.
func ImportOperation(ctx context.Context, path, operationID string, options ...openapi.Option) (Definition, error) {
	doc, err := openapi.New(options...).LoadFile(ctx, path)
	if err != nil {
		return Definition{}, err
	}
	return doc.Definition(operationID)
}

// NewController starts a form for def seeded with its initial values.
// Values overlay those defaults.
func NewController(def Definition, values map[string]any, onSubmit form.SubmitFunc, options ...form.Option) *Controller {
	initial := make(map[string]any, len(def.Initial)+len(values))
	for key, value := range def.Initial {
		initial[key] = value
	}
	for key, value := range values {
		initial[key] = value
	}
	return form.New(def.Fields, initial, onSubmit, options...)
}
