// Package openapi builds form definitions from OpenAPI 3 request bodies. Each
// operation becomes one definition whose fields mirror the body's top-level
// properties; arrays of objects turn into repeatable groups.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/schema"
)

var (
	// ErrOperationNotFound is returned when the document has no operation with
	// the requested id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned for operations without an object body.
	ErrNoRequestBody = errors.New("openapi: operation has no object request body")
)

// Option configures an Importer.
type Option func(*Importer)

// WithLogger routes importer logs to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithExternalRefs allows $ref values pointing outside the document.
func WithExternalRefs(allow bool) Option {
	return func(i *Importer) {
		i.externalRefs = allow
	}
}

// WithValidation validates the document before importing from it.
func WithValidation(enabled bool) Option {
	return func(i *Importer) {
		i.validate = enabled
	}
}

// Importer loads OpenAPI documents.
type Importer struct {
	logger       *zap.Logger
	externalRefs bool
	validate     bool
}

// New constructs an Importer.
func New(opts ...Option) *Importer {
	i := &Importer{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Load parses an OpenAPI document from memory. source names it in errors.
func (i *Importer) Load(ctx context.Context, data []byte, source string) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("openapi: %s: document is empty", source)
	}
	spec, err := i.loader(ctx).LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: %s: load document: %w", source, err)
	}
	return i.document(ctx, spec, source)
}

// LoadFile parses an OpenAPI document from disk.
func (i *Importer) LoadFile(ctx context.Context, path string) (*Document, error) {
	spec, err := i.loader(ctx).LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: %s: load document: %w", path, err)
	}
	return i.document(ctx, spec, path)
}

func (i *Importer) loader(ctx context.Context) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = i.externalRefs
	return loader
}

func (i *Importer) document(ctx context.Context, spec *openapi3.T, source string) (*Document, error) {
	if i.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: %s: validate: %w", source, err)
		}
	}
	doc := &Document{source: source, spec: spec, logger: i.logger}
	doc.index()
	i.logger.Debug("openapi document loaded",
		zap.String("source", source),
		zap.Int("operations", len(doc.operations)),
	)
	return doc, nil
}

// Operation summarises one path operation.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
	HasBody bool

	op *openapi3.Operation
}

// Document is a loaded OpenAPI document.
type Document struct {
	source     string
	spec       *openapi3.T
	logger     *zap.Logger
	operations []Operation
}

var methodOrder = []string{
	http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete,
	http.MethodPatch, http.MethodHead, http.MethodOptions, http.MethodTrace,
}

func (d *Document) index() {
	if d.spec.Paths == nil {
		return
	}
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, method := range methodOrder {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			d.operations = append(d.operations, Operation{
				ID:      id,
				Method:  method,
				Path:    path,
				Summary: op.Summary,
				HasBody: requestSchema(op) != nil,
				op:      op,
			})
		}
	}
	sort.Slice(d.operations, func(a, b int) bool {
		return d.operations[a].ID < d.operations[b].ID
	})
}

// Operations lists every operation sorted by id.
func (d *Document) Operations() []Operation {
	out := make([]Operation, len(d.operations))
	copy(out, d.operations)
	return out
}

// Definition converts the request body of the operation into a form
// definition. Property defaults seed the initial values.
func (d *Document) Definition(operationID string) (schema.Definition, error) {
	for _, op := range d.operations {
		if op.ID != operationID {
			continue
		}
		body := requestSchema(op.op)
		if body == nil {
			return schema.Definition{}, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
		}
		fields, initial := convertObject(body, true)
		if len(fields) == 0 {
			return schema.Definition{}, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
		}
		title := op.Summary
		if title == "" {
			title = body.Title
		}
		d.logger.Debug("operation imported",
			zap.String("operation", operationID),
			zap.Int("fields", len(fields)),
		)
		return schema.Definition{
			ID:      operationID,
			Title:   title,
			Source:  d.source,
			Fields:  fields,
			Initial: initial,
		}, nil
	}
	return schema.Definition{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
}

var preferredMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// requestSchema picks the body schema the way forms submit: JSON first, then
// form encodings, then whatever the operation declares.
func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range preferredMediaTypes {
		if mt := content.Get(mediaType); mt != nil {
			return objectSchema(mt.Schema)
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		mt := content[key]
		if mt == nil {
			continue
		}
		if s := objectSchema(mt.Schema); s != nil {
			return s
		}
	}
	return nil
}

func objectSchema(ref *openapi3.SchemaRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	if schemaType(ref.Value) != openapi3.TypeObject && len(ref.Value.Properties) == 0 {
		return nil
	}
	return ref.Value
}
