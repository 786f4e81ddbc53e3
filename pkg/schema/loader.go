package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/visibility"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

// ErrDefinitionNotFound is returned when a catalog has no definition for the
// requested id.
var ErrDefinitionNotFound = errors.New("schema: definition not found")

// Option customises parsing.
type Option func(*config)

type config struct {
	evaluator visibility.Evaluator
	compile   func(string) error
	extras    map[string]any
	logger    *zap.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{
		evaluator: expr.New(),
		compile: func(rule string) error {
			_, err := expr.Compile(rule)
			return err
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithEvaluator swaps the expression evaluator used for show/hide/addable/
// deletable rules. Rules are no longer syntax-checked at parse time since the
// grammar belongs to the evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(cfg *config) {
		if evaluator == nil {
			return
		}
		cfg.evaluator = evaluator
		cfg.compile = nil
	}
}

// WithExtras exposes values to expressions under the extras. prefix.
func WithExtras(extras map[string]any) Option {
	return func(cfg *config) {
		cfg.extras = extras
	}
}

// WithLogger routes loader logs to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Catalog holds definitions keyed by id.
type Catalog struct {
	definitions map[string]Definition
}

// Definition returns the definition registered under id.
func (c *Catalog) Definition(id string) (Definition, error) {
	if c != nil {
		if def, ok := c.definitions[id]; ok {
			return def, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %q", ErrDefinitionNotFound, id)
}

// IDs lists the registered ids in sorted order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.definitions))
	for id := range c.definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports how many definitions were loaded.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.definitions)
}

// LoadFS walks fsys and parses every JSON/YAML file as one definition. A nil
// fsys yields an empty catalog.
func LoadFS(fsys fs.FS, opts ...Option) (*Catalog, error) {
	catalog := &Catalog{definitions: make(map[string]Definition)}
	if fsys == nil {
		return catalog, nil
	}
	cfg := newConfig(opts)

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		def, err := parse(data, path, cfg)
		if err != nil {
			return err
		}
		if existing, dup := catalog.definitions[def.ID]; dup {
			return fmt.Errorf("schema: duplicate definition %q (files %s and %s)", def.ID, existing.Source, path)
		}
		catalog.definitions[def.ID] = def
		return nil
	})
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("definitions loaded", zap.Int("count", len(catalog.definitions)))
	return catalog, nil
}

// LoadFile parses a single definition from disk.
func LoadFile(path string, opts ...Option) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, path, opts...)
}

// Parse decodes a JSON or YAML definition. source names the origin in errors
// and supplies the id when the document omits one.
func Parse(data []byte, source string, opts ...Option) (Definition, error) {
	return parse(data, source, newConfig(opts))
}

func parse(data []byte, source string, cfg *config) (Definition, error) {
	doc, err := decode(data, source)
	if err != nil {
		return Definition{}, err
	}

	id := strings.TrimSpace(doc.ID)
	if id == "" {
		id = idFromSource(source)
	}
	if id == "" {
		return Definition{}, fmt.Errorf("schema: %s: definition has no id", source)
	}

	b := &builder{cfg: cfg, source: source}
	fields, err := b.fields(doc.Fields, "")
	if err != nil {
		return Definition{}, err
	}
	if len(fields) == 0 {
		return Definition{}, fmt.Errorf("schema: %s: definition %q has no fields", source, id)
	}

	def := Definition{
		ID:          id,
		Title:       sanitizeText(doc.Title),
		Source:      source,
		Fields:      fields,
		Initial:     doc.Initial,
		Expressions: b.expressions,
	}
	cfg.logger.Debug("definition parsed",
		zap.String("id", def.ID),
		zap.String("source", source),
		zap.Int("fields", len(fields)),
		zap.Int("expressions", len(b.expressions)),
	)
	return def, nil
}

func decode(data []byte, source string) (definitionFile, error) {
	var doc definitionFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return definitionFile{}, fmt.Errorf("schema: file %s is empty", source)
	}

	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return definitionFile{}, fmt.Errorf("schema: parse %s: %w", source, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return definitionFile{}, fmt.Errorf("schema: parse %s: %w", source, err)
	}
	return doc, nil
}

func idFromSource(source string) string {
	base := filepath.Base(source)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
