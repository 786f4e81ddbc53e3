package render

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/state"
)

// Renderer turns a submitted state snapshot into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, s state.State) ([]byte, error)
}

// Built-in renderer names.
const (
	FormatJSON   = "json"
	FormatForm   = "form"
	FormatPretty = "pretty"
)

type jsonRenderer struct{ indent bool }

// JSON renders state as a JSON object. Indent pretty-prints it.
func JSON(indent bool) Renderer { return jsonRenderer{indent: indent} }

func (jsonRenderer) Name() string        { return FormatJSON }
func (jsonRenderer) ContentType() string { return "application/json" }

func (r jsonRenderer) Render(_ context.Context, s state.State) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if r.indent {
		out, err = json.MarshalIndent(s.Map(), "", "  ")
	} else {
		out, err = json.Marshal(s.Map())
	}
	if err != nil {
		return nil, fmt.Errorf("render: json: %w", err)
	}
	return out, nil
}

type formRenderer struct{}

// Form renders state as application/x-www-form-urlencoded. Repeatable entries
// use the same dotted paths as ErrorMap keys, e.g. education.0.school.
func Form() Renderer { return formRenderer{} }

func (formRenderer) Name() string        { return FormatForm }
func (formRenderer) ContentType() string { return "application/x-www-form-urlencoded" }

func (formRenderer) Render(_ context.Context, s state.State) ([]byte, error) {
	values := url.Values{}
	for _, pair := range flatten(s.Map()) {
		values.Add(pair.key, pair.value)
	}
	return []byte(values.Encode()), nil
}

type prettyRenderer struct{}

// Pretty renders one `path=value` line per leaf, sorted by path.
func Pretty() Renderer { return prettyRenderer{} }

func (prettyRenderer) Name() string        { return FormatPretty }
func (prettyRenderer) ContentType() string { return "text/plain" }

func (prettyRenderer) Render(_ context.Context, s state.State) ([]byte, error) {
	var b strings.Builder
	for _, pair := range flatten(s.Map()) {
		fmt.Fprintf(&b, "%s=%s\n", pair.key, pair.value)
	}
	return []byte(b.String()), nil
}

type leaf struct {
	key   string
	value string
}

func flatten(values map[string]any) []leaf {
	var out []leaf
	walk("", values, &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

func walk(prefix string, value any, out *[]leaf) {
	join := func(seg string) string {
		if prefix == "" {
			return seg
		}
		return prefix + "." + seg
	}
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			walk(join(key), val, out)
		}
		return
	case []any:
		for idx, val := range v {
			walk(join(strconv.Itoa(idx)), val, out)
		}
		return
	case nil:
		*out = append(*out, leaf{key: prefix})
		return
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		for idx := 0; idx < rv.Len(); idx++ {
			walk(join(strconv.Itoa(idx)), rv.Index(idx).Interface(), out)
		}
		return
	}
	*out = append(*out, leaf{key: prefix, value: fmt.Sprint(value)})
}
