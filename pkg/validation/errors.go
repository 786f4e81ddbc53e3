package validation

import (
	"sort"
	"strconv"
	"strings"
)

// ErrorMap maps a dotted field path to its validation message. A nil map is
// a valid, empty ErrorMap.
type ErrorMap map[string]string

// Has reports whether path carries an error.
func (m ErrorMap) Has(path string) bool {
	_, ok := m[path]
	return ok
}

// Get returns the message for path, or "" when none.
func (m ErrorMap) Get(path string) string {
	return m[path]
}

// Len reports how many paths failed.
func (m ErrorMap) Len() int {
	return len(m)
}

// Empty reports whether validation passed.
func (m ErrorMap) Empty() bool {
	return len(m) == 0
}

// Paths lists the failing paths sorted lexically.
func (m ErrorMap) Paths() []string {
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Clone returns an independent copy. Cloning nil yields an empty map.
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for path, msg := range m {
		out[path] = msg
	}
	return out
}

// Under returns the errors nested below prefix (for example every entry of
// a repeatable group), keyed by their full path.
func (m ErrorMap) Under(prefix string) ErrorMap {
	out := ErrorMap{}
	for path, msg := range m {
		if path == prefix || strings.HasPrefix(path, prefix+".") {
			out[path] = msg
		}
	}
	return out
}

// Path joins segments into the dotted form used as ErrorMap keys. Empty
// segments are skipped.
func Path(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, ".")
}

// EntryPath builds the path of a nested field inside a repeatable entry,
// e.g. EntryPath("education", 0, "school") == "education.0.school".
func EntryPath(key string, index int, nested string) string {
	return Path(key, strconv.Itoa(index), nested)
}
