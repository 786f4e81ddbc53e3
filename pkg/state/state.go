package state

import (
	"reflect"
	"sort"
)

// Record is a single entry inside a repeatable group, keyed by nested field
// key.
type Record map[string]any

// State is an immutable snapshot of form values keyed by top-level field key.
// Scalar fields hold strings, booleans, numbers or string lists; repeatable
// fields hold []Record. Every mutation returns a fresh snapshot and leaves the
// receiver untouched.
type State struct {
	values map[string]any
}

// New seeds a snapshot from plain values. Nested maps and slices are deep
// copied and sequences of maps are normalised into []Record.
func New(initial map[string]any) State {
	values := make(map[string]any, len(initial))
	for key, value := range initial {
		values[key] = normalise(value)
	}
	return State{values: values}
}

// Empty returns a snapshot without values.
func Empty() State {
	return State{values: map[string]any{}}
}

// Get returns a deep copy of the value stored at key. Writes through the
// returned value never reach the snapshot.
func (s State) Get(key string) (any, bool) {
	value, ok := s.values[key]
	if !ok {
		return nil, false
	}
	return deepCopy(value), true
}

// Value returns the value stored at key or nil when absent.
func (s State) Value(key string) any {
	value, _ := s.Get(key)
	return value
}

// Entries returns a copy of the repeatable entries stored at key. Non-list
// values yield nil.
func (s State) Entries(key string) []Record {
	list, ok := s.values[key].([]Record)
	if !ok {
		return nil
	}
	out := make([]Record, len(list))
	for idx, record := range list {
		out[idx] = cloneRecord(record)
	}
	return out
}

// Entry returns a copy of the record at index inside the repeatable key.
func (s State) Entry(key string, index int) (Record, bool) {
	list, ok := s.values[key].([]Record)
	if !ok || index < 0 || index >= len(list) {
		return nil, false
	}
	return cloneRecord(list[index]), true
}

// Len reports the number of entries stored for a repeatable key.
func (s State) Len(key string) int {
	list, _ := s.values[key].([]Record)
	return len(list)
}

// Keys returns the top-level keys in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a deep copy using plain map[string]any / []any containers so the
// result can be serialised or handed to expression evaluators.
func (s State) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for key, value := range s.values {
		out[key] = plain(value)
	}
	return out
}

// Equal reports whether both snapshots hold the same values.
func (s State) Equal(other State) bool {
	return reflect.DeepEqual(s.Map(), other.Map())
}

// SetScalar replaces the top-level value for key.
func (s State) SetScalar(key string, value any) State {
	next := s.clone()
	next.values[key] = normalise(value)
	return next
}

// SetEntry replaces the whole record at index, creating the list and any
// missing records up to index. Negative indices leave the state unchanged.
func (s State) SetEntry(key string, index int, record Record) State {
	if index < 0 {
		return s.clone()
	}
	next := s.clone()
	list := ensureIndex(next.listAt(key), index)
	list[index] = cloneRecord(record)
	next.values[key] = list
	return next
}

// SetEntryField merges {nested: value} into the record at index, preserving the
// record's other keys.
func (s State) SetEntryField(key string, index int, nested string, value any) State {
	if index < 0 {
		return s.clone()
	}
	next := s.clone()
	list := ensureIndex(next.listAt(key), index)
	record := cloneRecord(list[index])
	record[nested] = normalise(value)
	list[index] = record
	next.values[key] = list
	return next
}

// AddEntry appends an empty record to the list stored at key.
func (s State) AddEntry(key string) State {
	next := s.clone()
	next.values[key] = append(next.listAt(key), Record{})
	return next
}

// RemoveEntry deletes the record at index, shifting later records down by one.
// Out-of-range indices leave the state unchanged.
func (s State) RemoveEntry(key string, index int) State {
	next := s.clone()
	list := next.listAt(key)
	if index < 0 || index >= len(list) {
		return next
	}
	trimmed := make([]Record, 0, len(list)-1)
	trimmed = append(trimmed, list[:index]...)
	trimmed = append(trimmed, list[index+1:]...)
	next.values[key] = trimmed
	return next
}

func (s State) clone() State {
	values := make(map[string]any, len(s.values)+1)
	for key, value := range s.values {
		values[key] = value
	}
	return State{values: values}
}

// listAt returns a private copy of the list at key so callers can mutate it
// without touching superseded snapshots.
func (s State) listAt(key string) []Record {
	list, ok := s.values[key].([]Record)
	if !ok {
		return []Record{}
	}
	out := make([]Record, len(list))
	copy(out, list)
	return out
}

func ensureIndex(list []Record, index int) []Record {
	for len(list) <= index {
		list = append(list, Record{})
	}
	if list[index] == nil {
		list[index] = Record{}
	}
	return list
}

func cloneRecord(record Record) Record {
	out := make(Record, len(record))
	for key, value := range record {
		out[key] = deepCopy(value)
	}
	return out
}

func normalise(value any) any {
	switch typed := value.(type) {
	case Record:
		return cloneRecord(typed)
	case []Record:
		out := make([]Record, len(typed))
		for idx, record := range typed {
			if record == nil {
				out[idx] = Record{}
				continue
			}
			out[idx] = cloneRecord(record)
		}
		return out
	case []map[string]any:
		out := make([]Record, len(typed))
		for idx, record := range typed {
			out[idx] = cloneRecord(Record(record))
		}
		return out
	case []any:
		if records, ok := asRecords(typed); ok {
			return records
		}
		return deepCopy(typed)
	case []string:
		return append([]string(nil), typed...)
	default:
		return deepCopy(value)
	}
}

// asRecords converts a []any whose elements are all maps (or nil) into
// []Record. Lists holding scalars are left alone.
func asRecords(values []any) ([]Record, bool) {
	if len(values) == 0 {
		return nil, false
	}
	out := make([]Record, len(values))
	for idx, value := range values {
		switch typed := value.(type) {
		case nil:
			out[idx] = Record{}
		case map[string]any:
			out[idx] = cloneRecord(Record(typed))
		case Record:
			out[idx] = cloneRecord(typed)
		default:
			return nil, false
		}
	}
	return out, true
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case Record:
		return cloneRecord(typed)
	case []Record:
		clone := make([]Record, len(typed))
		for i, record := range typed {
			clone[i] = cloneRecord(record)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

func plain(value any) any {
	switch typed := value.(type) {
	case []Record:
		out := make([]any, len(typed))
		for idx, record := range typed {
			out[idx] = plain(record)
		}
		return out
	case Record:
		out := make(map[string]any, len(typed))
		for key, v := range typed {
			out[key] = plain(v)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, v := range typed {
			out[key] = plain(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for idx, v := range typed {
			out[idx] = plain(v)
		}
		return out
	case []string:
		out := make([]any, len(typed))
		for idx, v := range typed {
			out[idx] = v
		}
		return out
	default:
		return typed
	}
}
