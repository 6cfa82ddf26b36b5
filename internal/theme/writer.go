package theme

import (
	"reflect"

	"github.com/angelmondragon/webtheme-backend/pkg/enums"
)

// objectWriter applies canonical values onto a copy of an entity's source
// object. Keys the source carried are rewritten only when their value
// changed; absent keys are added only when they differ from the value the
// normalizer would have assumed. Entities without a source get every key.
type objectWriter struct {
	out    map[string]any
	source map[string]any
	origin Origin
}

func newObjectWriter(source map[string]any, origin Origin) *objectWriter {
	if !origin.Loaded || source == nil {
		return &objectWriter{out: make(map[string]any), origin: origin}
	}
	return &objectWriter{out: cloneMap(source), source: source, origin: origin}
}

func (w *objectWriter) fresh() bool {
	return w.source == nil
}

func (w *objectWriter) result() map[string]any {
	return w.out
}

// id writes the entity id unless it was derived rather than read.
func (w *objectWriter) id(id string) {
	if w.origin.DerivedID {
		return
	}
	w.str(keyID, id, "")
}

// str writes a string field; def is the value assumed when the key is absent.
func (w *objectWriter) str(key, value, def string) {
	if w.fresh() {
		w.out[key] = value
		return
	}
	raw, present := w.source[key]
	if !present {
		if value != def {
			w.out[key] = value
		}
		return
	}
	current := def
	if raw != nil {
		s, ok := CoerceString(raw)
		if !ok {
			// Malformed source values are left alone unless edited.
			if value != def {
				w.out[key] = value
			}
			return
		}
		current = s
	}
	if current != value {
		w.out[key] = value
	}
}

// required is str for keys every valid payload carries: an absent key is
// always written.
func (w *objectWriter) required(key, value, def string) {
	if !w.fresh() {
		if _, present := w.source[key]; !present {
			w.out[key] = value
			return
		}
	}
	w.str(key, value, def)
}

// flag writes a boolean to every alias the source carried whose coerced value
// differs, or to the primary alias when the source carried none.
func (w *objectWriter) flag(keys []string, value, def bool) {
	if w.fresh() {
		w.out[keys[0]] = encodeFlag(value)
		return
	}
	present := w.origin.presentAliases(keys)
	if len(present) == 0 {
		if value != def {
			w.out[keys[0]] = encodeFlag(value)
		}
		return
	}
	for _, key := range present {
		if CoerceBool(w.source[key]) != value {
			w.out[key] = encodeFlag(value)
		}
	}
}

// numericFlag is flag for keys the backend stores as 0/1 numbers.
func (w *objectWriter) numericFlag(key string, value, def bool) {
	if w.fresh() {
		w.out[key] = encodeNumericFlag(value)
		return
	}
	raw, present := w.source[key]
	if (!present && value != def) || (present && CoerceBool(raw) != value) {
		w.out[key] = encodeNumericFlag(value)
	}
}

// integer writes an int field.
func (w *objectWriter) integer(key string, value int) {
	if !w.fresh() {
		if current, ok := coerceInt(w.source[key]); ok && current == value {
			return
		}
	}
	w.out[key] = value
}

// strings writes an id list.
func (w *objectWriter) strings(key string, values []string) {
	if !w.fresh() {
		raw, present := w.source[key]
		if !present && len(values) == 0 {
			return
		}
		if present && sameStrings(raw, values) {
			return
		}
	}
	w.out[key] = encodeStrings(values)
}

// object merges a free-form map into the source object stored at key. Keys
// whose value is unchanged keep their source form.
func (w *objectWriter) object(key string, values map[string]any) {
	var src map[string]any
	if !w.fresh() {
		src, _ = w.source[key].(map[string]any)
	}
	if src == nil && len(values) == 0 && (values == nil || !w.fresh()) {
		return
	}
	merged := cloneMap(src)
	if merged == nil {
		merged = make(map[string]any, len(values))
	}
	changed := src == nil
	for k, v := range values {
		if old, ok := merged[k]; ok && equivalent(old, v) {
			continue
		}
		merged[k] = cloneValue(v)
		changed = true
	}
	if changed {
		w.out[key] = merged
	}
}

// collection stores an encoded child collection. A loaded entity that had no
// such key and has no children is left without it.
func (w *objectWriter) collection(key string, encoded any, empty bool) {
	if !w.fresh() && empty {
		if _, present := w.source[key]; !present {
			return
		}
	}
	w.out[key] = encoded
}

// sourceChild returns the source value stored under key, if any.
func (w *objectWriter) sourceChild(key string) any {
	if w.fresh() {
		return nil
	}
	return w.source[key]
}

func encodeStrings(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func sameStrings(raw any, values []string) bool {
	arr, ok := raw.([]any)
	if !ok || len(arr) != len(values) {
		return false
	}
	for i, elem := range arr {
		if s, ok := CoerceString(elem); !ok || s != values[i] {
			return false
		}
	}
	return true
}

// equivalent compares raw values, treating scalars with the same string form
// as equal.
func equivalent(a, b any) bool {
	as, aok := CoerceString(a)
	bs, bok := CoerceString(b)
	if aok && bok {
		return as == bs
	}
	return reflect.DeepEqual(a, b)
}

// encodeEntities writes each entity over its source object and re-encodes the
// collection in its recorded shape.
func encodeEntities[T any](shape enums.CollectionShape, items []T, origin func(T) Origin, source any, write func(T, map[string]any) map[string]any) any {
	origins := make([]Origin, len(items))
	objects := make([]map[string]any, len(items))
	for i, item := range items {
		o := origin(item)
		var src map[string]any
		if o.Loaded {
			src = lookupEntry(source, o.Key)
		}
		origins[i] = o
		objects[i] = write(item, src)
	}
	return encodeCollection(shape, origins, objects, source)
}
