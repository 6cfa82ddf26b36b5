package theme

import (
	"sort"
	"strconv"

	"github.com/angelmondragon/webtheme-backend/pkg/enums"
)

type rawEntry struct {
	key   string
	value map[string]any
}

// readCollection accepts an array or an object keyed by stringified integers
// and returns the object entries in order. Keyed entries are sorted by
// ascending numeric key; gaps are kept as-is. Non-object entries are reported
// and skipped.
func (n *normalizer) readCollection(raw any, path string) ([]rawEntry, enums.CollectionShape) {
	switch coll := raw.(type) {
	case nil:
		return nil, enums.CollectionShapeArray
	case []any:
		entries := make([]rawEntry, 0, len(coll))
		for i, v := range coll {
			obj, ok := v.(map[string]any)
			if !ok {
				n.report(path+"["+strconv.Itoa(i)+"]", "entry is not an object")
				continue
			}
			entries = append(entries, rawEntry{key: strconv.Itoa(i), value: obj})
		}
		return entries, enums.CollectionShapeArray
	case map[string]any:
		keys := make([]string, 0, len(coll))
		for k := range coll {
			keys = append(keys, k)
		}
		sortCollectionKeys(keys)
		entries := make([]rawEntry, 0, len(keys))
		for _, k := range keys {
			if _, err := strconv.Atoi(k); err != nil {
				n.report(path+"."+k, "non-numeric collection key")
			}
			obj, ok := coll[k].(map[string]any)
			if !ok {
				n.report(path+"."+k, "entry is not an object")
				continue
			}
			entries = append(entries, rawEntry{key: k, value: obj})
		}
		return entries, enums.CollectionShapeKeyed
	}
	n.report(path, "collection is neither an array nor an object")
	return nil, enums.CollectionShapeArray
}

// sortCollectionKeys orders numeric keys ascending, then any other keys lexically.
func sortCollectionKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		}
		return keys[i] < keys[j]
	})
}

// lookupEntry finds the source object stored under key in a raw collection.
func lookupEntry(raw any, key string) map[string]any {
	switch coll := raw.(type) {
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(coll) {
			return nil
		}
		obj, _ := coll[i].(map[string]any)
		return obj
	case map[string]any:
		obj, _ := coll[key].(map[string]any)
		return obj
	}
	return nil
}

// encodeCollection writes entries back in the shape they were read in. Keyed
// collections reuse each loaded entry's original key; new entries take the
// next integer above every key in use or in the source collection.
func encodeCollection(shape enums.CollectionShape, origins []Origin, objects []map[string]any, source any) any {
	if !shape.IsKeyed() {
		out := make([]any, len(objects))
		for i, obj := range objects {
			out[i] = obj
		}
		return out
	}

	next := 0
	bump := func(key string) {
		if n, err := strconv.Atoi(key); err == nil && n >= next {
			next = n + 1
		}
	}
	if src, ok := source.(map[string]any); ok {
		for k := range src {
			bump(k)
		}
	}
	used := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o.Loaded && o.Key != "" {
			bump(o.Key)
		}
	}

	out := make(map[string]any, len(objects))
	for i, obj := range objects {
		key := ""
		if o := origins[i]; o.Loaded && o.Key != "" {
			if _, dup := used[o.Key]; !dup {
				key = o.Key
			}
		}
		if key == "" {
			key = strconv.Itoa(next)
			next++
		}
		used[key] = struct{}{}
		out[key] = obj
	}
	return out
}
