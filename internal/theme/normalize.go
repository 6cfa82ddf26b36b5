package theme

import (
	"fmt"
	"strconv"
)

// Issue describes a value the normalizer could not use and replaced with a default.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Normalize converts a raw web_theme document into the canonical Config.
// It never fails: malformed values fall back to their defaults.
func Normalize(doc map[string]any) Config {
	cfg, _ := NormalizeWithReport(doc)
	return cfg
}

// NormalizeWithReport is Normalize plus the list of values that were replaced
// by defaults.
func NormalizeWithReport(doc map[string]any) (Config, []Issue) {
	n := &normalizer{seen: make(map[string]struct{})}

	cfg := Config{Revision: Revision(doc)}
	cfg.Header = n.header(n.object(doc, keyHeader, keyHeader))
	cfg.Home = n.home(n.object(doc, keyHome, keyHome))
	cfg.SearchResult = n.searchResult(n.object(doc, keySearch, keySearch))
	return cfg, n.issues
}

type normalizer struct {
	seen   map[string]struct{}
	issues []Issue
}

func (n *normalizer) report(path, format string, args ...any) {
	n.issues = append(n.issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

// object returns parent[key] when it is an object. A missing key yields nil
// silently; any other type is reported.
func (n *normalizer) object(parent map[string]any, key, path string) map[string]any {
	v, ok := parent[key]
	if !ok || v == nil {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		n.report(path, "expected an object, got %T", v)
		return nil
	}
	return obj
}

// str reads a scalar as a string, falling back to def when absent or unusable.
func (n *normalizer) str(raw map[string]any, key, def, path string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return def
	}
	s, ok := CoerceString(v)
	if !ok {
		n.report(path+"."+key, "expected a scalar, got %T", v)
		return def
	}
	return s
}

// flag reads the first present alias in priority order. It returns the
// coerced value, whether any alias was present, and every alias present.
func flag(raw map[string]any, keys []string) (bool, bool, []string) {
	var (
		value   bool
		found   bool
		present []string
	)
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		present = append(present, key)
		if !found {
			value = CoerceBool(v)
			found = true
		}
	}
	return value, found, present
}

// flagOr reads a flag and appends the present aliases to origin.
func flagOr(raw map[string]any, keys []string, def bool, origin *Origin) bool {
	value, found, present := flag(raw, keys)
	origin.Aliases = append(origin.Aliases, present...)
	if !found {
		return def
	}
	return value
}

// entityID takes the source id when usable and unused, else derives one from path.
func (n *normalizer) entityID(raw map[string]any, path string, origin *Origin) string {
	if v, ok := raw[keyID]; ok && v != nil {
		if id, ok := CoerceString(v); ok && id != "" {
			if _, dup := n.seen[id]; !dup {
				n.seen[id] = struct{}{}
				return id
			}
			n.report(path, "duplicate id %q replaced", id)
		}
	}
	origin.DerivedID = true
	id := deriveID(path)
	for i := 1; ; i++ {
		if _, dup := n.seen[id]; !dup {
			break
		}
		id = deriveID(path + "#" + strconv.Itoa(i))
	}
	n.seen[id] = struct{}{}
	return id
}

func (n *normalizer) stringList(v any, path string) []string {
	arr, ok := v.([]any)
	if !ok {
		if v != nil {
			n.report(path, "expected an array, got %T", v)
		}
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for i, elem := range arr {
		s, ok := CoerceString(elem)
		if !ok {
			n.report(path+"["+strconv.Itoa(i)+"]", "expected a scalar id")
			continue
		}
		out = append(out, s)
	}
	return out
}
