package theme

import (
	"strconv"

	"github.com/angelmondragon/webtheme-backend/pkg/enums"
)

func (n *normalizer) searchResult(raw map[string]any) SearchResult {
	sr := SearchResult{LayoutSettings: make(map[string]string)}

	for key, v := range n.object(raw, keyLayout, "search_result."+keyLayout) {
		if v == nil {
			continue
		}
		s, ok := CoerceString(v)
		if !ok {
			n.report("search_result."+keyLayout+"."+key, "expected a scalar, got %T", v)
			continue
		}
		sr.LayoutSettings[key] = s
	}

	entries, shape := n.readCollection(raw[keyCards], "search_result."+keyCards)
	sr.CardItemsShape = shape
	sr.CardItems = make([]CardItem, 0, len(entries))
	keys := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		path := "card:" + e.key
		c := CardItem{Origin: Origin{Key: e.key, Loaded: true}}
		c.Kind = enums.CardItemKind(n.str(e.value, "type", "", path))
		if !c.Kind.IsValid() {
			n.report(path+".type", "unknown card item type %q kept as-is", c.Kind)
		}

		c.Key = n.str(e.value, "key", "", path)
		if _, dup := keys[c.Key]; c.Key == "" || dup {
			if c.Key != "" {
				n.report(path+".key", "duplicate card key %q replaced", c.Key)
			}
			c.Key = uniqueCardKey(string(c.Kind), keys)
			c.Origin.DerivedID = true
		}
		keys[c.Key] = struct{}{}

		c.Settings = make(map[string]any)
		if settings := n.object(e.value, "settings", path+".settings"); settings != nil {
			c.Settings = cloneMap(settings)
		}
		sr.CardItems = append(sr.CardItems, c)
	}
	return sr
}

// uniqueCardKey returns base, or base_N for the smallest N not yet used.
func uniqueCardKey(base string, used map[string]struct{}) string {
	if base == "" {
		base = "card"
	}
	if _, dup := used[base]; !dup {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if _, dup := used[candidate]; !dup {
			return candidate
		}
	}
}
