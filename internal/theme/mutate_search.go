package theme

import (
	"github.com/angelmondragon/webtheme-backend/pkg/enums"
)

func SetLayoutSetting(cfg Config, key, value string) Config {
	if current, ok := cfg.SearchResult.LayoutSettings[key]; ok && current == value {
		return cfg
	}
	out := cfg.Clone()
	if out.SearchResult.LayoutSettings == nil {
		out.SearchResult.LayoutSettings = make(map[string]string)
	}
	out.SearchResult.LayoutSettings[key] = value
	return out
}

// AddCardItem appends a card item of the given kind with empty settings. Its
// key is the kind, suffixed when already taken.
func AddCardItem(cfg Config, kind enums.CardItemKind) Config {
	if !kind.IsValid() {
		return cfg
	}
	out := cfg.Clone()
	used := make(map[string]struct{}, len(out.SearchResult.CardItems))
	for _, c := range out.SearchResult.CardItems {
		used[c.Key] = struct{}{}
	}
	out.SearchResult.CardItems = append(out.SearchResult.CardItems, CardItem{
		Key:      uniqueCardKey(string(kind), used),
		Kind:     kind,
		Settings: make(map[string]any),
	})
	if out.SearchResult.CardItemsShape == "" {
		out.SearchResult.CardItemsShape = enums.CollectionShapeArray
	}
	return out
}

func RemoveCardItem(cfg Config, key string) Config {
	items, removed := without(cfg.SearchResult.CardItems, func(c CardItem) bool { return c.Key == key })
	if !removed {
		return cfg
	}
	out := cfg.Clone()
	out.SearchResult.CardItems = cloneSlice(items, CardItem.clone)
	return out
}

// UpdateCardItemSetting sets one card setting. Values must be strings or booleans.
func UpdateCardItemSetting(cfg Config, key, name string, value any) Config {
	switch value.(type) {
	case string, bool:
	default:
		return cfg
	}
	return edit(cfg, func(c *Config) *CardItem { return c.cardItem(key) }, func(c *CardItem) bool {
		if current, ok := c.Settings[name]; ok && current == value {
			return false
		}
		if c.Settings == nil {
			c.Settings = make(map[string]any)
		}
		c.Settings[name] = value
		return true
	})
}
