package theme

// ListRef addresses a list group inside a bar.
type ListRef struct {
	BarID  string `json:"bar_id"`
	ListID string `json:"list_id"`
}

// ItemRef addresses a navigation item.
type ItemRef struct {
	ListRef
	ItemID string `json:"item_id"`
}

// SubLinkRef addresses a sub-link of an item.
type SubLinkRef struct {
	ItemRef
	SubLinkID string `json:"sub_link_id"`
}

// InnerSubLinkRef addresses an inner sub-link of a sub-link.
type InnerSubLinkRef struct {
	SubLinkRef
	InnerID string `json:"inner_id"`
}

func (c *Config) bar(id string) *NavigationBar {
	for i := range c.Header.Bars {
		if c.Header.Bars[i].ID == id {
			return &c.Header.Bars[i]
		}
	}
	return nil
}

func (c *Config) list(ref ListRef) *ListGroup {
	b := c.bar(ref.BarID)
	if b == nil {
		return nil
	}
	for i := range b.Lists {
		if b.Lists[i].ID == ref.ListID {
			return &b.Lists[i]
		}
	}
	return nil
}

func (c *Config) item(ref ItemRef) *NavItem {
	l := c.list(ref.ListRef)
	if l == nil {
		return nil
	}
	for i := range l.Items {
		if l.Items[i].ID == ref.ItemID {
			return &l.Items[i]
		}
	}
	return nil
}

func (c *Config) subLink(ref SubLinkRef) *SubLink {
	it := c.item(ref.ItemRef)
	if it == nil {
		return nil
	}
	for i := range it.SubLinks.Links {
		if it.SubLinks.Links[i].ID == ref.SubLinkID {
			return &it.SubLinks.Links[i]
		}
	}
	return nil
}

func (c *Config) innerSubLink(ref InnerSubLinkRef) *InnerSubLink {
	s := c.subLink(ref.SubLinkRef)
	if s == nil {
		return nil
	}
	for i := range s.Inner.Links {
		if s.Inner.Links[i].ID == ref.InnerID {
			return &s.Inner.Links[i]
		}
	}
	return nil
}

func (c *Config) section(key int) *HomeSection {
	for i := range c.Home.Sections {
		if c.Home.Sections[i].Key == key {
			return &c.Home.Sections[i]
		}
	}
	return nil
}

func (c *Config) cardItem(key string) *CardItem {
	for i := range c.SearchResult.CardItems {
		if c.SearchResult.CardItems[i].Key == key {
			return &c.SearchResult.CardItems[i]
		}
	}
	return nil
}

// edit applies fn to a clone of cfg. When locate finds nothing, or fn reports
// no change, cfg is returned as given.
func edit[T any](cfg Config, locate func(*Config) *T, fn func(*T) bool) Config {
	if locate(&cfg) == nil {
		return cfg
	}
	out := cfg.Clone()
	if !fn(locate(&out)) {
		return cfg
	}
	return out
}

// without returns s minus the elements matching drop, and whether any matched.
func without[T any](s []T, drop func(T) bool) ([]T, bool) {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out, len(out) != len(s)
}
