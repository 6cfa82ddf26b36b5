package theme

// cloneValue deep-copies a decoded JSON value. Scalars are immutable and
// returned as-is.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = cloneValue(elem)
		}
		return out
	}
	return v
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// CloneDocument deep-copies a raw web_theme document.
func CloneDocument(doc map[string]any) map[string]any {
	return cloneMap(doc)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func (o Origin) clone() Origin {
	o.Aliases = cloneStrings(o.Aliases)
	return o
}

// Clone returns a deep copy sharing no mutable state with c.
func (c Config) Clone() Config {
	out := c
	out.Header.Ticker.Origin = c.Header.Ticker.Origin.clone()
	out.Header.Bars = cloneSlice(c.Header.Bars, NavigationBar.clone)
	out.Home.Sections = cloneSlice(c.Home.Sections, HomeSection.clone)

	out.SearchResult.LayoutSettings = make(map[string]string, len(c.SearchResult.LayoutSettings))
	for k, v := range c.SearchResult.LayoutSettings {
		out.SearchResult.LayoutSettings[k] = v
	}
	out.SearchResult.CardItems = cloneSlice(c.SearchResult.CardItems, CardItem.clone)
	return out
}

func cloneSlice[T any](in []T, fn func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func (b NavigationBar) clone() NavigationBar {
	b.Origin = b.Origin.clone()
	b.Lists = cloneSlice(b.Lists, ListGroup.clone)
	return b
}

func (l ListGroup) clone() ListGroup {
	l.Origin = l.Origin.clone()
	l.Items = cloneSlice(l.Items, NavItem.clone)
	return l
}

func (it NavItem) clone() NavItem {
	it.Origin = it.Origin.clone()
	it.Setting = cloneMap(it.Setting)
	if it.Search != nil {
		search := *it.Search
		it.Search = &search
	}
	if it.Cart != nil {
		cart := *it.Cart
		it.Cart = &cart
	}
	if it.Location != nil {
		location := *it.Location
		it.Location = &location
	}
	if it.Logo != nil {
		logo := *it.Logo
		it.Logo = &logo
	}
	it.SubLinks.Links = cloneSlice(it.SubLinks.Links, SubLink.clone)
	return it
}

func (s SubLink) clone() SubLink {
	s.Origin = s.Origin.clone()
	s.Inner.Links = cloneSlice(s.Inner.Links, InnerSubLink.clone)
	return s
}

func (s InnerSubLink) clone() InnerSubLink {
	s.Origin = s.Origin.clone()
	return s
}

func (s HomeSection) clone() HomeSection {
	s.Origin = s.Origin.clone()
	if s.Custom != nil {
		custom := *s.Custom
		s.Custom = &custom
	}
	if s.Featured != nil {
		featured := *s.Featured
		featured.Products.IDs = cloneStrings(featured.Products.IDs)
		s.Featured = &featured
	}
	if s.Collection != nil {
		collection := *s.Collection
		collection.SelectedIDs = cloneStrings(collection.SelectedIDs)
		s.Collection = &collection
	}
	if s.Instagram != nil {
		instagram := *s.Instagram
		s.Instagram = &instagram
	}
	return s
}

func (c CardItem) clone() CardItem {
	c.Origin = c.Origin.clone()
	c.Settings = cloneMap(c.Settings)
	return c
}
