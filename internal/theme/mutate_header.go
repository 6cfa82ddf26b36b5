package theme

import (
	"github.com/angelmondragon/webtheme-backend/pkg/enums"
)

// TickerField names an editable Ticker field.
type TickerField string

const (
	TickerFieldEnabled         TickerField = "enabled"
	TickerFieldSticky          TickerField = "sticky"
	TickerFieldBackgroundColor TickerField = "background_color"
	TickerFieldTextColor       TickerField = "text_color"
	TickerFieldText            TickerField = "text"
)

// BarField names an editable NavigationBar field.
type BarField string

const (
	BarFieldVisible             BarField = "visible"
	BarFieldSticky              BarField = "sticky"
	BarFieldTransparent         BarField = "transparent"
	BarFieldUseContainer        BarField = "use_container"
	BarFieldHighlightActiveLink BarField = "highlight_active_link"
	BarFieldHeight              BarField = "height"
	BarFieldBorderTop           BarField = "border_top"
	BarFieldBorderBottom        BarField = "border_bottom"
	BarFieldMargin              BarField = "margin"
	BarFieldPadding             BarField = "padding"
	BarFieldBackgroundColor     BarField = "background_color"
)

// SubLinkField names an editable SubLink field.
type SubLinkField string

const (
	SubLinkFieldIcon  SubLinkField = "icon"
	SubLinkFieldLabel SubLinkField = "label"
	SubLinkFieldRoute SubLinkField = "route"
)

// InnerSubLinkField names an editable InnerSubLink field.
type InnerSubLinkField string

const (
	InnerSubLinkFieldLabel InnerSubLinkField = "label"
	InnerSubLinkFieldRoute InnerSubLinkField = "route"
)

// setString assigns a scalar value to dst and reports whether it changed.
func setString(dst *string, value any) bool {
	s, ok := CoerceString(value)
	if !ok || *dst == s {
		return false
	}
	*dst = s
	return true
}

// setFlag assigns a flag value to dst and reports whether it changed.
func setFlag(dst *bool, value any) bool {
	on := CoerceBool(value)
	if *dst == on {
		return false
	}
	*dst = on
	return true
}

func UpdateTickerField(cfg Config, field TickerField, value any) Config {
	return edit(cfg, func(c *Config) *Ticker { return &c.Header.Ticker }, func(t *Ticker) bool {
		switch field {
		case TickerFieldEnabled:
			return setFlag(&t.Enabled, value)
		case TickerFieldSticky:
			return setFlag(&t.Sticky, value)
		case TickerFieldBackgroundColor:
			return setString(&t.BackgroundColor, value)
		case TickerFieldTextColor:
			return setString(&t.TextColor, value)
		case TickerFieldText:
			return setString(&t.Text, value)
		}
		return false
	})
}

func newBar() NavigationBar {
	return NavigationBar{
		ID:              newID(),
		Visible:         true,
		Height:          DefaultBarHeight,
		Margin:          DefaultSpacing,
		Padding:         DefaultSpacing,
		BackgroundColor: DefaultBarBackground,
		Lists:           []ListGroup{newList()},
		ListsShape:      enums.CollectionShapeArray,
	}
}

func newList() ListGroup {
	return ListGroup{
		ID:         newID(),
		Position:   enums.ListPositionLeft,
		Items:      []NavItem{},
		ItemsShape: enums.CollectionShapeArray,
	}
}

// AddBar appends a visible navigation bar holding one empty left list.
func AddBar(cfg Config) Config {
	out := cfg.Clone()
	out.Header.Bars = append(out.Header.Bars, newBar())
	if out.Header.BarsShape == "" {
		out.Header.BarsShape = enums.CollectionShapeArray
	}
	return out
}

// RemoveBar removes a bar together with its lists and items.
func RemoveBar(cfg Config, barID string) Config {
	bars, removed := without(cfg.Header.Bars, func(b NavigationBar) bool { return b.ID == barID })
	if !removed {
		return cfg
	}
	out := cfg.Clone()
	out.Header.Bars = cloneSlice(bars, NavigationBar.clone)
	return out
}

func UpdateBarField(cfg Config, barID string, field BarField, value any) Config {
	return edit(cfg, func(c *Config) *NavigationBar { return c.bar(barID) }, func(b *NavigationBar) bool {
		switch field {
		case BarFieldVisible:
			return setFlag(&b.Visible, value)
		case BarFieldSticky:
			return setFlag(&b.Sticky, value)
		case BarFieldTransparent:
			return setFlag(&b.Transparent, value)
		case BarFieldUseContainer:
			return setFlag(&b.UseContainer, value)
		case BarFieldHighlightActiveLink:
			return setFlag(&b.HighlightActiveLink, value)
		case BarFieldHeight:
			return setString(&b.Height, value)
		case BarFieldBorderTop:
			return setString(&b.BorderTop, value)
		case BarFieldBorderBottom:
			return setString(&b.BorderBottom, value)
		case BarFieldMargin:
			return setString(&b.Margin, value)
		case BarFieldPadding:
			return setString(&b.Padding, value)
		case BarFieldBackgroundColor:
			return setString(&b.BackgroundColor, value)
		}
		return false
	})
}

// AddList appends an empty left-positioned list to a bar.
func AddList(cfg Config, barID string) Config {
	return edit(cfg, func(c *Config) *NavigationBar { return c.bar(barID) }, func(b *NavigationBar) bool {
		b.Lists = append(b.Lists, newList())
		return true
	})
}

// RemoveList removes a list and its items.
func RemoveList(cfg Config, ref ListRef) Config {
	return edit(cfg, func(c *Config) *NavigationBar { return c.bar(ref.BarID) }, func(b *NavigationBar) bool {
		var removed bool
		b.Lists, removed = without(b.Lists, func(l ListGroup) bool { return l.ID == ref.ListID })
		return removed
	})
}

func SetListPosition(cfg Config, ref ListRef, position enums.ListPosition) Config {
	if !position.IsValid() {
		return cfg
	}
	return edit(cfg, func(c *Config) *ListGroup { return c.list(ref) }, func(l *ListGroup) bool {
		if l.Position == position {
			return false
		}
		l.Position = position
		return true
	})
}

// NewItem returns a link item with the editor defaults and a setting object
// carrying every alias.
func NewItem() NavItem {
	it := NavItem{
		ID:         newID(),
		Kind:       enums.NavItemKindLink,
		Label:      DefaultItemLabel,
		Color:      DefaultItemColor,
		Margin:     DefaultSpacing,
		Padding:    DefaultSpacing,
		FontSize:   DefaultItemFontSize,
		FontWeight: DefaultItemFontWeight,
		SubLinks:   SubLinkGroup{Links: []SubLink{}, Shape: enums.CollectionShapeArray},
		Setting:    make(map[string]any),
	}
	for _, af := range itemCommonFields {
		if af.setting != "" {
			it.Setting[af.setting] = *it.stringRef(af.field)
		}
	}
	it.Setting[settingNewTabKey] = encodeFlag(false)
	return it
}

// AddItem appends a default link item to a list.
func AddItem(cfg Config, ref ListRef) Config {
	return edit(cfg, func(c *Config) *ListGroup { return c.list(ref) }, func(l *ListGroup) bool {
		l.Items = append(l.Items, NewItem())
		return true
	})
}

// RemoveItem removes an item with its sub-links.
func RemoveItem(cfg Config, ref ItemRef) Config {
	return edit(cfg, func(c *Config) *ListGroup { return c.list(ref.ListRef) }, func(l *ListGroup) bool {
		var removed bool
		l.Items, removed = without(l.Items, func(it NavItem) bool { return it.ID == ref.ItemID })
		return removed
	})
}

// UpdateItemField sets one item field. Aliased fields are mirrored into the
// item's setting object when it has one. Setting the kind swaps the
// kind-specific option block. Fields the item's kind lacks are ignored.
func UpdateItemField(cfg Config, ref ItemRef, field ItemField, value any) Config {
	return edit(cfg, func(c *Config) *NavItem { return c.item(ref) }, func(it *NavItem) bool {
		if field == ItemFieldKind {
			s, _ := CoerceString(value)
			kind, err := enums.ParseNavItemKind(s)
			if err != nil || kind == it.Kind {
				return false
			}
			it.Kind = kind
			it.initOptions()
			return true
		}

		changed := false
		if dst := it.flagRef(field); dst != nil {
			changed = setFlag(dst, value)
			if alias, ok := SettingAlias(field); ok && it.Setting != nil {
				syncFlag(it.Setting, alias, *dst)
				changed = true
			}
			return changed
		}
		if dst := it.stringRef(field); dst != nil {
			changed = setString(dst, value)
			if alias, ok := SettingAlias(field); ok && it.Setting != nil {
				if _, valid := CoerceString(value); valid {
					syncString(it.Setting, alias, *dst)
					changed = true
				}
			}
		}
		return changed
	})
}

func newSubLink() SubLink {
	return SubLink{
		ID:    newID(),
		Inner: InnerSubLinkGroup{Links: []InnerSubLink{}, Shape: enums.CollectionShapeArray},
	}
}

// ToggleSubLinks enables or disables an item's dropdown. Enabling a dropdown
// without entries adds one empty sub-link.
func ToggleSubLinks(cfg Config, ref ItemRef, enabled bool) Config {
	return edit(cfg, func(c *Config) *NavItem { return c.item(ref) }, func(it *NavItem) bool {
		changed := it.SubLinks.Enabled != enabled
		it.SubLinks.Enabled = enabled
		if enabled && len(it.SubLinks.Links) == 0 {
			it.SubLinks.Links = append(it.SubLinks.Links, newSubLink())
			changed = true
		}
		return changed
	})
}

// SetCustomHTML switches an item's dropdown to custom HTML and sets its markup.
func SetCustomHTML(cfg Config, ref ItemRef, enabled bool, html string) Config {
	return edit(cfg, func(c *Config) *NavItem { return c.item(ref) }, func(it *NavItem) bool {
		if it.SubLinks.UseCustomHTML == enabled && it.SubLinks.CustomHTML == html {
			return false
		}
		it.SubLinks.UseCustomHTML = enabled
		it.SubLinks.CustomHTML = html
		return true
	})
}

func AddSubLink(cfg Config, ref ItemRef) Config {
	return edit(cfg, func(c *Config) *NavItem { return c.item(ref) }, func(it *NavItem) bool {
		it.SubLinks.Links = append(it.SubLinks.Links, newSubLink())
		return true
	})
}

// RemoveSubLink removes a sub-link and its inner sub-links.
func RemoveSubLink(cfg Config, ref SubLinkRef) Config {
	return edit(cfg, func(c *Config) *NavItem { return c.item(ref.ItemRef) }, func(it *NavItem) bool {
		var removed bool
		it.SubLinks.Links, removed = without(it.SubLinks.Links, func(s SubLink) bool { return s.ID == ref.SubLinkID })
		return removed
	})
}

func UpdateSubLinkField(cfg Config, ref SubLinkRef, field SubLinkField, value any) Config {
	return edit(cfg, func(c *Config) *SubLink { return c.subLink(ref) }, func(s *SubLink) bool {
		switch field {
		case SubLinkFieldIcon:
			return setString(&s.Icon, value)
		case SubLinkFieldLabel:
			return setString(&s.Label, value)
		case SubLinkFieldRoute:
			return setString(&s.Route, value)
		}
		return false
	})
}

// ToggleInnerSubLinks enables or disables a sub-link's nested list. Enabling
// an empty list adds one empty inner sub-link.
func ToggleInnerSubLinks(cfg Config, ref SubLinkRef, enabled bool) Config {
	return edit(cfg, func(c *Config) *SubLink { return c.subLink(ref) }, func(s *SubLink) bool {
		changed := s.Inner.Enabled != enabled
		s.Inner.Enabled = enabled
		if enabled && len(s.Inner.Links) == 0 {
			s.Inner.Links = append(s.Inner.Links, InnerSubLink{ID: newID()})
			changed = true
		}
		return changed
	})
}

func AddInnerSubLink(cfg Config, ref SubLinkRef) Config {
	return edit(cfg, func(c *Config) *SubLink { return c.subLink(ref) }, func(s *SubLink) bool {
		s.Inner.Links = append(s.Inner.Links, InnerSubLink{ID: newID()})
		return true
	})
}

func RemoveInnerSubLink(cfg Config, ref InnerSubLinkRef) Config {
	return edit(cfg, func(c *Config) *SubLink { return c.subLink(ref.SubLinkRef) }, func(s *SubLink) bool {
		var removed bool
		s.Inner.Links, removed = without(s.Inner.Links, func(i InnerSubLink) bool { return i.ID == ref.InnerID })
		return removed
	})
}

func UpdateInnerSubLinkField(cfg Config, ref InnerSubLinkRef, field InnerSubLinkField, value any) Config {
	return edit(cfg, func(c *Config) *InnerSubLink { return c.innerSubLink(ref) }, func(s *InnerSubLink) bool {
		switch field {
		case InnerSubLinkFieldLabel:
			return setString(&s.Label, value)
		case InnerSubLinkFieldRoute:
			return setString(&s.Route, value)
		}
		return false
	})
}
