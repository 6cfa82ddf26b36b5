package theme

import (
	"github.com/angelmondragon/webtheme-backend/pkg/enums"
)

func (n *normalizer) header(raw map[string]any) Header {
	h := Header{Ticker: n.ticker(n.object(raw, keyTicker, "header.ticker"))}

	entries, shape := n.readCollection(raw[keyBars], "header."+keyBars)
	h.BarsShape = shape
	h.Bars = make([]NavigationBar, 0, len(entries))
	for _, e := range entries {
		h.Bars = append(h.Bars, n.bar(e, "bar:"+e.key))
	}
	return h
}

func (n *normalizer) ticker(raw map[string]any) Ticker {
	t := Ticker{
		BackgroundColor: DefaultTickerBackground,
		TextColor:       DefaultTickerTextColor,
	}
	if raw == nil {
		return t
	}
	t.Origin.Loaded = true
	t.Enabled = flagOr(raw, tickerEnabledKeys, false, &t.Origin)
	t.Sticky = flagOr(raw, tickerStickyKeys, false, &t.Origin)
	t.BackgroundColor = n.str(raw, "ticker_bg_color", DefaultTickerBackground, "header.ticker")
	t.TextColor = n.str(raw, "ticker_font_color", DefaultTickerTextColor, "header.ticker")
	t.Text = n.str(raw, "header_ticker_text", "", "header.ticker")
	return t
}

func (n *normalizer) bar(e rawEntry, path string) NavigationBar {
	raw := e.value
	b := NavigationBar{Origin: Origin{Key: e.key, Loaded: true}}
	b.ID = n.entityID(raw, path, &b.Origin)

	b.Visible = flagOr(raw, barVisibleKeys, true, &b.Origin)
	b.Sticky = flagOr(raw, barStickyKeys, false, &b.Origin)
	b.Transparent = flagOr(raw, barTransparentKeys, false, &b.Origin)
	b.UseContainer = flagOr(raw, barContainerKeys, false, &b.Origin)
	b.HighlightActiveLink = flagOr(raw, barHighlightKeys, false, &b.Origin)

	b.Height = n.str(raw, "height", DefaultBarHeight, path)
	b.BorderTop = n.str(raw, "border_top", "", path)
	b.BorderBottom = n.str(raw, "border_bottom", "", path)
	b.Margin = n.str(raw, "margin", DefaultSpacing, path)
	b.Padding = n.str(raw, "padding", DefaultSpacing, path)
	b.BackgroundColor = n.str(raw, "background_color", DefaultBarBackground, path)

	entries, shape := n.readCollection(raw[keyLists], path+"."+keyLists)
	b.ListsShape = shape
	b.Lists = make([]ListGroup, 0, len(entries))
	for _, le := range entries {
		b.Lists = append(b.Lists, n.list(le, path+"/list:"+le.key))
	}
	return b
}

func (n *normalizer) list(e rawEntry, path string) ListGroup {
	raw := e.value
	l := ListGroup{Origin: Origin{Key: e.key, Loaded: true}, Position: enums.ListPositionLeft}
	l.ID = n.entityID(raw, path, &l.Origin)

	if pos := n.str(raw, "position", "", path); pos != "" {
		parsed, err := enums.ParseListPosition(pos)
		if err != nil {
			n.report(path+".position", "%v", err)
		} else {
			l.Position = parsed
		}
	}

	entries, shape := n.readCollection(raw[keyItems], path+"."+keyItems)
	l.ItemsShape = shape
	l.Items = make([]NavItem, 0, len(entries))
	for _, ie := range entries {
		l.Items = append(l.Items, n.item(ie, path+"/item:"+ie.key))
	}
	return l
}

func (n *normalizer) item(e rawEntry, path string) NavItem {
	raw := e.value
	it := NavItem{Origin: Origin{Key: e.key, Loaded: true}, Kind: enums.NavItemKindLink}
	it.ID = n.entityID(raw, path, &it.Origin)

	if kind := n.str(raw, "type", "", path); kind != "" {
		parsed, err := enums.ParseNavItemKind(kind)
		if err != nil {
			n.report(path+".type", "%v", err)
		} else {
			it.Kind = parsed
		}
	}
	it.initOptions()

	if setting := n.object(raw, keySetting, path+"."+keySetting); setting != nil {
		it.Setting = cloneMap(setting)
	}

	// Top-level values win; the setting alias is only the fallback.
	for _, spec := range itemCommonFields {
		value := n.str(raw, spec.raw, "", path)
		_, topPresent := raw[spec.raw]
		if spec.setting != "" && it.Setting != nil {
			if _, inSetting := it.Setting[spec.setting]; inSetting && (!topPresent || raw[spec.raw] == nil) {
				value = n.str(it.Setting, spec.setting, "", path+"."+keySetting)
			}
		}
		*it.stringRef(spec.field) = value
		if spec.setting == "" || it.Setting == nil {
			continue
		}
		if _, inSetting := it.Setting[spec.setting]; inSetting || spec.field == ItemFieldLabel {
			syncString(it.Setting, spec.setting, value)
		}
	}

	newTab, found, present := flag(raw, itemNewTabKeys)
	it.Origin.Aliases = append(it.Origin.Aliases, present...)
	if !found && it.Setting != nil {
		if v, ok := it.Setting[settingNewTabKey]; ok {
			newTab = CoerceBool(v)
		}
	}
	it.OpenInNewTab = newTab
	if it.Setting != nil {
		if _, ok := it.Setting[settingNewTabKey]; ok {
			syncFlag(it.Setting, settingNewTabKey, newTab)
		}
	}

	for _, spec := range itemOptionFields {
		if ref := it.stringRef(spec.field); ref != nil {
			*ref = n.str(raw, spec.raw, "", path)
		}
	}
	if it.Cart != nil {
		it.Cart.ShowPrice = flagOr(raw, itemShowPriceKeys, false, &it.Origin)
	}
	if it.Location != nil {
		it.Location.IsCurrentLocation = flagOr(raw, itemCurrentLocKeys, false, &it.Origin)
	}

	it.SubLinks.Enabled = flagOr(raw, itemSubLinkKeys, false, &it.Origin)
	it.SubLinks.UseCustomHTML = flagOr(raw, itemCustomHTMLKeys, false, &it.Origin)
	it.SubLinks.CustomHTML = n.str(raw, "sub_link_custom_html", "", path)

	entries, shape := n.readCollection(raw[keySubLinks], path+"."+keySubLinks)
	it.SubLinks.Shape = shape
	it.SubLinks.Links = make([]SubLink, 0, len(entries))
	for _, se := range entries {
		it.SubLinks.Links = append(it.SubLinks.Links, n.subLink(se, path+"/sub:"+se.key))
	}
	return it
}

func (n *normalizer) subLink(e rawEntry, path string) SubLink {
	raw := e.value
	s := SubLink{Origin: Origin{Key: e.key, Loaded: true}}
	s.ID = n.entityID(raw, path, &s.Origin)
	s.Icon = n.str(raw, "sub_link_icon", "", path)
	s.Label = n.str(raw, "sub_link_label", "", path)
	s.Route = n.str(raw, "sub_link_route", "", path)
	s.Inner.Enabled = flagOr(raw, subLinkInnerKeys, false, &s.Origin)

	entries, shape := n.readCollection(raw[keyInner], path+"."+keyInner)
	s.Inner.Shape = shape
	s.Inner.Links = make([]InnerSubLink, 0, len(entries))
	for _, ie := range entries {
		inner := InnerSubLink{Origin: Origin{Key: ie.key, Loaded: true}}
		innerPath := path + "/inner:" + ie.key
		inner.ID = n.entityID(ie.value, innerPath, &inner.Origin)
		inner.Label = n.str(ie.value, "inner_sub_link_label", "", innerPath)
		inner.Route = n.str(ie.value, "inner_sub_link_route", "", innerPath)
		s.Inner.Links = append(s.Inner.Links, inner)
	}
	return s
}

// initOptions allocates the option block of the item's kind and drops the others.
func (it *NavItem) initOptions() {
	if it.Kind != enums.NavItemKindSearch {
		it.Search = nil
	} else if it.Search == nil {
		it.Search = &SearchOptions{}
	}
	if it.Kind != enums.NavItemKindCart {
		it.Cart = nil
	} else if it.Cart == nil {
		it.Cart = &CartOptions{}
	}
	if it.Kind != enums.NavItemKindLocation {
		it.Location = nil
	} else if it.Location == nil {
		it.Location = &LocationOptions{}
	}
	if it.Kind != enums.NavItemKindLogo {
		it.Logo = nil
	} else if it.Logo == nil {
		it.Logo = &LogoOptions{}
	}
}

// syncString sets setting[key] unless it already holds the same value.
func syncString(setting map[string]any, key, value string) {
	if existing, ok := CoerceString(setting[key]); ok && existing == value {
		return
	}
	setting[key] = value
}

// syncFlag sets setting[key] unless it already coerces to the same flag.
func syncFlag(setting map[string]any, key string, value bool) {
	if existing, ok := setting[key]; ok && CoerceBool(existing) == value {
		return
	}
	setting[key] = encodeFlag(value)
}
