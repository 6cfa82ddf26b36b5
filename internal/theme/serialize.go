package theme

import "github.com/angelmondragon/webtheme-backend/pkg/enums"

// Serialize writes cfg back over baseline, the raw document it was normalized
// from, and returns the new document. The baseline is not modified. Keys this
// package does not own are carried over untouched.
func Serialize(cfg Config, baseline map[string]any) map[string]any {
	out := cloneMap(baseline)
	if out == nil {
		out = make(map[string]any)
	}

	srcHeader, _ := baseline[keyHeader].(map[string]any)
	if srcHeader != nil || !cfg.Header.isEmpty() {
		out[keyHeader] = serializeHeader(cfg.Header, srcHeader)
	}

	srcHome, _ := baseline[keyHome].(map[string]any)
	if srcHome != nil || len(cfg.Home.Sections) > 0 {
		out[keyHome] = serializeHome(cfg.Home, srcHome)
	}

	srcSearch, _ := baseline[keySearch].(map[string]any)
	if srcSearch != nil || !cfg.SearchResult.isEmpty() {
		out[keySearch] = serializeSearchResult(cfg.SearchResult, srcSearch)
	}
	return out
}

// SerializeHeader returns only the raw header object for cfg.
func SerializeHeader(cfg Config, baseline map[string]any) map[string]any {
	srcHeader, _ := baseline[keyHeader].(map[string]any)
	return serializeHeader(cfg.Header, srcHeader)
}

// rootWriter writes a container object that has no identity of its own.
func rootWriter(src map[string]any) *objectWriter {
	return newObjectWriter(src, Origin{Loaded: src != nil})
}

func (h Header) isEmpty() bool {
	return len(h.Bars) == 0 && !h.Ticker.Origin.Loaded && h.Ticker.isDefault()
}

func (t Ticker) isDefault() bool {
	return !t.Enabled && !t.Sticky && t.Text == "" &&
		t.BackgroundColor == DefaultTickerBackground && t.TextColor == DefaultTickerTextColor
}

func (sr SearchResult) isEmpty() bool {
	return len(sr.LayoutSettings) == 0 && len(sr.CardItems) == 0
}

func serializeHeader(h Header, src map[string]any) map[string]any {
	w := rootWriter(src)
	if h.Ticker.Origin.Loaded || !h.Ticker.isDefault() {
		srcTicker, _ := w.sourceChild(keyTicker).(map[string]any)
		w.out[keyTicker] = writeTicker(h.Ticker, srcTicker)
	}
	bars := encodeEntities(h.BarsShape, h.Bars,
		func(b NavigationBar) Origin { return b.Origin },
		w.sourceChild(keyBars), writeBar)
	w.collection(keyBars, bars, len(h.Bars) == 0)
	return w.result()
}

func writeTicker(t Ticker, src map[string]any) map[string]any {
	w := newObjectWriter(src, t.Origin)
	w.flag(tickerEnabledKeys, t.Enabled, false)
	w.flag(tickerStickyKeys, t.Sticky, false)
	w.str("ticker_bg_color", t.BackgroundColor, DefaultTickerBackground)
	w.str("ticker_font_color", t.TextColor, DefaultTickerTextColor)
	w.str("header_ticker_text", t.Text, "")
	return w.result()
}

func writeBar(b NavigationBar, src map[string]any) map[string]any {
	w := newObjectWriter(src, b.Origin)
	w.id(b.ID)
	w.flag(barVisibleKeys, b.Visible, true)
	w.flag(barStickyKeys, b.Sticky, false)
	w.flag(barTransparentKeys, b.Transparent, false)
	w.flag(barContainerKeys, b.UseContainer, false)
	w.flag(barHighlightKeys, b.HighlightActiveLink, false)
	w.required("height", b.Height, DefaultBarHeight)
	w.required("margin", b.Margin, DefaultSpacing)
	w.required("padding", b.Padding, DefaultSpacing)
	w.required("background_color", b.BackgroundColor, DefaultBarBackground)
	w.str("border_top", b.BorderTop, "")
	w.str("border_bottom", b.BorderBottom, "")

	lists := encodeEntities(b.ListsShape, b.Lists,
		func(l ListGroup) Origin { return l.Origin },
		w.sourceChild(keyLists), writeList)
	w.collection(keyLists, lists, len(b.Lists) == 0)
	return w.result()
}

func writeList(l ListGroup, src map[string]any) map[string]any {
	w := newObjectWriter(src, l.Origin)
	w.id(l.ID)
	w.str("position", string(l.Position), string(enums.ListPositionLeft))
	items := encodeEntities(l.ItemsShape, l.Items,
		func(it NavItem) Origin { return it.Origin },
		w.sourceChild(keyItems), writeItem)
	w.collection(keyItems, items, len(l.Items) == 0)
	return w.result()
}

func writeItem(it NavItem, src map[string]any) map[string]any {
	w := newObjectWriter(src, it.Origin)
	w.id(it.ID)
	w.str("type", string(it.Kind), string(enums.NavItemKindLink))

	// Absent top-level keys were read from the setting alias.
	srcSetting, _ := w.sourceChild(keySetting).(map[string]any)
	for _, af := range itemCommonFields {
		def := ""
		if af.setting != "" {
			if s, ok := CoerceString(srcSetting[af.setting]); ok {
				def = s
			}
		}
		value := *it.stringRef(af.field)
		if af.field == ItemFieldLabel {
			w.required(af.raw, value, def)
			continue
		}
		w.str(af.raw, value, def)
	}
	newTabDef := false
	if v, ok := srcSetting[settingNewTabKey]; ok {
		newTabDef = CoerceBool(v)
	}
	w.flag(itemNewTabKeys, it.OpenInNewTab, newTabDef)

	for _, af := range itemOptionFields {
		if ref := it.stringRef(af.field); ref != nil {
			w.str(af.raw, *ref, "")
		}
	}
	if it.Cart != nil {
		w.flag(itemShowPriceKeys, it.Cart.ShowPrice, false)
	}
	if it.Location != nil {
		w.flag(itemCurrentLocKeys, it.Location.IsCurrentLocation, false)
	}

	w.flag(itemSubLinkKeys, it.SubLinks.Enabled, false)
	w.flag(itemCustomHTMLKeys, it.SubLinks.UseCustomHTML, false)
	w.str("sub_link_custom_html", it.SubLinks.CustomHTML, "")
	subs := encodeEntities(it.SubLinks.Shape, it.SubLinks.Links,
		func(s SubLink) Origin { return s.Origin },
		w.sourceChild(keySubLinks), writeSubLink)
	w.collection(keySubLinks, subs, len(it.SubLinks.Links) == 0)

	if it.Setting != nil {
		w.object(keySetting, it.Setting)
	}
	return w.result()
}

func writeSubLink(s SubLink, src map[string]any) map[string]any {
	w := newObjectWriter(src, s.Origin)
	w.id(s.ID)
	w.str("sub_link_icon", s.Icon, "")
	w.str("sub_link_label", s.Label, "")
	w.str("sub_link_route", s.Route, "")
	w.flag(subLinkInnerKeys, s.Inner.Enabled, false)
	inner := encodeEntities(s.Inner.Shape, s.Inner.Links,
		func(i InnerSubLink) Origin { return i.Origin },
		w.sourceChild(keyInner), writeInnerSubLink)
	w.collection(keyInner, inner, len(s.Inner.Links) == 0)
	return w.result()
}

func writeInnerSubLink(s InnerSubLink, src map[string]any) map[string]any {
	w := newObjectWriter(src, s.Origin)
	w.id(s.ID)
	w.str("inner_sub_link_label", s.Label, "")
	w.str("inner_sub_link_route", s.Route, "")
	return w.result()
}
