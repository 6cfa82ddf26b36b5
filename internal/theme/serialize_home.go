package theme

import "github.com/angelmondragon/webtheme-backend/pkg/enums"

func serializeHome(h Home, src map[string]any) map[string]any {
	w := rootWriter(src)
	sections := encodeEntities(h.SectionsShape, h.Sections,
		func(s HomeSection) Origin { return s.Origin },
		w.sourceChild(keySections), writeSection)
	w.collection(keySections, sections, len(h.Sections) == 0)
	return w.result()
}

func writeSection(s HomeSection, src map[string]any) map[string]any {
	w := newObjectWriter(src, s.Origin)
	if !s.Origin.DerivedID {
		w.integer("key", s.Key)
	}
	w.str("type", string(s.Kind), "")
	w.numericFlag("status", s.Status, DefaultSectionStatus)
	w.str("platform", string(s.Platform), string(enums.PlatformAll))
	w.str("app_name", s.AppName, "")

	switch {
	case s.Custom != nil:
		w.str("image_url", s.Custom.ImageURL, "")
		w.str("redirect_url", s.Custom.RedirectURL, "")
		w.str("content", s.Custom.Content, "")
	case s.Featured != nil:
		f := s.Featured
		w.str("name", f.Name, "")
		w.str("cards_per_row", f.CardsPerRow, DefaultCardsPerRow)
		w.flag(featuredTabsKeys, f.Tabs, false)
		w.flag(featuredSliderKeys, f.Slider, false)
		w.flag(featuredViewAllKeys, f.ViewAll, false)
		w.flag(featuredDesignShopKeys, f.DesignAsShop, false)
		w.products("featured_items", f.Products)
	case s.Collection != nil:
		w.strings("selected_items", s.Collection.SelectedIDs)
		w.str("content", s.Collection.Content, "")
	case s.Instagram != nil:
		w.str("heading", s.Instagram.Heading, "")
		w.str("token", s.Instagram.Token, "")
		w.str("content", s.Instagram.Content, "")
	}
	return w.result()
}

// products writes a featured selection as "all" or an id array.
func (w *objectWriter) products(key string, p ProductSelection) {
	if !w.fresh() {
		raw, present := w.source[key]
		switch {
		case !present && !p.All && len(p.IDs) == 0:
			return
		case present && p.All && raw == allProducts:
			return
		case present && !p.All && sameStrings(raw, p.IDs):
			return
		}
	}
	if p.All {
		w.out[key] = allProducts
		return
	}
	w.out[key] = encodeStrings(p.IDs)
}
