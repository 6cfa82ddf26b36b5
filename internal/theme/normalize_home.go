package theme

import (
	"github.com/angelmondragon/webtheme-backend/pkg/enums"
)

// DefaultSectionStatus is the status of a section whose source omits it.
const DefaultSectionStatus = true

func (n *normalizer) home(raw map[string]any) Home {
	entries, shape := n.readCollection(raw[keySections], "home."+keySections)
	h := Home{SectionsShape: shape, Sections: make([]HomeSection, 0, len(entries))}

	used := make(map[int]struct{}, len(entries))
	var pending []int
	for _, e := range entries {
		path := "section:" + e.key
		s := n.section(e, path)
		key, ok := coerceInt(e.value["key"])
		if _, dup := used[key]; !ok || dup {
			if _, present := e.value["key"]; present {
				n.report(path+".key", "missing or duplicate section key replaced")
			}
			pending = append(pending, len(h.Sections))
		} else {
			s.Key = key
			used[key] = struct{}{}
		}
		h.Sections = append(h.Sections, s)
	}

	// Sections without a usable key take max+1 in document order.
	for _, i := range pending {
		h.Sections[i].Key = nextSectionKey(h.Sections)
		used[h.Sections[i].Key] = struct{}{}
		h.Sections[i].Origin.DerivedID = true
	}
	return h
}

func (n *normalizer) section(e rawEntry, path string) HomeSection {
	raw := e.value
	s := HomeSection{
		Key:      -1,
		Platform: enums.PlatformAll,
		Origin:   Origin{Key: e.key, Loaded: true},
	}
	s.Status = flagOr(raw, sectionStatusKeys, DefaultSectionStatus, &s.Origin)
	s.AppName = n.str(raw, "app_name", "", path)

	if platform := n.str(raw, "platform", "", path); platform != "" {
		parsed, err := enums.ParsePlatform(platform)
		if err != nil {
			n.report(path+".platform", "%v", err)
		} else {
			s.Platform = parsed
		}
	}

	// Unknown kinds are kept verbatim without a payload block.
	s.Kind = enums.HomeSectionKind(n.str(raw, "type", "", path))
	if !s.Kind.IsValid() {
		n.report(path+".type", "unknown section type %q kept as-is", s.Kind)
		return s
	}
	s.initPayload()

	switch {
	case s.Custom != nil:
		s.Custom.ImageURL = n.str(raw, "image_url", "", path)
		s.Custom.RedirectURL = n.str(raw, "redirect_url", "", path)
		s.Custom.Content = n.str(raw, "content", "", path)
	case s.Featured != nil:
		f := s.Featured
		f.Name = n.str(raw, "name", "", path)
		f.CardsPerRow = n.str(raw, "cards_per_row", DefaultCardsPerRow, path)
		f.Tabs = flagOr(raw, featuredTabsKeys, false, &s.Origin)
		f.Slider = flagOr(raw, featuredSliderKeys, false, &s.Origin)
		f.ViewAll = flagOr(raw, featuredViewAllKeys, false, &s.Origin)
		f.DesignAsShop = flagOr(raw, featuredDesignShopKeys, false, &s.Origin)
		f.Products = n.productSelection(raw["featured_items"], path+".featured_items")
	case s.Collection != nil:
		s.Collection.SelectedIDs = n.stringList(raw["selected_items"], path+".selected_items")
		s.Collection.Content = n.str(raw, "content", "", path)
	case s.Instagram != nil:
		s.Instagram.Heading = n.str(raw, "heading", "", path)
		s.Instagram.Token = n.str(raw, "token", "", path)
		s.Instagram.Content = n.str(raw, "content", "", path)
	}
	return s
}

func (n *normalizer) productSelection(v any, path string) ProductSelection {
	if s, ok := v.(string); ok {
		if s == allProducts {
			return ProductSelection{All: true, IDs: []string{}}
		}
		n.report(path, "unexpected selection %q", s)
		return ProductSelection{IDs: []string{}}
	}
	return ProductSelection{IDs: n.stringList(v, path)}
}

const allProducts = "all"

// initPayload allocates the payload block of the section's kind and drops the others.
func (s *HomeSection) initPayload() {
	s.Custom, s.Featured, s.Collection, s.Instagram = nil, nil, nil, nil
	switch s.Kind {
	case enums.HomeSectionKindCustom:
		s.Custom = &CustomSection{}
	case enums.HomeSectionKindFeatured:
		s.Featured = &FeaturedSection{CardsPerRow: DefaultCardsPerRow, Products: ProductSelection{IDs: []string{}}}
	case enums.HomeSectionKindCategory, enums.HomeSectionKindBrand:
		s.Collection = &CollectionSection{SelectedIDs: []string{}}
	case enums.HomeSectionKindInstagram:
		s.Instagram = &InstagramSection{}
	}
}

// nextSectionKey returns max(key)+1 over the sections, or 0 when there are none.
func nextSectionKey(sections []HomeSection) int {
	next := 0
	for _, s := range sections {
		if s.Key >= next {
			next = s.Key + 1
		}
	}
	return next
}
