package theme

import (
	"github.com/angelmondragon/webtheme-backend/pkg/enums"
)

// SectionField names an editable HomeSection field. Payload fields are
// ignored on sections of other kinds.
type SectionField string

const (
	SectionFieldKind          SectionField = "kind"
	SectionFieldStatus        SectionField = "status"
	SectionFieldPlatform      SectionField = "platform"
	SectionFieldAppName       SectionField = "app_name"
	SectionFieldImageURL      SectionField = "image_url"
	SectionFieldRedirectURL   SectionField = "redirect_url"
	SectionFieldContent       SectionField = "content"
	SectionFieldName          SectionField = "name"
	SectionFieldCardsPerRow   SectionField = "cards_per_row"
	SectionFieldTabs          SectionField = "tabs"
	SectionFieldSlider        SectionField = "slider"
	SectionFieldViewAll       SectionField = "view_all"
	SectionFieldDesignAsShop  SectionField = "design_as_shop"
	SectionFieldProducts      SectionField = "products"
	SectionFieldSelectedItems SectionField = "selected_items"
	SectionFieldHeading       SectionField = "heading"
	SectionFieldToken         SectionField = "token"
)

// AddSection appends an enabled section of the given kind under key
// max(key)+1, or 0 for the first section.
func AddSection(cfg Config, kind enums.HomeSectionKind) Config {
	if !kind.IsValid() {
		return cfg
	}
	out := cfg.Clone()
	s := HomeSection{
		Key:      nextSectionKey(out.Home.Sections),
		Kind:     kind,
		Status:   true,
		Platform: enums.PlatformAll,
	}
	s.initPayload()
	out.Home.Sections = append(out.Home.Sections, s)
	if out.Home.SectionsShape == "" {
		out.Home.SectionsShape = enums.CollectionShapeArray
	}
	return out
}

func RemoveSection(cfg Config, key int) Config {
	sections, removed := without(cfg.Home.Sections, func(s HomeSection) bool { return s.Key == key })
	if !removed {
		return cfg
	}
	out := cfg.Clone()
	out.Home.Sections = cloneSlice(sections, HomeSection.clone)
	return out
}

// UpdateSection applies fn to a copy of the section stored under key. The
// section keeps its key and provenance whatever fn does.
func UpdateSection(cfg Config, key int, fn func(*HomeSection)) Config {
	return edit(cfg, func(c *Config) *HomeSection { return c.section(key) }, func(s *HomeSection) bool {
		origin := s.Origin
		fn(s)
		s.Key = key
		s.Origin = origin
		return true
	})
}

func UpdateSectionField(cfg Config, key int, field SectionField, value any) Config {
	return edit(cfg, func(c *Config) *HomeSection { return c.section(key) }, func(s *HomeSection) bool {
		switch field {
		case SectionFieldKind:
			str, _ := CoerceString(value)
			kind, err := enums.ParseHomeSectionKind(str)
			if err != nil || kind == s.Kind {
				return false
			}
			s.Kind = kind
			s.initPayload()
			return true
		case SectionFieldStatus:
			return setFlag(&s.Status, value)
		case SectionFieldPlatform:
			str, _ := CoerceString(value)
			platform, err := enums.ParsePlatform(str)
			if err != nil || platform == s.Platform {
				return false
			}
			s.Platform = platform
			return true
		case SectionFieldAppName:
			return setString(&s.AppName, value)
		}

		switch {
		case s.Custom != nil:
			switch field {
			case SectionFieldImageURL:
				return setString(&s.Custom.ImageURL, value)
			case SectionFieldRedirectURL:
				return setString(&s.Custom.RedirectURL, value)
			case SectionFieldContent:
				return setString(&s.Custom.Content, value)
			}
		case s.Featured != nil:
			f := s.Featured
			switch field {
			case SectionFieldName:
				return setString(&f.Name, value)
			case SectionFieldCardsPerRow:
				return setString(&f.CardsPerRow, value)
			case SectionFieldTabs:
				return setFlag(&f.Tabs, value)
			case SectionFieldSlider:
				return setFlag(&f.Slider, value)
			case SectionFieldViewAll:
				return setFlag(&f.ViewAll, value)
			case SectionFieldDesignAsShop:
				return setFlag(&f.DesignAsShop, value)
			case SectionFieldProducts:
				if value == allProducts {
					f.Products = ProductSelection{All: true, IDs: []string{}}
					return true
				}
				ids, ok := idList(value)
				if !ok {
					return false
				}
				f.Products = ProductSelection{IDs: ids}
				return true
			}
		case s.Collection != nil:
			switch field {
			case SectionFieldSelectedItems:
				ids, ok := idList(value)
				if !ok {
					return false
				}
				s.Collection.SelectedIDs = ids
				return true
			case SectionFieldContent:
				return setString(&s.Collection.Content, value)
			}
		case s.Instagram != nil:
			switch field {
			case SectionFieldHeading:
				return setString(&s.Instagram.Heading, value)
			case SectionFieldToken:
				return setString(&s.Instagram.Token, value)
			case SectionFieldContent:
				return setString(&s.Instagram.Content, value)
			}
		}
		return false
	})
}

// idList accepts a []string or a decoded JSON array of scalars.
func idList(value any) ([]string, bool) {
	switch t := value.(type) {
	case []string:
		return cloneStrings(t), true
	case []any:
		out := make([]string, 0, len(t))
		for _, elem := range t {
			s, ok := CoerceString(elem)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// MoveSection moves the section at index from to index to. Out of range
// indices leave cfg unchanged.
func MoveSection(cfg Config, from, to int) Config {
	n := len(cfg.Home.Sections)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return cfg
	}
	out := cfg.Clone()
	moved := out.Home.Sections[from]
	rest := append(out.Home.Sections[:from:from], out.Home.Sections[from+1:]...)
	sections := make([]HomeSection, 0, n)
	sections = append(sections, rest[:to]...)
	sections = append(sections, moved)
	sections = append(sections, rest[to:]...)
	out.Home.Sections = sections
	return out
}
