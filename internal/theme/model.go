package theme

import "github.com/angelmondragon/webtheme-backend/pkg/enums"

// Origin records where a canonical entity came from in the source document.
// Entities created by the mutation API carry a zero Origin.
type Origin struct {
	// Key is the entity's key in its source collection: the array index for
	// array-shaped collections, the original map key for keyed ones.
	Key string `json:"key,omitempty"`
	// Loaded is true when the entity was read from the source document.
	Loaded bool `json:"loaded,omitempty"`
	// DerivedID is true when the id was not taken from the source object.
	DerivedID bool `json:"derived_id,omitempty"`
	// Aliases lists the flag alias keys present on the source object.
	Aliases []string `json:"aliases,omitempty"`
}

func (o Origin) presentAliases(keys []string) []string {
	var out []string
	for _, key := range keys {
		for _, alias := range o.Aliases {
			if alias == key {
				out = append(out, key)
				break
			}
		}
	}
	return out
}

// Config is the canonical in-memory representation of the editable theme.
type Config struct {
	// Revision is the content hash of the document the config was normalized from.
	Revision     string       `json:"revision,omitempty"`
	Header       Header       `json:"header"`
	Home         Home         `json:"home"`
	SearchResult SearchResult `json:"search_result"`
}

type Header struct {
	Ticker    Ticker                `json:"ticker"`
	Bars      []NavigationBar       `json:"bars"`
	BarsShape enums.CollectionShape `json:"bars_shape"`
}

// Ticker is the announcement bar rendered above the navigation bars.
type Ticker struct {
	Enabled         bool   `json:"enabled"`
	Sticky          bool   `json:"sticky"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	Text            string `json:"text"`
	Origin          Origin `json:"origin"`
}

// NavigationBar is one horizontal navigation row.
type NavigationBar struct {
	ID                  string                `json:"id"`
	Visible             bool                  `json:"visible"`
	Sticky              bool                  `json:"sticky"`
	Transparent         bool                  `json:"transparent"`
	UseContainer        bool                  `json:"use_container"`
	HighlightActiveLink bool                  `json:"highlight_active_link"`
	Height              string                `json:"height"`
	BorderTop           string                `json:"border_top"`
	BorderBottom        string                `json:"border_bottom"`
	Margin              string                `json:"margin"`
	Padding             string                `json:"padding"`
	BackgroundColor     string                `json:"background_color"`
	Lists               []ListGroup           `json:"lists"`
	ListsShape          enums.CollectionShape `json:"lists_shape"`
	Origin              Origin                `json:"origin"`
}

// ListGroup is a positioned group of items inside a bar.
type ListGroup struct {
	ID         string                `json:"id"`
	Position   enums.ListPosition    `json:"position"`
	Items      []NavItem             `json:"items"`
	ItemsShape enums.CollectionShape `json:"items_shape"`
	Origin     Origin                `json:"origin"`
}

// NavItem is one navigable element. Exactly one of the kind-specific option
// blocks is set, and only for the matching kind.
type NavItem struct {
	ID              string            `json:"id"`
	Kind            enums.NavItemKind `json:"kind"`
	Label           string            `json:"label"`
	Color           string            `json:"color"`
	Route           string            `json:"route"`
	BackgroundColor string            `json:"background_color"`
	BorderRadius    string            `json:"border_radius"`
	Margin          string            `json:"margin"`
	Padding         string            `json:"padding"`
	Border          string            `json:"border"`
	BorderLeft      string            `json:"border_left"`
	FontSize        string            `json:"font_size"`
	FontWeight      string            `json:"font_weight"`
	ExtraClass      string            `json:"extra_class"`
	ExtraAttribute  string            `json:"extra_attribute"`
	OpenInNewTab    bool              `json:"open_in_new_tab"`

	Search   *SearchOptions   `json:"search,omitempty"`
	Cart     *CartOptions     `json:"cart,omitempty"`
	Location *LocationOptions `json:"location,omitempty"`
	Logo     *LogoOptions     `json:"logo,omitempty"`

	SubLinks SubLinkGroup `json:"sub_links"`

	// Setting mirrors the aliased fields under the raw "setting" object.
	// Nil when the source item had no setting object.
	Setting map[string]any `json:"setting,omitempty"`
	Origin  Origin         `json:"origin"`
}

type SearchOptions struct {
	Placeholder  string `json:"placeholder"`
	Width        string `json:"width"`
	BorderBottom string `json:"border_bottom"`
}

type CartOptions struct {
	ShowPrice          bool   `json:"show_price"`
	PriceLabelColor    string `json:"price_label_color"`
	CountBadgePosition string `json:"count_badge_position"`
	CountBadgeColor    string `json:"count_badge_color"`
}

type LocationOptions struct {
	IsCurrentLocation bool `json:"is_current_location"`
}

type LogoOptions struct {
	ImageURL string `json:"image_url"`
	Width    string `json:"width"`
}

// SubLinkGroup is the dropdown attached to an item.
type SubLinkGroup struct {
	Enabled       bool                  `json:"enabled"`
	UseCustomHTML bool                  `json:"use_custom_html"`
	CustomHTML    string                `json:"custom_html"`
	Links         []SubLink             `json:"links"`
	Shape         enums.CollectionShape `json:"shape"`
}

type SubLink struct {
	ID     string            `json:"id"`
	Icon   string            `json:"icon"`
	Label  string            `json:"label"`
	Route  string            `json:"route"`
	Inner  InnerSubLinkGroup `json:"inner"`
	Origin Origin            `json:"origin"`
}

type InnerSubLinkGroup struct {
	Enabled bool                  `json:"enabled"`
	Links   []InnerSubLink        `json:"links"`
	Shape   enums.CollectionShape `json:"shape"`
}

type InnerSubLink struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Route  string `json:"route"`
	Origin Origin `json:"origin"`
}

type Home struct {
	Sections      []HomeSection         `json:"sections"`
	SectionsShape enums.CollectionShape `json:"sections_shape"`
}

// HomeSection is one landing page content block. The payload block matching
// Kind is set; category and brand sections share Collection.
type HomeSection struct {
	Key      int                   `json:"key"`
	Kind     enums.HomeSectionKind `json:"kind"`
	Status   bool                  `json:"status"`
	Platform enums.Platform        `json:"platform"`
	AppName  string                `json:"app_name"`

	Custom     *CustomSection     `json:"custom,omitempty"`
	Featured   *FeaturedSection   `json:"featured,omitempty"`
	Collection *CollectionSection `json:"collection,omitempty"`
	Instagram  *InstagramSection  `json:"instagram,omitempty"`

	Origin Origin `json:"origin"`
}

type CustomSection struct {
	ImageURL    string `json:"image_url"`
	RedirectURL string `json:"redirect_url"`
	Content     string `json:"content"`
}

type FeaturedSection struct {
	Name         string           `json:"name"`
	CardsPerRow  string           `json:"cards_per_row"`
	Tabs         bool             `json:"tabs"`
	Slider       bool             `json:"slider"`
	ViewAll      bool             `json:"view_all"`
	DesignAsShop bool             `json:"design_as_shop"`
	Products     ProductSelection `json:"products"`
}

// ProductSelection is either every product or an explicit id list.
type ProductSelection struct {
	All bool     `json:"all"`
	IDs []string `json:"ids"`
}

type CollectionSection struct {
	SelectedIDs []string `json:"selected_ids"`
	Content     string   `json:"content"`
}

type InstagramSection struct {
	Heading string `json:"heading"`
	Token   string `json:"token"`
	Content string `json:"content"`
}

type SearchResult struct {
	LayoutSettings map[string]string     `json:"layout_settings"`
	CardItems      []CardItem            `json:"card_items"`
	CardItemsShape enums.CollectionShape `json:"card_items_shape"`
}

// CardItem is one field of a search result product card. Kind keeps the raw
// type string even when it is not a known CardItemKind.
type CardItem struct {
	Key      string             `json:"key"`
	Kind     enums.CardItemKind `json:"kind"`
	Settings map[string]any     `json:"settings"`
	Origin   Origin             `json:"origin"`
}
