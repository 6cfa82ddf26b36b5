package theme

// Raw key names of the web_theme document. Flag key sets are listed in read
// priority order; the first entry is written when the source had none.
var (
	tickerEnabledKeys = []string{"header_ticker_on_off", "ticker_on_off"}
	tickerStickyKeys  = []string{"sticky_ticker", "sticky_ticker_on_off"}

	barVisibleKeys     = []string{"navigation_bar_on_off", "visible"}
	barStickyKeys      = []string{"sticky_header_on_off", "sticky_header"}
	barTransparentKeys = []string{"fixed_header_on_off", "transparent_header_on_off", "transparent_header"}
	barContainerKeys   = []string{"container_on_off", "use_container"}
	barHighlightKeys   = []string{"highlight_active_link_on_off", "highlight_active_link"}

	itemNewTabKeys         = []string{"open_in_new_tab"}
	itemSubLinkKeys        = []string{"sub_link_on_off", "sub_link"}
	itemCustomHTMLKeys     = []string{"sub_link_custom_html_on_off", "custom_html_on_off"}
	itemShowPriceKeys      = []string{"show_cart_price", "show_price"}
	itemCurrentLocKeys     = []string{"is_current_location", "current_location"}
	subLinkInnerKeys       = []string{"inner_sub_link_on_off", "inner_sub_link"}
	sectionStatusKeys      = []string{"status"}
	featuredTabsKeys       = []string{"tabs"}
	featuredSliderKeys     = []string{"slider"}
	featuredViewAllKeys    = []string{"view_all"}
	featuredDesignShopKeys = []string{"design_as_shop"}
)

const (
	keyID       = "id"
	keyHeader   = "header"
	keyTicker   = "ticker"
	keyBars     = "navigation_bars"
	keyLists    = "lists"
	keyItems    = "items"
	keySetting  = "setting"
	keySubLinks = "sub_settings"
	keyInner    = "inner_sub_settings"
	keyHome     = "home"
	keySections = "sections"
	keySearch   = "search_result"
	keyLayout   = "layout_settings"
	keyCards    = "card_items"

	settingLabelKey = "item_label"
)

// Defaults applied when the source omits a value.
const (
	DefaultTickerBackground = "#fde6c6"
	DefaultTickerTextColor  = "#000000"
	DefaultBarHeight        = "auto"
	DefaultSpacing          = "0px 0px 0px 0px"
	DefaultBarBackground    = "#ffffff"
	DefaultItemColor        = "#000000"
	DefaultItemFontSize     = "14px"
	DefaultItemFontWeight   = "400"
	DefaultItemLabel        = "New Link"
	DefaultCardsPerRow      = "4"
)

// ItemField names an editable NavItem field.
type ItemField string

const (
	ItemFieldKind               ItemField = "kind"
	ItemFieldLabel              ItemField = "label"
	ItemFieldColor              ItemField = "color"
	ItemFieldRoute              ItemField = "route"
	ItemFieldBackgroundColor    ItemField = "background_color"
	ItemFieldBorderRadius       ItemField = "border_radius"
	ItemFieldMargin             ItemField = "margin"
	ItemFieldPadding            ItemField = "padding"
	ItemFieldBorder             ItemField = "border"
	ItemFieldBorderLeft         ItemField = "border_left"
	ItemFieldFontSize           ItemField = "font_size"
	ItemFieldFontWeight         ItemField = "font_weight"
	ItemFieldExtraClass         ItemField = "extra_class"
	ItemFieldExtraAttribute     ItemField = "extra_attribute"
	ItemFieldOpenInNewTab       ItemField = "open_in_new_tab"
	ItemFieldPlaceholder        ItemField = "placeholder"
	ItemFieldWidth              ItemField = "width"
	ItemFieldBorderBottom       ItemField = "border_bottom"
	ItemFieldShowPrice          ItemField = "show_price"
	ItemFieldPriceLabelColor    ItemField = "price_label_color"
	ItemFieldCountBadgePosition ItemField = "count_badge_position"
	ItemFieldCountBadgeColor    ItemField = "count_badge_color"
	ItemFieldIsCurrentLocation  ItemField = "is_current_location"
	ItemFieldLogoImage          ItemField = "logo_image"
	ItemFieldLogoWidth          ItemField = "logo_width"
)

// itemStringField maps a string field to its top-level raw key and, when
// dual-homed, its setting.* alias.
type itemStringField struct {
	field   ItemField
	raw     string
	setting string
}

// itemCommonFields are the string fields every item kind carries.
var itemCommonFields = []itemStringField{
	{field: ItemFieldLabel, raw: "name", setting: settingLabelKey},
	{field: ItemFieldColor, raw: "color", setting: "item_label_color"},
	{field: ItemFieldRoute, raw: "route", setting: "item_route"},
	{field: ItemFieldBackgroundColor, raw: "background_color", setting: "item_bg_color"},
	{field: ItemFieldBorderRadius, raw: "border_radius", setting: "item_border_radius"},
	{field: ItemFieldMargin, raw: "margin", setting: "item_margin"},
	{field: ItemFieldPadding, raw: "padding", setting: "item_padding"},
	{field: ItemFieldFontSize, raw: "font_size", setting: "link_font_size"},
	{field: ItemFieldFontWeight, raw: "font_weight", setting: "link_font_weight"},
	{field: ItemFieldBorder, raw: "border"},
	{field: ItemFieldBorderLeft, raw: "border_left"},
	{field: ItemFieldExtraClass, raw: "extra_class"},
	{field: ItemFieldExtraAttribute, raw: "extra_attribute"},
}

// itemOptionFields are string fields that only exist on one kind.
var itemOptionFields = []itemStringField{
	{field: ItemFieldPlaceholder, raw: "search_placeholder"},
	{field: ItemFieldWidth, raw: "search_width"},
	{field: ItemFieldBorderBottom, raw: "search_border_bottom"},
	{field: ItemFieldPriceLabelColor, raw: "price_label_color"},
	{field: ItemFieldCountBadgePosition, raw: "count_badge_position"},
	{field: ItemFieldCountBadgeColor, raw: "count_badge_color"},
	{field: ItemFieldLogoImage, raw: "logo_image"},
	{field: ItemFieldLogoWidth, raw: "logo_width"},
}

const settingNewTabKey = "item_open_in_new_tab"

// SettingAlias returns the setting.* key mirroring an item field, if any.
func SettingAlias(field ItemField) (string, bool) {
	if field == ItemFieldOpenInNewTab {
		return settingNewTabKey, true
	}
	for _, af := range itemCommonFields {
		if af.field == field && af.setting != "" {
			return af.setting, true
		}
	}
	return "", false
}

// stringRef returns a pointer to the item's string field, or nil when the
// field does not exist for the item's kind.
func (it *NavItem) stringRef(field ItemField) *string {
	switch field {
	case ItemFieldLabel:
		return &it.Label
	case ItemFieldColor:
		return &it.Color
	case ItemFieldRoute:
		return &it.Route
	case ItemFieldBackgroundColor:
		return &it.BackgroundColor
	case ItemFieldBorderRadius:
		return &it.BorderRadius
	case ItemFieldMargin:
		return &it.Margin
	case ItemFieldPadding:
		return &it.Padding
	case ItemFieldBorder:
		return &it.Border
	case ItemFieldBorderLeft:
		return &it.BorderLeft
	case ItemFieldFontSize:
		return &it.FontSize
	case ItemFieldFontWeight:
		return &it.FontWeight
	case ItemFieldExtraClass:
		return &it.ExtraClass
	case ItemFieldExtraAttribute:
		return &it.ExtraAttribute
	}
	if it.Search != nil {
		switch field {
		case ItemFieldPlaceholder:
			return &it.Search.Placeholder
		case ItemFieldWidth:
			return &it.Search.Width
		case ItemFieldBorderBottom:
			return &it.Search.BorderBottom
		}
	}
	if it.Cart != nil {
		switch field {
		case ItemFieldPriceLabelColor:
			return &it.Cart.PriceLabelColor
		case ItemFieldCountBadgePosition:
			return &it.Cart.CountBadgePosition
		case ItemFieldCountBadgeColor:
			return &it.Cart.CountBadgeColor
		}
	}
	if it.Logo != nil {
		switch field {
		case ItemFieldLogoImage:
			return &it.Logo.ImageURL
		case ItemFieldLogoWidth:
			return &it.Logo.Width
		}
	}
	return nil
}

// flagRef is the boolean counterpart of stringRef.
func (it *NavItem) flagRef(field ItemField) *bool {
	switch field {
	case ItemFieldOpenInNewTab:
		return &it.OpenInNewTab
	case ItemFieldShowPrice:
		if it.Cart != nil {
			return &it.Cart.ShowPrice
		}
	case ItemFieldIsCurrentLocation:
		if it.Location != nil {
			return &it.Location.IsCurrentLocation
		}
	}
	return nil
}
