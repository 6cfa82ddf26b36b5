package theme

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// decodeDoc decodes a raw document the way the gateway does.
func decodeDoc(t *testing.T, raw string) map[string]any {
	t.Helper()

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	require.NoError(t, dec.Decode(&doc))
	return doc
}

const validDoc = `{
  "theme_setting": {"primary_color": "#ff0000", "font": {"family": "Inter", "size": 14}},
  "footer": [{"title": "About"}],
  "header": {
    "ticker": {
      "header_ticker_on_off": false,
      "ticker_on_off": "0",
      "sticky_ticker": "1",
      "ticker_bg_color": "#fde6c6",
      "ticker_font_color": "#000000",
      "header_ticker_text": "Free delivery over $20",
      "ticker_speed": 40
    },
    "navigation_bars": [
      {
        "id": "bar-main",
        "navigation_bar_on_off": "1",
        "sticky_header": true,
        "height": "80px",
        "margin": "0px 0px 0px 0px",
        "padding": "8px 16px 8px 16px",
        "background_color": "#ffffff",
        "lists": [
          {
            "id": "list-left",
            "position": "left",
            "items": [
              {
                "id": "item-logo",
                "type": "logo",
                "name": "Logo",
                "logo_image": "https://cdn.example.com/logo.png",
                "logo_width": "120px"
              },
              {
                "id": "item-menu",
                "type": "link",
                "name": "Menu",
                "route": "/menu",
                "font_weight": 400,
                "open_in_new_tab": "0",
                "sub_link_on_off": "1",
                "sub_settings": {
                  "0": {"id": "sub-pizza", "sub_link_label": "Pizza", "sub_link_route": "/menu/pizza"},
                  "2": {
                    "id": "sub-drinks",
                    "sub_link_label": "Drinks",
                    "sub_link_route": "/menu/drinks",
                    "inner_sub_link_on_off": "1",
                    "inner_sub_settings": [
                      {"id": "inner-soda", "inner_sub_link_label": "Soda", "inner_sub_link_route": "/menu/drinks/soda"}
                    ]
                  }
                },
                "setting": {
                  "item_label": "Menu",
                  "item_label_color": "#222222",
                  "item_open_in_new_tab": "0",
                  "icon_library": "fa"
                }
              }
            ]
          },
          {
            "id": "list-right",
            "position": "right",
            "items": {
              "1": {"id": "item-cart", "type": "cart", "name": "Cart", "show_cart_price": "1", "count_badge_color": "#ff0000"},
              "4": {"id": "item-search", "type": "search", "name": "Search", "search_placeholder": "Find food"}
            }
          }
        ]
      }
    ]
  },
  "home": {
    "banner_height": 300,
    "sections": [
      {"key": 0, "type": "custom", "status": 1, "image_url": "a.png", "redirect_url": "/a", "content": "<p>hi</p>"},
      {"key": 3, "type": "featured", "status": "1", "name": "Popular", "cards_per_row": "4", "tabs": "0", "featured_items": "all"},
      {"key": 5, "type": "category", "status": 0, "selected_items": [12, "13"], "content": ""}
    ]
  },
  "search_result": {
    "layout_settings": {"columns": "4", "gap": 10},
    "card_items": [
      {"key": "image", "type": "image", "settings": {"show": true, "ratio": "1:1"}},
      {"key": "price", "type": "price", "settings": {"show": true}}
    ]
  }
}`

func mainMenuRef() ItemRef {
	return ItemRef{ListRef: ListRef{BarID: "bar-main", ListID: "list-left"}, ItemID: "item-menu"}
}

func rawPath(t *testing.T, doc map[string]any, keys ...string) any {
	t.Helper()

	var cur any = doc
	for _, key := range keys {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[key]
		case []any:
			i, err := strconv.Atoi(key)
			require.NoError(t, err)
			require.Truef(t, i >= 0 && i < len(node), "index %q out of range", key)
			cur = node[i]
		default:
			t.Fatalf("cannot descend into %T at %q", cur, key)
		}
	}
	return cur
}
