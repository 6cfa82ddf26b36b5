package enums

import "fmt"

// CardItemKind is one field rendered inside a search result product card.
type CardItemKind string

const (
	CardItemKindImage              CardItemKind = "image"
	CardItemKindName               CardItemKind = "name"
	CardItemKindDescription        CardItemKind = "description"
	CardItemKindPrice              CardItemKind = "price"
	CardItemKindDiscountedPrice    CardItemKind = "discounted_price"
	CardItemKindDiscountPercentage CardItemKind = "discount_percentage"
	CardItemKindCategory           CardItemKind = "category"
	CardItemKindBrand              CardItemKind = "brand"
	CardItemKindQuantity           CardItemKind = "quantity"
	CardItemKindWeight             CardItemKind = "weight"
	CardItemKindSKU                CardItemKind = "sku"
	CardItemKindNote               CardItemKind = "note"
	CardItemKindNotAvailable       CardItemKind = "not_available"
	CardItemKindCounter            CardItemKind = "counter"
	CardItemKindAddToCart          CardItemKind = "add_to_cart"
	CardItemKindWishlist           CardItemKind = "wishlist"
	CardItemKindAttributes         CardItemKind = "attributes"
)

var validCardItemKinds = []CardItemKind{
	CardItemKindImage,
	CardItemKindName,
	CardItemKindDescription,
	CardItemKindPrice,
	CardItemKindDiscountedPrice,
	CardItemKindDiscountPercentage,
	CardItemKindCategory,
	CardItemKindBrand,
	CardItemKindQuantity,
	CardItemKindWeight,
	CardItemKindSKU,
	CardItemKindNote,
	CardItemKindNotAvailable,
	CardItemKindCounter,
	CardItemKindAddToCart,
	CardItemKindWishlist,
	CardItemKindAttributes,
}

// String implements fmt.Stringer.
func (k CardItemKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known CardItemKind.
func (k CardItemKind) IsValid() bool {
	for _, candidate := range validCardItemKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseCardItemKind converts raw input into a CardItemKind.
func ParseCardItemKind(value string) (CardItemKind, error) {
	for _, candidate := range validCardItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid card item kind %q", value)
}
