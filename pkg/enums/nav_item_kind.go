package enums

import "fmt"

// NavItemKind identifies what a navigation item renders.
type NavItemKind string

const (
	NavItemKindLink        NavItemKind = "link"
	NavItemKindLogo        NavItemKind = "logo"
	NavItemKindSearch      NavItemKind = "search"
	NavItemKindCart        NavItemKind = "cart"
	NavItemKindLoginSignup NavItemKind = "login_signup"
	NavItemKindLocation    NavItemKind = "location"
	NavItemKindEmail       NavItemKind = "email"
	NavItemKindNumber      NavItemKind = "number"

	NavItemKindFacebook  NavItemKind = "facebook"
	NavItemKindInstagram NavItemKind = "instagram"
	NavItemKindTwitter   NavItemKind = "twitter"
	NavItemKindYoutube   NavItemKind = "youtube"
	NavItemKindTiktok    NavItemKind = "tiktok"
	NavItemKindLinkedin  NavItemKind = "linkedin"
	NavItemKindPinterest NavItemKind = "pinterest"
	NavItemKindWhatsapp  NavItemKind = "whatsapp"
)

var validNavItemKinds = []NavItemKind{
	NavItemKindLink,
	NavItemKindLogo,
	NavItemKindSearch,
	NavItemKindCart,
	NavItemKindLoginSignup,
	NavItemKindLocation,
	NavItemKindEmail,
	NavItemKindNumber,
	NavItemKindFacebook,
	NavItemKindInstagram,
	NavItemKindTwitter,
	NavItemKindYoutube,
	NavItemKindTiktok,
	NavItemKindLinkedin,
	NavItemKindPinterest,
	NavItemKindWhatsapp,
}

var socialNavItemKinds = map[NavItemKind]struct{}{
	NavItemKindFacebook:  {},
	NavItemKindInstagram: {},
	NavItemKindTwitter:   {},
	NavItemKindYoutube:   {},
	NavItemKindTiktok:    {},
	NavItemKindLinkedin:  {},
	NavItemKindPinterest: {},
	NavItemKindWhatsapp:  {},
}

// String implements fmt.Stringer.
func (k NavItemKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known NavItemKind.
func (k NavItemKind) IsValid() bool {
	for _, candidate := range validNavItemKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// IsSocial reports whether the kind links to a social network profile.
func (k NavItemKind) IsSocial() bool {
	_, ok := socialNavItemKinds[k]
	return ok
}

// ParseNavItemKind converts raw input into a NavItemKind.
func ParseNavItemKind(value string) (NavItemKind, error) {
	for _, candidate := range validNavItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid nav item kind %q", value)
}
