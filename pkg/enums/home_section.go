package enums

import "fmt"

// HomeSectionKind is the content block type of a landing page section.
type HomeSectionKind string

const (
	HomeSectionKindCustom    HomeSectionKind = "custom"
	HomeSectionKindFeatured  HomeSectionKind = "featured"
	HomeSectionKindCategory  HomeSectionKind = "category"
	HomeSectionKindBrand     HomeSectionKind = "brand"
	HomeSectionKindInstagram HomeSectionKind = "instagram"
)

var validHomeSectionKinds = []HomeSectionKind{
	HomeSectionKindCustom,
	HomeSectionKindFeatured,
	HomeSectionKindCategory,
	HomeSectionKindBrand,
	HomeSectionKindInstagram,
}

// String implements fmt.Stringer.
func (k HomeSectionKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known HomeSectionKind.
func (k HomeSectionKind) IsValid() bool {
	for _, candidate := range validHomeSectionKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseHomeSectionKind converts raw input into a HomeSectionKind.
func ParseHomeSectionKind(value string) (HomeSectionKind, error) {
	for _, candidate := range validHomeSectionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid home section kind %q", value)
}

// Platform restricts where a home section is shown.
type Platform string

const (
	PlatformAll Platform = "all"
	PlatformWeb Platform = "web"
	PlatformApp Platform = "app"
)

var validPlatforms = []Platform{
	PlatformAll,
	PlatformWeb,
	PlatformApp,
}

// String implements fmt.Stringer.
func (p Platform) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Platform.
func (p Platform) IsValid() bool {
	for _, candidate := range validPlatforms {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlatform converts raw input into a Platform.
func ParsePlatform(value string) (Platform, error) {
	for _, candidate := range validPlatforms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid platform %q", value)
}
