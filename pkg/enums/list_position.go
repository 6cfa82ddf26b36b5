package enums

import "fmt"

// ListPosition places a list group inside a navigation bar.
type ListPosition string

const (
	ListPositionLeft   ListPosition = "left"
	ListPositionCenter ListPosition = "center"
	ListPositionRight  ListPosition = "right"
)

var validListPositions = []ListPosition{
	ListPositionLeft,
	ListPositionCenter,
	ListPositionRight,
}

// String implements fmt.Stringer.
func (p ListPosition) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ListPosition.
func (p ListPosition) IsValid() bool {
	for _, candidate := range validListPositions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseListPosition converts raw input into a ListPosition.
func ParseListPosition(value string) (ListPosition, error) {
	for _, candidate := range validListPositions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid list position %q", value)
}
