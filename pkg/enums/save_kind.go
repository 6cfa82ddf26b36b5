package enums

import "fmt"

// SaveKind distinguishes a full document save from a header-only save.
type SaveKind string

const (
	SaveKindFull   SaveKind = "full"
	SaveKindHeader SaveKind = "header"
)

func (k SaveKind) String() string {
	return string(k)
}

func (k SaveKind) IsValid() bool {
	return k == SaveKindFull || k == SaveKindHeader
}

func ParseSaveKind(value string) (SaveKind, error) {
	k := SaveKind(value)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid save kind %q", value)
	}
	return k, nil
}
