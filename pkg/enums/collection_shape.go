package enums

// CollectionShape records how a repeated structure was encoded in the source document.
type CollectionShape string

const (
	CollectionShapeArray CollectionShape = "array"
	CollectionShapeKeyed CollectionShape = "keyed"
)

// String implements fmt.Stringer.
func (s CollectionShape) String() string {
	return string(s)
}

// IsKeyed reports whether entries were stored under stringified integer keys.
func (s CollectionShape) IsKeyed() bool {
	return s == CollectionShapeKeyed
}
