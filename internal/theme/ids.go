package theme

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

var idNamespace = uuid.MustParse("8e0b4f3a-5c6d-4e7f-9a1b-2c3d4e5f6a7b")

// newID mints ids for entities created by the mutation API.
var newID = uuid.NewString

// deriveID returns a stable id for an entity at the given source path.
func deriveID(path string) string {
	return uuid.NewSHA1(idNamespace, []byte(path)).String()
}

// Revision returns the content hash of a raw document. Map keys are encoded
// in sorted order, so equal documents hash equally.
func Revision(doc map[string]any) string {
	if doc == nil {
		return ""
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}
