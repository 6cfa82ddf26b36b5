package enums

import "fmt"

// EditorRole represents a brand-level permission on the theme editor.
type EditorRole string

const (
	EditorRoleOwner  EditorRole = "owner"
	EditorRoleEditor EditorRole = "editor"
	EditorRoleViewer EditorRole = "viewer"
)

var validEditorRoles = []EditorRole{
	EditorRoleOwner,
	EditorRoleEditor,
	EditorRoleViewer,
}

// String implements fmt.Stringer.
func (r EditorRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known EditorRole.
func (r EditorRole) IsValid() bool {
	for _, candidate := range validEditorRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanWrite reports whether the role may change drafts and save.
func (r EditorRole) CanWrite() bool {
	return r == EditorRoleOwner || r == EditorRoleEditor
}

// ParseEditorRole converts raw input into an EditorRole.
func ParseEditorRole(value string) (EditorRole, error) {
	for _, candidate := range validEditorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid editor role %q", value)
}
