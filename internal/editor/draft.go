package editor

import (
	"time"

	"github.com/angelmondragon/webtheme-backend/internal/theme"
	"github.com/angelmondragon/webtheme-backend/pkg/themeapi"
)

// Draft is a brand's in-progress edit session.
type Draft struct {
	BrandID string       `json:"brand_id"`
	Config  theme.Config `json:"config"`
	// Selection is the editor's current focus; stale references are pruned
	// after every edit.
	Selection theme.Selection `json:"selection"`
	// BaselineRevision names the raw document Config was normalized from.
	BaselineRevision string        `json:"baseline_revision"`
	Issues           []theme.Issue `json:"issues,omitempty"`
	Dirty            bool          `json:"dirty"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// EditorState is a draft plus the reference data the editor screen needs.
type EditorState struct {
	Draft             *Draft           `json:"draft"`
	Brands            []themeapi.Brand `json:"brands"`
	ReferenceComplete bool             `json:"reference_complete"`
}

// SaveResult reports the outcome of a save.
type SaveResult struct {
	Kind     string `json:"kind"`
	Revision string `json:"revision"`
	// Refreshed is false when the save went through but re-reading the saved
	// document failed; the draft then still holds the pre-save state.
	Refreshed bool   `json:"refreshed"`
	Draft     *Draft `json:"draft"`
}
