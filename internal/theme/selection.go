package theme

// Selection is the editor's expanded and selected entities. Empty ids mean
// nothing is selected at that level.
type Selection struct {
	BarID      string `json:"bar_id,omitempty"`
	ListID     string `json:"list_id,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
	SubLinkID  string `json:"sub_link_id,omitempty"`
	SectionKey *int   `json:"section_key,omitempty"`
}

// Prune clears every reference cfg no longer contains. A cleared level also
// clears the levels below it.
func (s Selection) Prune(cfg Config) Selection {
	if s.SectionKey != nil && cfg.section(*s.SectionKey) == nil {
		s.SectionKey = nil
	}

	ref := SubLinkRef{ItemRef: ItemRef{ListRef: ListRef{BarID: s.BarID, ListID: s.ListID}, ItemID: s.ItemID}, SubLinkID: s.SubLinkID}
	switch {
	case s.BarID == "" || cfg.bar(s.BarID) == nil:
		s.BarID, s.ListID, s.ItemID, s.SubLinkID = "", "", "", ""
	case s.ListID == "" || cfg.list(ref.ListRef) == nil:
		s.ListID, s.ItemID, s.SubLinkID = "", "", ""
	case s.ItemID == "" || cfg.item(ref.ItemRef) == nil:
		s.ItemID, s.SubLinkID = "", ""
	case s.SubLinkID == "" || cfg.subLink(ref) == nil:
		s.SubLinkID = ""
	}
	return s
}
