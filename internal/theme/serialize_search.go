package theme

func serializeSearchResult(sr SearchResult, src map[string]any) map[string]any {
	w := rootWriter(src)

	layout := make(map[string]any, len(sr.LayoutSettings))
	for k, v := range sr.LayoutSettings {
		layout[k] = v
	}
	w.object(keyLayout, layout)

	cards := encodeEntities(sr.CardItemsShape, sr.CardItems,
		func(c CardItem) Origin { return c.Origin },
		w.sourceChild(keyCards), writeCardItem)
	w.collection(keyCards, cards, len(sr.CardItems) == 0)
	return w.result()
}

func writeCardItem(c CardItem, src map[string]any) map[string]any {
	w := newObjectWriter(src, c.Origin)
	if !c.Origin.DerivedID {
		w.str("key", c.Key, "")
	}
	w.str("type", string(c.Kind), "")
	w.object("settings", c.Settings)
	return w.result()
}
