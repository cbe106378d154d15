package selection

// BoundingBox derives the box of one entity from the model. It reports false
// for entities without position or size.
func BoundingBox(m Model, id ID) (Rect, bool) {
	pos, ok := m.Position(id)
	if !ok {
		return Rect{}, false
	}
	size, ok := m.Size(id)
	if !ok {
		return Rect{}, false
	}
	return Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}, true
}

// Intersecting returns the ids whose boxes overlap rect, in input order.
// Touching edges do not count.
func Intersecting(rect Rect, m Model, ids []ID) []ID {
	var hits []ID
	for _, id := range ids {
		box, ok := BoundingBox(m, id)
		if !ok {
			continue
		}
		if box.Intersects(rect) {
			hits = append(hits, id)
		}
	}
	return hits
}

// Bounds returns the union of the boxes of ids.
func Bounds(m Model, ids []ID) (Rect, bool) {
	var (
		union Rect
		found bool
	)
	for _, id := range ids {
		box, ok := BoundingBox(m, id)
		if !ok {
			continue
		}
		if !found {
			union, found = box, true
			continue
		}
		union = union.Union(box)
	}
	return union, found
}
