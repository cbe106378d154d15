package selection

// mapper converts viewport points into logical points for one surface.
type mapper struct {
	surface Surface
}

// toLogical prefers the surface's native conversion and falls back to
//
//	logical = (viewport - origin) / scale - translation
//
// It fails with ErrGeometryUnavailable when the surface has no bounds yet or
// a degenerate scale.
func (m mapper) toLogical(p Point) (Point, error) {
	if lc, ok := m.surface.(LocalConverter); ok {
		lp, ok := lc.ClientToLocal(p)
		if !ok {
			return Point{}, ErrGeometryUnavailable
		}
		return lp, nil
	}
	return manualToLogical(m.surface, p)
}

func manualToLogical(s Surface, p Point) (Point, error) {
	bounds, ok := s.Bounds()
	if !ok {
		return Point{}, ErrGeometryUnavailable
	}
	t := s.Transform()
	if t.SX == 0 || t.SY == 0 {
		return Point{}, ErrGeometryUnavailable
	}
	return Point{
		X: (p.X-bounds.X)/t.SX - t.TX,
		Y: (p.Y-bounds.Y)/t.SY - t.TY,
	}, nil
}

// rect maps both corners of a viewport rectangle and rebuilds it in logical
// space.
func (m mapper) rect(a, b Point) (Rect, error) {
	la, err := m.toLogical(a)
	if err != nil {
		return Rect{}, err
	}
	lb, err := m.toLogical(b)
	if err != nil {
		return Rect{}, err
	}
	return RectFromCorners(la, lb), nil
}

// ToLogical converts a viewport point into diagram coordinates. It reports
// false while the surface has no usable geometry.
func (e *Engine) ToLogical(p Point) (Point, bool) {
	lp, err := e.mapper.toLogical(p)
	if err != nil {
		return Point{}, false
	}
	return lp, true
}
