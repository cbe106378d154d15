package selection

import (
	"errors"
	"math"
	"sort"

	"cdr.dev/slog"

	"flock/lib/log"
)

type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

func (a HAlign) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	default:
		return "center"
	}
}

type VAlign int

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

func (a VAlign) String() string {
	switch a {
	case AlignTop:
		return "top"
	case AlignBottom:
		return "bottom"
	default:
		return "middle"
	}
}

// DuplicateSelected duplicates with the configured offset.
func (e *Engine) DuplicateSelected() []ID {
	return e.Duplicate(e.opts.DuplicateDX, e.opts.DuplicateDY)
}

// Duplicate copies every selected entity, offsets each copy by (dx, dy) and
// makes the copies the new selection. Entities the model cannot clone are
// skipped.
func (e *Engine) Duplicate(dx, dy float64) []ID {
	if e.busy() {
		return nil
	}
	e.begin()
	defer e.end()

	e.prune()
	if e.selected.len() == 0 {
		return nil
	}
	originals := e.selected.list()
	e.clear()

	var copies []ID
	for _, id := range originals {
		c, err := e.model.Clone(id)
		if err != nil {
			if !errors.Is(err, ErrUnsupported) {
				log.Warn(e.ctx, "clone failed", slog.F("id", id), slog.F("err", err))
			}
			continue
		}
		if p, ok := e.model.Position(id); ok {
			e.model.SetPosition(c, p.Add(Point{X: dx, Y: dy}))
		}
		copies = append(copies, c)
	}
	for _, c := range copies {
		e.add(c)
	}
	log.Debug(e.ctx, "duplicated selection", slog.F("originals", len(originals)), slog.F("copies", len(copies)))
	return copies
}

// placed is an entity with its box, as read at the start of a batch
// operation.
type placed struct {
	id  ID
	box Rect
}

// boxes returns the selected entities that have a bounding box, in selection
// order.
func (e *Engine) boxes() []placed {
	e.prune()
	var out []placed
	for _, id := range e.selected.ids {
		if box, ok := BoundingBox(e.model, id); ok {
			out = append(out, placed{id: id, box: box})
		}
	}
	return out
}

// AlignHorizontal lines up the selection on the x axis. It needs at least two
// entities.
func (e *Engine) AlignHorizontal(a HAlign) {
	e.begin()
	defer e.end()

	items := e.boxes()
	if len(items) < 2 {
		return
	}
	union := items[0].box
	for _, it := range items[1:] {
		union = union.Union(it.box)
	}
	for _, it := range items {
		var x float64
		switch a {
		case AlignLeft:
			x = union.X
		case AlignRight:
			x = union.Right() - it.box.Width
		default:
			x = union.Center().X - it.box.Width/2
		}
		e.model.SetPosition(it.id, Point{X: x, Y: it.box.Y})
	}
	log.Debug(e.ctx, "aligned horizontally", slog.F("align", a.String()), slog.F("count", len(items)))
}

// AlignVertical lines up the selection on the y axis. It needs at least two
// entities.
func (e *Engine) AlignVertical(a VAlign) {
	e.begin()
	defer e.end()

	items := e.boxes()
	if len(items) < 2 {
		return
	}
	union := items[0].box
	for _, it := range items[1:] {
		union = union.Union(it.box)
	}
	for _, it := range items {
		var y float64
		switch a {
		case AlignTop:
			y = union.Y
		case AlignBottom:
			y = union.Bottom() - it.box.Height
		default:
			y = union.Center().Y - it.box.Height/2
		}
		e.model.SetPosition(it.id, Point{X: it.box.X, Y: y})
	}
	log.Debug(e.ctx, "aligned vertically", slog.F("align", a.String()), slog.F("count", len(items)))
}

// DistributeHorizontal spaces the selection evenly on the x axis. The
// leftmost and rightmost entities stay put; the centers of the others are
// spread over the span from the first left edge to the last right edge. It
// needs at least three entities.
func (e *Engine) DistributeHorizontal() {
	e.begin()
	defer e.end()
	e.distribute(func(r Rect) (float64, float64) { return r.X, r.Width },
		func(r Rect, start float64) Point { return Point{X: start, Y: r.Y} })
}

// DistributeVertical is DistributeHorizontal on the y axis.
func (e *Engine) DistributeVertical() {
	e.begin()
	defer e.end()
	e.distribute(func(r Rect) (float64, float64) { return r.Y, r.Height },
		func(r Rect, start float64) Point { return Point{X: r.X, Y: start} })
}

// distribute works on one axis: axis returns a box's start and extent on it,
// place rebuilds a position from a box and a new start.
func (e *Engine) distribute(axis func(Rect) (float64, float64), place func(Rect, float64) Point) {
	items := e.boxes()
	n := len(items)
	if n < 3 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, _ := axis(items[i].box)
		b, _ := axis(items[j].box)
		return a < b
	})
	first, _ := axis(items[0].box)
	lastStart, lastExtent := axis(items[n-1].box)
	spacing := (lastStart + lastExtent - first) / float64(n-1)
	if math.IsNaN(spacing) || math.IsInf(spacing, 0) {
		return
	}
	for i := 1; i < n-1; i++ {
		_, extent := axis(items[i].box)
		start := first + spacing*float64(i) - extent/2
		e.model.SetPosition(items[i].id, place(items[i].box, start))
	}
	log.Debug(e.ctx, "distributed selection", slog.F("count", n), slog.F("spacing", spacing))
}
