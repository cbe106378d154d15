package selection

import "fmt"

type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

type Size struct {
	Width, Height float64
}

// Rect is a bounding box. Width and Height are never negative for rects built
// by this package.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// RectFromCorners builds the rect spanned by two opposite corners in any order.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		X:      min(a.X, b.X),
		Y:      min(a.Y, b.Y),
		Width:  abs(b.X - a.X),
		Height: abs(b.Y - a.Y),
	}
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Intersects reports overlap using open intervals: rects that only share an
// edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() &&
		r.Right() > o.X &&
		r.Y < o.Bottom() &&
		r.Bottom() > o.Y
}

func (r Rect) Union(o Rect) Rect {
	x, y := min(r.X, o.X), min(r.Y, o.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  max(r.Right(), o.Right()) - x,
		Height: max(r.Bottom(), o.Bottom()) - y,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("{%g,%g %gx%g}", r.X, r.Y, r.Width, r.Height)
}

// Transform is the surface's current pan translation and zoom scale.
type Transform struct {
	TX, TY float64
	SX, SY float64
}

// Identity is the transform of an unpanned, unzoomed surface.
var Identity = Transform{SX: 1, SY: 1}

// ToViewport maps a logical point onto the viewport of a surface whose top-left
// corner is origin. It is the inverse of the mapper's manual formula.
func (t Transform) ToViewport(p, origin Point) Point {
	return Point{
		X: (p.X+t.TX)*t.SX + origin.X,
		Y: (p.Y+t.TY)*t.SY + origin.Y,
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
