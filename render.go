package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flock/selection"
)

// cell is one character of the canvas area and the colors to draw it with.
type cell struct {
	r  rune
	fg string
	bg string
}

type grid [][]cell

func newGrid(width, height int) grid {
	g := make(grid, max(height, 1))
	for y := range g {
		g[y] = make([]cell, max(width, 1))
		for x := range g[y] {
			g[y][x] = cell{r: ' '}
		}
	}
	return g
}

func (g grid) valid(x, y int) bool {
	return y >= 0 && y < len(g) && x >= 0 && x < len(g[0])
}

func (g grid) set(x, y int, r rune, fg string) {
	if g.valid(x, y) {
		g[y][x].r = r
		g[y][x].fg = fg
	}
}

// plain returns the grid without colors.
func (g grid) plain() []string {
	lines := make([]string, len(g))
	for y, row := range g {
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(c.r)
		}
		lines[y] = b.String()
	}
	return lines
}

// styled renders runs of equally colored cells through lipgloss.
func (g grid) styled() []string {
	lines := make([]string, len(g))
	for y, row := range g {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].fg == row[start].fg && row[x].bg == row[start].bg {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, c := range row[start:x] {
				run = append(run, c.r)
			}
			b.WriteString(paint(row[start].fg, row[start].bg, string(run)))
			start = x
		}
		lines[y] = b.String()
	}
	return lines
}

func paint(fg, bg, s string) string {
	if fg == "" && bg == "" {
		return s
	}
	st := lipgloss.NewStyle()
	if fg != "" {
		st = st.Foreground(lipgloss.Color(fg)).Bold(true)
	}
	if bg != "" {
		st = st.Background(lipgloss.Color(bg))
	}
	return st.Render(s)
}

// renderOptions controls the extras drawn on top of the diagram.
type renderOptions struct {
	cursor     bool
	cursorX    int
	cursorY    int
	decorate   bool // selection highlights and the rubber band
	panX, panY int
	scale      float64
}

// toScreen maps a world cell to a cell of the canvas area.
func (o renderOptions) toScreen(p point) point {
	return point{
		X: int(math.Floor(float64(p.X-o.panX) * o.scale)),
		Y: int(math.Floor(float64(p.Y-o.panY) * o.scale)),
	}
}

func (o renderOptions) length(n int) int {
	return max(int(math.Round(float64(n)*o.scale)), 2)
}

// Render draws the canvas area with highlights, the rubber band and the
// keyboard cursor.
func (s *termSurface) Render(cursorX, cursorY int, showCursor bool) []string {
	g := s.draw(renderOptions{
		cursor:   showCursor,
		cursorX:  cursorX,
		cursorY:  cursorY,
		decorate: true,
		panX:     s.panX,
		panY:     s.panY,
		scale:    s.Scale(),
	})
	return g.styled()
}

// RenderPlain draws the diagram as it would look unselected, at 1x.
func (s *termSurface) RenderPlain() []string {
	g := s.draw(renderOptions{panX: s.panX, panY: s.panY, scale: 1})
	return g.plain()
}

func (s *termSurface) draw(o renderOptions) grid {
	g := newGrid(s.width, s.height)

	for _, conn := range s.canvas.Connections() {
		fg := ""
		if o.decorate {
			fg = s.strokeOf(conn.ID)
		}
		drawConnection(g, conn, o, fg)
	}
	for _, b := range s.canvas.Boxes() {
		var v *entityView
		if o.decorate {
			v, _ = s.view(selection.ID(b.ID))
		}
		drawBox(g, b, v, o)
	}
	if o.decorate && s.overlay != nil {
		s.drawOverlay(g)
	}
	if o.cursor {
		g.set(o.cursorX, o.cursorY, '█', "")
	}
	return g
}

func (s *termSurface) strokeOf(id int) string {
	if v, ok := s.views[selection.ID(id)]; ok {
		return v.stroke
	}
	return ""
}

func drawBox(g grid, b *Box, v *entityView, o renderOptions) {
	tl := o.toScreen(point{b.X, b.Y})
	w, h := o.length(b.Width), o.length(b.Height)

	corner, horizontal, vertical := '+', '-', '|'
	fg, bg := "", ""
	lines := b.Lines
	if v != nil {
		if v.HasClass(selection.HighlightClass) {
			corner, horizontal, vertical = '#', '#', '#'
		}
		fg, bg = v.stroke, v.fill
		if v.label != "" {
			lines = strings.Split(v.label, "\n")
		}
	}

	for y := tl.Y; y < tl.Y+h; y++ {
		for x := tl.X; x < tl.X+w; x++ {
			if !g.valid(x, y) {
				continue
			}
			top, bottom := y == tl.Y, y == tl.Y+h-1
			left, right := x == tl.X, x == tl.X+w-1
			switch {
			case (top || bottom) && (left || right):
				g.set(x, y, corner, fg)
			case top || bottom:
				g.set(x, y, horizontal, fg)
			case left || right:
				g.set(x, y, vertical, fg)
			default:
				g[y][x] = cell{r: ' ', bg: bg}
			}
		}
	}

	for i, line := range lines {
		y := tl.Y + 1 + i
		if y >= tl.Y+h-1 {
			break
		}
		runes := []rune(line)
		if len(runes) > w-2 {
			runes = runes[:max(w-2, 0)]
		}
		for j, r := range runes {
			if g.valid(tl.X+1+j, y) {
				g[y][tl.X+1+j] = cell{r: r, bg: bg}
			}
		}
	}
}

func drawConnection(g grid, conn *Connection, o renderOptions, fg string) {
	path := connectionPath(conn)
	pts := make([]point, len(path))
	for i, p := range path {
		pts[i] = o.toScreen(p)
	}

	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]
		if a.X == b.X {
			for y := min(a.Y, b.Y); y <= max(a.Y, b.Y); y++ {
				g.set(a.X, y, '│', fg)
			}
		} else {
			for x := min(a.X, b.X); x <= max(a.X, b.X); x++ {
				g.set(x, a.Y, '─', fg)
			}
		}
	}
	for i := 1; i < len(pts)-1; i++ {
		g.set(pts[i].X, pts[i].Y, cornerRune(pts[i-1], pts[i], pts[i+1]), fg)
	}

	if conn.ArrowTo && len(pts) > 1 {
		drawArrow(g, pts[len(pts)-2], pts[len(pts)-1], fg)
	}
	if conn.ArrowFrom && len(pts) > 1 {
		drawArrow(g, pts[1], pts[0], fg)
	}
}

func cornerRune(prev, at, next point) rune {
	// Normalize so that the horizontal neighbour is h and the vertical one v.
	h, v := prev, next
	if prev.X == at.X {
		h, v = next, prev
	}
	switch {
	case h.X < at.X && v.Y > at.Y:
		return '┐'
	case h.X < at.X:
		return '┘'
	case v.Y > at.Y:
		return '┌'
	default:
		return '└'
	}
}

// drawArrow puts the head just outside the box border the segment ends on.
func drawArrow(g grid, from, to point, fg string) {
	switch {
	case to.X > from.X:
		g.set(to.X-1, to.Y, '▶', fg)
	case to.X < from.X:
		g.set(to.X+1, to.Y, '◀', fg)
	case to.Y > from.Y:
		g.set(to.X, to.Y-1, '▼', fg)
	case to.Y < from.Y:
		g.set(to.X, to.Y+1, '▲', fg)
	}
}

// drawOverlay draws the rubber band. Its rect is in screen coordinates.
func (s *termSurface) drawOverlay(g grid) {
	st := s.styles[s.overlay.class]
	r := s.overlay.rect
	minX, minY := int(r.X), int(r.Y)-s.top
	maxX, maxY := int(r.Right()), int(r.Bottom())-s.top

	horizontal, vertical := '─', '│'
	if st.Dashed {
		horizontal, vertical = '╌', '╎'
	}

	if st.Fill {
		for y := minY + 1; y < maxY; y++ {
			for x := minX + 1; x < maxX; x++ {
				if g.valid(x, y) && g[y][x].r == ' ' && g[y][x].bg == "" {
					g[y][x].bg = st.Color
				}
			}
		}
	}
	for x := minX; x <= maxX; x++ {
		g.set(x, minY, horizontal, st.Color)
		g.set(x, maxY, horizontal, st.Color)
	}
	for y := minY; y <= maxY; y++ {
		g.set(minX, y, vertical, st.Color)
		g.set(maxX, y, vertical, st.Color)
	}
	if minY == maxY {
		return
	}
	g.set(minX, minY, '┌', st.Color)
	g.set(maxX, minY, '┐', st.Color)
	g.set(minX, maxY, '└', st.Color)
	g.set(maxX, maxY, '┘', st.Color)
}
