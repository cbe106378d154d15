package main

import (
	"math"
	"slices"
	"strings"

	"flock/selection"
)

// Canvas is one diagram: boxes and the connections between them. Ids are
// handed out from a single counter and never reused, so a removed box can
// not be confused with a later one.
type Canvas struct {
	nextID      int
	boxes       []*Box
	connections []*Connection
}

type Box struct {
	ID     int
	X      int
	Y      int
	Width  int
	Height int
	Lines  []string
}

func (b *Box) GetText() string {
	return strings.Join(b.Lines, "\n")
}

func (b *Box) SetText(text string) {
	b.Lines = strings.Split(text, "\n")
	b.updateSize()
}

func (b *Box) updateSize() {
	if len(b.Lines) == 0 {
		b.Lines = []string{""}
	}

	maxWidth := minBoxWidth
	for _, line := range b.Lines {
		if len(line)+2 > maxWidth { // +2 for padding
			maxWidth = len(line) + 2
		}
	}
	b.Width = maxWidth
	b.Height = max(len(b.Lines)+2, minBoxHeight)
}

func (b *Box) contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

type Connection struct {
	ID        int
	FromID    int
	ToID      int
	FromX     int
	FromY     int
	ToX       int
	ToY       int
	ArrowFrom bool
	ArrowTo   bool
}

func NewCanvas() *Canvas {
	return &Canvas{nextID: 1}
}

func (c *Canvas) newID() int {
	id := c.nextID
	c.nextID++
	return id
}

// reserve makes sure ids up to and including id are never handed out again.
func (c *Canvas) reserve(id int) {
	if id >= c.nextID {
		c.nextID = id + 1
	}
}

func (c *Canvas) AddBox(x, y int, text string) int {
	box := &Box{ID: c.newID(), X: x, Y: y}
	box.SetText(text)
	c.boxes = append(c.boxes, box)
	return box.ID
}

func (c *Canvas) Box(id int) (*Box, bool) {
	for _, b := range c.boxes {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

func (c *Canvas) Connection(id int) (*Connection, bool) {
	for _, conn := range c.connections {
		if conn.ID == id {
			return conn, true
		}
	}
	return nil, false
}

func (c *Canvas) Boxes() []*Box {
	return c.boxes
}

func (c *Canvas) Connections() []*Connection {
	return c.connections
}

func (c *Canvas) Empty() bool {
	return len(c.boxes) == 0 && len(c.connections) == 0
}

// BoxAt returns the topmost box covering the world cell, or -1.
func (c *Canvas) BoxAt(x, y int) int {
	for i := len(c.boxes) - 1; i >= 0; i-- {
		if c.boxes[i].contains(x, y) {
			return c.boxes[i].ID
		}
	}
	return -1
}

// ConnectionAt returns the connection whose drawn path passes through the
// world cell, or -1.
func (c *Canvas) ConnectionAt(x, y int) int {
	for i := len(c.connections) - 1; i >= 0; i-- {
		path := connectionPath(c.connections[i])
		for j := 0; j < len(path)-1; j++ {
			if onSegment(path[j], path[j+1], point{x, y}) {
				return c.connections[i].ID
			}
		}
	}
	return -1
}

func onSegment(a, b, p point) bool {
	if a.X == b.X {
		return p.X == a.X && p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y)
	}
	if a.Y == b.Y {
		return p.Y == a.Y && p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X)
	}
	return false
}

func (c *Canvas) SetBoxText(id int, text string) {
	if b, ok := c.Box(id); ok {
		b.SetText(text)
		c.updateConnections(id)
	}
}

func (c *Canvas) GetBoxText(id int) string {
	if b, ok := c.Box(id); ok {
		return b.GetText()
	}
	return ""
}

// AddConnection links two boxes with an arrow pointing at to. It returns -1
// if either box is missing or they are the same box.
func (c *Canvas) AddConnection(fromID, toID int) int {
	if fromID == toID {
		return -1
	}
	if _, ok := c.Box(fromID); !ok {
		return -1
	}
	if _, ok := c.Box(toID); !ok {
		return -1
	}
	conn := &Connection{ID: c.newID(), FromID: fromID, ToID: toID, ArrowTo: true}
	conn.FromX, conn.FromY, conn.ToX, conn.ToY = c.calculateConnectionPoints(fromID, toID)
	c.connections = append(c.connections, conn)
	return conn.ID
}

func (c *Canvas) calculateConnectionPoints(fromID, toID int) (fromX, fromY, toX, toY int) {
	fromBox, ok := c.Box(fromID)
	if !ok {
		return 0, 0, 0, 0
	}
	toBox, ok := c.Box(toID)
	if !ok {
		return 0, 0, 0, 0
	}

	fromCenterX := fromBox.X + fromBox.Width/2
	fromCenterY := fromBox.Y + fromBox.Height/2
	toCenterX := toBox.X + toBox.Width/2
	toCenterY := toBox.Y + toBox.Height/2
	if abs(fromCenterX-toCenterX) > abs(fromCenterY-toCenterY) {
		if fromCenterX < toCenterX {
			fromX = fromBox.X + fromBox.Width - 1
			fromY = fromCenterY
			toX = toBox.X
			toY = toCenterY
		} else {
			fromX = fromBox.X
			fromY = fromCenterY
			toX = toBox.X + toBox.Width - 1
			toY = toCenterY
		}
	} else {
		if fromCenterY < toCenterY {
			fromX = fromCenterX
			fromY = fromBox.Y + fromBox.Height - 1
			toX = toCenterX
			toY = toBox.Y
		} else {
			fromX = fromCenterX
			fromY = fromBox.Y
			toX = toCenterX
			toY = toBox.Y + toBox.Height - 1
		}
	}
	return fromX, fromY, toX, toY
}

// updateConnections re-anchors every connection touching box id.
func (c *Canvas) updateConnections(id int) {
	for _, conn := range c.connections {
		if conn.FromID == id || conn.ToID == id {
			conn.FromX, conn.FromY, conn.ToX, conn.ToY = c.calculateConnectionPoints(conn.FromID, conn.ToID)
		}
	}
}

// connectionPath returns the corner points of the orthogonal route drawn for
// conn, endpoints included.
func connectionPath(conn *Connection) []point {
	from := point{conn.FromX, conn.FromY}
	to := point{conn.ToX, conn.ToY}
	if from.X == to.X || from.Y == to.Y {
		return []point{from, to}
	}
	horizontal := abs(from.X-to.X) > abs(from.Y-to.Y)
	if horizontal {
		midX := (from.X + to.X) / 2
		return []point{from, {midX, from.Y}, {midX, to.Y}, to}
	}
	midY := (from.Y + to.Y) / 2
	return []point{from, {from.X, midY}, {to.X, midY}, to}
}

// DeleteBox removes a box and every connection attached to it.
func (c *Canvas) DeleteBox(id int) {
	c.connections = slices.DeleteFunc(c.connections, func(conn *Connection) bool {
		return conn.FromID == id || conn.ToID == id
	})
	c.boxes = slices.DeleteFunc(c.boxes, func(b *Box) bool { return b.ID == id })
}

func (c *Canvas) DeleteConnection(id int) {
	c.connections = slices.DeleteFunc(c.connections, func(conn *Connection) bool { return conn.ID == id })
}

func (c *Canvas) SetBoxPosition(id int, x, y int) {
	b, ok := c.Box(id)
	if !ok || (b.X == x && b.Y == y) {
		return
	}
	b.X, b.Y = x, y
	c.updateConnections(id)
}

func (c *Canvas) MoveBox(id int, deltaX, deltaY int) {
	if b, ok := c.Box(id); ok {
		c.SetBoxPosition(id, b.X+deltaX, b.Y+deltaY)
	}
}

func (c *Canvas) SetBoxSize(id int, width, height int) {
	b, ok := c.Box(id)
	if !ok {
		return
	}
	b.Width = max(width, minBoxWidth)
	b.Height = max(height, minBoxHeight)
	c.updateConnections(id)
}

// Snapshot is a deep copy of some boxes and connections, used to put them
// back exactly as they were.
type Snapshot struct {
	Boxes       []Box
	Connections []Connection
}

// Snapshot copies the given entities. Connections attached to a captured box
// are captured too, since removing the box takes them along.
func (c *Canvas) Snapshot(ids []int) Snapshot {
	var s Snapshot
	seen := map[int]bool{}
	for _, id := range ids {
		if b, ok := c.Box(id); ok && !seen[id] {
			seen[id] = true
			cp := *b
			cp.Lines = slices.Clone(b.Lines)
			s.Boxes = append(s.Boxes, cp)
		}
	}
	for _, conn := range c.connections {
		if seen[conn.ID] {
			continue
		}
		if slices.Contains(ids, conn.ID) || seen[conn.FromID] || seen[conn.ToID] {
			seen[conn.ID] = true
			s.Connections = append(s.Connections, *conn)
		}
	}
	return s
}

// Restore puts snapshotted entities back under their original ids. Entities
// that already exist are left alone, and so are connections whose boxes are
// gone.
func (c *Canvas) Restore(s Snapshot) {
	for _, b := range s.Boxes {
		if _, ok := c.Box(b.ID); ok {
			continue
		}
		cp := b
		cp.Lines = slices.Clone(b.Lines)
		c.boxes = append(c.boxes, &cp)
		c.reserve(b.ID)
	}
	for _, conn := range s.Connections {
		if _, ok := c.Connection(conn.ID); ok {
			continue
		}
		if _, ok := c.Box(conn.FromID); !ok {
			continue
		}
		if _, ok := c.Box(conn.ToID); !ok {
			continue
		}
		cp := conn
		c.connections = append(c.connections, &cp)
		c.reserve(conn.ID)
		c.updateConnections(conn.FromID)
	}
}

// Discard removes the entities of a snapshot.
func (c *Canvas) Discard(s Snapshot) {
	for _, conn := range s.Connections {
		c.DeleteConnection(conn.ID)
	}
	for _, b := range s.Boxes {
		c.DeleteBox(b.ID)
	}
}

// Positions reads the top-left corners of the given boxes.
func (c *Canvas) Positions(ids []int) map[int]point {
	out := make(map[int]point, len(ids))
	for _, id := range ids {
		if b, ok := c.Box(id); ok {
			out[id] = point{b.X, b.Y}
		}
	}
	return out
}

func (c *Canvas) SetPositions(pos map[int]point) {
	for id, p := range pos {
		c.SetBoxPosition(id, p.X, p.Y)
	}
}

// Bounds returns the smallest world rectangle holding every box and
// connection as min and max corners, exclusive of the max.
func (c *Canvas) Bounds() (minP, maxP point, ok bool) {
	grow := func(p point) {
		if !ok {
			minP, maxP, ok = p, point{p.X + 1, p.Y + 1}, true
			return
		}
		minP.X, minP.Y = min(minP.X, p.X), min(minP.Y, p.Y)
		maxP.X, maxP.Y = max(maxP.X, p.X+1), max(maxP.Y, p.Y+1)
	}
	for _, b := range c.boxes {
		grow(point{b.X, b.Y})
		grow(point{b.X + b.Width - 1, b.Y + b.Height - 1})
	}
	for _, conn := range c.connections {
		for _, p := range connectionPath(conn) {
			grow(p)
		}
	}
	return minP, maxP, ok
}

// The methods below let the selection engine work on the canvas. Boxes are
// its elements and connections its links.

var _ selection.Model = (*Canvas)(nil)

func (c *Canvas) Elements() []selection.ID {
	ids := make([]selection.ID, len(c.boxes))
	for i, b := range c.boxes {
		ids[i] = selection.ID(b.ID)
	}
	return ids
}

func (c *Canvas) Links(id selection.ID) []selection.ID {
	var ids []selection.ID
	for _, conn := range c.connections {
		if conn.FromID == int(id) || conn.ToID == int(id) {
			ids = append(ids, selection.ID(conn.ID))
		}
	}
	return ids
}

func (c *Canvas) Exists(id selection.ID) bool {
	if _, ok := c.Box(int(id)); ok {
		return true
	}
	_, ok := c.Connection(int(id))
	return ok
}

func (c *Canvas) Position(id selection.ID) (selection.Point, bool) {
	b, ok := c.Box(int(id))
	if !ok {
		return selection.Point{}, false
	}
	return selection.Point{X: float64(b.X), Y: float64(b.Y)}, true
}

// SetPosition snaps to the cell grid.
func (c *Canvas) SetPosition(id selection.ID, p selection.Point) {
	c.SetBoxPosition(int(id), int(math.Round(p.X)), int(math.Round(p.Y)))
}

func (c *Canvas) Size(id selection.ID) (selection.Size, bool) {
	b, ok := c.Box(int(id))
	if !ok {
		return selection.Size{}, false
	}
	return selection.Size{Width: float64(b.Width), Height: float64(b.Height)}, true
}

func (c *Canvas) SetSize(id selection.ID, s selection.Size) {
	c.SetBoxSize(int(id), int(math.Round(s.Width)), int(math.Round(s.Height)))
}

// Clone copies a box in place. Connections are not cloned.
func (c *Canvas) Clone(id selection.ID) (selection.ID, error) {
	b, ok := c.Box(int(id))
	if !ok {
		return 0, selection.ErrUnsupported
	}
	cp := *b
	cp.ID = c.newID()
	cp.Lines = slices.Clone(b.Lines)
	c.boxes = append(c.boxes, &cp)
	return selection.ID(cp.ID), nil
}

func (c *Canvas) Remove(id selection.ID) {
	if _, ok := c.Box(int(id)); ok {
		c.DeleteBox(int(id))
		return
	}
	c.DeleteConnection(int(id))
}
