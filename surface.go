package main

import (
	"context"
	"math"
	"slices"

	"cdr.dev/slog"
	tea "github.com/charmbracelet/bubbletea"

	"flock/lib/log"
	"flock/selection"
)

type pressKind int

const (
	pressElement pressKind = iota
	pressLink
	pressBlank
	pressPan
)

// press tracks one left-button gesture from press to release.
type press struct {
	kind   pressKind
	target int
	// grab is where the pointer holds the element, relative to its corner.
	grab  selection.Point
	moved bool
	last  point
}

// termSurface is the terminal rendering of one canvas. It turns bubbletea
// mouse and key messages into selection events, moves a single dragged box
// itself, and draws the canvas with the classes and styles the selection
// engine puts on it.
type termSurface struct {
	ctx    context.Context
	canvas *Canvas

	handlers map[selection.EventKind][]selection.Handler
	views    map[selection.ID]*entityView
	styles   map[string]selection.Style
	overlay  *bandOverlay

	// The canvas area is width x height cells starting at screen row top.
	width, height, top int
	panX, panY         int
	zoom               int // index into zoomLevels
	panning            bool

	press *press
}

var (
	_ selection.Surface        = (*termSurface)(nil)
	_ selection.OverlayHost    = (*termSurface)(nil)
	_ selection.LocalConverter = (*termSurface)(nil)
)

func newTermSurface(ctx context.Context, canvas *Canvas) *termSurface {
	return &termSurface{
		ctx:      log.Named(ctx, "surface"),
		canvas:   canvas,
		handlers: make(map[selection.EventKind][]selection.Handler),
		views:    make(map[selection.ID]*entityView),
		styles:   make(map[string]selection.Style),
		zoom:     1,
	}
}

// Resize sets the size and screen offset of the canvas area.
func (s *termSurface) Resize(width, height, top int) {
	s.width, s.height, s.top = width, height, top
}

func (s *termSurface) Pan(dx, dy int) {
	s.panX += dx
	s.panY += dy
}

func (s *termSurface) PanOffset() (int, int) {
	return s.panX, s.panY
}

func (s *termSurface) SetPanOffset(x, y int) {
	s.panX, s.panY = x, y
}

func (s *termSurface) Scale() float64 {
	return zoomLevels[s.zoom]
}

// Zoom steps through zoomLevels; step 0 resets to 1x.
func (s *termSurface) Zoom(step int) {
	if step == 0 {
		s.zoom = 1
		return
	}
	s.zoom = min(max(s.zoom+step, 0), len(zoomLevels)-1)
}

// SetPanning makes left drags pan the view instead of selecting.
func (s *termSurface) SetPanning(on bool) {
	s.panning = on
	s.press = nil
}

func (s *termSurface) Subscribe(kind selection.EventKind, h selection.Handler) func() {
	i := len(s.handlers[kind])
	s.handlers[kind] = append(s.handlers[kind], h)
	return func() { s.handlers[kind][i] = nil }
}

// emit calls the handlers of ev.Kind in subscription order. The list is
// copied first so handlers may unsubscribe while running.
func (s *termSurface) emit(ev selection.Event) {
	hs := slices.Clone(s.handlers[ev.Kind])
	for _, h := range hs {
		if h != nil {
			h(ev)
		}
	}
}

func (s *termSurface) View(id selection.ID) (selection.View, bool) {
	v, ok := s.view(id)
	if !ok {
		return nil, false
	}
	return v, true
}

func (s *termSurface) view(id selection.ID) (*entityView, bool) {
	if !s.canvas.Exists(id) {
		delete(s.views, id)
		return nil, false
	}
	v, ok := s.views[id]
	if !ok {
		v = &entityView{surface: s, classes: make(map[string]bool)}
		s.views[id] = v
	}
	return v, true
}

func (s *termSurface) Transform() selection.Transform {
	z := s.Scale()
	return selection.Transform{TX: float64(-s.panX), TY: float64(-s.panY), SX: z, SY: z}
}

func (s *termSurface) Bounds() (selection.Rect, bool) {
	if s.width <= 0 || s.height <= 0 {
		return selection.Rect{}, false
	}
	return selection.Rect{X: 0, Y: float64(s.top), Width: float64(s.width), Height: float64(s.height)}, true
}

func (s *termSurface) ClientToLocal(p selection.Point) (selection.Point, bool) {
	if s.width <= 0 || s.height <= 0 {
		return selection.Point{}, false
	}
	z := s.Scale()
	return selection.Point{
		X: p.X/z + float64(s.panX),
		Y: (p.Y-float64(s.top))/z + float64(s.panY),
	}, true
}

func (s *termSurface) AddStyle(st selection.Style) func() {
	s.styles[st.Class] = st
	for _, v := range s.views {
		if v.classes[st.Class] {
			v.applyStyles()
		}
	}
	return func() {
		delete(s.styles, st.Class)
		for _, v := range s.views {
			v.applyStyles()
		}
	}
}

func (s *termSurface) MountOverlay(class string) selection.Overlay {
	o := &bandOverlay{surface: s, class: class}
	s.overlay = o
	return o
}

// Key forwards a key press, named as tea.KeyMsg.String names it.
func (s *termSurface) Key(k string) {
	s.emit(selection.Event{Kind: selection.KeyDown, Key: k})
}

// inside reports whether a screen cell belongs to the canvas area.
func (s *termSurface) inside(x, y int) bool {
	return x >= 0 && x < s.width && y >= s.top && y < s.top+s.height
}

// worldCell converts a screen cell into the world cell under it.
func (s *termSurface) worldCell(x, y int) (int, int) {
	p, _ := s.ClientToLocal(selection.Point{X: float64(x), Y: float64(y)})
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

// HandleMouse turns one mouse message into selection events.
func (s *termSurface) HandleMouse(msg tea.MouseMsg) {
	client := selection.Point{X: float64(msg.X), Y: float64(msg.Y)}
	mods := selection.Modifiers{Ctrl: msg.Ctrl, Shift: msg.Shift, Alt: msg.Alt}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !s.inside(msg.X, msg.Y) {
			return
		}
		s.pressAt(msg.X, msg.Y, client, mods)
	case tea.MouseActionMotion:
		if s.press == nil {
			return
		}
		s.dragTo(msg.X, msg.Y, client, mods)
	case tea.MouseActionRelease:
		if s.press == nil {
			return
		}
		s.release(client, mods)
	}
}

func (s *termSurface) pressAt(x, y int, client selection.Point, mods selection.Modifiers) {
	if s.panning {
		s.press = &press{kind: pressPan, last: point{x, y}}
		return
	}

	wx, wy := s.worldCell(x, y)
	if id := s.canvas.BoxAt(wx, wy); id >= 0 {
		local, _ := s.ClientToLocal(client)
		pos, _ := s.canvas.Position(selection.ID(id))
		s.press = &press{kind: pressElement, target: id, grab: local.Sub(pos)}
		s.emit(selection.Event{Kind: selection.ElementPointerDown, Target: selection.ID(id), Client: client, Mods: mods})
		return
	}
	if id := s.canvas.ConnectionAt(wx, wy); id >= 0 {
		s.press = &press{kind: pressLink, target: id}
		return
	}
	s.press = &press{kind: pressBlank}
	s.emit(selection.Event{Kind: selection.BlankPointerDown, Client: client, Mods: mods})
}

func (s *termSurface) dragTo(x, y int, client selection.Point, mods selection.Modifiers) {
	p := s.press
	if p.kind == pressPan {
		s.Pan(p.last.X-x, p.last.Y-y)
		p.last = point{x, y}
		p.moved = true
		return
	}

	s.emit(selection.Event{Kind: selection.PointerMove, Client: client, Mods: mods})
	if p.kind != pressElement {
		return
	}
	id := selection.ID(p.target)
	local, ok := s.ClientToLocal(client)
	if !ok || !s.canvas.Exists(id) {
		return
	}
	want := local.Sub(p.grab)
	before, _ := s.canvas.Position(id)
	s.canvas.SetPosition(id, want)
	after, _ := s.canvas.Position(id)
	if after == before {
		return
	}
	p.moved = true
	s.emit(selection.Event{Kind: selection.ElementPointerMove, Target: id, Client: client, Mods: mods})
}

func (s *termSurface) release(client selection.Point, mods selection.Modifiers) {
	p := s.press
	s.press = nil

	s.emit(selection.Event{Kind: selection.PointerUp, Client: client, Mods: mods})
	switch p.kind {
	case pressElement:
		id := selection.ID(p.target)
		s.emit(selection.Event{Kind: selection.ElementPointerUp, Target: id, Client: client, Mods: mods})
		if !p.moved {
			s.emit(selection.Event{Kind: selection.ElementPointerClick, Target: id, Client: client, Mods: mods})
		}
	case pressLink:
		s.emit(selection.Event{Kind: selection.LinkPointerClick, Target: selection.ID(p.target), Client: client, Mods: mods})
	case pressBlank:
		s.emit(selection.Event{Kind: selection.BlankPointerClick, Client: client, Mods: mods})
	case pressPan:
		log.Debug(s.ctx, "panned", slog.F("pan_x", s.panX), slog.F("pan_y", s.panY))
	}
}

// Dragging reports whether the left button is down.
func (s *termSurface) Dragging() bool {
	return s.press != nil
}

// entityView is the rendered state of one box or connection.
type entityView struct {
	surface *termSurface
	classes map[string]bool
	stroke  string
	fill    string
	label   string
	// styled is set while stroke and fill come from an injected style.
	styled bool
}

func (v *entityView) AddClass(class string) {
	v.classes[class] = true
	v.applyStyles()
}

func (v *entityView) RemoveClass(class string) {
	delete(v.classes, class)
	v.applyStyles()
}

func (v *entityView) HasClass(class string) bool {
	return v.classes[class]
}

func (v *entityView) SetStroke(color string) { v.stroke = color }
func (v *entityView) SetFill(color string)   { v.fill = color }

// SetLabel replaces the text drawn in the box. An empty label shows the
// box's own text again.
func (v *entityView) SetLabel(text string) { v.label = text }

// applyStyles recolors the view from the styles of its classes.
func (v *entityView) applyStyles() {
	if v.styled {
		v.stroke, v.fill, v.styled = "", "", false
	}
	for class := range v.classes {
		st, ok := v.surface.styles[class]
		if !ok {
			continue
		}
		v.SetStroke(st.Color)
		if st.Fill {
			v.SetFill(st.Color)
		}
		v.styled = true
	}
}

// bandOverlay is the rubber-band rectangle, kept in screen coordinates.
type bandOverlay struct {
	surface *termSurface
	class   string
	rect    selection.Rect
}

func (o *bandOverlay) Update(r selection.Rect) {
	o.rect = r
}

func (o *bandOverlay) Remove() {
	if o.surface.overlay == o {
		o.surface.overlay = nil
	}
}
