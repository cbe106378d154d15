package selection

import (
	"context"
	"slices"
	"testing"

	"cdr.dev/slog/sloggers/slogtest"

	"flock/lib/log"
)

type fakeEntity struct {
	pos    Point
	size   Size
	link   bool
	source ID
	target ID
}

// fakeModel is an in-memory diagram. Links have no position of their own.
type fakeModel struct {
	next     ID
	order    []ID
	entities map[ID]*fakeEntity
}

func newFakeModel() *fakeModel {
	return &fakeModel{next: 1, entities: make(map[ID]*fakeEntity)}
}

func (m *fakeModel) addElement(x, y, w, h float64) ID {
	id := m.next
	m.next++
	m.order = append(m.order, id)
	m.entities[id] = &fakeEntity{pos: Point{X: x, Y: y}, size: Size{Width: w, Height: h}}
	return id
}

func (m *fakeModel) addLink(from, to ID) ID {
	id := m.next
	m.next++
	m.order = append(m.order, id)
	m.entities[id] = &fakeEntity{link: true, source: from, target: to}
	return id
}

func (m *fakeModel) Elements() []ID {
	var out []ID
	for _, id := range m.order {
		if !m.entities[id].link {
			out = append(out, id)
		}
	}
	return out
}

func (m *fakeModel) Links(id ID) []ID {
	var out []ID
	for _, lid := range m.order {
		l := m.entities[lid]
		if l.link && (l.source == id || l.target == id) {
			out = append(out, lid)
		}
	}
	return out
}

func (m *fakeModel) Exists(id ID) bool {
	_, ok := m.entities[id]
	return ok
}

func (m *fakeModel) Position(id ID) (Point, bool) {
	e, ok := m.entities[id]
	if !ok || e.link {
		return Point{}, false
	}
	return e.pos, true
}

func (m *fakeModel) SetPosition(id ID, p Point) {
	if e, ok := m.entities[id]; ok && !e.link {
		e.pos = p
	}
}

func (m *fakeModel) Size(id ID) (Size, bool) {
	e, ok := m.entities[id]
	if !ok || e.link {
		return Size{}, false
	}
	return e.size, true
}

func (m *fakeModel) SetSize(id ID, s Size) {
	if e, ok := m.entities[id]; ok && !e.link {
		e.size = s
	}
}

func (m *fakeModel) Clone(id ID) (ID, error) {
	e, ok := m.entities[id]
	if !ok || e.link {
		return 0, ErrUnsupported
	}
	return m.addElement(e.pos.X, e.pos.Y, e.size.Width, e.size.Height), nil
}

func (m *fakeModel) Remove(id ID) {
	if _, ok := m.entities[id]; !ok {
		return
	}
	for _, lid := range m.Links(id) {
		m.drop(lid)
	}
	m.drop(id)
}

func (m *fakeModel) drop(id ID) {
	delete(m.entities, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

type fakeView struct {
	classes map[string]bool
}

func (v *fakeView) AddClass(c string)      { v.classes[c] = true }
func (v *fakeView) RemoveClass(c string)   { delete(v.classes, c) }
func (v *fakeView) HasClass(c string) bool { return v.classes[c] }

type fakeOverlay struct {
	host    *fakeOverlayHost
	rect    Rect
	removed bool
}

func (o *fakeOverlay) Update(r Rect) { o.rect = r }

func (o *fakeOverlay) Remove() {
	if o.removed {
		return
	}
	o.removed = true
	o.host.live--
}

type fakeOverlayHost struct {
	live    int
	mounted []*fakeOverlay
}

func (h *fakeOverlayHost) MountOverlay(string) Overlay {
	o := &fakeOverlay{host: h}
	h.live++
	h.mounted = append(h.mounted, o)
	return o
}

// fakeSurface hands out a view for every entity that exists in the model.
type fakeSurface struct {
	model     *fakeModel
	views     map[ID]*fakeView
	transform Transform
	bounds    Rect
	laidOut   bool
	handlers  map[EventKind][]Handler
	styles    map[string]Style
}

func newFakeSurface(m *fakeModel) *fakeSurface {
	return &fakeSurface{
		model:     m,
		views:     make(map[ID]*fakeView),
		transform: Identity,
		laidOut:   true,
		handlers:  make(map[EventKind][]Handler),
		styles:    make(map[string]Style),
	}
}

func (s *fakeSurface) Subscribe(kind EventKind, h Handler) func() {
	i := len(s.handlers[kind])
	s.handlers[kind] = append(s.handlers[kind], h)
	return func() { s.handlers[kind][i] = nil }
}

func (s *fakeSurface) subscribers() int {
	n := 0
	for _, hs := range s.handlers {
		for _, h := range hs {
			if h != nil {
				n++
			}
		}
	}
	return n
}

func (s *fakeSurface) View(id ID) (View, bool) {
	if !s.model.Exists(id) {
		return nil, false
	}
	return s.view(id), true
}

func (s *fakeSurface) view(id ID) *fakeView {
	v, ok := s.views[id]
	if !ok {
		v = &fakeView{classes: make(map[string]bool)}
		s.views[id] = v
	}
	return v
}

func (s *fakeSurface) highlighted(id ID) bool {
	return s.view(id).HasClass(HighlightClass)
}

func (s *fakeSurface) Transform() Transform { return s.transform }

func (s *fakeSurface) Bounds() (Rect, bool) { return s.bounds, s.laidOut }

func (s *fakeSurface) AddStyle(st Style) func() {
	s.styles[st.Class] = st
	return func() { delete(s.styles, st.Class) }
}

// emit delivers ev to every subscriber of its kind. Handlers are copied
// first so they may unsubscribe while running.
func (s *fakeSurface) emit(ev Event) {
	hs := slices.Clone(s.handlers[ev.Kind])
	for _, h := range hs {
		if h != nil {
			h(ev)
		}
	}
}

func (s *fakeSurface) blankDown(x, y float64, mods Modifiers) {
	s.emit(Event{Kind: BlankPointerDown, Client: Point{X: x, Y: y}, Mods: mods})
}

func (s *fakeSurface) move(x, y float64) {
	s.emit(Event{Kind: PointerMove, Client: Point{X: x, Y: y}})
}

func (s *fakeSurface) up(x, y float64) {
	s.upWith(x, y, Modifiers{})
}

func (s *fakeSurface) upWith(x, y float64, mods Modifiers) {
	s.emit(Event{Kind: PointerUp, Client: Point{X: x, Y: y}, Mods: mods})
}

func (s *fakeSurface) blankClick(x, y float64) {
	s.emit(Event{Kind: BlankPointerClick, Client: Point{X: x, Y: y}})
}

// marquee performs a full rubber-band gesture from a to b.
func (s *fakeSurface) marquee(a, b Point, mods Modifiers) {
	s.blankDown(a.X, a.Y, mods)
	s.move(b.X, b.Y)
	s.upWith(b.X, b.Y, mods)
	s.blankClick(b.X, b.Y)
}

func (s *fakeSurface) key(k string) {
	s.emit(Event{Kind: KeyDown, Key: k})
}

// nativeSurface also converts points itself.
type nativeSurface struct {
	*fakeSurface
}

func (s nativeSurface) ClientToLocal(p Point) (Point, bool) {
	if !s.laidOut {
		return Point{}, false
	}
	t := s.transform
	return Point{
		X: (p.X-s.bounds.X)/t.SX - t.TX,
		Y: (p.Y-s.bounds.Y)/t.SY - t.TY,
	}, true
}

type fixture struct {
	ctx      context.Context
	model    *fakeModel
	surface  *fakeSurface
	overlays *fakeOverlayHost
	engine   *Engine
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	return newFixtureWith(t, nil, opts)
}

func newFixtureWith(t *testing.T, logOpts *slogtest.Options, opts Options) *fixture {
	t.Helper()
	ctx := log.WithTB(context.Background(), t, logOpts)
	m := newFakeModel()
	s := newFakeSurface(m)
	h := &fakeOverlayHost{}
	if opts.Overlays == nil {
		opts.Overlays = h
	}
	return &fixture{
		ctx:      ctx,
		model:    m,
		surface:  s,
		overlays: h,
		engine:   New(ctx, m, s, opts),
	}
}
