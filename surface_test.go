package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flock/selection"
)

func mousePress(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func mouseMotion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func mouseRelease(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func ctrl(msg tea.MouseMsg) tea.MouseMsg {
	msg.Ctrl = true
	return msg
}

func click(t *testing.T, m model, x, y int) model {
	t.Helper()
	return drag(t, m, x, y)
}

// drag presses at (x, y), moves through path and releases at its end.
func drag(t *testing.T, m model, x, y int, path ...int) model {
	t.Helper()
	m = update(t, m, mousePress(x, y))
	for i := 0; i+1 < len(path); i += 2 {
		x, y = path[i], path[i+1]
		m = update(t, m, mouseMotion(x, y))
	}
	return update(t, m, mouseRelease(x, y))
}

func TestClickSelects(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	canvas := m.getCanvas()
	a := canvas.AddBox(2, 2, "A")
	b := canvas.AddBox(20, 2, "B")
	engine := m.getEngine()

	m = click(t, m, 3, 3)
	assert.Equal(t, []selection.ID{selection.ID(a)}, engine.Entities())
	assert.Equal(t, 3, m.cursorX)
	assert.Equal(t, 3, m.cursorY)

	m = click(t, m, 21, 3)
	assert.Equal(t, []selection.ID{selection.ID(b)}, engine.Entities())

	m = update(t, m, ctrl(mousePress(3, 3)))
	m = update(t, m, ctrl(mouseRelease(3, 3)))
	assert.Equal(t, []selection.ID{selection.ID(b), selection.ID(a)}, engine.Entities())

	m = update(t, m, ctrl(mousePress(21, 3)))
	update(t, m, ctrl(mouseRelease(21, 3)))
	assert.Equal(t, []selection.ID{selection.ID(a)}, engine.Entities())
	assert.Empty(t, m.getCurrentBuffer().undoStack)
}

func TestClickConnection(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	canvas := m.getCanvas()
	a := canvas.AddBox(0, 0, "A")
	b := canvas.AddBox(20, 0, "B")
	conn := canvas.AddConnection(a, b)

	click(t, m, 12, 1)
	assert.True(t, m.getEngine().IsSelected(selection.ID(conn)))
}

func TestBlankClickClears(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	a := m.getCanvas().AddBox(2, 2, "A")
	m.getEngine().Select(selection.ID(a), false)

	click(t, m, 40, 10)
	assert.Equal(t, 0, m.getEngine().Size())
}

func TestDragMovesOneBox(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	canvas := m.getCanvas()
	a := canvas.AddBox(2, 2, "A")
	b := canvas.AddBox(20, 2, "B")
	m.getEngine().Select(selection.ID(b), false)

	m = drag(t, m, 3, 3, 5, 4, 7, 5)
	box, _ := canvas.Box(a)
	assert.Equal(t, 6, box.X)
	assert.Equal(t, 4, box.Y)
	other, _ := canvas.Box(b)
	assert.Equal(t, 20, other.X)

	// A drag is not a click.
	assert.Equal(t, []selection.ID{selection.ID(b)}, m.getEngine().Entities())

	require.Len(t, m.getCurrentBuffer().undoStack, 1)
	update(t, m, runes("u"))
	assert.Equal(t, 2, box.X)
	assert.Equal(t, 2, box.Y)
}

func TestGroupDrag(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	canvas := m.getCanvas()
	a := canvas.AddBox(2, 2, "A")
	b := canvas.AddBox(20, 2, "B")
	c := canvas.AddBox(40, 2, "C")
	engine := m.getEngine()
	engine.Select(selection.ID(a), false)
	engine.Select(selection.ID(b), true)

	m = update(t, m, mousePress(3, 3))
	m = update(t, m, mouseMotion(5, 6))
	assert.Len(t, engine.DragSnapshot(), 2)
	assert.Contains(t, m.statusLine(), "Dragging 2 boxes")

	m = update(t, m, mouseRelease(5, 6))
	assert.Nil(t, engine.DragSnapshot())

	boxA, _ := canvas.Box(a)
	boxB, _ := canvas.Box(b)
	boxC, _ := canvas.Box(c)
	assert.Equal(t, point{4, 5}, point{boxA.X, boxA.Y})
	assert.Equal(t, point{22, 5}, point{boxB.X, boxB.Y})
	assert.Equal(t, point{40, 2}, point{boxC.X, boxC.Y})
	assert.Equal(t, 2, engine.Size())

	update(t, m, runes("u"))
	assert.Equal(t, point{2, 2}, point{boxA.X, boxA.Y})
	assert.Equal(t, point{20, 2}, point{boxB.X, boxB.Y})
}

func TestMarqueeSelects(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	canvas := m.getCanvas()
	a := canvas.AddBox(2, 2, "A")
	b := canvas.AddBox(20, 2, "B")
	c := canvas.AddBox(2, 15, "C")
	engine := m.getEngine()

	m = update(t, m, mousePress(0, 0))
	m = update(t, m, mouseMotion(25, 6))
	assert.Contains(t, m.View(), "┐")

	m = update(t, m, mouseRelease(25, 6))
	assert.True(t, engine.IsSelected(selection.ID(a)))
	assert.True(t, engine.IsSelected(selection.ID(b)))
	assert.False(t, engine.IsSelected(selection.ID(c)))
	assert.NotContains(t, m.View(), "┐")

	// A plain marquee replaces the selection.
	drag(t, m, 0, 12, 10, 20)
	assert.Equal(t, []selection.ID{selection.ID(c)}, engine.Entities())
}

func TestMarqueeAdditive(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	canvas := m.getCanvas()
	a := canvas.AddBox(2, 2, "A")
	c := canvas.AddBox(2, 15, "C")
	engine := m.getEngine()
	engine.Select(selection.ID(a), false)

	m = update(t, m, ctrl(mousePress(0, 12)))
	m = update(t, m, ctrl(mouseMotion(10, 20)))
	update(t, m, ctrl(mouseRelease(10, 20)))
	assert.True(t, engine.IsSelected(selection.ID(a)))
	assert.True(t, engine.IsSelected(selection.ID(c)))
}

func TestShortMarqueeIsAClick(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	a := m.getCanvas().AddBox(2, 2, "A")
	engine := m.getEngine()
	engine.Select(selection.ID(a), false)

	drag(t, m, 0, 0, 3, 3)
	assert.Equal(t, 0, engine.Size())
}

func TestMouseIgnoredOutsideNormalMode(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	a := m.getCanvas().AddBox(2, 2, "A")
	m = update(t, m, runes("?"))
	click(t, m, 3, 3)
	assert.False(t, m.getEngine().IsSelected(selection.ID(a)))
}

func TestPanModeDragPans(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	a := m.getCanvas().AddBox(2, 2, "A")
	m = update(t, m, runes("z"))

	m = drag(t, m, 10, 10, 7, 8)
	x, y := m.getCurrentBuffer().surface.PanOffset()
	assert.Equal(t, 3, x)
	assert.Equal(t, 2, y)

	box, _ := m.getCanvas().Box(a)
	assert.Equal(t, point{2, 2}, point{box.X, box.Y})
	assert.Equal(t, 0, m.getEngine().Size())

	// Pressing on a box pans too.
	drag(t, m, 0, 0, 1, 0)
	x, _ = m.getCurrentBuffer().surface.PanOffset()
	assert.Equal(t, 2, x)
	assert.Equal(t, 0, m.getEngine().Size())
}

func TestWheelPans(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	update(t, m, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	_, y := m.getCurrentBuffer().surface.PanOffset()
	assert.Equal(t, wheelStep, y)
}

func TestClientToLocal(t *testing.T) {
	t.Parallel()
	s := newTermSurface(newTestModel(t).ctx, NewCanvas())
	_, ok := s.ClientToLocal(selection.Point{X: 1, Y: 1})
	assert.False(t, ok)

	s.Resize(80, 20, 1)
	s.SetPanOffset(3, 4)
	s.Zoom(1)
	require.Equal(t, 2.0, s.Scale())

	for _, p := range []selection.Point{{X: 0, Y: 1}, {X: 10, Y: 7}, {X: 33, Y: 19}} {
		local, ok := s.ClientToLocal(p)
		require.True(t, ok)
		bounds, _ := s.Bounds()
		back := s.Transform().ToViewport(local, selection.Point{X: bounds.X, Y: bounds.Y})
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}

	local, _ := s.ClientToLocal(selection.Point{X: 10, Y: 7})
	assert.Equal(t, selection.Point{X: 8, Y: 7}, local)
}

func TestZoomedClickHitsBox(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	a := m.getCanvas().AddBox(10, 5, "A")
	m = update(t, m, runes("+"))
	require.Equal(t, 2.0, m.getCurrentBuffer().surface.Scale())

	// World (10,5) is drawn at screen (20,10).
	click(t, m, 21, 11)
	assert.True(t, m.getEngine().IsSelected(selection.ID(a)))
}

func TestSurfaceHandlerOrder(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	s := m.getCurrentBuffer().surface

	var order []int
	for i := 0; i < 4; i++ {
		i := i
		s.Subscribe(selection.KeyDown, func(selection.Event) { order = append(order, i) })
	}
	dropped := s.Subscribe(selection.KeyDown, func(selection.Event) { order = append(order, 99) })
	s.Subscribe(selection.KeyDown, func(selection.Event) { order = append(order, 4) })
	dropped()

	s.emit(selection.Event{Kind: selection.KeyDown, Key: "x"})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}
