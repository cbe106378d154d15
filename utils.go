package main

import (
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/atotto/clipboard"

	"flock/selection"
)

func (m *model) getCurrentBuffer() *Buffer {
	if len(m.buffers) == 0 {
		return nil
	}
	return m.buffers[m.currentBufferIndex]
}

func (m *model) getCanvas() *Canvas {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.canvas
	}
	return nil
}

func (m *model) getEngine() *selection.Engine {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.engine
	}
	return nil
}

// showBufferBar reports whether the first screen row lists the open buffers.
func (m *model) showBufferBar() bool {
	return m.mode != ModeStartup && len(m.buffers) > 1
}

// canvasArea returns the first screen row and the number of rows the canvas
// gets. The last row always holds the status line.
func (m *model) canvasArea() (top, height int) {
	if m.showBufferBar() {
		top = 1
	}
	return top, max(m.height-top-1, 1)
}

// layout tells every surface where its canvas area is on screen.
func (m *model) layout() {
	top, height := m.canvasArea()
	for _, buf := range m.buffers {
		buf.surface.Resize(max(m.width, 1), height, top)
	}
}

func (m *model) ensureCursorInBounds() {
	_, height := m.canvasArea()
	m.cursorX = min(max(m.cursorX, 0), max(m.width-1, 0))
	m.cursorY = min(max(m.cursorY, 0), height-1)
}

// cursorWorld returns the world cell under the keyboard cursor.
func (m *model) cursorWorld() (int, int) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return m.cursorX, m.cursorY
	}
	top, _ := m.canvasArea()
	return buf.surface.worldCell(m.cursorX, m.cursorY+top)
}

// newBuffer wires a canvas to its own surface, delete gate and selection
// engine.
func (m *model) newBuffer(canvas *Canvas, filename string) *Buffer {
	buf := &Buffer{
		canvas:   canvas,
		surface:  newTermSurface(m.ctx, canvas),
		filename: filename,
	}
	buf.gate = &deleteGate{
		enabled: m.config.Confirmations,
		onConfirm: func() {
			buf.record(ActionDelete, canvas.Snapshot(toInts(buf.engine.Entities())))
		},
	}
	buf.engine = selection.New(m.ctx, canvas, buf.surface, selection.Options{
		Overlays:      buf.surface,
		Confirm:       buf.gate,
		DragThreshold: m.config.Selection.DragThreshold,
		// The config starts from the defaults, so 0,0 here was asked for.
		DuplicateDX:        m.config.Selection.DuplicateOffsetX,
		DuplicateDY:        m.config.Selection.DuplicateOffsetY,
		HasDuplicateOffset: true,
		Color:              m.config.Selection.HighlightColor,
		Keys:               m.keys.engineKeys(),
	})
	buf.engine.OnChange(func(c selection.Change) {
		buf.selected = len(c.Selected)
	})
	return buf
}

func (m *model) addNewBuffer(canvas *Canvas, filename string) *Buffer {
	buf := m.newBuffer(canvas, filename)
	m.buffers = append(m.buffers, buf)
	m.currentBufferIndex = len(m.buffers) - 1
	m.layout()
	return buf
}

// replaceBuffer swaps the current buffer for a fresh one on canvas.
func (m *model) replaceBuffer(canvas *Canvas, filename string) *Buffer {
	buf := m.newBuffer(canvas, filename)
	if old := m.getCurrentBuffer(); old != nil {
		old.engine.Destroy()
		m.buffers[m.currentBufferIndex] = buf
	} else {
		m.buffers = append(m.buffers, buf)
		m.currentBufferIndex = 0
	}
	m.layout()
	return buf
}

func (m *model) closeBuffer() {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return
	}
	buf.engine.Destroy()
	m.buffers = slices.Delete(m.buffers, m.currentBufferIndex, m.currentBufferIndex+1)
	m.currentBufferIndex = max(m.currentBufferIndex-1, 0)
	m.layout()
}

// switchBuffer moves to the buffer delta steps away, wrapping around. Pan
// mode is turned off first.
func (m *model) switchBuffer(delta int) {
	if len(m.buffers) < 2 {
		return
	}
	m.setPanMode(false)
	m.currentBufferIndex = (m.currentBufferIndex + delta + len(m.buffers)) % len(m.buffers)
}

// setPanMode switches the current buffer between panning and selecting.
func (m *model) setPanMode(on bool) {
	m.zPanMode = on
	if buf := m.getCurrentBuffer(); buf != nil {
		buf.engine.SetPanningMode(on)
		buf.surface.SetPanning(on)
	}
}

// deleteGate decides removals started from the keyboard. With confirmations
// off it approves at once. Otherwise it declines and keeps the prompt, and the
// editor asks the user and calls approve on yes.
type deleteGate struct {
	enabled   bool
	pending   string
	onConfirm func()
}

var _ selection.Confirmer = (*deleteGate)(nil)

func (g *deleteGate) Confirm(prompt string) bool {
	if !g.enabled {
		g.onConfirm()
		return true
	}
	g.pending = prompt
	return false
}

// takePrompt returns and forgets the prompt of a declined removal.
func (g *deleteGate) takePrompt() (string, bool) {
	p := g.pending
	g.pending = ""
	return p, p != ""
}

func (g *deleteGate) approve() selection.Confirmer {
	return selection.ConfirmFunc(func(string) bool {
		g.onConfirm()
		return true
	})
}

func toInts(ids []selection.ID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// selectedText joins the text of the selected boxes in drawing order.
func selectedText(canvas *Canvas, engine *selection.Engine) string {
	var parts []string
	for _, b := range canvas.Boxes() {
		if engine.IsSelected(selection.ID(b.ID)) {
			parts = append(parts, b.GetText())
		}
	}
	return strings.Join(parts, "\n\n")
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanClipboardText normalizes line endings and drops control characters
// a box can not show.
func cleanClipboardText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r >= 32 {
			return r
		}
		return -1
	}, text)
	return strings.TrimRight(text, "\n")
}
