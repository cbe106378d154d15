package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// direction turns a movement key into a unit step, or ok=false.
func (k keyMap) direction(msg tea.KeyMsg) (dx, dy int, ok bool) {
	switch {
	case key.Matches(msg, k.Left):
		return -1, 0, true
	case key.Matches(msg, k.Right):
		return 1, 0, true
	case key.Matches(msg, k.Up):
		return 0, -1, true
	case key.Matches(msg, k.Down):
		return 0, 1, true
	}
	return 0, 0, false
}

func (m *model) handleNavigation(msg tea.KeyMsg, dx, dy int) {
	speed := getMoveSpeed(msg.String())
	if m.zPanMode {
		m.handlePan(dx*speed, dy*speed)
		return
	}
	m.handleCursorMove(dx*speed, dy*speed)
}

// handlePan scrolls the view; the cursor keeps its place on screen.
func (m *model) handlePan(dx, dy int) {
	if buf := m.getCurrentBuffer(); buf != nil {
		buf.surface.Pan(dx, dy)
	}
}

func (m *model) handleCursorMove(dx, dy int) {
	m.cursorX += dx
	m.cursorY += dy
	m.ensureCursorInBounds()
}

// handleMoveSelection nudges every selected box by one step in move mode.
func (m *model) handleMoveSelection(msg tea.KeyMsg, dx, dy int) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return
	}
	speed := getMoveSpeed(msg.String())
	for _, id := range buf.engine.Entities() {
		buf.canvas.MoveBox(int(id), dx*speed, dy*speed)
	}
}

func getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}
