package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cdr.dev/slog"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"flock/lib/log"
	"flock/selection"
)

const wheelStep = 2

// handleMouse feeds the surface and records a drag as one undoable move.
func (m *model) handleMouse(msg tea.MouseMsg) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		buf.surface.Pan(0, -wheelStep)
		return
	case tea.MouseButtonWheelDown:
		buf.surface.Pan(0, wheelStep)
		return
	case tea.MouseButtonWheelLeft:
		buf.surface.Pan(-wheelStep, 0)
		return
	case tea.MouseButtonWheelRight:
		buf.surface.Pan(wheelStep, 0)
		return
	}

	dragging := buf.surface.Dragging()
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && !dragging {
		m.moveOrigin = buf.canvas.Positions(toInts(buf.canvas.Elements()))
		m.errorMessage, m.successMessage = "", ""
		if top, _ := m.canvasArea(); buf.surface.inside(msg.X, msg.Y) {
			m.cursorX, m.cursorY = msg.X, msg.Y-top
		}
	}
	buf.surface.HandleMouse(msg)
	if dragging && !buf.surface.Dragging() {
		m.recordMove(m.moveOrigin)
		m.moveOrigin = nil
	}
}

func (m *model) toggleAtCursor() {
	buf := m.getCurrentBuffer()
	x, y := m.cursorWorld()
	id := buf.canvas.BoxAt(x, y)
	if id < 0 {
		id = buf.canvas.ConnectionAt(x, y)
	}
	if id < 0 {
		return
	}
	buf.engine.Select(selection.ID(id), true)
}

func (m *model) duplicateSelection() {
	buf := m.getCurrentBuffer()
	copies := buf.engine.DuplicateSelected()
	if len(copies) == 0 {
		return
	}
	buf.record(ActionAdd, buf.canvas.Snapshot(toInts(copies)))
	m.successMessage = fmt.Sprintf("Duplicated %d box(es)", len(copies))
}

// arrange runs a batch layout operation and records what it moved.
func (m *model) arrange(op func()) {
	buf := m.getCurrentBuffer()
	before := buf.canvas.Positions(toInts(buf.canvas.Elements()))
	op()
	m.recordMove(before)
}

func (m *model) addBox(x, y int, text string) int {
	buf := m.getCurrentBuffer()
	id := buf.canvas.AddBox(x, y, text)
	buf.record(ActionAdd, buf.canvas.Snapshot([]int{id}))
	buf.engine.Select(selection.ID(id), false)
	return id
}

// connectSelection links the two selected boxes, from the one selected
// first to the other.
func (m *model) connectSelection() {
	buf := m.getCurrentBuffer()
	var boxes []int
	for _, id := range buf.engine.Entities() {
		if _, ok := buf.canvas.Box(int(id)); ok {
			boxes = append(boxes, int(id))
		}
	}
	if len(boxes) != 2 {
		m.errorMessage = "Select exactly two boxes to connect"
		return
	}
	id := buf.canvas.AddConnection(boxes[0], boxes[1])
	if id < 0 {
		return
	}
	buf.record(ActionAdd, buf.canvas.Snapshot([]int{id}))
}

func (m *model) yankSelection() {
	buf := m.getCurrentBuffer()
	text := selectedText(buf.canvas, buf.engine)
	if text == "" {
		m.errorMessage = "No boxes selected"
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		log.Warn(m.ctx, "clipboard write failed", slog.Error(err))
		m.errorMessage = fmt.Sprintf("Clipboard: %s", err)
		return
	}
	m.successMessage = "Copied selected text"
}

func (m *model) pasteClipboard() {
	text, err := readClipboardText()
	if err != nil {
		log.Warn(m.ctx, "clipboard read failed", slog.Error(err))
		m.errorMessage = fmt.Sprintf("Clipboard: %s", err)
		return
	}
	text = cleanClipboardText(text)
	if text == "" {
		m.errorMessage = "Clipboard is empty"
		return
	}
	x, y := m.cursorWorld()
	m.addBox(x, y, text)
}

// startEditing edits the most recently selected box, or the box under the
// cursor when nothing is selected.
func (m *model) startEditing() {
	buf := m.getCurrentBuffer()
	var id int
	if last, ok := buf.engine.Last(); ok {
		id = int(last)
	} else {
		id = buf.canvas.BoxAt(m.cursorWorld())
	}
	box, ok := buf.canvas.Box(id)
	if !ok {
		m.errorMessage = "No box to edit"
		return
	}
	m.editBoxID = id
	m.editText = box.GetText()
	m.originalEditText = m.editText
	m.mode = ModeEditing
	m.previewEdit()
}

// previewEdit shows the text being typed inside the box itself.
func (m *model) previewEdit() {
	buf := m.getCurrentBuffer()
	if v, ok := buf.surface.view(selection.ID(m.editBoxID)); ok {
		v.SetLabel(m.editText + "█")
	}
}

func (m *model) handleEditKey(msg tea.KeyMsg) {
	switch {
	case msg.Type == tea.KeyEscape:
		m.finishEditing(false)
		return
	case msg.Type == tea.KeyCtrlS:
		m.finishEditing(true)
		return
	case msg.Type == tea.KeyEnter:
		m.editText += "\n"
	case msg.Type == tea.KeyBackspace:
		if r := []rune(m.editText); len(r) > 0 {
			m.editText = string(r[:len(r)-1])
		}
	case msg.Type == tea.KeySpace:
		m.editText += " "
	case msg.Type == tea.KeyRunes:
		m.editText += string(msg.Runes)
	}
	m.previewEdit()
}

func (m *model) finishEditing(save bool) {
	buf := m.getCurrentBuffer()
	if v, ok := buf.surface.view(selection.ID(m.editBoxID)); ok {
		v.SetLabel("")
	}
	if save && m.editText != m.originalEditText {
		buf.canvas.SetBoxText(m.editBoxID, m.editText)
		m.recordAction(ActionEditBox, EditBoxData{ID: m.editBoxID, NewText: m.editText, OldText: m.originalEditText})
	}
	m.mode = ModeNormal
	m.editText, m.originalEditText = "", ""
}

func (m *model) startFileInput(op FileOperation, name string) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = name
	m.fileInput.SetValue(name)
	m.fileInput.CursorEnd()
	m.fileInput.Focus()
	m.errorMessage = ""
	m.successMessage = ""
	m.fromStartup = false
}

func withExt(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	return name + ext
}

// runFileOp executes the pending file operation. On failure the editor stays
// in file input with the error shown, so the name can be fixed.
func (m *model) runFileOp() {
	name := strings.TrimSpace(m.filename)
	if name == "" {
		m.errorMessage = "Please enter a filename"
		return
	}
	buf := m.getCurrentBuffer()

	var err error
	switch m.fileOp {
	case FileOpSave:
		path := m.config.GetSavePath(withExt(name, ".txt"))
		if _, statErr := os.Stat(path); statErr == nil && m.config.Confirmations && path != buf.filename {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmOverwriteFile
			m.filename = path
			return
		}
		err = m.saveCurrent(path)
	case FileOpOpen:
		err = m.openFile(withExt(name, ".txt"))
	case FileOpSavePNG:
		path := m.config.GetSavePath(withExt(name, ".png"))
		err = buf.canvas.ExportToPNG(path, func(id int) bool {
			return buf.engine.IsSelected(selection.ID(id))
		}, m.config.Selection.HighlightColor)
		if err == nil {
			m.successMessage = "Exported to " + absPath(path)
		}
	case FileOpSaveVisualTXT:
		path := m.config.GetSavePath(withExt(name, ".txt"))
		err = m.exportVisualTXT(path)
		if err == nil {
			m.successMessage = "Exported to " + absPath(path)
		}
	}
	if err != nil {
		log.Warn(m.ctx, "file operation failed", slog.F("op", m.fileOp), slog.Error(err))
		m.errorMessage = err.Error()
		return
	}
	m.mode = ModeNormal
	m.filename = ""
	m.errorMessage = ""
	m.fromStartup = false
	m.fileInput.Blur()
}

func absPath(path string) string {
	if p, err := filepath.Abs(path); err == nil {
		return p
	}
	return path
}

func (m *model) saveCurrent(path string) error {
	buf := m.getCurrentBuffer()
	panX, panY := buf.surface.PanOffset()
	if err := buf.canvas.SaveToFile(path, panX, panY); err != nil {
		m.errorMessage = err.Error()
		return err
	}
	buf.filename = path
	m.successMessage = "Saved to " + absPath(path)
	log.Info(m.ctx, "saved chart", slog.F("path", path), slog.F("boxes", len(buf.canvas.Boxes())))
	return nil
}

// openFile loads a chart into a new buffer. The welcome screen and an
// untouched empty buffer are replaced instead.
func (m *model) openFile(name string) error {
	path := name
	if _, err := os.Stat(path); err != nil && !filepath.IsAbs(name) && m.config.SaveDirectory != "" {
		path = filepath.Join(m.config.SaveDirectory, name)
	}
	canvas, pan, err := LoadFromFile(path)
	if err != nil {
		log.Warn(m.ctx, "open failed", slog.F("path", path), slog.Error(err))
		return err
	}

	buf := m.getCurrentBuffer()
	if buf != nil && (m.fromStartup || m.mode == ModeStartup || (buf.canvas.Empty() && buf.filename == "")) {
		buf = m.replaceBuffer(canvas, path)
	} else {
		buf = m.addNewBuffer(canvas, path)
	}
	buf.surface.SetPanOffset(pan.X, pan.Y)
	m.mode = ModeNormal
	m.fromStartup = false
	m.cursorX, m.cursorY = 0, 0
	m.successMessage = "Opened " + absPath(path)
	m.layout()
	log.Info(m.ctx, "opened chart", slog.F("path", path), slog.F("boxes", len(canvas.Boxes())))
	return nil
}
