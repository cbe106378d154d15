package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cdr.dev/slog"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flock/lib/log"
	"flock/selection"
)

const welcomeText = "Welcome to flock!\n\n'n' New flowchart\n'o' Open existing chart\n'q' Quit"

func main() {
	ctx := context.Background()
	if f, err := openLogFile(); err == nil {
		defer f.Close()
		ctx = log.File(ctx, f)
	}
	defer log.Sync(ctx)

	config, err := loadConfig()
	m := initialModel(ctx, config, os.Args[1:])
	if err != nil {
		log.Warn(ctx, "using default config", slog.Error(err))
		m.errorMessage = err.Error()
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Error(ctx, "editor failed", slog.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openLogFile opens the log in the config directory. The terminal belongs to
// the editor, so nothing is logged to stderr.
func openLogFile() (*os.File, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(homeDir, ".config", "flock")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "flock.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

func initialModel(ctx context.Context, config *Config, args []string) model {
	fileInput := textinput.New()
	fileInput.Prompt = ""
	m := model{
		ctx:       ctx,
		mode:      ModeStartup,
		keys:      defaultKeyMap(),
		helpView:  help.New(),
		fileInput: fileInput,
		config:    config,
	}

	if len(args) > 0 {
		err := m.openFile(args[0])
		if err == nil {
			m.mode = ModeNormal
			return m
		}
		m.errorMessage = err.Error()
	}
	if !config.StartMenu {
		m.addNewBuffer(NewCanvas(), "")
		m.mode = ModeNormal
		return m
	}
	m.addNewBuffer(welcomeCanvas(), "")
	return m
}

func welcomeCanvas() *Canvas {
	canvas := NewCanvas()
	canvas.AddBox(1, 1, welcomeText)
	return canvas
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpView.Width = msg.Width
		m.layout()
		m.ensureCursorInBounds()
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeNormal && !m.help {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.help {
			m.help = false
			return m, nil
		}

		switch m.mode {
		case ModeStartup:
			switch msg.String() {
			case "n":
				m.replaceBuffer(NewCanvas(), "")
				m.mode = ModeNormal
				m.cursorX, m.cursorY = 0, 0
				m.errorMessage = ""
				m.layout()
				return m, nil
			case "o":
				m.startFileInput(FileOpOpen, "")
				m.fromStartup = true
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
			return m, nil

		case ModeNormal:
			return m.handleNormalKey(msg)

		case ModeEditing:
			m.handleEditKey(msg)
			return m, nil

		case ModeMove:
			switch {
			case msg.Type == tea.KeyEscape:
				m.getCanvas().SetPositions(m.moveOrigin)
				m.moveOrigin = nil
				m.mode = ModeNormal
			case msg.Type == tea.KeyEnter:
				m.recordMove(m.moveOrigin)
				m.moveOrigin = nil
				m.mode = ModeNormal
			default:
				if dx, dy, ok := m.keys.direction(msg); ok {
					m.handleMoveSelection(msg, dx, dy)
				}
			}
			return m, nil

		case ModeFileInput:
			switch msg.Type {
			case tea.KeyEscape:
				if m.fromStartup {
					m.mode = ModeStartup
					m.fromStartup = false
				} else {
					m.mode = ModeNormal
				}
				m.filename = ""
				m.errorMessage = ""
				m.fileInput.Blur()
			case tea.KeyEnter:
				m.filename = m.fileInput.Value()
				m.runFileOp()
			default:
				var cmd tea.Cmd
				m.fileInput, cmd = m.fileInput.Update(msg)
				return m, cmd
			}
			return m, nil

		case ModeConfirm:
			switch msg.String() {
			case "y", "Y":
				return m.confirm()
			case "n", "N", "esc":
				if m.confirmAction == ConfirmOverwriteFile {
					m.mode = ModeFileInput
					m.fileOp = FileOpSave
				} else {
					m.mode = ModeNormal
				}
				m.confirmPrompt = ""
			}
			return m, nil
		}
	}
	return m, nil
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return m, nil
	}
	m.successMessage = ""

	if dx, dy, ok := m.keys.direction(msg); ok {
		m.handleNavigation(msg, dx, dy)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if !m.config.Confirmations {
			return m, tea.Quit
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmQuit
	case key.Matches(msg, m.keys.Help):
		m.help = true
	case key.Matches(msg, m.keys.Pan):
		m.setPanMode(!m.zPanMode)

	case key.Matches(msg, m.keys.Clear):
		if m.zPanMode {
			m.setPanMode(false)
		}
		m.errorMessage = ""
		buf.surface.Key(msg.String())
	case key.Matches(msg, m.keys.SelectAll, m.keys.Remove):
		buf.surface.Key(msg.String())
		if prompt, ok := buf.gate.takePrompt(); ok {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteSelection
			m.confirmPrompt = prompt
		}

	case key.Matches(msg, m.keys.Toggle):
		m.toggleAtCursor()
	case key.Matches(msg, m.keys.Duplicate):
		m.duplicateSelection()
	case key.Matches(msg, m.keys.AlignLeft):
		m.arrange(func() { buf.engine.AlignHorizontal(selection.AlignLeft) })
	case key.Matches(msg, m.keys.AlignCenter):
		m.arrange(func() { buf.engine.AlignHorizontal(selection.AlignCenter) })
	case key.Matches(msg, m.keys.AlignRight):
		m.arrange(func() { buf.engine.AlignHorizontal(selection.AlignRight) })
	case key.Matches(msg, m.keys.AlignTop):
		m.arrange(func() { buf.engine.AlignVertical(selection.AlignTop) })
	case key.Matches(msg, m.keys.AlignMiddle):
		m.arrange(func() { buf.engine.AlignVertical(selection.AlignMiddle) })
	case key.Matches(msg, m.keys.AlignBottom):
		m.arrange(func() { buf.engine.AlignVertical(selection.AlignBottom) })
	case key.Matches(msg, m.keys.SpreadH):
		m.arrange(buf.engine.DistributeHorizontal)
	case key.Matches(msg, m.keys.SpreadV):
		m.arrange(buf.engine.DistributeVertical)
	case key.Matches(msg, m.keys.Move):
		if buf.engine.Size() > 0 {
			m.moveOrigin = buf.canvas.Positions(toInts(buf.canvas.Elements()))
			m.mode = ModeMove
		}

	case key.Matches(msg, m.keys.NewBox):
		x, y := m.cursorWorld()
		m.addBox(x, y, "Box")
	case key.Matches(msg, m.keys.Edit):
		m.startEditing()
	case key.Matches(msg, m.keys.Connect):
		m.connectSelection()
	case key.Matches(msg, m.keys.Yank):
		m.yankSelection()
	case key.Matches(msg, m.keys.Paste):
		m.pasteClipboard()

	case key.Matches(msg, m.keys.ZoomIn):
		buf.surface.Zoom(1)
	case key.Matches(msg, m.keys.ZoomOut):
		buf.surface.Zoom(-1)
	case key.Matches(msg, m.keys.ZoomReset):
		buf.surface.Zoom(0)
	case key.Matches(msg, m.keys.Undo):
		m.undo()
	case key.Matches(msg, m.keys.Redo):
		m.redo()

	case key.Matches(msg, m.keys.Save):
		name := strings.TrimSuffix(filepath.Base(buf.filename), ".txt")
		if buf.filename == "" {
			name = ""
		}
		m.startFileInput(FileOpSave, name)
	case key.Matches(msg, m.keys.Open):
		m.startFileInput(FileOpOpen, "")
	case key.Matches(msg, m.keys.ExportPNG):
		m.startFileInput(FileOpSavePNG, "flowchart")
	case key.Matches(msg, m.keys.ExportTXT):
		m.startFileInput(FileOpSaveVisualTXT, "flowchart_visual")
	case key.Matches(msg, m.keys.NewBuffer):
		m.setPanMode(false)
		m.addNewBuffer(NewCanvas(), "")
		m.cursorX, m.cursorY = 0, 0
		m.errorMessage = ""
	case key.Matches(msg, m.keys.NextBuffer):
		m.switchBuffer(1)
	case key.Matches(msg, m.keys.PrevBuffer):
		m.switchBuffer(-1)
	case key.Matches(msg, m.keys.Close):
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmCloseBuffer
		} else {
			m.closeCurrentBuffer()
		}
	}
	return m, nil
}

func (m model) confirm() (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	m.confirmPrompt = ""
	buf := m.getCurrentBuffer()

	switch m.confirmAction {
	case ConfirmQuit:
		return m, tea.Quit
	case ConfirmDeleteSelection:
		if buf != nil && buf.engine.RemoveSelected(buf.gate.approve()) {
			m.ensureCursorInBounds()
		}
	case ConfirmCloseBuffer:
		m.closeCurrentBuffer()
	case ConfirmOverwriteFile:
		m.saveCurrent(m.filename)
		m.filename = ""
		m.fileInput.Blur()
	}
	return m, nil
}

func (m *model) closeCurrentBuffer() {
	m.setPanMode(false)
	m.closeBuffer()
	if len(m.buffers) == 0 {
		m.addNewBuffer(welcomeCanvas(), "")
		m.mode = ModeStartup
	}
	m.cursorX, m.cursorY = 0, 0
	m.errorMessage = ""
	m.successMessage = ""
	m.layout()
}

func (m model) View() string {
	if m.help {
		return m.renderHelp()
	}

	buf := m.getCurrentBuffer()
	renderWidth := max(m.width, 1)

	var result strings.Builder
	if m.showBufferBar() {
		result.WriteString(m.renderBufferBar(renderWidth))
		result.WriteString("\n")
	}

	if buf != nil {
		showCursor := m.mode != ModeStartup && m.mode != ModeFileInput && !m.zPanMode
		canvas := buf.surface.Render(m.cursorX, m.cursorY, showCursor)
		result.WriteString(strings.Join(canvas, "\n"))
	}

	if m.mode != ModeStartup || m.errorMessage != "" {
		result.WriteString("\n")
		result.WriteString(m.statusLine())
	}
	return result.String()
}

var (
	statusErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	statusActiveStyle = lipgloss.NewStyle().Reverse(true)
)

func (m model) renderBufferBar(width int) string {
	var bar strings.Builder
	bar.WriteString("Open Charts: ")
	for i, buf := range m.buffers {
		if i > 0 {
			bar.WriteString(" | ")
		}
		name := fmt.Sprintf("Buffer %d", i+1)
		if buf.filename != "" {
			name = strings.TrimSuffix(filepath.Base(buf.filename), ".txt")
		}
		if i == m.currentBufferIndex {
			bar.WriteString(statusActiveStyle.Render("[" + name + "]"))
		} else {
			bar.WriteString(name)
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(bar.String())
}

func (m model) statusLine() string {
	buf := m.getCurrentBuffer()
	switch m.mode {
	case ModeStartup:
		return statusErrorStyle.Render("ERROR: " + m.errorMessage)
	case ModeEditing:
		return fmt.Sprintf("Mode: EDIT | Box %d | Enter=newline, Ctrl+S=save, Esc=cancel", m.editBoxID)
	case ModeMove:
		return fmt.Sprintf("Mode: MOVE | %d selected | hjkl/arrows=move, Enter=finish, Esc=cancel", buf.engine.Size())
	case ModeFileInput:
		var opStr string
		switch m.fileOp {
		case FileOpSave:
			opStr = "Save"
		case FileOpOpen:
			opStr = "Open"
		case FileOpSavePNG:
			opStr = "Export PNG"
		case FileOpSaveVisualTXT:
			opStr = "Export text"
		}
		status := fmt.Sprintf("Mode: FILE | %s filename: %s | Enter=confirm, Esc=cancel", opStr, m.fileInput.View())
		if m.errorMessage != "" {
			status += " | " + statusErrorStyle.Render("ERROR: "+m.errorMessage)
		}
		return status
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmDeleteSelection:
			message = m.confirmPrompt
		case ConfirmQuit:
			message = "Quit flock?"
		case ConfirmCloseBuffer:
			message = "Close current buffer? Unsaved changes will be lost."
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite?", m.filename)
		}
		return fmt.Sprintf("Mode: CONFIRM | %s (y/n)", message)
	}

	modeStr := "NORMAL"
	if m.zPanMode {
		modeStr = "PAN"
	}
	status := fmt.Sprintf("Mode: %s | Cursor: (%d,%d)", modeStr, m.cursorX, m.cursorY)
	if buf != nil {
		if z := buf.surface.Scale(); z != 1 {
			status += fmt.Sprintf(" | Zoom: %gx", z)
		}
		if moving := len(buf.engine.DragSnapshot()); moving > 0 && buf.surface.Dragging() {
			status += fmt.Sprintf(" | Dragging %d boxes", moving)
		} else if buf.selected > 0 {
			status += fmt.Sprintf(" | Selected: %d", buf.selected)
		}
	}
	switch {
	case m.errorMessage != "":
		status += " | " + statusErrorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		status += " | " + m.successMessage
	default:
		status += " | " + m.helpView.ShortHelpView(m.keys.ShortHelp())
	}
	return status
}

func (m model) renderHelp() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("flock help"))
	b.WriteString("\n\n")
	b.WriteString(m.helpView.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString("Mouse: click selects, ctrl/shift+click toggles, drag a box to move it\n")
	b.WriteString("(with the whole selection if it is selected), drag on empty space to\n")
	b.WriteString("select everything the rectangle touches. In pan mode dragging pans.\n\n")
	b.WriteString("Press any key to close")
	return b.String()
}
