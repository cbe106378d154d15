package main

import (
	"github.com/charmbracelet/bubbles/key"

	"flock/selection"
)

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Pan   key.Binding

	// Forwarded to the selection engine.
	SelectAll key.Binding
	Remove    key.Binding
	Clear     key.Binding

	Toggle      key.Binding
	Duplicate   key.Binding
	AlignLeft   key.Binding
	AlignCenter key.Binding
	AlignRight  key.Binding
	AlignTop    key.Binding
	AlignMiddle key.Binding
	AlignBottom key.Binding
	SpreadH     key.Binding
	SpreadV     key.Binding
	Move        key.Binding

	NewBox  key.Binding
	Edit    key.Binding
	Connect key.Binding
	Yank    key.Binding
	Paste   key.Binding

	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ZoomReset key.Binding
	Undo      key.Binding
	Redo      key.Binding

	Save       key.Binding
	Open       key.Binding
	ExportPNG  key.Binding
	ExportTXT  key.Binding
	NewBuffer  key.Binding
	NextBuffer key.Binding
	PrevBuffer key.Binding
	Close      key.Binding

	Help key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:    key.NewBinding(key.WithKeys("k", "up", "K", "shift+up"), key.WithHelp("k/↑", "up")),
		Down:  key.NewBinding(key.WithKeys("j", "down", "J", "shift+down"), key.WithHelp("j/↓", "down")),
		Left:  key.NewBinding(key.WithKeys("h", "left", "H", "shift+left"), key.WithHelp("h/←", "left")),
		Right: key.NewBinding(key.WithKeys("l", "right", "L", "shift+right"), key.WithHelp("l/→", "right")),
		Pan:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "toggle pan mode")),

		SelectAll: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
		Remove:    key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("del", "delete selection")),
		Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),

		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle box at cursor")),
		Duplicate:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "duplicate")),
		AlignLeft:   key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "align left")),
		AlignCenter: key.NewBinding(key.WithKeys("|"), key.WithHelp("|", "align center")),
		AlignRight:  key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "align right")),
		AlignTop:    key.NewBinding(key.WithKeys("^"), key.WithHelp("^", "align top")),
		AlignMiddle: key.NewBinding(key.WithKeys("="), key.WithHelp("=", "align middle")),
		AlignBottom: key.NewBinding(key.WithKeys("_"), key.WithHelp("_", "align bottom")),
		SpreadH:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "distribute horizontally")),
		SpreadV:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "distribute vertically")),
		Move:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move selection with keys")),

		NewBox:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "new box")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit last selected")),
		Connect: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "connect two selected")),
		Yank:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy selected text")),
		Paste:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste clipboard as box")),

		ZoomIn:    key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ZoomReset: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
		Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:      key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "redo")),

		Save:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		ExportPNG:  key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "export PNG")),
		ExportTXT:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export text")),
		NewBuffer:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new buffer")),
		NextBuffer: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next buffer")),
		PrevBuffer: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous buffer")),
		Close:      key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close buffer")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// engineKeys hands the bindings the engine reacts to by itself.
func (k keyMap) engineKeys() selection.KeyMap {
	return selection.KeyMap{
		SelectAll: k.SelectAll.Keys(),
		Remove:    k.Remove.Keys(),
		Clear:     k.Clear.Keys(),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.SelectAll, k.Remove, k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Pan, k.ZoomIn, k.ZoomOut, k.ZoomReset},
		{k.SelectAll, k.Toggle, k.Clear, k.Remove, k.Duplicate, k.Move, k.Undo, k.Redo},
		{k.AlignLeft, k.AlignCenter, k.AlignRight, k.AlignTop, k.AlignMiddle, k.AlignBottom, k.SpreadH, k.SpreadV},
		{k.NewBox, k.Edit, k.Connect, k.Yank, k.Paste},
		{k.Save, k.Open, k.ExportPNG, k.ExportTXT, k.NewBuffer, k.NextBuffer, k.PrevBuffer, k.Close, k.Help, k.Quit},
	}
}
