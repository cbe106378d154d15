package main

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"flock/selection"
)

// Buffer is one open diagram with everything that belongs to it: the
// canvas, the surface and selection engine bound to it, and its history.
type Buffer struct {
	canvas    *Canvas
	surface   *termSurface
	engine    *selection.Engine
	gate      *deleteGate
	undoStack []Action
	redoStack []Action
	filename  string
	selected  int // selection size as last reported by the engine
}

type model struct {
	ctx                context.Context
	width              int
	height             int
	cursorX            int
	cursorY            int
	zPanMode           bool
	buffers            []*Buffer
	currentBufferIndex int
	mode               Mode
	help               bool
	keys               keyMap
	helpView           help.Model
	editBoxID          int
	editText           string
	originalEditText   string
	moveOrigin         map[int]point
	filename           string
	fileInput          textinput.Model
	fileOp             FileOperation
	fromStartup        bool
	confirmAction      ConfirmAction
	confirmPrompt      string
	errorMessage       string
	successMessage     string
	config             *Config
}

type point struct {
	X, Y int
}

// Action is one undoable edit. Data holds enough to apply it in both
// directions.
type Action struct {
	Type ActionType
	Data interface{}
}

type EditBoxData struct {
	ID      int
	NewText string
	OldText string
}

type MoveData struct {
	Before map[int]point
	After  map[int]point
}
