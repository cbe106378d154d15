package main

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeEditing
	ModeMove
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpSaveVisualTXT
	FileOpOpen
)

type ConfirmAction int

const (
	ConfirmDeleteSelection ConfirmAction = iota
	ConfirmQuit
	ConfirmOverwriteFile
	ConfirmCloseBuffer
)

type ActionType int

const (
	// ActionAdd and ActionDelete carry a Snapshot of the entities created or
	// removed.
	ActionAdd ActionType = iota
	ActionDelete
	ActionEditBox
	// ActionMove carries the positions before and after a move of any number
	// of boxes.
	ActionMove
)

const (
	minBoxWidth  = 8
	minBoxHeight = 3
)

var zoomLevels = []float64{0.5, 1, 2}
