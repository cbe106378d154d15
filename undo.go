package main

import "maps"

func (b *Buffer) record(actionType ActionType, data interface{}) {
	b.undoStack = append(b.undoStack, Action{
		Type: actionType,
		Data: data,
	})
	b.redoStack = nil
}

func (m *model) recordAction(actionType ActionType, data interface{}) {
	if buf := m.getCurrentBuffer(); buf != nil {
		buf.record(actionType, data)
	}
}

// recordMove stores a move if anything actually moved.
func (m *model) recordMove(before map[int]point) {
	canvas := m.getCanvas()
	if canvas == nil || len(before) == 0 {
		return
	}
	ids := make([]int, 0, len(before))
	for id := range before {
		ids = append(ids, id)
	}
	after := canvas.Positions(ids)
	if maps.Equal(before, after) {
		return
	}
	m.recordAction(ActionMove, MoveData{Before: before, After: after})
}

func (m *model) undo() {
	buf := m.getCurrentBuffer()
	if buf == nil || len(buf.undoStack) == 0 {
		return
	}

	lastIndex := len(buf.undoStack) - 1
	action := buf.undoStack[lastIndex]
	buf.undoStack = buf.undoStack[:lastIndex]

	switch action.Type {
	case ActionAdd:
		buf.canvas.Discard(action.Data.(Snapshot))
	case ActionDelete:
		buf.canvas.Restore(action.Data.(Snapshot))
	case ActionEditBox:
		data := action.Data.(EditBoxData)
		buf.canvas.SetBoxText(data.ID, data.OldText)
	case ActionMove:
		buf.canvas.SetPositions(action.Data.(MoveData).Before)
	}
	// Removed entities drop out of the selection on the engine's next read.
	buf.engine.Size()

	buf.redoStack = append(buf.redoStack, action)
}

func (m *model) redo() {
	buf := m.getCurrentBuffer()
	if buf == nil || len(buf.redoStack) == 0 {
		return
	}

	lastIndex := len(buf.redoStack) - 1
	action := buf.redoStack[lastIndex]
	buf.redoStack = buf.redoStack[:lastIndex]

	switch action.Type {
	case ActionAdd:
		buf.canvas.Restore(action.Data.(Snapshot))
	case ActionDelete:
		buf.canvas.Discard(action.Data.(Snapshot))
	case ActionEditBox:
		data := action.Data.(EditBoxData)
		buf.canvas.SetBoxText(data.ID, data.NewText)
	case ActionMove:
		buf.canvas.SetPositions(action.Data.(MoveData).After)
	}
	buf.engine.Size()

	buf.undoStack = append(buf.undoStack, action)
}
