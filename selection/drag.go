package selection

import (
	"maps"

	"cdr.dev/slog"

	"flock/lib/log"
)

// groupDrag moves every selected entity by the displacement of the anchor,
// the element under the pointer.
type groupDrag struct {
	anchor   ID
	snapshot map[ID]Point
}

func (d *groupDrag) active() bool {
	return d.snapshot != nil
}

func (d *groupDrag) reset() {
	d.anchor = 0
	d.snapshot = nil
}

func (e *Engine) onElementPointerDown(ev Event) {
	if e.panning {
		return
	}
	e.begin()
	defer e.end()

	e.prune()
	if !e.selected.has(ev.Target) {
		// A plain single element drag belongs to the surface.
		return
	}
	snap := make(map[ID]Point, e.selected.len())
	for _, id := range e.selected.ids {
		if p, ok := e.model.Position(id); ok {
			snap[id] = p
		}
	}
	if _, ok := snap[ev.Target]; !ok {
		return
	}
	e.drag.anchor = ev.Target
	e.drag.snapshot = snap
	log.Debug(e.ctx, "group drag started", slog.F("anchor", ev.Target), slog.F("count", len(snap)))
}

func (e *Engine) onElementPointerMove(Event) {
	if !e.drag.active() || e.panning {
		return
	}
	anchor := e.drag.anchor
	if !e.model.Exists(anchor) {
		e.drag.reset()
		return
	}
	now, ok := e.model.Position(anchor)
	if !ok {
		return
	}
	delta := now.Sub(e.drag.snapshot[anchor])
	for _, id := range e.selected.ids {
		if id == anchor {
			continue
		}
		start, ok := e.drag.snapshot[id]
		if !ok || !e.model.Exists(id) {
			continue
		}
		e.model.SetPosition(id, start.Add(delta))
	}
}

func (e *Engine) onElementPointerUp(Event) {
	if !e.drag.active() {
		return
	}
	log.Debug(e.ctx, "group drag ended", slog.F("anchor", e.drag.anchor))
	e.drag.reset()
}

// DragSnapshot returns a copy of the positions recorded at the start of the
// current group drag, or nil when no drag is running.
func (e *Engine) DragSnapshot() map[ID]Point {
	if !e.drag.active() {
		return nil
	}
	return maps.Clone(e.drag.snapshot)
}
