package selection

import (
	"context"

	"cdr.dev/slog"

	"flock/lib/log"
)

const (
	// HighlightClass marks the view of a selected entity.
	HighlightClass = "selection-highlight"
	// BoxClass is the class of the rubber-band overlay.
	BoxClass = "selection-box"
)

// highlighter toggles the highlight class on entity views. Views that cannot
// be found are skipped; the entity may not be rendered yet or may be gone.
type highlighter struct {
	ctx     context.Context
	surface Surface
	class   string
}

func (h highlighter) apply(id ID) {
	v, ok := h.surface.View(id)
	if !ok {
		log.Debug(h.ctx, "view not found, not highlighting", slog.F("id", id))
		return
	}
	v.AddClass(h.class)
}

func (h highlighter) remove(id ID) {
	v, ok := h.surface.View(id)
	if !ok {
		return
	}
	v.RemoveClass(h.class)
}
