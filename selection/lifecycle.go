package selection

import (
	"cdr.dev/slog"

	"flock/lib/log"
)

// disposer collects teardown functions so they can all run at once.
type disposer []func()

func (d *disposer) add(fn func()) {
	*d = append(*d, fn)
}

func (d *disposer) disposeAll() {
	fns := *d
	*d = nil
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Attach subscribes the engine to its surface and installs its styles.
// Calling it again while attached does nothing.
func (e *Engine) Attach() {
	if e.attached {
		return
	}
	e.attached = true

	handlers := map[EventKind]Handler{
		ElementPointerClick: e.onElementClick,
		ElementPointerDown:  e.onElementPointerDown,
		ElementPointerMove:  e.onElementPointerMove,
		ElementPointerUp:    e.onElementPointerUp,
		LinkPointerClick:    e.onLinkClick,
		BlankPointerClick:   e.onBlankClick,
		BlankPointerDown:    e.onBlankPointerDown,
		PointerMove:         e.onPointerMove,
		PointerUp:           e.onPointerUp,
		KeyDown:             e.onKeyDown,
	}
	for kind := ElementPointerClick; kind <= KeyDown; kind++ {
		e.subs.add(e.surface.Subscribe(kind, e.guard(kind, handlers[kind])))
	}

	e.subs.add(e.surface.AddStyle(Style{Class: HighlightClass, Color: e.opts.Color}))
	e.subs.add(e.surface.AddStyle(Style{Class: BoxClass, Color: e.opts.Color, Dashed: true, Fill: true}))
	log.Debug(e.ctx, "attached", slog.F("subscriptions", len(e.subs)))
}

// Detach undoes Attach: it drops every subscription and style, removes the
// rubber-band overlay, aborts gestures and clears the selection. A detached
// engine ignores surface events even if they keep arriving.
func (e *Engine) Detach() {
	if !e.attached {
		return
	}
	e.begin()
	defer e.end()

	e.attached = false
	e.subs.disposeAll()
	e.abortGestures()
	e.band.removeOverlay()
	e.clear()
	log.Debug(e.ctx, "detached")
}

func (e *Engine) Attached() bool { return e.attached }

// guard drops events that arrive after Detach and keeps a panicking handler
// from taking down the event loop.
func (e *Engine) guard(kind EventKind, h Handler) Handler {
	where := kind.String()
	return func(ev Event) {
		if !e.attached {
			return
		}
		defer log.Recover(e.ctx, where)
		h(ev)
	}
}

func (e *Engine) onElementClick(ev Event) {
	if e.panning {
		return
	}
	e.Select(ev.Target, ev.Mods.Additive())
}

func (e *Engine) onLinkClick(ev Event) {
	if e.panning {
		return
	}
	e.Select(ev.Target, ev.Mods.Additive())
}
