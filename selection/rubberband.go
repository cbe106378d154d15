package selection

import (
	"cdr.dev/slog"

	"flock/lib/log"
)

// rubberBand is the marquee gesture: Idle until a blank pointer-down, then
// Selecting until pointer-up or an abort.
type rubberBand struct {
	active bool
	// moved is set once the pointer leaves the click threshold and stays set
	// until the next gesture starts, so the trailing blank click can tell.
	moved   bool
	start   Point
	current Point
	overlay Overlay
}

// reset returns to Idle and removes the overlay if there is one.
func (b *rubberBand) reset() {
	b.active = false
	b.start, b.current = Point{}, Point{}
	b.removeOverlay()
}

func (b *rubberBand) removeOverlay() {
	if b.overlay != nil {
		b.overlay.Remove()
		b.overlay = nil
	}
}

func (b *rubberBand) rect() Rect {
	return RectFromCorners(b.start, b.current)
}

func (e *Engine) onBlankPointerDown(ev Event) {
	if e.panning {
		return
	}
	e.begin()
	defer e.end()

	// Only one overlay may be live.
	e.band.reset()
	e.band.active = true
	e.band.moved = false
	e.band.start = ev.Client
	e.band.current = ev.Client
	if e.opts.Overlays != nil {
		e.band.overlay = e.opts.Overlays.MountOverlay(BoxClass)
	}
	log.Debug(e.ctx, "rubber band started", slog.F("at", ev.Client), slog.F("additive", ev.Mods.Additive()))

	// The old selection disappears before the new one is known.
	if !ev.Mods.Additive() {
		e.clear()
	}
}

func (e *Engine) onPointerMove(ev Event) {
	if !e.band.active {
		return
	}
	e.band.current = ev.Client
	if !e.band.moved {
		d := ev.Client.Sub(e.band.start)
		if abs(d.X) > e.opts.DragThreshold || abs(d.Y) > e.opts.DragThreshold {
			e.band.moved = true
		}
	}
	if e.band.overlay != nil {
		e.band.overlay.Update(e.band.rect())
	}
}

func (e *Engine) onPointerUp(ev Event) {
	if !e.band.active {
		return
	}
	e.begin()
	defer e.end()

	e.band.current = ev.Client
	start, end := e.band.start, e.band.current
	moved := e.band.moved
	e.band.reset()

	if !moved {
		log.Debug(e.ctx, "rubber band was a click")
		return
	}
	rect, err := e.mapper.rect(start, end)
	if err != nil {
		log.Warn(e.ctx, "cannot map rubber band to the diagram", slog.F("err", err))
		return
	}
	hits := Intersecting(rect, e.model, e.model.Elements())
	log.Debug(e.ctx, "rubber band finished", slog.F("rect", rect), slog.F("hits", len(hits)))

	// The modifiers held at release decide between merging and replacing.
	if !ev.Mods.Additive() {
		e.clear()
	}
	for _, id := range hits {
		e.add(id)
	}
}

func (e *Engine) onBlankClick(Event) {
	if e.band.moved {
		return
	}
	e.Clear()
}
