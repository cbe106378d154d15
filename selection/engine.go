// Package selection picks, highlights and rearranges entities of a node-link
// diagram in response to pointer and keyboard events from a rendering surface.
//
// An Engine is bound to one Model and one Surface. All of its methods must be
// called from the goroutine that delivers surface events.
package selection

import (
	"context"
	"slices"

	"cdr.dev/slog"

	"flock/lib/log"
)

const (
	DefaultDragThreshold float64 = 5
	DefaultDuplicateDX   float64 = 20
	DefaultDuplicateDY   float64 = 20
	DefaultColor                 = "#2196F3"
)

// KeyMap lists the key names, as reported in Event.Key, that the engine acts
// on.
type KeyMap struct {
	SelectAll []string
	Remove    []string
	Clear     []string
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		SelectAll: []string{"ctrl+a"},
		Remove:    []string{"delete", "backspace"},
		Clear:     []string{"esc"},
	}
}

type Options struct {
	// Overlays mounts the rubber-band rectangle. Without it the marquee still
	// selects but draws nothing.
	Overlays OverlayHost
	// Confirm decides removals started from the keyboard. Nil declines.
	Confirm Confirmer
	// DragThreshold is the distance in viewport units a marquee must travel
	// before it counts as a drag rather than a click.
	DragThreshold float64
	// DuplicateDX and DuplicateDY offset the copies made by
	// DuplicateSelected. When both are zero the defaults apply unless
	// HasDuplicateOffset is set, which makes 0,0 duplicate in place.
	DuplicateDX        float64
	DuplicateDY        float64
	HasDuplicateOffset bool
	// Color is the highlight and marquee color.
	Color string
	Keys  KeyMap
}

func (o Options) withDefaults() Options {
	if o.DragThreshold <= 0 {
		o.DragThreshold = DefaultDragThreshold
	}
	if !o.HasDuplicateOffset && o.DuplicateDX == 0 && o.DuplicateDY == 0 {
		o.DuplicateDX, o.DuplicateDY = DefaultDuplicateDX, DefaultDuplicateDY
	}
	if o.Color == "" {
		o.Color = DefaultColor
	}
	if o.Keys.SelectAll == nil && o.Keys.Remove == nil && o.Keys.Clear == nil {
		o.Keys = DefaultKeyMap()
	}
	return o
}

// Change is delivered to OnChange listeners once an operation has finished
// mutating the selection.
type Change struct {
	Selected []ID
}

type Engine struct {
	ctx     context.Context
	model   Model
	surface Surface
	opts    Options

	selected *set
	hl       highlighter
	mapper   mapper
	band     rubberBand
	drag     groupDrag

	panning  bool
	attached bool
	subs     disposer

	// depth counts nested public operations; listeners run when it drops
	// back to zero and changed is set.
	depth   int
	changed bool
	// listeners run in subscription order; unsubscribing leaves a nil.
	listeners []func(Change)
}

// New builds an engine and attaches it to the surface.
func New(ctx context.Context, m Model, s Surface, opts Options) *Engine {
	ctx = log.Named(ctx, "selection")
	e := &Engine{
		ctx:      ctx,
		model:    m,
		surface:  s,
		opts:     opts.withDefaults(),
		selected: newSet(),
		hl:       highlighter{ctx: ctx, surface: s, class: HighlightClass},
		mapper:   mapper{surface: s},
	}
	e.Attach()
	return e
}

// OnChange registers fn to run after every operation that changed the
// selection.
func (e *Engine) OnChange(fn func(Change)) (unsubscribe func()) {
	i := len(e.listeners)
	e.listeners = append(e.listeners, fn)
	return func() { e.listeners[i] = nil }
}

// SetPanningMode switches between panning and selection. Entering panning
// clears the selection and aborts any gesture in flight.
func (e *Engine) SetPanningMode(panning bool) {
	e.begin()
	defer e.end()

	log.Debug(e.ctx, "panning mode", slog.F("panning", panning))
	e.panning = panning
	if panning {
		e.abortGestures()
		e.clear()
	}
}

func (e *Engine) Panning() bool { return e.panning }

// Destroy detaches the engine for good.
func (e *Engine) Destroy() {
	e.Detach()
}

// busy reports whether a rubber-band or group drag gesture is in progress.
func (e *Engine) busy() bool {
	return e.band.active || e.drag.active()
}

func (e *Engine) abortGestures() {
	if e.band.active {
		log.Debug(e.ctx, "aborting rubber band")
		e.band.reset()
	}
	if e.drag.active() {
		log.Debug(e.ctx, "aborting group drag", slog.F("anchor", e.drag.anchor))
		e.drag.reset()
	}
}

func (e *Engine) begin() {
	e.depth++
}

func (e *Engine) end() {
	e.depth--
	if e.depth > 0 || !e.changed {
		return
	}
	e.changed = false
	c := Change{Selected: e.selected.list()}
	for _, fn := range e.listeners {
		if fn != nil {
			fn(c)
		}
	}
}

func (e *Engine) onKeyDown(ev Event) {
	switch {
	case slices.Contains(e.opts.Keys.SelectAll, ev.Key):
		e.SelectAll()
	case slices.Contains(e.opts.Keys.Remove, ev.Key):
		if e.Size() > 0 {
			e.RemoveSelected(e.opts.Confirm)
		}
	case slices.Contains(e.opts.Keys.Clear, ev.Key):
		// A marquee in progress keeps going.
		e.Clear()
	}
}
