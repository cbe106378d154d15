package selection

import (
	"fmt"

	"cdr.dev/slog"

	"flock/lib/log"
)

// set is an ordered collection of ids without duplicates.
type set struct {
	ids   []ID
	index map[ID]int
}

func newSet() *set {
	return &set{index: make(map[ID]int)}
}

func (s *set) has(id ID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *set) add(id ID) bool {
	if s.has(id) {
		return false
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	return true
}

func (s *set) remove(id ID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.ids); j++ {
		s.index[s.ids[j]] = j
	}
	return true
}

// take empties the set and returns what it held.
func (s *set) take() []ID {
	ids := s.ids
	s.ids = nil
	s.index = make(map[ID]int)
	return ids
}

func (s *set) list() []ID {
	out := make([]ID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *set) len() int { return len(s.ids) }

// Select adds id to the selection. Without additive the previous selection is
// cleared first. With additive an already selected id is toggled off instead.
// Ids the model does not know are ignored, and so is any call made while a
// rubber-band or drag gesture is running.
func (e *Engine) Select(id ID, additive bool) {
	if e.busy() {
		log.Debug(e.ctx, "select rejected during gesture", slog.F("id", id))
		return
	}
	e.begin()
	defer e.end()

	if !e.model.Exists(id) {
		log.Debug(e.ctx, "select of unknown entity", slog.F("id", id))
		return
	}
	if !additive {
		e.clear()
	}
	if e.selected.has(id) {
		if additive {
			e.unselect(id)
		}
		return
	}
	e.add(id)
}

// Unselect removes id and its highlight. Unknown ids are ignored.
func (e *Engine) Unselect(id ID) {
	e.begin()
	defer e.end()
	e.unselect(id)
}

// Clear empties the selection and removes every highlight it applied.
func (e *Engine) Clear() {
	e.begin()
	defer e.end()
	e.clear()
}

// SelectAll replaces the selection with every element in the model. Links
// are not included.
func (e *Engine) SelectAll() {
	if e.busy() {
		log.Debug(e.ctx, "select all rejected during gesture")
		return
	}
	e.begin()
	defer e.end()

	e.clear()
	for _, id := range e.model.Elements() {
		e.add(id)
	}
	log.Debug(e.ctx, "selected all", slog.F("count", e.selected.len()))
}

// RemoveSelected deletes the selected entities from the model once c
// confirms. Declining leaves both the model and the selection untouched. It
// reports whether anything was removed.
func (e *Engine) RemoveSelected(c Confirmer) bool {
	e.begin()
	defer e.end()

	e.prune()
	n := e.selected.len()
	if n == 0 {
		return false
	}
	if c == nil || !c.Confirm(fmt.Sprintf("Delete %d selected element(s)?", n)) {
		log.Debug(e.ctx, "removal declined", slog.F("count", n))
		return false
	}

	ids := e.selected.take()
	e.changed = true
	for _, id := range ids {
		// Removing an element can take its links with it.
		if !e.model.Exists(id) {
			continue
		}
		e.hl.remove(id)
		e.model.Remove(id)
	}
	log.Info(e.ctx, "removed selection", slog.F("count", len(ids)))
	return true
}

func (e *Engine) IsSelected(id ID) bool {
	e.begin()
	defer e.end()
	e.prune()
	return e.selected.has(id)
}

func (e *Engine) Size() int {
	e.begin()
	defer e.end()
	e.prune()
	return e.selected.len()
}

// Entities returns a copy of the selection in selection order.
func (e *Engine) Entities() []ID {
	e.begin()
	defer e.end()
	e.prune()
	return e.selected.list()
}

// Last returns the most recently selected id.
func (e *Engine) Last() (ID, bool) {
	e.begin()
	defer e.end()
	e.prune()
	if e.selected.len() == 0 {
		return 0, false
	}
	return e.selected.ids[e.selected.len()-1], true
}

func (e *Engine) add(id ID) {
	if !e.selected.add(id) {
		return
	}
	e.changed = true
	e.hl.apply(id)
}

func (e *Engine) unselect(id ID) {
	if !e.selected.remove(id) {
		return
	}
	e.changed = true
	e.hl.remove(id)
}

func (e *Engine) clear() {
	ids := e.selected.take()
	if len(ids) == 0 {
		return
	}
	e.changed = true
	for _, id := range ids {
		e.hl.remove(id)
	}
	log.Debug(e.ctx, "cleared selection", slog.F("count", len(ids)))
}

// prune drops ids that are no longer in the model. It is called by every
// operation that reads the selection.
func (e *Engine) prune() {
	for _, id := range e.selected.list() {
		if e.model.Exists(id) {
			continue
		}
		e.selected.remove(id)
		e.hl.remove(id)
		e.changed = true
		log.Debug(e.ctx, "dropped stale entity", slog.F("id", id))
	}
}
