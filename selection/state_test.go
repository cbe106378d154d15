package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	t.Run("replace", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Options{})
		a := f.model.addElement(0, 0, 10, 10)
		b := f.model.addElement(20, 0, 10, 10)

		f.engine.Select(a, false)
		f.engine.Select(b, false)

		assert.Equal(t, []ID{b}, f.engine.Entities())
		assert.False(t, f.surface.highlighted(a))
		assert.True(t, f.surface.highlighted(b))
	})

	t.Run("additive", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Options{})
		a := f.model.addElement(0, 0, 10, 10)
		b := f.model.addElement(20, 0, 10, 10)

		f.engine.Select(a, false)
		f.engine.Select(b, true)

		assert.Equal(t, []ID{a, b}, f.engine.Entities())
		last, ok := f.engine.Last()
		require.True(t, ok)
		assert.Equal(t, b, last)
	})

	t.Run("toggle", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Options{})
		a := f.model.addElement(0, 0, 10, 10)
		b := f.model.addElement(20, 0, 10, 10)
		f.engine.Select(a, false)
		before := f.engine.Entities()

		f.engine.Select(b, true)
		f.engine.Select(b, true)

		assert.Equal(t, before, f.engine.Entities())
		assert.False(t, f.surface.highlighted(b))
		assert.True(t, f.surface.highlighted(a))
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Options{})
		a := f.model.addElement(0, 0, 10, 10)
		f.engine.Select(a, false)

		f.engine.Select(99, false)

		assert.Equal(t, []ID{a}, f.engine.Entities())
	})

	t.Run("link", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Options{})
		a := f.model.addElement(0, 0, 10, 10)
		b := f.model.addElement(20, 0, 10, 10)
		l := f.model.addLink(a, b)

		f.engine.Select(l, false)

		assert.True(t, f.engine.IsSelected(l))
		assert.True(t, f.surface.highlighted(l))
	})
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	a := f.model.addElement(0, 0, 10, 10)
	b := f.model.addElement(20, 0, 10, 10)
	f.engine.Select(a, false)
	f.engine.Select(b, true)

	f.engine.Clear()
	f.engine.Clear()

	assert.Equal(t, 0, f.engine.Size())
	assert.False(t, f.surface.highlighted(a))
	assert.False(t, f.surface.highlighted(b))
	_, ok := f.engine.Last()
	assert.False(t, ok)
}

func TestUnselect(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	a := f.model.addElement(0, 0, 10, 10)
	f.engine.Select(a, false)

	f.engine.Unselect(a)
	f.engine.Unselect(a)

	assert.False(t, f.engine.IsSelected(a))
	assert.False(t, f.surface.highlighted(a))
}

func TestSelectAllSkipsLinks(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	a := f.model.addElement(0, 0, 10, 10)
	b := f.model.addElement(20, 0, 10, 10)
	l := f.model.addLink(a, b)
	f.engine.Select(l, false)

	f.surface.key("ctrl+a")

	assert.Equal(t, []ID{a, b}, f.engine.Entities())
	assert.False(t, f.surface.highlighted(l))
}

func TestRemoveSelected(t *testing.T) {
	t.Parallel()

	t.Run("declined", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Options{})
		a := f.model.addElement(0, 0, 10, 10)
		f.engine.Select(a, false)

		var prompt string
		removed := f.engine.RemoveSelected(ConfirmFunc(func(p string) bool {
			prompt = p
			return false
		}))

		assert.False(t, removed)
		assert.Equal(t, "Delete 1 selected element(s)?", prompt)
		assert.True(t, f.model.Exists(a))
		assert.Equal(t, []ID{a}, f.engine.Entities())
	})

	t.Run("nil confirmer", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Options{})
		a := f.model.addElement(0, 0, 10, 10)
		f.engine.Select(a, false)

		assert.False(t, f.engine.RemoveSelected(nil))
		assert.True(t, f.model.Exists(a))
	})

	t.Run("confirmed with links", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Options{})
		a := f.model.addElement(0, 0, 10, 10)
		b := f.model.addElement(20, 0, 10, 10)
		c := f.model.addElement(40, 0, 10, 10)
		l := f.model.addLink(a, b)
		f.engine.Select(a, false)
		f.engine.Select(l, true)
		f.engine.Select(c, true)

		assert.True(t, f.engine.RemoveSelected(Always))

		assert.False(t, f.model.Exists(a))
		assert.False(t, f.model.Exists(l))
		assert.False(t, f.model.Exists(c))
		assert.True(t, f.model.Exists(b))
		assert.Equal(t, 0, f.engine.Size())
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, Options{})
		called := false
		assert.False(t, f.engine.RemoveSelected(ConfirmFunc(func(string) bool {
			called = true
			return true
		})))
		assert.False(t, called)
	})

	t.Run("keyboard", func(t *testing.T) {
		t.Parallel()
		var prompts []string
		f := newFixture(t, Options{Confirm: ConfirmFunc(func(p string) bool {
			prompts = append(prompts, p)
			return true
		})})
		a := f.model.addElement(0, 0, 10, 10)
		b := f.model.addElement(20, 0, 10, 10)

		f.surface.key("delete")
		assert.Empty(t, prompts)

		f.engine.SelectAll()
		f.surface.key("backspace")
		assert.Equal(t, []string{"Delete 2 selected element(s)?"}, prompts)
		assert.False(t, f.model.Exists(a))
		assert.False(t, f.model.Exists(b))
	})
}

func TestStaleEntitiesAreDropped(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	a := f.model.addElement(0, 0, 10, 10)
	b := f.model.addElement(20, 0, 10, 10)
	f.engine.Select(a, false)
	f.engine.Select(b, true)

	f.model.Remove(a)

	assert.Equal(t, 1, f.engine.Size())
	assert.False(t, f.engine.IsSelected(a))
	assert.Equal(t, []ID{b}, f.engine.Entities())
}

func TestChangeNotifications(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	a := f.model.addElement(0, 0, 10, 10)
	b := f.model.addElement(20, 0, 10, 10)

	var changes []Change
	unsubscribe := f.engine.OnChange(func(c Change) {
		changes = append(changes, c)
	})

	// Clear then add happen inside one operation.
	f.engine.Select(a, false)
	f.engine.Select(b, false)
	require.Len(t, changes, 2)
	assert.Equal(t, []ID{b}, changes[1].Selected)

	// Nothing changes, nothing fires.
	f.engine.Select(99, true)
	f.engine.Size()
	assert.Len(t, changes, 2)

	f.model.Remove(b)
	assert.Equal(t, 0, f.engine.Size())
	require.Len(t, changes, 3)
	assert.Empty(t, changes[2].Selected)

	unsubscribe()
	f.engine.Select(a, false)
	assert.Len(t, changes, 3)
}

func TestChangeListenerOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	a := f.model.addElement(0, 0, 10, 10)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		f.engine.OnChange(func(Change) { order = append(order, i) })
	}
	dropped := f.engine.OnChange(func(Change) { order = append(order, 99) })
	f.engine.OnChange(func(Change) { order = append(order, 5) })
	dropped()

	f.engine.Select(a, false)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, order)

	order = nil
	f.engine.Clear()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, order)
}
