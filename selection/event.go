package selection

// EventKind names the surface events the engine listens to.
type EventKind int

const (
	ElementPointerClick EventKind = iota
	ElementPointerDown
	ElementPointerMove
	ElementPointerUp
	LinkPointerClick
	BlankPointerClick
	BlankPointerDown
	// PointerMove and PointerUp are delivered for every pointer motion and
	// release, wherever they happen.
	PointerMove
	PointerUp
	KeyDown
)

func (k EventKind) String() string {
	switch k {
	case ElementPointerClick:
		return "element:pointerclick"
	case ElementPointerDown:
		return "element:pointerdown"
	case ElementPointerMove:
		return "element:pointermove"
	case ElementPointerUp:
		return "element:pointerup"
	case LinkPointerClick:
		return "link:pointerclick"
	case BlankPointerClick:
		return "blank:pointerclick"
	case BlankPointerDown:
		return "blank:pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case KeyDown:
		return "keydown"
	default:
		return "unknown"
	}
}

type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
}

// Additive reports whether the modifiers extend a selection instead of
// replacing it.
func (m Modifiers) Additive() bool {
	return m.Ctrl || m.Shift
}

// Event is one surface callback. Target is only meaningful for element and
// link events, Key only for KeyDown.
type Event struct {
	Kind   EventKind
	Target ID
	// Client is the pointer position in viewport coordinates.
	Client Point
	Mods   Modifiers
	Key    string
}

type Handler func(Event)
