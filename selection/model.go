package selection

import "errors"

// ID is the stable identifier of a model element or link.
type ID int

var (
	// ErrUnsupported is returned by Model.Clone for entities that cannot be copied.
	ErrUnsupported = errors.New("selection: unsupported entity")
	// ErrGeometryUnavailable means the surface has no layout yet.
	ErrGeometryUnavailable = errors.New("selection: geometry unavailable")
)

// Model is the diagram the engine edits. It stays the single source of truth
// for geometry; the engine only keeps ids.
type Model interface {
	// Elements lists every element (not link) in model order.
	Elements() []ID
	// Links lists the links attached to an element, inbound and outbound.
	Links(id ID) []ID
	Exists(id ID) bool
	// Position reports false for entities without a position of their own,
	// such as links.
	Position(id ID) (Point, bool)
	SetPosition(id ID, p Point)
	Size(id ID) (Size, bool)
	SetSize(id ID, s Size)
	// Clone adds a copy of id to the model and returns the copy's id.
	Clone(id ID) (ID, error)
	Remove(id ID)
}

// View is the rendered handle of one entity.
type View interface {
	AddClass(class string)
	RemoveClass(class string)
	HasClass(class string) bool
}

// Overlay is a transient shape drawn over the surface, positioned in viewport
// coordinates.
type Overlay interface {
	Update(r Rect)
	Remove()
}

// OverlayHost is the explicit mount point for overlays.
type OverlayHost interface {
	MountOverlay(class string) Overlay
}

// Style is a named visual treatment the engine installs on the surface.
type Style struct {
	Class  string
	Color  string
	Dashed bool
	// Fill is used for area overlays such as the rubber band.
	Fill bool
}

// Surface is the rendering surface: an event source and a coordinate space.
type Surface interface {
	Subscribe(kind EventKind, h Handler) (unsubscribe func())
	View(id ID) (View, bool)
	Transform() Transform
	// Bounds is the surface rect in viewport coordinates. It reports false
	// until the surface has been laid out.
	Bounds() (Rect, bool)
	AddStyle(s Style) (remove func())
}

// LocalConverter is implemented by surfaces with a native viewport to logical
// conversion. The engine prefers it over its own formula.
type LocalConverter interface {
	ClientToLocal(p Point) (Point, bool)
}

// Confirmer decides destructive operations. It returns true to proceed.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

var (
	// Always confirms every prompt.
	Always Confirmer = ConfirmFunc(func(string) bool { return true })
	// Never declines every prompt.
	Never Confirmer = ConfirmFunc(func(string) bool { return false })
)
