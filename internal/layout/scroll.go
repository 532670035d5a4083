package layout

import "github.com/kryvoslayout/clay/geom"

// QueryScrollOffsetFunc is the host-supplied alternative to the
// persistent ScrollPosition path: when a clip element's config enables
// external scroll handling, the final position pass calls this with the
// clip element's id and its SharedConfig.UserData instead of reading
// ScrollTracker state.
type QueryScrollOffsetFunc func(elementID uint32, userData any) geom.Vector2

// ScrollContainerData is the persistent per-clip-element scroll state,
// carried across frames. The engine never mutates ScrollPosition itself;
// the host updates it between frames (or supplies a per-frame offset via
// a QueryScrollOffset callback when external scroll handling is used).
type ScrollContainerData struct {
	ElementID     uint32
	ScrollOrigin  geom.Vector2
	ScrollPosition geom.Vector2
	BoundingBox   geom.BoundingBox
	ContentSize   geom.Dimensions
	OpenThisFrame bool
}

// ScrollTracker owns the persistent list of scroll container states,
// keyed by element id. It is intentionally a flat slice: the number of
// concurrently open clip containers in a real UI is small, and spec.md's
// closed-addressing hash map is reserved for general element identity
// (internal/ident), not this secondary, much smaller table.
type ScrollTracker struct {
	items []ScrollContainerData
}

// NewScrollTracker returns an empty tracker.
func NewScrollTracker() *ScrollTracker {
	return &ScrollTracker{}
}

// BeginFrame clears every entry's OpenThisFrame flag ahead of the new
// frame's declarations.
func (t *ScrollTracker) BeginFrame() {
	for i := range t.items {
		t.items[i].OpenThisFrame = false
	}
}

// Open looks up id's scroll state, creating it (with a zeroed origin and
// position) if absent, and marks it open for this frame.
func (t *ScrollTracker) Open(id uint32) *ScrollContainerData {
	for i := range t.items {
		if t.items[i].ElementID == id {
			t.items[i].OpenThisFrame = true
			return &t.items[i]
		}
	}
	t.items = append(t.items, ScrollContainerData{ElementID: id, OpenThisFrame: true})
	return &t.items[len(t.items)-1]
}

// Get returns the scroll state for id without creating or marking it
// open, used by a host's explicit scroll-position query.
func (t *ScrollTracker) Get(id uint32) (*ScrollContainerData, bool) {
	for i := range t.items {
		if t.items[i].ElementID == id {
			return &t.items[i], true
		}
	}
	return nil, false
}

// All returns every tracked scroll container, for hosts that want to
// drive scrollbars from the full list rather than per-id lookups.
func (t *ScrollTracker) All() []ScrollContainerData {
	return t.items
}
