// Package layout holds the per-frame element tree, the sizing solver, the
// text wrapper, and the final traversal that emits render commands. It is
// internal: the root clay package exposes these types under its own
// names (aliases), the way glimo's aliases.go re-exports its instructions
// package.
package layout

import (
	"github.com/kryvoslayout/clay/geom"
	"github.com/kryvoslayout/clay/internal/measure"
)

// Direction is the layout axis an element's children are arranged along.
type Direction uint8

const (
	LeftToRight Direction = iota
	TopToBottom
)

// AlignX positions children along the horizontal off-axis of a
// TopToBottom container (or fine-tunes a LeftToRight container, depending
// on which axis is off-axis for a given element).
type AlignX uint8

const (
	AlignXLeft AlignX = iota
	AlignXCenter
	AlignXRight
)

// AlignY positions children along the vertical off-axis.
type AlignY uint8

const (
	AlignYTop AlignY = iota
	AlignYCenter
	AlignYBottom
)

// ChildAlignment bundles the off-axis and on-axis alignment of a
// container's children.
type ChildAlignment struct {
	X AlignX
	Y AlignY
}

// LayoutConfig is the sizing/arrangement configuration every element
// carries: direction, padding, gap between children, sizing on each axis,
// and child alignment.
type LayoutConfig struct {
	Direction      Direction
	Padding        geom.Padding
	ChildGap       uint16
	Sizing         [2]geom.SizingAxis // [0]=width axis, [1]=height axis
	ChildAlignment ChildAlignment
}

// Axis indexes LayoutConfig.Sizing and Element.Dimensions-style pairs.
type Axis int

const (
	AxisX Axis = 0
	AxisY Axis = 1
)

// ConfigType discriminates the tagged ElementConfig variant. Matches
// glimo's preference for enum+struct over interface dispatch
// (ContainerStyle/ItemStyle in auto_layout_styles.go).
type ConfigType uint8

const (
	ConfigShared ConfigType = iota
	ConfigText
	ConfigImage
	ConfigAspectRatio
	ConfigFloating
	ConfigCustom
	ConfigClip
	ConfigBorder
)

// SharedConfig carries the background color, corner radius, and opaque
// user data any element may have regardless of its other configs.
type SharedConfig struct {
	BackgroundColor geom.Color
	CornerRadius    geom.CornerRadius
	UserData        any
}

// ImageConfig attaches host-defined image data to an element; background
// color and corner radius from SharedConfig are merged into the resulting
// Image render command.
type ImageConfig struct {
	ImageData any
}

// AspectRatioConfig pins an element's height to width/ratio (resolved at
// CloseElement time from whatever width is known and again after the X
// pass; after the Y pass, width is set to height * ratio).
type AspectRatioConfig struct {
	AspectRatio float64
}

// AttachPoint is one of the nine points a floating element (or its
// parent) can be anchored at.
type AttachPoint uint8

const (
	AttachLeftTop AttachPoint = iota
	AttachLeftCenter
	AttachLeftBottom
	AttachCenterTop
	AttachCenterCenter
	AttachCenterBottom
	AttachRightTop
	AttachRightCenter
	AttachRightBottom
)

// AttachToType selects what a Floating config's ParentID resolves
// against.
type AttachToType uint8

const (
	AttachToNone AttachToType = iota
	AttachToParent
	AttachToElementWithID
	AttachToRoot
)

// PointerCaptureMode controls whether a floating element intercepts
// pointer events meant for whatever is behind it.
type PointerCaptureMode uint8

const (
	CapturesPointer PointerCaptureMode = iota
	PassThrough
)

// FloatingConfig makes an element a new layout root, positioned relative
// to a resolved parent/anchor rather than participating in normal flow.
type FloatingConfig struct {
	Offset             geom.Vector2
	Expand             geom.Dimensions
	ZIndex             int16
	ParentID           uint32
	AttachElement      AttachPoint
	AttachParent       AttachPoint
	AttachTo           AttachToType
	PointerCaptureMode PointerCaptureMode
	Clip               bool
}

// CustomConfig carries host-defined data for a Custom render command.
type CustomConfig struct {
	CustomData any
}

// ClipConfig makes an element a scissor region; its persistent scroll
// state (if any) lives in the scroll-container list keyed by element id.
// By default the engine offsets children by ScrollPosition, updated by
// the host between frames. When ExternalScrollHandling is set, the
// engine instead calls the tree's QueryScrollOffsetFunc for this element
// during the final position pass and never touches ScrollTracker state
// for it.
type ClipConfig struct {
	Horizontal             bool
	Vertical               bool
	ChildOffset            geom.Vector2
	ExternalScrollHandling bool
}

// BorderWidths independently sizes the four edge borders plus the
// between-children divider used when a container has BetweenChildren > 0.
type BorderWidths struct {
	Left, Right, Top, Bottom, BetweenChildren uint16
}

// BorderConfig draws a border (and optional between-children dividers)
// around an element, on ascent, after any Clip's ScissorEnd would
// otherwise have been emitted — border commands are ordered to render
// last specifically so they are never clipped at the edge.
type BorderConfig struct {
	Widths BorderWidths
	Color  geom.Color
}

// Config is the tagged element-config variant. The declaration API
// attaches at most one of each Type to a given element; ConfigureOpen
// itself does not check for a repeated type and appends every config it
// is given.
type Config struct {
	Type    ConfigType
	Shared  SharedConfig
	Text    measure.TextConfig
	Image   ImageConfig
	Aspect  AspectRatioConfig
	Float   FloatingConfig
	Custom  CustomConfig
	Clip    ClipConfig
	Border  BorderConfig
}

// TextData is the per-element text payload: the source string and the
// measure-cache entry it resolved to (or zero value if unmeasured, e.g.
// missing callback).
type TextData struct {
	Text    string
	Entry   measure.Entry
	Config  measure.TextConfig
	Lines   []WrappedLine
}

// WrappedLine is one line produced by the greedy word wrapper: its
// measured size and the byte range of the source string it covers.
type WrappedLine struct {
	Dimensions  geom.Dimensions
	Start, End  int
}

// Element is one node of the per-frame tree. It holds indices into
// shared buffers rather than pointers, per spec.md §3.
type Element struct {
	ID             uint32
	ParentIndex    int // -1 for the synthetic root
	Layout         LayoutConfig
	Dimensions     geom.Dimensions
	MinDimensions  geom.Dimensions
	ChildrenStart  int
	ChildrenCount  int
	TextIndex      int // -1 if this element is not a text leaf
	ConfigsStart   int
	ConfigsCount   int
	FloatingIndex  int // 1-based index into floating-child bookkeeping, 0 if not floating
	Offset         geom.Vector2 // absolute position in layout space, set by emission
	BoundingBox    geom.BoundingBox
}

// Root is a layout root: the implicit frame root (ParentID 0, ZIndex 0)
// or a floating element's own subtree.
type Root struct {
	ElementIndex  int
	ParentID      uint32
	ClipElementID uint32
	ZIndex        int16
	Floating      bool
}
