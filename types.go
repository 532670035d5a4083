// Package clay is an immediate-mode UI layout engine: callers declare a
// tree of boxes each frame and the engine computes sizes, positions, text
// wrapping, clipping, and z-order, then returns a flat ordered list of
// render commands for a host renderer to consume.
//
// The public surface here mostly re-exports internal/layout's types,
// the way glimo's aliases.go re-exports its instructions package — the
// heavy lifting (the solver, the wrapper, the final traversal) lives in
// internal/layout; this package is the declaration API and the stable
// names hosts import.
package clay

import (
	"github.com/kryvoslayout/clay/geom"
	"github.com/kryvoslayout/clay/internal/layout"
	"github.com/kryvoslayout/clay/internal/measure"
)

// Re-exported geometry types.
type (
	Vector2      = geom.Vector2
	Dimensions   = geom.Dimensions
	BoundingBox  = geom.BoundingBox
	Color        = geom.Color
	CornerRadius = geom.CornerRadius
	SizingAxis   = geom.SizingAxis
	MinMax       = geom.MinMax
	Padding      = geom.Padding
)

var (
	SizingFixed  = geom.SizingFixedAxis
	SizingFit    = geom.SizingFitAxis
	SizingGrow   = geom.SizingGrowAxis
	SizingPercent = geom.SizingPercentAxis
)

// Re-exported layout types.
type (
	Direction          = layout.Direction
	AlignX             = layout.AlignX
	AlignY             = layout.AlignY
	ChildAlignment     = layout.ChildAlignment
	LayoutConfig       = layout.LayoutConfig
	AttachPoint        = layout.AttachPoint
	AttachToType       = layout.AttachToType
	PointerCaptureMode = layout.PointerCaptureMode
	BorderWidths       = layout.BorderWidths
	RenderCommand      = layout.Command
	RenderCommandType  = layout.CommandType
	RenderData         = layout.RenderData
	ScrollContainerData = layout.ScrollContainerData
)

const (
	LeftToRight = layout.LeftToRight
	TopToBottom = layout.TopToBottom

	AlignXLeft   = layout.AlignXLeft
	AlignXCenter = layout.AlignXCenter
	AlignXRight  = layout.AlignXRight
	AlignYTop    = layout.AlignYTop
	AlignYCenter = layout.AlignYCenter
	AlignYBottom = layout.AlignYBottom

	AttachLeftTop      = layout.AttachLeftTop
	AttachLeftCenter   = layout.AttachLeftCenter
	AttachLeftBottom   = layout.AttachLeftBottom
	AttachCenterTop    = layout.AttachCenterTop
	AttachCenterCenter = layout.AttachCenterCenter
	AttachCenterBottom = layout.AttachCenterBottom
	AttachRightTop     = layout.AttachRightTop
	AttachRightCenter  = layout.AttachRightCenter
	AttachRightBottom  = layout.AttachRightBottom

	AttachToNone          = layout.AttachToNone
	AttachToParent        = layout.AttachToParent
	AttachToElementWithID = layout.AttachToElementWithID
	AttachToRoot          = layout.AttachToRoot

	CapturesPointer = layout.CapturesPointer
	PassThrough     = layout.PassThrough

	CommandRectangle    = layout.CommandRectangle
	CommandBorder       = layout.CommandBorder
	CommandText         = layout.CommandText
	CommandImage        = layout.CommandImage
	CommandScissorStart = layout.CommandScissorStart
	CommandScissorEnd   = layout.CommandScissorEnd
	CommandCustom       = layout.CommandCustom
)

// TextConfig describes how a run of text is measured, wrapped, and
// rendered: font identity/size/spacing, wrap mode, alignment, and color.
type TextConfig = measure.TextConfig

const (
	WrapWords    = measure.WrapWords
	WrapNewlines = measure.WrapNewlines
	WrapNone     = measure.WrapNone

	AlignTextLeft   = measure.AlignLeft
	AlignTextCenter = measure.AlignCenter
	AlignTextRight  = measure.AlignRight
)

// MeasureFunc is the host-supplied text measurement callback. It must be
// deterministic and non-blocking for the duration of a frame.
type MeasureFunc = measure.Func

// QueryScrollOffsetFunc is the host-supplied external-scroll-handling
// callback: given a clip element's id and its UserData, it returns the
// offset to apply to that element's children this frame. The engine
// calls it during the final position pass, not during sizing, and only
// for clip elements whose ClipConfig.ExternalScrollHandling is set.
type QueryScrollOffsetFunc = layout.QueryScrollOffsetFunc

// ImageConfig attaches host-defined image data to an element.
type ImageConfig struct {
	ImageData any
}

// AspectRatioConfig pins an element's height to width/ratio.
type AspectRatioConfig struct {
	AspectRatio float64
}

// FloatingConfig makes an element a new layout root positioned relative
// to a resolved anchor rather than participating in normal flow.
type FloatingConfig struct {
	Offset             Vector2
	Expand             Dimensions
	ZIndex             int16
	ParentID           string
	AttachElement      AttachPoint
	AttachParent       AttachPoint
	AttachTo           AttachToType
	PointerCaptureMode PointerCaptureMode
}

// CustomConfig carries host-defined data for a Custom render command.
type CustomConfig struct {
	CustomData any
}

// ClipConfig makes an element a scissor region and, if it has a
// persistent scroll state, the anchor scroll offsets are applied against.
// Set ExternalScrollHandling to opt this element out of the persistent
// ScrollPosition path and into Context.SetQueryScrollOffsetFunction
// instead, per the host callback of the same name.
type ClipConfig struct {
	Horizontal             bool
	Vertical               bool
	ChildOffset            Vector2
	ExternalScrollHandling bool
}

// BorderConfig draws a border (and optional between-children dividers)
// around an element.
type BorderConfig struct {
	Widths BorderWidths
	Color  Color
}

// ElementDeclaration bundles everything OpenElement needs to both create
// and configure an element in one call, the way Clay's CLAY({...}) macro
// does: an optional stable string id (anonymous if empty), the layout
// configuration, the always-available shared styling, and pointers to
// whichever optional configs apply (nil means "not attached").
type ElementDeclaration struct {
	ID              string
	Layout          LayoutConfig
	BackgroundColor Color
	CornerRadius    CornerRadius
	UserData        any

	Image   *ImageConfig
	Aspect  *AspectRatioConfig
	Floating *FloatingConfig
	Custom  *CustomConfig
	Clip    *ClipConfig
	Border  *BorderConfig
}
