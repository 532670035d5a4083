package layout

import "github.com/kryvoslayout/clay/geom"

// CommandType discriminates a RenderCommand's RenderData variant.
type CommandType uint8

const (
	CommandRectangle CommandType = iota
	CommandBorder
	CommandText
	CommandImage
	CommandScissorStart
	CommandScissorEnd
	CommandCustom
)

// TextRenderData carries both the wrapped-line slice and the base string
// so a host can reconstruct byte offsets if it needs to (e.g. for cursor
// placement in an editable text field built on top of this engine).
type TextRenderData struct {
	StringContents string
	BaseString     string
	ByteOffset     int
	Color          geom.Color
	FontID         uint16
	FontSize       uint16
	LetterSpacing  uint16
	LineHeight     uint16
}

// RectangleRenderData is the payload for CommandRectangle (and the merged
// background for CommandImage).
type RectangleRenderData struct {
	BackgroundColor geom.Color
	CornerRadius    geom.CornerRadius
}

// ImageRenderData is the payload for CommandImage.
type ImageRenderData struct {
	BackgroundColor geom.Color
	CornerRadius    geom.CornerRadius
	ImageData       any
}

// BorderRenderData is the payload for CommandBorder.
type BorderRenderData struct {
	Color  geom.Color
	Widths BorderWidths
}

// CustomRenderData is the payload for CommandCustom.
type CustomRenderData struct {
	CustomData any
}

// RenderData is a tagged union over the payload types; only the field
// matching Command.CommandType is meaningful.
type RenderData struct {
	Rectangle RectangleRenderData
	Text      TextRenderData
	Image     ImageRenderData
	Border    BorderRenderData
	Custom    CustomRenderData
}

// Command is one self-contained unit of drawing work emitted to the host.
// The returned command stream is ordered: z-ascending across roots;
// within a root, descent order with ScissorStart before children and
// ScissorEnd after; border commands on ascent but before the matching
// ScissorEnd.
type Command struct {
	BoundingBox geom.BoundingBox
	CommandType CommandType
	ID          uint32
	ZIndex      int16
	UserData    any
	RenderData  RenderData
}
