// Package geom holds the small value types shared by the layout engine:
// vectors, dimensions, bounding boxes, colors, and the tagged sizing
// description used by the solver.
package geom

// Vector2 is a 2D point or offset in layout space.
type Vector2 struct {
	X, Y float64
}

// Add returns the component-wise sum of v and o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Dimensions is a width/height pair.
type Dimensions struct {
	Width, Height float64
}

// BoundingBox is an axis-aligned rectangle positioned at X/Y with the given
// Width/Height, growing right and down.
type BoundingBox struct {
	X, Y, Width, Height float64
}

// Contains reports whether p falls within the box, inclusive of its edges.
func (b BoundingBox) Contains(p Vector2) bool {
	return p.X >= b.X && p.X <= b.X+b.Width && p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// Color is an RGBA color with 0-255 channels stored as float64 so callers
// can treat it like the C source's Clay_Color without truncation until the
// render command boundary.
type Color struct {
	R, G, B, A float64
}

// CornerRadius holds the four independent corner radii of a rounded
// rectangle, in layout units.
type CornerRadius struct {
	TopLeft, TopRight, BottomLeft, BottomRight float64
}

// Padding holds independent left/right/top/bottom padding in layout units.
type Padding struct {
	Left, Right, Top, Bottom uint16
}

// Horizontal returns Left+Right.
func (p Padding) Horizontal() float64 { return float64(p.Left) + float64(p.Right) }

// Vertical returns Top+Bottom.
func (p Padding) Vertical() float64 { return float64(p.Top) + float64(p.Bottom) }

// SizingType discriminates the variants of SizingAxis.
type SizingType uint8

const (
	SizingFit SizingType = iota
	SizingGrow
	SizingPercent
	SizingFixed
)

// MinMax bounds a Fit or Grow axis.
type MinMax struct {
	Min, Max float64
}

// SizingAxis is the tagged union the C source calls Clay_SizingAxis: a
// single axis (width or height) is sized one of four ways. Percent is a
// fraction of the parent's size in [0, 1]; Fixed pins both Min and Max to
// the same value so the solver can treat it uniformly with Fit/Grow.
type SizingAxis struct {
	Type    SizingType
	MinMax  MinMax
	Percent float64
}

// SizingFixedAxis returns a SizingAxis pinned to an exact size.
func SizingFixedAxis(size float64) SizingAxis {
	return SizingAxis{Type: SizingFixed, MinMax: MinMax{Min: size, Max: size}}
}

// SizingFitAxis returns a SizingAxis that shrinks to its content, bounded
// by minMax. An empty minMax (zero value) means no bound.
func SizingFitAxis(minMax MinMax) SizingAxis {
	return SizingAxis{Type: SizingFit, MinMax: minMax}
}

// SizingGrowAxis returns a SizingAxis that expands to fill available space,
// bounded by minMax.
func SizingGrowAxis(minMax MinMax) SizingAxis {
	return SizingAxis{Type: SizingGrow, MinMax: minMax}
}

// SizingPercentAxis returns a SizingAxis set to a fraction of the parent's
// size along this axis. percent must be in [0, 1]; the sizing solver
// reports values over 1 as ErrPercentageOver1 and still applies them.
func SizingPercentAxis(percent float64) SizingAxis {
	return SizingAxis{Type: SizingPercent, Percent: percent}
}
