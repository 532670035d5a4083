package layout

import (
	"sort"

	"github.com/kryvoslayout/clay/geom"
	"github.com/kryvoslayout/clay/internal/ident"
)

// emit performs the final traversal: z-ascending DFS over every layout
// root, producing the ordered render-command stream. Grounded on the
// second half of Clay__CalculateFinalLayout.h.
func (t *Tree) emit() []Command {
	sortRootsByZIndex(t.roots)
	var cmds []Command
	for _, root := range t.roots {
		cmds = append(cmds, t.emitRoot(root)...)
	}
	return cmds
}

func attachPointOffset(box geom.BoundingBox, p AttachPoint) geom.Vector2 {
	var x, y float64
	switch p {
	case AttachLeftTop, AttachLeftCenter, AttachLeftBottom:
		x = box.X
	case AttachCenterTop, AttachCenterCenter, AttachCenterBottom:
		x = box.X + box.Width/2
	case AttachRightTop, AttachRightCenter, AttachRightBottom:
		x = box.X + box.Width
	}
	switch p {
	case AttachLeftTop, AttachCenterTop, AttachRightTop:
		y = box.Y
	case AttachLeftCenter, AttachCenterCenter, AttachRightCenter:
		y = box.Y + box.Height/2
	case AttachLeftBottom, AttachCenterBottom, AttachRightBottom:
		y = box.Y + box.Height
	}
	return geom.Vector2{X: x, Y: y}
}

func isOffscreen(box geom.BoundingBox, surface geom.Dimensions) bool {
	return box.X+box.Width < 0 || box.Y+box.Height < 0 || box.X > surface.Width || box.Y > surface.Height
}

func (t *Tree) floatingConfigOf(el *Element) FloatingConfig {
	for i := 0; i < el.ConfigsCount; i++ {
		c := t.configs.Get(el.ConfigsStart + i)
		if c.Type == ConfigFloating {
			return c.Float
		}
	}
	return FloatingConfig{}
}

// emitRoot resolves a floating root's anchor position (if any), pushes
// its clip scissor (if it has a clip ancestor), then DFS-emits the
// subtree and closes the scissor.
func (t *Tree) emitRoot(root Root) []Command {
	rootEl := t.elements.Ptr(root.ElementIndex)
	if rootEl == nil {
		return nil
	}

	basePos := geom.Vector2{}
	if root.Floating {
		if parentItem, ok := t.hashMap.Get(root.ParentID); ok {
			parentEl := t.elements.Ptr(parentItem.ElementIndex)
			if parentEl != nil {
				cfg := t.floatingConfigOf(rootEl)
				parentAttach := attachPointOffset(parentEl.BoundingBox, cfg.AttachParent)
				elementLocal := attachPointOffset(geom.BoundingBox{Width: rootEl.Dimensions.Width, Height: rootEl.Dimensions.Height}, cfg.AttachElement)
				basePos = geom.Vector2{
					X: parentAttach.X - elementLocal.X + cfg.Offset.X,
					Y: parentAttach.Y - elementLocal.Y + cfg.Offset.Y,
				}
			}
		}
	}

	rootEl.Offset = basePos
	rootEl.BoundingBox = geom.BoundingBox{X: basePos.X, Y: basePos.Y, Width: rootEl.Dimensions.Width, Height: rootEl.Dimensions.Height}
	if item := t.hashMap.Ptr(rootEl.ID); item != nil {
		item.BoundingBox = ident.BoundingBox(t.toIdentBox(rootEl.BoundingBox))
	}

	var cmds []Command
	var clipEl *Element
	if root.ClipElementID != 0 {
		if item, ok := t.hashMap.Get(root.ClipElementID); ok {
			clipEl = t.elements.Ptr(item.ElementIndex)
		}
		if clipEl != nil {
			cmds = append(cmds, Command{BoundingBox: clipEl.BoundingBox, CommandType: CommandScissorStart, ID: ident.HashNumber(rootEl.ID, uint32(rootEl.ChildrenCount)+10), ZIndex: root.ZIndex})
		}
	}

	cmds = append(cmds, t.emitElement(root.ElementIndex, root.ZIndex)...)

	if clipEl != nil {
		cmds = append(cmds, Command{CommandType: CommandScissorEnd, ID: ident.HashNumber(rootEl.ID, uint32(rootEl.ChildrenCount)+11), ZIndex: root.ZIndex})
	}
	return cmds
}

func (t *Tree) toIdentBox(b geom.BoundingBox) ident.BoundingBox {
	return ident.BoundingBox{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// sortedConfigs returns el's configs ordered "Clip first, Border last"
// via a stable sort, matching the C source's fixed-size sorted-index
// array (§9 Open Question: this reimplementation sizes that array
// dynamically rather than truncating at 20 entries).
func (t *Tree) sortedConfigs(el *Element) []Config {
	out := make([]Config, el.ConfigsCount)
	for i := 0; i < el.ConfigsCount; i++ {
		out[i] = t.configs.Get(el.ConfigsStart + i)
	}
	key := func(c Config) int {
		switch c.Type {
		case ConfigClip:
			return 0
		case ConfigBorder:
			return 2
		default:
			return 1
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

// emitElement renders idx's own configs, descends into its children
// (positioning them with padding/gap/alignment and any scroll offset),
// then emits its border (if any) and closes its scissor (if any). It
// always recurses even when idx is offscreen, since a floating descendant
// may still be visible.
func (t *Tree) emitElement(idx int, zIndex int16) []Command {
	el := t.elements.Ptr(idx)
	if el == nil {
		return nil
	}
	offscreen := isOffscreen(el.BoundingBox, t.dimensions)

	cfgs := t.sortedConfigs(el)
	var clipCfg, borderCfg, sharedCfg *Config
	var cmds []Command
	emittedRectOrImage := false

	for i := range cfgs {
		c := &cfgs[i]
		switch c.Type {
		case ConfigClip:
			clipCfg = c
			if !offscreen {
				cmds = append(cmds, Command{BoundingBox: el.BoundingBox, CommandType: CommandScissorStart, ID: el.ID, ZIndex: zIndex})
			}
		case ConfigShared:
			sharedCfg = c
		case ConfigImage:
			if !offscreen {
				bg, cr := sharedColor(sharedCfg), sharedRadius(sharedCfg)
				cmds = append(cmds, Command{
					BoundingBox: el.BoundingBox, CommandType: CommandImage, ID: el.ID, ZIndex: zIndex,
					RenderData: RenderData{Image: ImageRenderData{BackgroundColor: bg, CornerRadius: cr, ImageData: c.Image.ImageData}},
				})
			}
			emittedRectOrImage = true
		case ConfigCustom:
			if !offscreen {
				cmds = append(cmds, Command{
					BoundingBox: el.BoundingBox, CommandType: CommandCustom, ID: el.ID, ZIndex: zIndex,
					RenderData: RenderData{Custom: CustomRenderData{CustomData: c.Custom.CustomData}},
				})
			}
			emittedRectOrImage = true
		case ConfigBorder:
			borderCfg = c
		}
	}

	if sharedCfg != nil && !emittedRectOrImage && sharedCfg.Shared.BackgroundColor.A > 0 && !offscreen {
		cmds = append(cmds, Command{
			BoundingBox: el.BoundingBox, CommandType: CommandRectangle, ID: el.ID, ZIndex: zIndex,
			RenderData: RenderData{Rectangle: RectangleRenderData{BackgroundColor: sharedCfg.Shared.BackgroundColor, CornerRadius: sharedCfg.Shared.CornerRadius}},
		})
	}

	if el.TextIndex >= 0 && !offscreen {
		cmds = append(cmds, t.emitText(el, zIndex)...)
	}

	childLayout := t.layoutChildren(el, clipCfg, sharedUserData(sharedCfg))
	for _, cl := range childLayout {
		if item := t.hashMap.Ptr(cl.el.ID); item != nil {
			item.BoundingBox = t.toIdentBox(cl.box)
		}
		cmds = append(cmds, t.emitElement(cl.idx, zIndex)...)
	}

	if borderCfg != nil && !offscreen {
		cmds = append(cmds, t.emitBorder(el, zIndex, borderCfg, childLayout)...)
	}

	if clipCfg != nil && !offscreen {
		cmds = append(cmds, Command{CommandType: CommandScissorEnd, ID: el.ID, ZIndex: zIndex})
	}

	return cmds
}

func sharedColor(c *Config) geom.Color {
	if c == nil {
		return geom.Color{}
	}
	return c.Shared.BackgroundColor
}

func sharedRadius(c *Config) geom.CornerRadius {
	if c == nil {
		return geom.CornerRadius{}
	}
	return c.Shared.CornerRadius
}

func sharedUserData(c *Config) any {
	if c == nil {
		return nil
	}
	return c.Shared.UserData
}

type childPlacement struct {
	idx int
	el  *Element
	box geom.BoundingBox
}

// layoutChildren computes each non-floating child's absolute bounding
// box: padding and on-axis alignment determine the leading offset
// (extraSpace = parentSize - padding - contentSize, clamped >= 0,
// distributed per alignment), off-axis alignment positions each child
// independently, and a clip ancestor's scroll offset shifts every child
// uniformly. That offset is either the persistent ChildOffset merged in
// at declaration time, or, when the clip enables external scroll
// handling, the result of querying the host's QueryScrollOffsetFunc right
// here during the final position pass rather than during sizing.
func (t *Tree) layoutChildren(el *Element, clipCfg *Config, userData any) []childPlacement {
	n := el.ChildrenCount
	if n == 0 {
		return nil
	}
	axisIsX := el.Layout.Direction == LeftToRight
	pad := el.Layout.Padding
	gap := float64(el.Layout.ChildGap)

	var kids []*Element
	var idxs []int
	for i := 0; i < n; i++ {
		ci := int(t.children.Get(el.ChildrenStart + i))
		ce := t.elements.Ptr(ci)
		if ce == nil || ce.FloatingIndex > 0 {
			continue
		}
		kids = append(kids, ce)
		idxs = append(idxs, ci)
	}
	if len(kids) == 0 {
		return nil
	}

	var content float64
	for i, ce := range kids {
		if axisIsX {
			content += ce.Dimensions.Width
		} else {
			content += ce.Dimensions.Height
		}
		if i > 0 {
			content += gap
		}
	}

	var parentAxisSize, padOnAxis float64
	if axisIsX {
		parentAxisSize, padOnAxis = el.Dimensions.Width, pad.Horizontal()
	} else {
		parentAxisSize, padOnAxis = el.Dimensions.Height, pad.Vertical()
	}
	extraSpace := parentAxisSize - padOnAxis - content
	if extraSpace < 0 {
		extraSpace = 0
	}

	var leading float64
	if axisIsX {
		switch el.Layout.ChildAlignment.X {
		case AlignXCenter:
			leading = extraSpace / 2
		case AlignXRight:
			leading = extraSpace
		}
	} else {
		switch el.Layout.ChildAlignment.Y {
		case AlignYCenter:
			leading = extraSpace / 2
		case AlignYBottom:
			leading = extraSpace
		}
	}

	scrollOffset := geom.Vector2{}
	if clipCfg != nil {
		switch {
		case clipCfg.Clip.ExternalScrollHandling && t.queryScrollOffset != nil:
			scrollOffset = t.queryScrollOffset(el.ID, userData)
		case !clipCfg.Clip.ExternalScrollHandling:
			scrollOffset = clipCfg.Clip.ChildOffset
		}
	}

	cursor := leading
	out := make([]childPlacement, 0, len(kids))
	for i, ce := range kids {
		var localX, localY float64
		if axisIsX {
			localX = float64(pad.Left) + cursor
			switch el.Layout.ChildAlignment.Y {
			case AlignYTop:
				localY = float64(pad.Top)
			case AlignYCenter:
				localY = float64(pad.Top) + (el.Dimensions.Height-pad.Vertical()-ce.Dimensions.Height)/2
			case AlignYBottom:
				localY = el.Dimensions.Height - float64(pad.Bottom) - ce.Dimensions.Height
			}
		} else {
			localY = float64(pad.Top) + cursor
			switch el.Layout.ChildAlignment.X {
			case AlignXLeft:
				localX = float64(pad.Left)
			case AlignXCenter:
				localX = float64(pad.Left) + (el.Dimensions.Width-pad.Horizontal()-ce.Dimensions.Width)/2
			case AlignXRight:
				localX = el.Dimensions.Width - float64(pad.Right) - ce.Dimensions.Width
			}
		}

		absX := el.BoundingBox.X + localX + scrollOffset.X
		absY := el.BoundingBox.Y + localY + scrollOffset.Y
		box := geom.BoundingBox{X: absX, Y: absY, Width: ce.Dimensions.Width, Height: ce.Dimensions.Height}
		ce.Offset = geom.Vector2{X: absX, Y: absY}
		ce.BoundingBox = box
		out = append(out, childPlacement{idx: idxs[i], el: ce, box: box})

		if axisIsX {
			cursor += ce.Dimensions.Width + gap
		} else {
			cursor += ce.Dimensions.Height + gap
		}
	}
	return out
}

// emitText produces one Text render command per wrapped line, offsetting
// x by the configured alignment and accumulating y by line height plus
// half-leading per spec.md §4.6 step 5.
func (t *Tree) emitText(el *Element, zIndex int16) []Command {
	td := t.texts.Get(el.TextIndex)
	if len(td.Lines) == 0 {
		return nil
	}
	lineHeight := float64(td.Config.LineHeight)
	if lineHeight <= 0 {
		lineHeight = td.Entry.Dimensions.Height
	}
	naturalHeight := td.Entry.Dimensions.Height
	halfLeading := (lineHeight - naturalHeight) / 2

	cmds := make([]Command, 0, len(td.Lines))
	y := el.BoundingBox.Y
	for _, line := range td.Lines {
		var x float64
		switch td.Config.TextAlignment {
		case measureAlignCenter:
			x = el.BoundingBox.X + (el.BoundingBox.Width-line.Dimensions.Width)/2
		case measureAlignRight:
			x = el.BoundingBox.X + el.BoundingBox.Width - line.Dimensions.Width
		default:
			x = el.BoundingBox.X
		}
		cmds = append(cmds, Command{
			BoundingBox: geom.BoundingBox{X: x, Y: y + halfLeading, Width: line.Dimensions.Width, Height: naturalHeight},
			CommandType: CommandText,
			ID:          el.ID,
			ZIndex:      zIndex,
			RenderData: RenderData{Text: TextRenderData{
				StringContents: td.Text[line.Start:line.End],
				BaseString:     td.Text,
				ByteOffset:     line.Start,
				Color:          geom.Color{R: td.Config.Color[0], G: td.Config.Color[1], B: td.Config.Color[2], A: td.Config.Color[3]},
				FontID:         td.Config.FontID,
				FontSize:       td.Config.FontSize,
				LetterSpacing:  td.Config.LetterSpacing,
				LineHeight:     td.Config.LineHeight,
			}},
		})
		y += lineHeight
	}
	return cmds
}

// emitBorder draws the four edge borders around el plus, for each gap
// between children, a thin rectangle on the gap's midline. Preserving the
// C source's documented quirk (spec.md §9 Open Question): the
// between-children rectangle is still emitted when the gap is zero-width
// (guarded only by i>0) and spans the element's full height/width rather
// than the inner-content height/width.
func (t *Tree) emitBorder(el *Element, zIndex int16, cfg *Config, children []childPlacement) []Command {
	w := cfg.Border.Widths
	color := cfg.Border.Color
	b := el.BoundingBox
	var cmds []Command
	if w.Top > 0 {
		cmds = append(cmds, borderRect(geom.BoundingBox{X: b.X, Y: b.Y, Width: b.Width, Height: float64(w.Top)}, color, zIndex, el.ID))
	}
	if w.Bottom > 0 {
		cmds = append(cmds, borderRect(geom.BoundingBox{X: b.X, Y: b.Y + b.Height - float64(w.Bottom), Width: b.Width, Height: float64(w.Bottom)}, color, zIndex, el.ID))
	}
	if w.Left > 0 {
		cmds = append(cmds, borderRect(geom.BoundingBox{X: b.X, Y: b.Y, Width: float64(w.Left), Height: b.Height}, color, zIndex, el.ID))
	}
	if w.Right > 0 {
		cmds = append(cmds, borderRect(geom.BoundingBox{X: b.X + b.Width - float64(w.Right), Y: b.Y, Width: float64(w.Right), Height: b.Height}, color, zIndex, el.ID))
	}

	if w.BetweenChildren > 0 {
		axisIsX := el.Layout.Direction == LeftToRight
		gap := float64(el.Layout.ChildGap)
		for i, cp := range children {
			if i == 0 {
				continue
			}
			prev := children[i-1]
			if axisIsX {
				midline := prev.box.X + prev.box.Width + gap/2
				cmds = append(cmds, borderRect(geom.BoundingBox{
					X: midline - float64(w.BetweenChildren)/2, Y: b.Y,
					Width: float64(w.BetweenChildren), Height: b.Height,
				}, color, zIndex, el.ID))
			} else {
				midline := prev.box.Y + prev.box.Height + gap/2
				cmds = append(cmds, borderRect(geom.BoundingBox{
					X: b.X, Y: midline - float64(w.BetweenChildren)/2,
					Width: b.Width, Height: float64(w.BetweenChildren),
				}, color, zIndex, el.ID))
			}
			_ = cp
		}
	}
	return cmds
}

func borderRect(box geom.BoundingBox, color geom.Color, zIndex int16, id uint32) Command {
	return Command{
		BoundingBox: box,
		CommandType: CommandRectangle,
		ID:          id,
		ZIndex:      zIndex,
		RenderData:  RenderData{Rectangle: RectangleRenderData{BackgroundColor: color}},
	}
}

// measureAlignCenter/measureAlignRight mirror measure.TextAlignment's
// values without importing that package's constant names twice at each
// call site (the field on TextConfig is already typed measure.TextAlignment).
const (
	measureAlignLeft   = 0
	measureAlignCenter = 1
	measureAlignRight  = 2
)
