package layout

import (
	"fmt"

	"github.com/kryvoslayout/clay/geom"
	"github.com/kryvoslayout/clay/internal/arena"
	"github.com/kryvoslayout/clay/internal/ident"
	"github.com/kryvoslayout/clay/internal/measure"
	"github.com/kryvoslayout/clay/internal/slab"
)

// ErrorType enumerates the taxonomized failures the engine reports
// through its error handler; it never panics.
type ErrorType uint8

const (
	ErrTextMeasurementFunctionNotProvided ErrorType = iota
	ErrArenaCapacityExceeded
	ErrElementsCapacityExceeded
	ErrTextMeasurementCapacityExceeded
	ErrDuplicateID
	ErrFloatingContainerParentNotFound
	ErrPercentageOver1
	ErrUnbalancedOpenClose
	ErrInternalError
)

// ErrorData is the record passed to a host's error handler.
type ErrorData struct {
	Type      ErrorType
	Message   string
	UserData  any
}

// ErrorHandler receives one ErrorData per reported occurrence.
type ErrorHandler func(ErrorData)

const rootParentIndex = -1

// Tree owns one frame's element tree plus the persistent structures that
// survive across frames (hash map, scroll states, measure cache). It is
// the implementation behind the root clay.Context.
type Tree struct {
	elements slab.Slab[Element]
	children slab.Slab[int32]
	configs  slab.Slab[Config]
	texts    slab.Slab[TextData]

	openStack []int
	clipStack []int
	roots     []Root

	hashMap *ident.Map
	scroll  *ScrollTracker
	measure *measure.Cache

	queryScrollOffset QueryScrollOffsetFunc

	dimensions geom.Dimensions
	generation uint32

	errorHandler ErrorHandler
	errUserData  any

	maxElementsExceeded bool
	frameErrorsLatched  map[ErrorType]bool

	floatingChildrenCount int
}

// Config knobs that must be set before NewTree (they size slabs carved
// from the arena).
type Config2 struct {
	MaxElementCount           int
	MaxMeasureTextCacheWordCount int
	MaxMeasureTextCacheEntries  int
}

// NewTree carves every per-frame slab out of a, sized by cfg, and
// constructs the persistent structures. ok is false if the arena was too
// small for the requested capacities.
func NewTree(a *arena.Arena, cfg Config2, errorHandler ErrorHandler, errUserData any) (*Tree, bool) {
	if cfg.MaxElementCount <= 0 {
		cfg.MaxElementCount = 8192
	}
	if cfg.MaxMeasureTextCacheWordCount <= 0 {
		cfg.MaxMeasureTextCacheWordCount = 16384
	}
	if cfg.MaxMeasureTextCacheEntries <= 0 {
		cfg.MaxMeasureTextCacheEntries = 2048
	}

	elements, ok := slab.New[Element](a, cfg.MaxElementCount)
	if !ok {
		return nil, false
	}
	children, ok := slab.New[int32](a, cfg.MaxElementCount)
	if !ok {
		return nil, false
	}
	configs, ok := slab.New[Config](a, cfg.MaxElementCount*4)
	if !ok {
		return nil, false
	}
	texts, ok := slab.New[TextData](a, cfg.MaxElementCount)
	if !ok {
		return nil, false
	}
	mcache, ok := measure.NewCache(a, cfg.MaxMeasureTextCacheWordCount, cfg.MaxMeasureTextCacheEntries)
	if !ok {
		return nil, false
	}

	return &Tree{
		elements:     elements,
		children:     children,
		configs:      configs,
		texts:        texts,
		hashMap:      ident.NewMap(cfg.MaxElementCount),
		scroll:       NewScrollTracker(),
		measure:      mcache,
		errorHandler: errorHandler,
		errUserData:  errUserData,
	}, true
}

func (t *Tree) reportErr(kind ErrorType, format string, args ...any) {
	if t.errorHandler == nil {
		return
	}
	t.errorHandler(ErrorData{Type: kind, Message: fmt.Sprintf(format, args...), UserData: t.errUserData})
}

func (t *Tree) reportOnce(kind ErrorType, format string, args ...any) {
	if t.frameErrorsLatched == nil {
		t.frameErrorsLatched = map[ErrorType]bool{}
	}
	if t.frameErrorsLatched[kind] {
		return
	}
	t.frameErrorsLatched[kind] = true
	t.reportErr(kind, format, args...)
}

// SetMeasureTextFunction installs the host's text-measurement callback.
func (t *Tree) SetMeasureTextFunction(fn measure.Func) { t.measure.SetMeasureFunc(fn) }

// SetQueryScrollOffsetFunction installs the host's external-scroll-handling
// callback, consulted during the final position pass for clip elements
// whose ClipConfig.ExternalScrollHandling is set.
func (t *Tree) SetQueryScrollOffsetFunction(fn QueryScrollOffsetFunc) { t.queryScrollOffset = fn }

// SetLayoutDimensions updates the surface the synthetic root is sized to.
func (t *Tree) SetLayoutDimensions(d geom.Dimensions) { t.dimensions = d }

// BeginLayout resets the ephemeral per-frame slabs, advances the
// generation counter, and opens the synthetic root element at a fixed
// size equal to the layout dimensions.
func (t *Tree) BeginLayout() {
	t.elements.Reset()
	t.children.Reset()
	t.configs.Reset()
	t.texts.Reset()
	t.openStack = t.openStack[:0]
	t.clipStack = t.clipStack[:0]
	t.roots = t.roots[:0]
	t.generation++
	t.measure.BeginFrame(t.generation)
	t.scroll.BeginFrame()
	t.maxElementsExceeded = false
	t.frameErrorsLatched = nil
	t.floatingChildrenCount = 0

	rootIdx, ok := t.elements.Push(Element{
		ID:          ident.HashString("__root__", 0),
		ParentIndex: rootParentIndex,
		TextIndex:   -1,
		Layout: LayoutConfig{
			Sizing: [2]geom.SizingAxis{
				geom.SizingFixedAxis(t.dimensions.Width),
				geom.SizingFixedAxis(t.dimensions.Height),
			},
		},
	})
	if !ok {
		t.maxElementsExceeded = true
		t.reportOnce(ErrElementsCapacityExceeded, "element capacity exceeded opening synthetic root")
		return
	}
	t.openStack = append(t.openStack, rootIdx)
	t.roots = append(t.roots, Root{ElementIndex: rootIdx, ZIndex: 0})
}

// currentParent returns the index of the element currently open on top
// of the stack, or -1 if none (should not happen once BeginLayout ran).
func (t *Tree) currentParent() int {
	if len(t.openStack) == 0 {
		return -1
	}
	return t.openStack[len(t.openStack)-1]
}

// OpenElement pushes a new default (unconfigured) child of the current
// parent and returns its index. If id is 0, an anonymous id is derived
// from the parent's current child count, per spec.md §4.2.
func (t *Tree) OpenElement(id uint32) int {
	if t.maxElementsExceeded {
		return -1
	}
	parentIdx := t.currentParent()
	parent := t.elements.Ptr(parentIdx)

	if id == 0 {
		childOffset := uint32(0)
		if parent != nil {
			childOffset = uint32(parent.ChildrenCount)
		}
		id = ident.HashNumber(childOffset+uint32(t.floatingChildrenCount), parentIDOf(parent))
	}

	if existing := t.hashMap.Ptr(id); existing != nil && existing.Generation == t.generation {
		t.reportOnce(ErrDuplicateID, "duplicate element id %d", id)
	}

	idx, ok := t.elements.Push(Element{ID: id, ParentIndex: parentIdx, TextIndex: -1})
	if !ok {
		t.maxElementsExceeded = true
		t.reportOnce(ErrElementsCapacityExceeded, "element capacity exceeded (max %d)", t.elements.Cap())
		return -1
	}

	// Duplicate ids were already reported above; Bind reuses the first
	// binding's slot regardless so the frame's best-effort tree holds.
	_ = t.hashMap.Bind(id, ident.Item{ElementIndex: idx}, t.generation)

	if parent != nil {
		if parent.ChildrenCount == 0 {
			parent.ChildrenStart = t.children.Len()
		}
		if _, ok := t.children.Push(int32(idx)); !ok {
			t.reportOnce(ErrElementsCapacityExceeded, "children buffer exceeded")
		} else {
			parent.ChildrenCount++
		}
	}

	t.openStack = append(t.openStack, idx)
	return idx
}

func parentIDOf(parent *Element) uint32 {
	if parent == nil {
		return 0
	}
	return parent.ID
}

// ConfigureOpen attaches cfg to the currently open element. Floating and
// Clip configs additionally register bookkeeping (a new layout root, or
// an open-clip-stack entry respectively).
func (t *Tree) ConfigureOpen(cfg Config) {
	if t.maxElementsExceeded {
		return
	}
	idx := t.currentParent()
	el := t.elements.Ptr(idx)
	if el == nil {
		return
	}

	if cfg.Type == ConfigFloating {
		t.floatingChildrenCount++
		el.FloatingIndex = t.floatingChildrenCount
		parentID, clipElementID := t.resolveFloatingAttach(cfg.Float)
		t.roots = append(t.roots, Root{
			ElementIndex:  idx,
			ParentID:      parentID,
			ClipElementID: clipElementID,
			ZIndex:        cfg.Float.ZIndex,
			Floating:      true,
		})
	}

	if cfg.Type == ConfigClip {
		t.clipStack = append(t.clipStack, idx)
		if !cfg.Clip.ExternalScrollHandling {
			state := t.scroll.Open(el.ID)
			cfg.Clip.ChildOffset = state.ScrollPosition.Add(cfg.Clip.ChildOffset)
		}
	}

	if el.ConfigsCount == 0 {
		el.ConfigsStart = t.configs.Len()
	}
	if _, ok := t.configs.Push(cfg); !ok {
		t.reportOnce(ErrElementsCapacityExceeded, "config capacity exceeded")
		return
	}
	el.ConfigsCount++
}

// resolveFloatingAttach turns a FloatingConfig's AttachTo selector into a
// concrete parent id and, if the floating element sits beneath a clip
// ancestor, that ancestor's id (so the emission pass can scissor it).
func (t *Tree) resolveFloatingAttach(f FloatingConfig) (parentID, clipElementID uint32) {
	switch f.AttachTo {
	case AttachToParent:
		if pIdx := t.currentParent(); pIdx >= 0 {
			if p := t.elements.Ptr(pIdx); p != nil {
				parentID = p.ID
			}
		}
	case AttachToElementWithID:
		parentID = f.ParentID
		if _, ok := t.hashMap.Get(parentID); !ok {
			t.reportOnce(ErrFloatingContainerParentNotFound, "floating attach target %d not found", parentID)
		}
	case AttachToRoot:
		if rootEl := t.elements.Ptr(0); rootEl != nil {
			parentID = rootEl.ID
		}
	}
	if len(t.clipStack) > 0 {
		if clipEl := t.elements.Ptr(t.clipStack[len(t.clipStack)-1]); clipEl != nil {
			clipElementID = clipEl.ID
		}
	}
	return
}

// SetLayout assigns the layout configuration of the currently open
// element.
func (t *Tree) SetLayout(cfg LayoutConfig) {
	if el := t.elements.Ptr(t.currentParent()); el != nil {
		el.Layout = cfg
	}
}

// OpenText appends a leaf text element, measuring it immediately so its
// word list is available to the wrapper later.
func (t *Tree) OpenText(text string, cfg measure.TextConfig) int {
	idx := t.OpenElement(0)
	if idx < 0 {
		return -1
	}
	el := t.elements.Ptr(idx)

	fp := ident.HashString(text, uint32(cfg.FontID)^uint32(cfg.FontSize)<<16^uint32(cfg.LetterSpacing))
	entry, ok := t.measure.Measure(fp, text, cfg, cfg.UserData)
	if !ok {
		switch {
		case t.measure.MissingFunction():
			t.reportOnce(ErrTextMeasurementFunctionNotProvided, "no measure text function set")
		case t.measure.CapacityExceeded():
			t.reportOnce(ErrTextMeasurementCapacityExceeded, "text measurement cache capacity exceeded")
		}
	}

	ti, ok := t.texts.Push(TextData{Text: text, Entry: entry, Config: cfg})
	if !ok {
		t.reportOnce(ErrElementsCapacityExceeded, "text element capacity exceeded")
		t.CloseElement()
		return idx
	}
	el.TextIndex = ti
	el.Dimensions = geom.Dimensions{Width: entry.Dimensions.Width, Height: entry.Dimensions.Height}
	el.MinDimensions = geom.Dimensions{Width: entry.MinWidth, Height: entry.Dimensions.Height}
	el.Layout.Sizing = [2]geom.SizingAxis{
		geom.SizingFitAxis(geom.MinMax{}),
		geom.SizingFitAxis(geom.MinMax{}),
	}
	t.CloseElement()
	return idx
}

// CloseElement finalizes the currently open element: accumulates its
// children's sizes into its own dimensions/minDimensions (on-axis: sum +
// gaps; off-axis: max), clamps to its own sizing min/max, then pops it
// off the open stack.
func (t *Tree) CloseElement() {
	if len(t.openStack) == 0 {
		t.reportOnce(ErrUnbalancedOpenClose, "CloseElement called with nothing open")
		return
	}
	idx := t.openStack[len(t.openStack)-1]
	t.openStack = t.openStack[:len(t.openStack)-1]
	el := t.elements.Ptr(idx)
	if el == nil {
		return
	}
	if el.TextIndex >= 0 {
		return // leaf text elements already have their dimensions set.
	}

	var sumW, maxW, sumH, maxH, minSumW, minMaxW, minSumH, minMaxH float64
	gap := float64(el.Layout.ChildGap)
	n := 0
	for i := 0; i < el.ChildrenCount; i++ {
		childIdx := int(t.children.Get(el.ChildrenStart + i))
		child := t.elements.Ptr(childIdx)
		if child == nil || child.FloatingIndex > 0 {
			continue // floating children never contribute to parent size.
		}
		n++
		sumW += child.Dimensions.Width
		minSumW += child.MinDimensions.Width
		if child.Dimensions.Width > maxW {
			maxW = child.Dimensions.Width
		}
		if child.MinDimensions.Width > minMaxW {
			minMaxW = child.MinDimensions.Width
		}
		sumH += child.Dimensions.Height
		minSumH += child.MinDimensions.Height
		if child.Dimensions.Height > maxH {
			maxH = child.Dimensions.Height
		}
		if child.MinDimensions.Height > minMaxH {
			minMaxH = child.MinDimensions.Height
		}
	}
	gaps := 0.0
	if n > 1 {
		gaps = gap * float64(n-1)
	}

	var contentW, contentH, minContentW, minContentH float64
	if el.Layout.Direction == LeftToRight {
		contentW, contentH = sumW+gaps, maxH
		minContentW, minContentH = minSumW+gaps, minMaxH
	} else {
		contentW, contentH = maxW, sumH+gaps
		minContentW, minContentH = minMaxW, minSumH+gaps
	}

	padW := el.Layout.Padding.Horizontal()
	padH := el.Layout.Padding.Vertical()

	el.Dimensions.Width = contentW + padW
	el.Dimensions.Height = contentH + padH
	el.MinDimensions.Width = minContentW + padW
	el.MinDimensions.Height = minContentH + padH

	clipH, clipV := t.elementClipsAxes(el)
	el.Dimensions.Width, el.MinDimensions.Width = clampAxis(el.Layout.Sizing[AxisX], el.Dimensions.Width, el.MinDimensions.Width, clipH)
	el.Dimensions.Height, el.MinDimensions.Height = clampAxis(el.Layout.Sizing[AxisY], el.Dimensions.Height, el.MinDimensions.Height, clipV)

	t.updateAspectRatio(el, true)

	if len(t.clipStack) > 0 && t.clipStack[len(t.clipStack)-1] == idx {
		t.clipStack = t.clipStack[:len(t.clipStack)-1]
	}
}

func (t *Tree) elementClipsAxes(el *Element) (h, v bool) {
	for i := 0; i < el.ConfigsCount; i++ {
		c := t.configs.Get(el.ConfigsStart + i)
		if c.Type == ConfigClip {
			return c.Clip.Horizontal, c.Clip.Vertical
		}
	}
	return false, false
}

// clampAxis clamps size/minSize to the sizing axis's min/max, skipping
// the min-clamp when the element clips this axis (a clipped axis is
// allowed to shrink below its content, per spec.md §4.4).
func clampAxis(sizing geom.SizingAxis, size, minSize float64, clips bool) (float64, float64) {
	switch sizing.Type {
	case geom.SizingFixed:
		return sizing.MinMax.Min, sizing.MinMax.Min
	case geom.SizingFit, geom.SizingGrow:
		lo, hi := sizing.MinMax.Min, sizing.MinMax.Max
		if hi <= 0 {
			hi = size
			if hi < lo {
				hi = lo
			}
		}
		out := size
		if clips {
			if out > hi {
				out = hi
			}
		} else {
			out = geom.ClampF64(out, lo, hi)
		}
		minOut := minSize
		if !clips && minOut < lo {
			minOut = lo
		}
		return out, minOut
	default:
		return size, minSize
	}
}

func (t *Tree) updateAspectRatio(el *Element, fromClose bool) {
	for i := 0; i < el.ConfigsCount; i++ {
		c := t.configs.Get(el.ConfigsStart + i)
		if c.Type == ConfigAspectRatio && c.Aspect.AspectRatio > 0 {
			if fromClose {
				el.Dimensions.Height = el.Dimensions.Width / c.Aspect.AspectRatio
				if el.Dimensions.Height > el.Layout.Sizing[AxisY].MinMax.Max && el.Layout.Sizing[AxisY].MinMax.Max > 0 {
					el.Dimensions.Height = el.Layout.Sizing[AxisY].MinMax.Max
				}
			} else {
				el.Dimensions.Width = el.Dimensions.Height * c.Aspect.AspectRatio
			}
			return
		}
	}
}

// EndLayout closes the synthetic root (reporting UNBALANCED_OPEN_CLOSE if
// more than the root remains open), runs the two-pass sizing solver and
// the final traversal, and returns the render-command stream.
func (t *Tree) EndLayout() []Command {
	if len(t.openStack) != 1 {
		t.reportOnce(ErrUnbalancedOpenClose, "unbalanced Open/Close: %d element(s) still open", len(t.openStack)-1)
		for len(t.openStack) > 1 {
			t.CloseElement()
		}
	}
	t.CloseElement() // close the synthetic root

	t.SizeAlongAxis(AxisX)
	for i := 0; i < t.elements.Len(); i++ {
		t.updateAspectRatio(t.elements.Ptr(i), true)
	}
	t.WrapText()
	t.SizeAlongAxis(AxisY)
	t.propagateAspectRatioWidths()

	cmds := t.emit()

	if t.maxElementsExceeded {
		cmds = append(cmds, Command{
			BoundingBox: geom.BoundingBox{X: 0, Y: 0, Width: t.dimensions.Width, Height: 20},
			CommandType: CommandText,
			ZIndex:      32767,
			RenderData: RenderData{Text: TextRenderData{
				StringContents: "Clay Error: Element capacity exceeded.",
				Color:          geom.Color{R: 255, A: 255},
			}},
		})
	}
	return cmds
}

func (t *Tree) propagateAspectRatioWidths() {
	for i := 0; i < t.elements.Len(); i++ {
		el := t.elements.Ptr(i)
		t.updateAspectRatio(el, false)
	}
}

// Elements exposes the live element slice for the solver/wrapper/emitter
// in this package; it is not part of the public API.
func (t *Tree) Elements() *slab.Slab[Element] { return &t.elements }
func (t *Tree) ChildrenBuf() *slab.Slab[int32] { return &t.children }
func (t *Tree) ConfigsBuf() *slab.Slab[Config] { return &t.configs }
func (t *Tree) TextsBuf() *slab.Slab[TextData] { return &t.texts }
func (t *Tree) MeasureCache() *measure.Cache   { return t.measure }
func (t *Tree) Dimensions() geom.Dimensions    { return t.dimensions }
func (t *Tree) Roots() []Root                  { return t.roots }
func (t *Tree) HashMap() *ident.Map            { return t.hashMap }
func (t *Tree) ScrollTracker() *ScrollTracker  { return t.scroll }
func (t *Tree) Generation() uint32             { return t.generation }
