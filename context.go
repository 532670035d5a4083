package clay

import (
	"github.com/kryvoslayout/clay/internal/arena"
	"github.com/kryvoslayout/clay/internal/ident"
	"github.com/kryvoslayout/clay/internal/layout"
)

// Context is the engine's process-wide current-context state: a single
// arena-backed tree plus the persistent structures (hash map, scroll
// states, measure cache) that survive across frames. It is not safe for
// concurrent use — hosts that need parallel layouts instantiate one
// Context per thread and never share one across threads simultaneously
// (spec.md §5).
type Context struct {
	arena *arena.Arena
	tree  *layout.Tree
}

var currentContext *Context

// SetCurrentContext installs ctx as the context every package-level
// declaration call (BeginLayout, OpenElement, ...) operates on.
func SetCurrentContext(ctx *Context) { currentContext = ctx }

// CurrentContext returns the context installed by SetCurrentContext.
func CurrentContext() *Context { return currentContext }

// initConfig accumulates the slab capacities an Option may set, applied
// before the arena carves out the tree's slabs.
type initConfig struct {
	maxElementCount              int
	maxMeasureTextCacheWordCount int
	maxMeasureTextCacheEntries   int
}

// Option configures slab capacities for Initialize, applied in the order
// passed. Unset capacities fall back to layout.NewTree's defaults.
type Option func(*initConfig)

// WithMaxElementCount sets the per-frame element capacity, sizing a slab
// carved out of the arena.
func WithMaxElementCount(n int) Option {
	return func(c *initConfig) { c.maxElementCount = n }
}

// WithMaxMeasureTextCacheWordCount sets the text-measure cache's word
// slab capacity.
func WithMaxMeasureTextCacheWordCount(n int) Option {
	return func(c *initConfig) { c.maxMeasureTextCacheWordCount = n }
}

// WithMaxMeasureTextCacheEntries sets the text-measure cache's
// fingerprint table capacity.
func WithMaxMeasureTextCacheEntries(n int) Option {
	return func(c *initConfig) { c.maxMeasureTextCacheEntries = n }
}

// Initialize constructs a Context over the caller-provided arena buffer,
// sized to dimensions, reporting failures to errorHandler. opts size the
// tree's slabs before they are carved out of the arena; pass none to take
// layout.NewTree's defaults. The element, children, config, text and
// measure-word slabs are carved cache-line aligned from the provided
// block; the open/clip stacks, layout roots, wrapped lines, hash map and
// measure entry table are ordinary Go slices outside it.
func Initialize(arenaBuf []byte, dimensions Dimensions, errorHandler ErrorHandler, opts ...Option) *Context {
	var cfg initConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := &Context{arena: arena.New(arenaBuf)}
	tree, ok := layout.NewTree(ctx.arena, layout.Config2{
		MaxElementCount:              cfg.maxElementCount,
		MaxMeasureTextCacheWordCount: cfg.maxMeasureTextCacheWordCount,
		MaxMeasureTextCacheEntries:   cfg.maxMeasureTextCacheEntries,
	}, errorHandler, nil)
	if !ok {
		if errorHandler != nil {
			errorHandler(ErrorData{Type: ErrArenaCapacityExceeded, Message: "arena too small for requested slab capacities"})
		}
		return ctx
	}
	ctx.tree = tree
	tree.SetLayoutDimensions(dimensions)
	return ctx
}

// SetMeasureTextFunction installs the host's text measurement callback.
func (c *Context) SetMeasureTextFunction(fn MeasureFunc) {
	if c.tree != nil {
		c.tree.SetMeasureTextFunction(fn)
	}
}

// SetQueryScrollOffsetFunction installs the host's external-scroll-handling
// callback (spec.md §6), consulted only for clip elements declared with
// ClipConfig.ExternalScrollHandling set.
func (c *Context) SetQueryScrollOffsetFunction(fn QueryScrollOffsetFunc) {
	if c.tree != nil {
		c.tree.SetQueryScrollOffsetFunction(fn)
	}
}

// SetLayoutDimensions updates the surface the synthetic root is sized to,
// called before BeginLayout on a resize.
func (c *Context) SetLayoutDimensions(d Dimensions) {
	if c.tree != nil {
		c.tree.SetLayoutDimensions(d)
	}
}

// ScrollContainers returns every tracked persistent scroll state, for a
// host driving scrollbars or animating ScrollPosition between frames.
func (c *Context) ScrollContainers() []ScrollContainerData {
	if c.tree == nil {
		return nil
	}
	return c.tree.ScrollTracker().All()
}

// BeginLayout resets the ephemeral per-frame state and opens the
// synthetic root at the current layout dimensions.
func BeginLayout() {
	if currentContext != nil && currentContext.tree != nil {
		currentContext.tree.BeginLayout()
	}
}

// elementID resolves a declaration's string id to a stable 32-bit id, or
// 0 (anonymous) if empty.
func elementID(s string) uint32 {
	if s == "" {
		return 0
	}
	return ident.HashString(s, 0)
}

// OpenElement opens a new child of the currently open element, configured
// per decl, and pushes it onto the open stack. Pair with CloseElement.
func OpenElement(decl ElementDeclaration) {
	ctx := currentContext
	if ctx == nil || ctx.tree == nil {
		return
	}
	idx := ctx.tree.OpenElement(elementID(decl.ID))
	if idx < 0 {
		return
	}
	ctx.tree.SetLayout(decl.Layout)

	ctx.tree.ConfigureOpen(layout.Config{
		Type: layout.ConfigShared,
		Shared: layout.SharedConfig{
			BackgroundColor: decl.BackgroundColor,
			CornerRadius:    decl.CornerRadius,
			UserData:        decl.UserData,
		},
	})
	if decl.Image != nil {
		ctx.tree.ConfigureOpen(layout.Config{Type: layout.ConfigImage, Image: layout.ImageConfig{ImageData: decl.Image.ImageData}})
	}
	if decl.Aspect != nil {
		ctx.tree.ConfigureOpen(layout.Config{Type: layout.ConfigAspectRatio, Aspect: layout.AspectRatioConfig{AspectRatio: decl.Aspect.AspectRatio}})
	}
	if decl.Custom != nil {
		ctx.tree.ConfigureOpen(layout.Config{Type: layout.ConfigCustom, Custom: layout.CustomConfig{CustomData: decl.Custom.CustomData}})
	}
	if decl.Clip != nil {
		ctx.tree.ConfigureOpen(layout.Config{Type: layout.ConfigClip, Clip: layout.ClipConfig{
			Horizontal:             decl.Clip.Horizontal,
			Vertical:               decl.Clip.Vertical,
			ChildOffset:            decl.Clip.ChildOffset,
			ExternalScrollHandling: decl.Clip.ExternalScrollHandling,
		}})
	}
	if decl.Border != nil {
		ctx.tree.ConfigureOpen(layout.Config{Type: layout.ConfigBorder, Border: layout.BorderConfig{
			Widths: decl.Border.Widths,
			Color:  decl.Border.Color,
		}})
	}
	if decl.Floating != nil {
		ctx.tree.ConfigureOpen(layout.Config{Type: layout.ConfigFloating, Float: layout.FloatingConfig{
			Offset:             decl.Floating.Offset,
			Expand:             decl.Floating.Expand,
			ZIndex:             decl.Floating.ZIndex,
			ParentID:           elementID(decl.Floating.ParentID),
			AttachElement:      decl.Floating.AttachElement,
			AttachParent:       decl.Floating.AttachParent,
			AttachTo:           decl.Floating.AttachTo,
			PointerCaptureMode: decl.Floating.PointerCaptureMode,
		}})
	}
}

// CloseElement finalizes the currently open element and pops it.
func CloseElement() {
	if currentContext != nil && currentContext.tree != nil {
		currentContext.tree.CloseElement()
	}
}

// OpenText declares a text leaf with the given string and config. It
// opens and closes itself; callers do not call CloseElement for it.
func OpenText(text string, config TextConfig) {
	if currentContext != nil && currentContext.tree != nil {
		currentContext.tree.OpenText(text, config)
	}
}

// EndLayout closes the synthetic root, runs the sizing solver and final
// traversal, and returns the ordered render-command stream.
func EndLayout() []RenderCommand {
	if currentContext == nil || currentContext.tree == nil {
		return nil
	}
	return currentContext.tree.EndLayout()
}
