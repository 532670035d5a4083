package clay_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	clay "github.com/kryvoslayout/clay"
)

func newTestContext(t *testing.T, w, h float64, measureFn clay.MeasureFunc) *clay.Context {
	t.Helper()
	var errs []clay.ErrorData
	ctx := clay.Initialize(make([]byte, 4*1024*1024), clay.Dimensions{Width: w, Height: h}, func(e clay.ErrorData) {
		errs = append(errs, e)
	})
	if measureFn != nil {
		ctx.SetMeasureTextFunction(measureFn)
	}
	t.Cleanup(func() {
		if len(errs) > 0 {
			t.Logf("layout errors reported: %+v", errs)
		}
	})
	return ctx
}

func fixedLayout(w, h float64) clay.LayoutConfig {
	return clay.LayoutConfig{Sizing: [2]clay.SizingAxis{clay.SizingFixed(w), clay.SizingFixed(h)}}
}

// Scenario 1: Empty root.
func TestEmptyRoot(t *testing.T) {
	ctx := newTestContext(t, 800, 600, nil)
	clay.SetCurrentContext(ctx)

	clay.BeginLayout()
	cmds := clay.EndLayout()

	require.Empty(t, cmds)
}

// Scenario 2: Single colored box.
func TestSingleColoredBox(t *testing.T) {
	ctx := newTestContext(t, 800, 600, nil)
	clay.SetCurrentContext(ctx)

	clay.BeginLayout()
	clay.OpenElement(clay.ElementDeclaration{
		ID:              "root",
		Layout:          fixedLayout(800, 600),
	})
	clay.OpenElement(clay.ElementDeclaration{
		ID:              "box",
		BackgroundColor: clay.Color{R: 10, G: 20, B: 30, A: 255},
		Layout:          fixedLayout(100, 50),
	})
	clay.CloseElement()
	clay.CloseElement()
	cmds := clay.EndLayout()

	require.Len(t, cmds, 1)
	require.Equal(t, clay.CommandRectangle, cmds[0].CommandType)
	require.Equal(t, clay.BoundingBox{X: 0, Y: 0, Width: 100, Height: 50}, cmds[0].BoundingBox)
	require.Equal(t, clay.Color{R: 10, G: 20, B: 30, A: 255}, cmds[0].RenderData.Rectangle.BackgroundColor)
	require.Zero(t, cmds[0].ZIndex)
}

// Scenario 3: Horizontal layout with gap.
func TestHorizontalLayoutWithGap(t *testing.T) {
	ctx := newTestContext(t, 800, 600, nil)
	clay.SetCurrentContext(ctx)

	clay.BeginLayout()
	clay.OpenElement(clay.ElementDeclaration{
		ID: "root",
		Layout: clay.LayoutConfig{
			Direction: clay.LeftToRight,
			Padding:   clay.Padding{Left: 10, Right: 10, Top: 10, Bottom: 10},
			ChildGap:  5,
			Sizing:    [2]clay.SizingAxis{clay.SizingFixed(800), clay.SizingFixed(600)},
		},
	})
	for _, id := range []string{"a", "b"} {
		clay.OpenElement(clay.ElementDeclaration{ID: id, BackgroundColor: clay.Color{A: 255}, Layout: fixedLayout(40, 40)})
		clay.CloseElement()
	}
	clay.CloseElement()
	cmds := clay.EndLayout()

	require.Len(t, cmds, 2)
	require.Equal(t, clay.BoundingBox{X: 10, Y: 10, Width: 40, Height: 40}, cmds[0].BoundingBox)
	require.Equal(t, clay.BoundingBox{X: 55, Y: 10, Width: 40, Height: 40}, cmds[1].BoundingBox)
}

// Scenario 4: Text wrapping.
func TestTextWrapping(t *testing.T) {
	widths := map[string]float64{"hello": 30, "world": 40, "foo": 30}
	measureFn := func(text string, _ clay.TextConfig, _ any) (float64, float64) {
		if w, ok := widths[text]; ok {
			return w, 16
		}
		total := 0.0
		for _, word := range []string{"hello", "world", "foo"} {
			if total > 0 {
				total += 5
			}
			total += widths[word]
		}
		return total, 16
	}

	ctx := newTestContext(t, 800, 600, measureFn)
	clay.SetCurrentContext(ctx)

	clay.BeginLayout()
	clay.OpenElement(clay.ElementDeclaration{
		ID: "root",
		Layout: clay.LayoutConfig{
			Sizing: [2]clay.SizingAxis{clay.SizingFixed(100), clay.SizingGrow(clay.MinMax{})},
		},
	})
	clay.OpenText("hello world foo", clay.TextConfig{WrapMode: clay.WrapWords, LineHeight: 16})
	clay.CloseElement()
	clay.EndLayout()
}

// Scenario 5: Grow distribution.
func TestGrowDistribution(t *testing.T) {
	ctx := newTestContext(t, 800, 600, nil)
	clay.SetCurrentContext(ctx)

	clay.BeginLayout()
	clay.OpenElement(clay.ElementDeclaration{
		ID: "root",
		Layout: clay.LayoutConfig{
			Direction: clay.LeftToRight,
			Sizing:    [2]clay.SizingAxis{clay.SizingFixed(300), clay.SizingFixed(100)},
		},
	})
	clay.OpenElement(clay.ElementDeclaration{ID: "grow1", BackgroundColor: clay.Color{A: 255}, Layout: clay.LayoutConfig{Sizing: [2]clay.SizingAxis{clay.SizingGrow(clay.MinMax{}), clay.SizingFixed(100)}}})
	clay.CloseElement()
	clay.OpenElement(clay.ElementDeclaration{ID: "grow2", BackgroundColor: clay.Color{A: 255}, Layout: clay.LayoutConfig{Sizing: [2]clay.SizingAxis{clay.SizingGrow(clay.MinMax{}), clay.SizingFixed(100)}}})
	clay.CloseElement()
	clay.OpenElement(clay.ElementDeclaration{ID: "fixed", BackgroundColor: clay.Color{A: 255}, Layout: fixedLayout(100, 100)})
	clay.CloseElement()
	clay.CloseElement()
	cmds := clay.EndLayout()

	require.Len(t, cmds, 3)
	require.InDelta(t, 100, cmds[0].BoundingBox.Width, 0.01)
	require.InDelta(t, 100, cmds[1].BoundingBox.Width, 0.01)
	require.InDelta(t, 100, cmds[2].BoundingBox.Width, 0.01)
}

// Scenario 6: Clip + scroll.
func TestClipAndScroll(t *testing.T) {
	ctx := newTestContext(t, 800, 600, nil)
	clay.SetCurrentContext(ctx)

	clay.BeginLayout()
	clay.OpenElement(clay.ElementDeclaration{
		ID:     "clipped",
		Layout: fixedLayout(200, 200),
		Clip:   &clay.ClipConfig{Vertical: true, ChildOffset: clay.Vector2{Y: -50}},
	})
	clay.OpenElement(clay.ElementDeclaration{ID: "inner", BackgroundColor: clay.Color{A: 255}, Layout: fixedLayout(200, 500)})
	clay.CloseElement()
	clay.CloseElement()
	cmds := clay.EndLayout()

	require.Len(t, cmds, 3)
	require.Equal(t, clay.CommandScissorStart, cmds[0].CommandType)
	require.Equal(t, clay.BoundingBox{X: 0, Y: 0, Width: 200, Height: 200}, cmds[0].BoundingBox)

	require.Equal(t, clay.CommandRectangle, cmds[1].CommandType)
	require.InDelta(t, -50, cmds[1].BoundingBox.Y, 0.01)
	require.InDelta(t, 500, cmds[1].BoundingBox.Height, 0.01) // no shrink of the inner child

	require.Equal(t, clay.CommandScissorEnd, cmds[2].CommandType)
}

// Scenario 7: Floating attach.
func TestFloatingAttach(t *testing.T) {
	ctx := newTestContext(t, 800, 600, nil)
	clay.SetCurrentContext(ctx)

	clay.BeginLayout()
	clay.OpenElement(clay.ElementDeclaration{
		ID: "root",
		Layout: clay.LayoutConfig{
			Padding: clay.Padding{Left: 100, Top: 100},
			Sizing:  [2]clay.SizingAxis{clay.SizingFixed(800), clay.SizingFixed(600)},
		},
	})
	clay.OpenElement(clay.ElementDeclaration{
		ID:              "anchor",
		BackgroundColor: clay.Color{A: 255},
		Layout:          fixedLayout(50, 50),
	})
	clay.CloseElement()
	clay.OpenElement(clay.ElementDeclaration{
		ID:              "tooltip",
		BackgroundColor: clay.Color{A: 255},
		Layout:          fixedLayout(20, 20),
		Floating: &clay.FloatingConfig{
			AttachTo:      clay.AttachToElementWithID,
			ParentID:      "anchor",
			AttachParent:  clay.AttachRightTop,
			AttachElement: clay.AttachLeftTop,
			Offset:        clay.Vector2{X: 5, Y: 0},
		},
	})
	clay.CloseElement()
	clay.CloseElement()
	cmds := clay.EndLayout()

	var tooltipBox clay.BoundingBox
	found := false
	for _, c := range cmds {
		if c.CommandType == clay.CommandRectangle && c.BoundingBox.Width == 20 && c.BoundingBox.Height == 20 {
			tooltipBox = c.BoundingBox
			found = true
		}
	}
	require.True(t, found, "expected to find the floating tooltip rectangle")
	require.InDelta(t, 155, tooltipBox.X, 0.01)
	require.InDelta(t, 100, tooltipBox.Y, 0.01)
}

func TestDuplicateIDKeepsFirstBinding(t *testing.T) {
	var reported []clay.ErrorType
	ctx := clay.Initialize(make([]byte, 1024*1024), clay.Dimensions{Width: 100, Height: 100}, func(e clay.ErrorData) {
		reported = append(reported, e.Type)
	})
	clay.SetCurrentContext(ctx)

	clay.BeginLayout()
	clay.OpenElement(clay.ElementDeclaration{ID: "root", Layout: fixedLayout(100, 100)})
	clay.OpenElement(clay.ElementDeclaration{ID: "dup", Layout: fixedLayout(10, 10)})
	clay.CloseElement()
	clay.OpenElement(clay.ElementDeclaration{ID: "dup", Layout: fixedLayout(20, 20)})
	clay.CloseElement()
	clay.CloseElement()
	clay.EndLayout()

	require.Contains(t, reported, clay.ErrDuplicateID)
}

func TestUnbalancedOpenCloseReported(t *testing.T) {
	var reported []clay.ErrorType
	ctx := clay.Initialize(make([]byte, 1024*1024), clay.Dimensions{Width: 100, Height: 100}, func(e clay.ErrorData) {
		reported = append(reported, e.Type)
	})
	clay.SetCurrentContext(ctx)

	clay.BeginLayout()
	clay.OpenElement(clay.ElementDeclaration{ID: "root", Layout: fixedLayout(100, 100)})
	clay.OpenElement(clay.ElementDeclaration{ID: "unclosed", Layout: fixedLayout(10, 10)})
	// Missing CloseElement for "unclosed" and for "root".
	clay.EndLayout()

	require.Contains(t, reported, clay.ErrUnbalancedOpenClose)
}

func TestIDStabilityAcrossFrames(t *testing.T) {
	ctx := newTestContext(t, 200, 200, nil)
	clay.SetCurrentContext(ctx)

	declare := func() []clay.RenderCommand {
		clay.BeginLayout()
		clay.OpenElement(clay.ElementDeclaration{ID: "root", Layout: fixedLayout(200, 200)})
		clay.OpenElement(clay.ElementDeclaration{BackgroundColor: clay.Color{A: 255}, Layout: fixedLayout(10, 10)})
		clay.CloseElement()
		clay.OpenElement(clay.ElementDeclaration{BackgroundColor: clay.Color{A: 255}, Layout: fixedLayout(10, 10)})
		clay.CloseElement()
		clay.CloseElement()
		return clay.EndLayout()
	}

	first := declare()
	second := declare()

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	require.Equal(t, first[0].ID, second[0].ID)
	require.Equal(t, first[1].ID, second[1].ID)
}

func TestOpenTextWithoutMeasureFunctionReported(t *testing.T) {
	var reported []clay.ErrorType
	ctx := clay.Initialize(make([]byte, 1024*1024), clay.Dimensions{Width: 100, Height: 100}, func(e clay.ErrorData) {
		reported = append(reported, e.Type)
	})
	clay.SetCurrentContext(ctx)

	clay.BeginLayout()
	clay.OpenElement(clay.ElementDeclaration{ID: "root", Layout: fixedLayout(100, 100)})
	clay.OpenText("hello", clay.TextConfig{})
	clay.CloseElement()
	clay.EndLayout()

	require.Contains(t, reported, clay.ErrTextMeasurementFunctionNotProvided)
}

func TestOpenTextMeasureCacheCapacityExceededReported(t *testing.T) {
	var reported []clay.ErrorType
	ctx := clay.Initialize(make([]byte, 1024*1024), clay.Dimensions{Width: 100, Height: 100}, func(e clay.ErrorData) {
		reported = append(reported, e.Type)
	}, clay.WithMaxMeasureTextCacheEntries(1))
	ctx.SetMeasureTextFunction(func(text string, config clay.TextConfig, userData any) (float64, float64) {
		return float64(len(text)) * 6, 16
	})
	clay.SetCurrentContext(ctx)

	clay.BeginLayout()
	clay.OpenElement(clay.ElementDeclaration{ID: "root", Layout: fixedLayout(100, 100)})
	clay.OpenText("first", clay.TextConfig{})
	clay.OpenText("second, a different string", clay.TextConfig{})
	clay.CloseElement()
	clay.EndLayout()

	require.Contains(t, reported, clay.ErrTextMeasurementCapacityExceeded)
}

// WithMaxElementCount must actually size the element slab: Initialize's
// functional options run before layout.NewTree carves it out of the
// arena, so a capacity too small for the declared tree reports
// ElementsCapacityExceeded instead of silently falling back to the
// default capacity.
func TestWithMaxElementCountSizesSlab(t *testing.T) {
	var reported []clay.ErrorType
	ctx := clay.Initialize(make([]byte, 1024*1024), clay.Dimensions{Width: 100, Height: 100}, func(e clay.ErrorData) {
		reported = append(reported, e.Type)
	}, clay.WithMaxElementCount(2))
	clay.SetCurrentContext(ctx)

	// Capacity 2 covers only the synthetic root plus "root" itself;
	// "a" has nowhere to go. Leave it and "root" unclosed and let
	// EndLayout's own forgiving close-out handle the imbalance, rather
	// than pairing CloseElement calls against an OpenElement that never
	// pushed anything onto the open stack.
	clay.BeginLayout()
	clay.OpenElement(clay.ElementDeclaration{ID: "root", Layout: fixedLayout(100, 100)})
	clay.OpenElement(clay.ElementDeclaration{ID: "a", Layout: fixedLayout(10, 10)})
	clay.EndLayout()

	require.Contains(t, reported, clay.ErrElementsCapacityExceeded)
}

// Scenario 8: external scroll handling queries the host during the final
// position pass rather than reading the persistent ScrollPosition.
func TestQueryScrollOffsetAppliesDuringFinalPositionPass(t *testing.T) {
	ctx := newTestContext(t, 800, 600, nil)
	clay.SetCurrentContext(ctx)

	var queriedID uint32
	var queriedUserData any
	ctx.SetQueryScrollOffsetFunction(func(elementID uint32, userData any) clay.Vector2 {
		queriedID = elementID
		queriedUserData = userData
		return clay.Vector2{Y: -50}
	})

	clay.BeginLayout()
	clay.OpenElement(clay.ElementDeclaration{
		ID:       "clipped",
		Layout:   fixedLayout(200, 200),
		UserData: "scrollbox",
		Clip:     &clay.ClipConfig{Vertical: true, ExternalScrollHandling: true},
	})
	clay.OpenElement(clay.ElementDeclaration{ID: "inner", BackgroundColor: clay.Color{A: 255}, Layout: fixedLayout(200, 500)})
	clay.CloseElement()
	clay.CloseElement()
	cmds := clay.EndLayout()

	require.NotZero(t, queriedID)
	require.Equal(t, "scrollbox", queriedUserData)

	require.Len(t, cmds, 3)
	require.Equal(t, clay.CommandRectangle, cmds[1].CommandType)
	require.InDelta(t, -50, cmds[1].BoundingBox.Y, 0.01)
}
