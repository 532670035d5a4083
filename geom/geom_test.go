package geom_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kryvoslayout/clay/geom"
)

func TestClampF64(t *testing.T) {
	require.Equal(t, 5.0, geom.ClampF64(5, 0, 10))
	require.Equal(t, 0.0, geom.ClampF64(-5, 0, 10))
	require.Equal(t, 10.0, geom.ClampF64(15, 0, 10))
}

func TestVector2Add(t *testing.T) {
	v := geom.Vector2{X: 1, Y: 2}.Add(geom.Vector2{X: 3, Y: 4})
	require.Equal(t, geom.Vector2{X: 4, Y: 6}, v)
}

func TestBoundingBoxContains(t *testing.T) {
	b := geom.BoundingBox{X: 0, Y: 0, Width: 100, Height: 50}
	require.True(t, b.Contains(geom.Vector2{X: 50, Y: 25}))
	require.True(t, b.Contains(geom.Vector2{X: 100, Y: 50}))
	require.False(t, b.Contains(geom.Vector2{X: 101, Y: 25}))
}

func TestPaddingHorizontalVertical(t *testing.T) {
	p := geom.Padding{Left: 10, Right: 20, Top: 5, Bottom: 15}
	require.Equal(t, 30.0, p.Horizontal())
	require.Equal(t, 20.0, p.Vertical())
}

func TestSizingConstructors(t *testing.T) {
	require.Equal(t, geom.SizingAxis{Type: geom.SizingFixed, MinMax: geom.MinMax{Min: 42, Max: 42}}, geom.SizingFixedAxis(42))
	require.Equal(t, geom.SizingAxis{Type: geom.SizingPercent, Percent: 0.5}, geom.SizingPercentAxis(0.5))
}
