package measure_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kryvoslayout/clay/internal/arena"
	"github.com/kryvoslayout/clay/internal/measure"
)

func fakeMeasure(text string, _ measure.TextConfig, _ any) (float64, float64) {
	return float64(len([]rune(text))) * 10, 16
}

func newCache(t *testing.T) *measure.Cache {
	t.Helper()
	a := arena.New(make([]byte, 1<<20))
	c, ok := measure.NewCache(a, 1024, 256)
	require.True(t, ok)
	return c
}

func TestMeasureMissingFunctionLatches(t *testing.T) {
	c := newCache(t)
	c.BeginFrame(1)

	_, ok := c.Measure(1, "hello", measure.TextConfig{}, nil)
	require.False(t, ok)
	require.True(t, c.MissingFunction())
}

func TestMeasureCachesEntry(t *testing.T) {
	c := newCache(t)
	c.SetMeasureFunc(fakeMeasure)
	c.BeginFrame(1)

	entry, ok := c.Measure(1, "hello world", measure.TextConfig{}, nil)
	require.True(t, ok)
	require.Equal(t, "hello world", entry.Text)

	words := c.Words(entry.WordsHead)
	require.Len(t, words, 2)
	require.Equal(t, "hello", "hello world"[words[0].Start:words[0].Start+words[0].Length])
	require.Equal(t, "world", "hello world"[words[1].Start:words[1].Start+words[1].Length])
}

func TestMeasureNewlineProducesZeroLengthMarker(t *testing.T) {
	c := newCache(t)
	c.SetMeasureFunc(fakeMeasure)
	c.BeginFrame(1)

	entry, ok := c.Measure(1, "a\nb", measure.TextConfig{}, nil)
	require.True(t, ok)
	require.True(t, entry.ContainsNewlines)

	words := c.Words(entry.WordsHead)
	require.Len(t, words, 3)
	require.True(t, words[1].IsNewline)
	require.Zero(t, words[1].Length)
}

func TestMeasureEvictsAfterTwoGenerations(t *testing.T) {
	c := newCache(t)
	c.SetMeasureFunc(fakeMeasure)

	c.BeginFrame(1)
	_, ok := c.Measure(7, "abc", measure.TextConfig{}, nil)
	require.True(t, ok)

	// Still within the 2-generation grace window.
	c.BeginFrame(3)
	entry, ok := c.Measure(7, "abc", measure.TextConfig{}, nil)
	require.True(t, ok)
	require.Equal(t, uint32(3), entry.Generation)

	// Last touched at generation 3, so a jump straight to 6
	// (more than 2 generations past its last touch) must force a
	// re-measure rather than reuse.
	c.BeginFrame(6)
	entry2, ok := c.Measure(7, "abc", measure.TextConfig{}, nil)
	require.True(t, ok)
	require.Equal(t, uint32(6), entry2.Generation)
}

func TestMeasureCapacityExceededLatches(t *testing.T) {
	a := arena.New(make([]byte, 1<<16))
	c, ok := measure.NewCache(a, 2, 16) // tiny word slab
	require.True(t, ok)
	c.SetMeasureFunc(fakeMeasure)
	c.BeginFrame(1)

	_, ok = c.Measure(1, "one two three four five", measure.TextConfig{}, nil)
	require.False(t, ok)
	require.True(t, c.CapacityExceeded())
}
