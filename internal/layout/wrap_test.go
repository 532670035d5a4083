package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kryvoslayout/clay/internal/measure"
)

func word(start, length int, width float64) measure.Word {
	return measure.Word{Start: start, Length: length, Width: width}
}

func newline(start int) measure.Word {
	return measure.Word{Start: start, IsNewline: true}
}

func TestGreedyWrapFitsOnOneLine(t *testing.T) {
	text := "hello world"
	words := []measure.Word{word(0, 5, 30), word(6, 5, 40)}

	lines := greedyWrap(text, words, 100)

	require.Len(t, lines, 1)
	require.Equal(t, 0, lines[0].Start)
	require.Equal(t, 11, lines[0].End)
}

func TestGreedyWrapSplitsOverflow(t *testing.T) {
	// "hello world foo" with widths 30/40/30 must split into two lines at
	// a width of 100: "hello world" (70) fits, "foo" (30) overflows with it.
	text := "hello world foo"
	words := []measure.Word{word(0, 5, 30), word(6, 5, 40), word(12, 3, 30)}

	lines := greedyWrap(text, words, 100)

	require.Len(t, lines, 2)
	require.Equal(t, text[lines[0].Start:lines[0].End], "hello world")
	require.Equal(t, text[lines[1].Start:lines[1].End], "foo")
}

func TestGreedyWrapForcesFlushOnNewline(t *testing.T) {
	text := "a\nb"
	words := []measure.Word{word(0, 1, 10), newline(1), word(2, 1, 10)}

	lines := greedyWrap(text, words, 1000)

	require.Len(t, lines, 2)
	require.Equal(t, "a", text[lines[0].Start:lines[0].End])
	require.Equal(t, "b", text[lines[1].Start:lines[1].End])
}

func TestGreedyWrapOverlongWordGetsOwnLine(t *testing.T) {
	text := "supercalifragilisticexpialidocious"
	words := []measure.Word{word(0, len(text), 500)}

	lines := greedyWrap(text, words, 100)

	require.Len(t, lines, 1)
	require.Equal(t, 0, lines[0].Start)
	require.Equal(t, len(text), lines[0].End)
}

func TestGreedyWrapEmptyWordsReturnsSingleLine(t *testing.T) {
	lines := greedyWrap("", nil, 100)

	require.Len(t, lines, 1)
	require.Equal(t, 0, lines[0].Start)
	require.Equal(t, 0, lines[0].End)
}
