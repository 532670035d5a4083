package layout

import (
	"github.com/kryvoslayout/clay/geom"
	"github.com/kryvoslayout/clay/internal/measure"
)

// spaceWidth is approximated as the measurement function's answer for a
// single space, cached per text element alongside its words; the wrapper
// re-measures it lazily the first time a line needs to strip a trailing
// space's width.
const fallbackSpaceWidth = 0

// WrapText converts every text element's cached word list into wrapped
// lines, using the element's resolved width (set by the X-axis solver
// pass) as the greedy wrap width. Elements whose text never needs to wrap
// (WrapNone, or content already narrower than the container) take a fast
// path of a single line equal to the unwrapped measurement.
func (t *Tree) WrapText() {
	for i := 0; i < t.elements.Len(); i++ {
		el := t.elements.Ptr(i)
		if el.TextIndex < 0 {
			continue
		}
		td := t.texts.Ptr(el.TextIndex)
		lineHeight := td.Entry.Dimensions.Height
		if lineHeight <= 0 {
			lineHeight = float64(td.Config.LineHeight)
		}

		if td.Config.WrapMode == measure.WrapNone || !td.Entry.ContainsNewlines && td.Entry.Dimensions.Width <= el.Dimensions.Width {
			td.Lines = []WrappedLine{{
				Dimensions: td.Entry.Dimensions,
				Start:      0,
				End:        len(td.Text),
			}}
			el.Dimensions.Height = lineHeight
			continue
		}

		words := t.measure.Words(td.Entry.WordsHead)
		lines := greedyWrap(td.Text, words, el.Dimensions.Width)
		td.Lines = lines
		el.Dimensions.Height = float64(len(lines)) * lineHeight
		if el.Dimensions.Height == 0 {
			el.Dimensions.Height = lineHeight
		}
	}
}

// greedyWrap accumulates word widths until the running line width would
// exceed maxWidth, flushing a line (stripping a trailing space from its
// reported width) at that point. An explicit newline (zero-length) word
// forces a flush even if the line has room left. A single word wider
// than maxWidth is flushed on its own line rather than looping forever.
func greedyWrap(text string, words []measure.Word, maxWidth float64) []WrappedLine {
	var lines []WrappedLine
	lineStart := -1
	lineEnd := 0
	lineWidth := 0.0

	flush := func(end int) {
		if lineStart < 0 {
			return
		}
		lines = append(lines, WrappedLine{
			Dimensions: geom.Dimensions{Width: lineWidth},
			Start:      lineStart,
			End:        end,
		})
		lineStart = -1
		lineWidth = 0
	}

	for _, w := range words {
		if w.IsNewline {
			flush(lineEnd)
			continue
		}
		wordEnd := w.Start + w.Length
		if lineStart < 0 {
			lineStart = w.Start
			lineWidth = w.Width
			lineEnd = wordEnd
			continue
		}
		candidateWidth := lineWidth + fallbackSpaceWidth + w.Width
		if candidateWidth > maxWidth {
			flush(lineEnd)
			lineStart = w.Start
			lineWidth = w.Width
			lineEnd = wordEnd
			continue
		}
		lineWidth = candidateWidth
		lineEnd = wordEnd
	}
	flush(lineEnd)

	if len(lines) == 0 {
		lines = []WrappedLine{{Start: 0, End: len(text)}}
	}
	return lines
}
