// Package measuretext provides an optional default clay.MeasureFunc
// built on github.com/golang/freetype and golang.org/x/image, adapted
// from glimo's internal/render.Font so a host can exercise the engine's
// text-measurement callback without writing its own font-metrics code.
package measuretext

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const defaultDPI = 72

// Font wraps a TrueType font with the pixel-accurate metrics the layout
// engine's measure cache needs: glyph advances for word widths, line
// height for wrapped-line stacking.
type Font struct {
	tt            *truetype.Font
	sizePt        float64
	dpi           float64
	letterPercent float64

	faceCache map[string]font.Face
}

// LoadFont loads a .ttf file from disk at the given point size. 1pt =
// 1/72 inch; at 72 DPI (the default) that is also 1px.
func LoadFont(path string, sizePt float64) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("measuretext: read font file: %w", err)
	}
	return LoadFontFromBytes(data, sizePt)
}

// LoadFontFromBytes parses a TrueType font from memory, e.g. one
// embedded with //go:embed.
func LoadFontFromBytes(data []byte, sizePt float64) (*Font, error) {
	tt, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("measuretext: parse font: %w", err)
	}
	f := &Font{tt: tt, dpi: defaultDPI, faceCache: map[string]font.Face{}}
	return f.SetFontSizePt(sizePt), nil
}

// MustLoadFont loads a .ttf font from disk and panics on error, intended
// for static initialization at package level.
func MustLoadFont(path string, sizePt float64) *Font {
	f, err := LoadFont(path, sizePt)
	if err != nil {
		panic(err)
	}
	return f
}

// SetDPI sets the font's DPI scaling. Defaults to 72 if dpi <= 0.
func (f *Font) SetDPI(dpi float64) *Font {
	if dpi <= 0 {
		dpi = defaultDPI
	}
	f.dpi = dpi
	f.faceCache = map[string]font.Face{}
	return f
}

// SetFontSizePt sets the font size in points.
func (f *Font) SetFontSizePt(pt float64) *Font {
	if pt <= 0 {
		pt = 0.01
	}
	f.sizePt = pt
	f.faceCache = map[string]font.Face{}
	return f
}

// SetLetterSpacingPercent defines tracking (letter spacing) as a
// percentage of font size.
func (f *Font) SetLetterSpacingPercent(percent float64) *Font {
	f.letterPercent = percent
	return f
}

func (f *Font) cacheKey() string {
	return fmt.Sprintf("%.3f_%.1f", f.sizePt, f.dpi)
}

// Face returns a font.Face configured with the current size and DPI,
// cached per (size, DPI) pair to avoid redundant allocation.
func (f *Font) Face() font.Face {
	key := f.cacheKey()
	if face, ok := f.faceCache[key]; ok {
		return face
	}
	face := truetype.NewFace(f.tt, &truetype.Options{
		Size:    f.sizePt,
		DPI:     f.dpi,
		Hinting: font.HintingNone,
	})
	f.faceCache[key] = face
	return face
}

// TrackingPx returns the tracking offset (in pixels) applied between
// glyphs.
func (f *Font) TrackingPx() float64 {
	return (f.letterPercent / 100.0) * f.sizePt * f.dpi / 72.0
}

// LineHeightPx returns the total line height (ascent + descent +
// leading) in pixels.
func (f *Font) LineHeightPx() float64 {
	m := f.Face().Metrics()
	return float64(m.Height >> 6)
}

// MeasureString measures the pixel width and height of a single line.
// Width includes glyph advances plus tracking between characters; height
// is the font's line height.
func (f *Font) MeasureString(s string) (w, h float64) {
	if s == "" {
		return 0, 0
	}
	face := f.Face()
	adv := font.MeasureString(face, s)
	w = float64(adv >> 6)
	runes := []rune(s)
	if len(runes) > 1 {
		w += float64(len(runes)-1) * f.TrackingPx()
	}
	h = f.LineHeightPx()
	return
}
