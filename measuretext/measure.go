package measuretext

import "github.com/kryvoslayout/clay/internal/measure"

// Registry maps the small integer font ids a host assigns (TextConfig's
// FontID field) to the loaded Font that id refers to.
type Registry struct {
	fonts map[uint16]*Font
}

// NewRegistry builds an empty font registry.
func NewRegistry() *Registry {
	return &Registry{fonts: map[uint16]*Font{}}
}

// Register associates id with f; later measurement calls for a
// TextConfig with this FontID use f.
func (r *Registry) Register(id uint16, f *Font) {
	r.fonts[id] = f
}

// MeasureFunc returns a measure.Func backed by this registry, suitable
// for clay.Context.SetMeasureTextFunction. If a TextConfig names a FontID
// that was never registered, it falls back to the first registered font
// (deterministic only if exactly one font is registered, which is the
// common case for a demo/host harness).
func (r *Registry) MeasureFunc() measure.Func {
	return func(text string, config measure.TextConfig, _ any) (float64, float64) {
		f := r.fonts[config.FontID]
		if f == nil {
			for _, registered := range r.fonts {
				f = registered
				break
			}
		}
		if f == nil {
			return 0, 0
		}
		if config.FontSize > 0 {
			f.SetFontSizePt(float64(config.FontSize))
		}
		if config.LetterSpacing > 0 {
			f.SetLetterSpacingPercent(float64(config.LetterSpacing))
		}
		return f.MeasureString(text)
	}
}
