package pipeline

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/layout"
)

// =============================================================================
// Words
// =============================================================================

// ResolveWords returns the word list for a run: Words when set, otherwise the
// MaxWords most frequent words of Text. Explicit lists are capped to MaxWords
// as well, keeping the first entries.
func (o *Options) ResolveWords() []cloud.Word {
	words := o.Words
	if len(words) == 0 && o.Text != "" {
		words = cloud.CountWords(o.Text, o.MaxWords)
	}
	if o.MaxWords > 0 && len(words) > o.MaxWords {
		words = words[:o.MaxWords]
	}
	return words
}

// =============================================================================
// Layout configuration
// =============================================================================

// Config translates validated options into a layout configuration. Each call
// returns a fresh seeded random source, so equal options place words
// identically.
func (o *Options) Config() cloud.Config {
	rng := rand.New(rand.NewPCG(o.Seed, o.Seed))
	cfg := cloud.Config{
		Words:      o.Words,
		Width:      o.Width,
		Height:     o.Height,
		Spiral:     cloud.SpiralKind(o.Spiral),
		Font:       cloud.Const(o.Font),
		FontStyle:  cloud.Const(o.FontStyle),
		FontWeight: cloud.Const(o.FontWeight),
		FontSize:   cloud.Func(FontSizeScale(o.Words, o.FontScale, o.MinFontSize, o.MaxFontSize)),
		Random:     rng.Float64,
	}
	if o.Padding > 0 {
		cfg.Padding = cloud.Const(o.Padding)
	}
	switch o.Rotation {
	case RotationNone:
		cfg.Rotate = cloud.Const(0.0)
	case RotationOrthogonal:
		cfg.Rotate = cloud.Func(func(cloud.Word, int) float64 {
			if rng.Float64() < 0.5 {
				return 0
			}
			return 90
		})
	}
	return cfg
}

// FontSizeScale maps word values onto [minSize, maxSize] through the named
// scale. When every value is equal, all words get maxSize.
func FontSizeScale(words []cloud.Word, scale string, minSize, maxSize float64) cloud.Accessor[float64] {
	f := scaleFunc(scale)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, w := range words {
		v := f(w.Value)
		lo, hi = min(lo, v), max(hi, v)
	}
	return func(w cloud.Word, _ int) float64 {
		if !(hi > lo) {
			return maxSize
		}
		t := (f(w.Value) - lo) / (hi - lo)
		return minSize + t*(maxSize-minSize)
	}
}

func scaleFunc(scale string) func(float64) float64 {
	switch scale {
	case ScaleLinear:
		return func(v float64) float64 { return v }
	case ScaleLog:
		return func(v float64) float64 { return math.Log1p(max(v, 0)) }
	default:
		return func(v float64) float64 { return math.Sqrt(max(v, 0)) }
	}
}

// =============================================================================
// Presentation
// =============================================================================

// Decorate builds the layout document for placed words, applying fills,
// transitions and gradients. With gradients and no palette, words cycle
// through the gradients.
func (o *Options) Decorate(placed []cloud.PlacedWord) layout.Layout {
	fill := cloud.Func(cloud.PaletteFill(o.Palette))
	if len(o.Palette) == 0 && len(o.Gradients) > 0 {
		urls := make([]string, len(o.Gradients))
		for i, g := range o.Gradients {
			urls[i] = "url(#" + g.ID + ")"
		}
		fill = cloud.Func(cloud.PaletteFill(urls))
	}
	var transition cloud.Field[string]
	if o.Transition != "" {
		transition = cloud.Const(o.Transition)
	}

	l := layout.New(o.Width, o.Height, o.Words, cloud.Finalize(placed, fill, transition))
	l.Seed = o.Seed
	l.Spiral = o.Spiral
	l.Gradients = o.Gradients
	return l
}
