package cloud

import "strconv"

// Category10 is the default fill palette, assigned by word index.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// DefaultTransition is the CSS transition applied to each word.
const DefaultTransition = "all .5s ease"

// DefaultFill colors words from Category10 by index.
func DefaultFill(_ Word, i int) string {
	return Category10[i%len(Category10)]
}

// PaletteFill returns an accessor cycling through palette by index. An empty
// palette falls back to Category10.
func PaletteFill(palette []string) Accessor[string] {
	if len(palette) == 0 {
		return DefaultFill
	}
	return func(_ Word, i int) string { return palette[i%len(palette)] }
}

// Finalize decorates placed words with presentation fields. Accessors receive
// the word and its position in words. Unset fields use DefaultFill and
// DefaultTransition.
func Finalize(words []PlacedWord, fill, transition Field[string]) []FinalWord {
	fill = fill.Or(Func(DefaultFill))
	transition = transition.Or(Const(DefaultTransition))

	out := make([]FinalWord, len(words))
	for i, w := range words {
		out[i] = FinalWord{
			PlacedWord: w,
			Fill:       fill.Eval(w.Word, i),
			Transition: transition.Eval(w.Word, i),
		}
	}
	return out
}

// Placed strips presentation fields.
func Placed(words []FinalWord) []PlacedWord {
	out := make([]PlacedWord, len(words))
	for i, w := range words {
		out[i] = w.PlacedWord
	}
	return out
}

// Transform returns the SVG transform placing w relative to the layout center.
func (w PlacedWord) Transform() string {
	return "translate(" + formatFloat(w.X) + "," + formatFloat(w.Y) + ") rotate(" + formatFloat(w.Rotate) + ")"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
