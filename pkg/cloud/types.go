package cloud

// Word is a single weighted input word. Value drives default sizing.
type Word struct {
	Text  string  `json:"text" toml:"text"`
	Value float64 `json:"value" toml:"value"`
}

// PlacedWord is a Word with the attributes computed by the placement engine.
//
// X and Y are layout-space coordinates relative to the layout center, Rotate is
// in degrees. A PlacedWord is never modified after the engine produced it.
type PlacedWord struct {
	Word
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Rotate     float64 `json:"rotate"`
	Size       float64 `json:"size"`
	Font       string  `json:"font"`
	FontStyle  string  `json:"style"`
	FontWeight string  `json:"weight"`
	Padding    float64 `json:"padding"`
}

// FinalWord is a PlacedWord plus presentation-only fields.
type FinalWord struct {
	PlacedWord
	Fill       string `json:"fill,omitempty"`
	Transition string `json:"transition,omitempty"`
}

// SpiralKind names one of the built-in spirals.
type SpiralKind string

// Built-in spirals.
const (
	SpiralArchimedean SpiralKind = "archimedean"
	SpiralRectangular SpiralKind = "rectangular"
)

// SpiralFunc builds a spiral for a canvas of the given size. The returned
// function maps a step t to an offset from the start point.
type SpiralFunc func(width, height float64) func(t float64) (dx, dy float64)

// Texts returns the text of each placed word, in order.
func Texts(words []PlacedWord) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}
