package engine

import (
	"context"
	"time"

	"github.com/matzehuels/wordcloud/pkg/cloud"
)

// Engine places words on a canvas.
//
// Place calls onWord (when non-nil) once per successfully placed word, in
// placement order, and returns every placed word in the same order once all
// candidate words have been processed.
type Engine interface {
	Place(ctx context.Context, req Request, onWord func(cloud.PlacedWord)) ([]cloud.PlacedWord, error)
}

// Request is one placement job. Nil evaluators fall back to the engine's own
// defaults.
type Request struct {
	Words        []cloud.Word
	Size         [2]float64
	TimeInterval time.Duration

	Spiral     cloud.SpiralKind
	SpiralFunc cloud.SpiralFunc

	Padding    cloud.Accessor[float64]
	Font       cloud.Accessor[string]
	FontStyle  cloud.Accessor[string]
	FontWeight cloud.Accessor[string]
	FontSize   cloud.Accessor[float64]
	Rotate     cloud.Accessor[float64]

	Random func() float64
}

// Func adapts a function to the Engine interface.
type Func func(ctx context.Context, req Request, onWord func(cloud.PlacedWord)) ([]cloud.PlacedWord, error)

// Place calls f.
func (f Func) Place(ctx context.Context, req Request, onWord func(cloud.PlacedWord)) ([]cloud.PlacedWord, error) {
	return f(ctx, req, onWord)
}
