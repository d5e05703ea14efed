package compute

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/wordcloud/pkg/cloud"
)

// Default policies for unset configuration fields.
const (
	DefaultFont       = "Impact"
	DefaultFontStyle  = "normal"
	DefaultFontWeight = "normal"
	DefaultPadding    = 1.0
	DefaultSpiral     = cloud.SpiralArchimedean
)

// DefaultFontSize sizes a word by the square root of its value.
func DefaultFontSize(w cloud.Word, _ int) float64 {
	return math.Sqrt(w.Value)
}

// DefaultRotate returns an accessor picking a multiple of 30° in [-90°, 60°]
// uniformly from random. A nil random uses math/rand/v2.
func DefaultRotate(random func() float64) cloud.Accessor[float64] {
	if random == nil {
		random = rand.Float64
	}
	return func(cloud.Word, int) float64 {
		return (math.Floor(random()*6) - 3) * 30
	}
}
