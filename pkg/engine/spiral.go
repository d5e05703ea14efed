package engine

import (
	"math"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

// Archimedean is an elliptical Archimedean spiral stretched to the canvas
// aspect ratio.
func Archimedean(width, height float64) func(t float64) (float64, float64) {
	e := width / height
	return func(t float64) (float64, float64) {
		t *= 0.1
		return e * t * math.Cos(t), t * math.Sin(t)
	}
}

// Rectangular walks outward along the edges of growing rectangles. The
// returned function is stateful and must be called with consecutive steps.
func Rectangular(width, height float64) func(t float64) (float64, float64) {
	const dy = 4.0
	dx := dy * width / height
	var x, y float64
	return func(t float64) (float64, float64) {
		sign := 1.0
		if t < 0 {
			sign = -1
		}
		switch int(math.Sqrt(1+4*sign*t)-sign) & 3 {
		case 0:
			x += dx
		case 1:
			y += dy
		case 2:
			x -= dx
		default:
			y -= dy
		}
		return x, y
	}
}

// SpiralFor returns the built-in spiral named by kind. The empty kind selects
// the Archimedean spiral.
func SpiralFor(kind cloud.SpiralKind) (cloud.SpiralFunc, error) {
	switch kind {
	case "", cloud.SpiralArchimedean:
		return Archimedean, nil
	case cloud.SpiralRectangular:
		return Rectangular, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidSpiral, "unknown spiral %q", kind)
}
