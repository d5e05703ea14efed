// Package screen maps layout-space word positions onto a rendered surface.
//
// Layout space puts (0, 0) at the center of a width×height viewport. A surface
// may be displayed at a different size than its logical viewport; MapToScreen
// scales positions accordingly, for anchoring tooltips and similar overlays.
package screen

import (
	"math"

	"github.com/matzehuels/wordcloud/pkg/cloud"
)

// Surface reports the on-screen size of the rendered output.
type Surface interface {
	RenderedSize() (width, height float64)
}

// Size is a Surface with a fixed size.
type Size struct {
	Width, Height float64
}

// RenderedSize implements Surface.
func (s Size) RenderedSize() (float64, float64) { return s.Width, s.Height }

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func() (float64, float64)

// RenderedSize implements Surface.
func (f SurfaceFunc) RenderedSize() (float64, float64) { return f() }

// Point is a position in screen pixels.
type Point struct {
	X, Y float64
}

// MapToScreen converts w's layout position into surface pixels.
//
// A nil word yields (0, 0), which callers must treat as "no anchor". A nil
// surface, or a viewport with non-positive dimensions, yields the raw layout
// coordinates.
func MapToScreen(w *cloud.PlacedWord, s Surface, layoutWidth, layoutHeight float64) Point {
	if w == nil {
		return Point{}
	}
	if s == nil || layoutWidth <= 0 || layoutHeight <= 0 {
		return Point{X: w.X, Y: w.Y}
	}
	renderedWidth, renderedHeight := s.RenderedSize()
	absX := layoutWidth/2 + w.X
	absY := layoutHeight/2 + w.Y
	return Point{
		X: absX * renderedWidth / layoutWidth,
		Y: absY * renderedHeight / layoutHeight,
	}
}

// Cell rounds p onto a grid of cells cellWidth×cellHeight pixels, returning the
// column and row.
func Cell(p Point, cellWidth, cellHeight float64) (col, row int) {
	if cellWidth <= 0 || cellHeight <= 0 {
		return 0, 0
	}
	return int(math.Floor(p.X / cellWidth)), int(math.Floor(p.Y / cellHeight))
}
