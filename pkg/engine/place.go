package engine

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"time"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

// Engine-level fallbacks for unset evaluators.
const (
	fallbackFont    = "serif"
	fallbackStyle   = "normal"
	fallbackWeight  = "normal"
	fallbackPadding = 1.0
)

// SpiralEngine is the default Engine. It is stateless and safe for concurrent use.
type SpiralEngine struct {
	measurer Measurer
}

// Option configures a SpiralEngine.
type Option func(*SpiralEngine)

// WithMeasurer sets the text measurer. The default is DefaultMeasurer().
func WithMeasurer(m Measurer) Option {
	return func(e *SpiralEngine) {
		if m != nil {
			e.measurer = m
		}
	}
}

// New creates a SpiralEngine.
func New(opts ...Option) *SpiralEngine {
	e := &SpiralEngine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.measurer == nil {
		e.measurer = DefaultMeasurer()
	}
	return e
}

// candidate is a word with its evaluated attributes, waiting to be placed.
type candidate struct {
	word   cloud.PlacedWord
	index  int
	width  float64
	height float64
}

// rect is an axis-aligned box in canvas coordinates (origin top-left).
type rect struct {
	x0, y0, x1, y1 float64
}

func (r rect) overlaps(o rect) bool {
	return r.x0 < o.x1 && o.x0 < r.x1 && r.y0 < o.y1 && o.y0 < r.y1
}

// board tracks occupied boxes and their union bounds.
type board struct {
	rects  []rect
	bounds rect
}

func (b *board) collides(r rect) bool {
	if len(b.rects) == 0 || !r.overlaps(b.bounds) {
		return false
	}
	for _, o := range b.rects {
		if r.overlaps(o) {
			return true
		}
	}
	return false
}

func (b *board) add(r rect) {
	if len(b.rects) == 0 {
		b.bounds = r
	} else {
		b.bounds = rect{
			x0: math.Min(b.bounds.x0, r.x0),
			y0: math.Min(b.bounds.y0, r.y0),
			x1: math.Max(b.bounds.x1, r.x1),
			y1: math.Max(b.bounds.y1, r.y1),
		}
	}
	b.rects = append(b.rects, r)
}

// Place implements Engine.
func (e *SpiralEngine) Place(ctx context.Context, req Request, onWord func(cloud.PlacedWord)) ([]cloud.PlacedWord, error) {
	width, height := req.Size[0], req.Size[1]
	if err := errors.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	spiral := req.SpiralFunc
	if spiral == nil {
		var err error
		if spiral, err = SpiralFor(req.Spiral); err != nil {
			return nil, err
		}
	}
	random := req.Random
	if random == nil {
		random = rand.Float64
	}

	candidates := e.evaluate(req, random)
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case a.word.Size > b.word.Size:
			return -1
		case a.word.Size < b.word.Size:
			return 1
		}
		return 0
	})

	var (
		b          board
		placed     = make([]cloud.PlacedWord, 0, len(candidates))
		sliceStart = time.Now()
	)
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if req.TimeInterval > 0 && time.Since(sliceStart) >= req.TimeInterval {
			runtime.Gosched()
			sliceStart = time.Now()
		}

		if c.word.Size <= 0 || c.width <= 0 || c.height <= 0 {
			continue
		}
		if c.width > width || c.height > height {
			continue
		}

		startX := width * (random() + 0.5) / 2
		startY := height * (random() + 0.5) / 2
		x, y, ok, err := place(ctx, &b, spiral(width, height), random, startX, startY, c.width, c.height, width, height)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		w := c.word
		w.X = x - width/2
		w.Y = y - height/2
		placed = append(placed, w)
		if onWord != nil {
			onWord(w)
		}
	}
	return placed, nil
}

// evaluate calls every evaluator once per word in input order and measures the
// rotated box of each word.
func (e *SpiralEngine) evaluate(req Request, random func() float64) []candidate {
	font := orDefault(req.Font, fallbackFont)
	style := orDefault(req.FontStyle, fallbackStyle)
	weight := orDefault(req.FontWeight, fallbackWeight)
	padding := orDefault(req.Padding, fallbackPadding)
	fontSize := req.FontSize
	if fontSize == nil {
		fontSize = func(w cloud.Word, _ int) float64 { return math.Sqrt(w.Value) }
	}
	rotate := req.Rotate
	if rotate == nil {
		rotate = func(cloud.Word, int) float64 { return (math.Floor(random()*6) - 3) * 30 }
	}

	out := make([]candidate, len(req.Words))
	for i, word := range req.Words {
		pw := cloud.PlacedWord{
			Word:       word,
			Font:       font(word, i),
			FontStyle:  style(word, i),
			FontWeight: weight(word, i),
			Rotate:     rotate(word, i),
			Size:       math.Trunc(fontSize(word, i)),
			Padding:    padding(word, i),
		}
		c := candidate{word: pw, index: i}
		if pw.Size > 0 {
			w, h := e.measurer.Measure(word.Text, pw.Font, pw.FontStyle, pw.FontWeight, pw.Size)
			c.width, c.height = rotatedBounds(w+2*pw.Padding, h+2*pw.Padding, pw.Rotate)
		}
		out[i] = c
	}
	return out
}

// checkEvery is how many spiral steps run between context checks.
const checkEvery = 256

// place walks the spiral from (startX, startY) until a box of w×h fits inside
// the canvas without collisions. It returns the box center. The walk gives up
// once the spiral leaves the canvas or after a step budget that scales with
// the canvas area, whichever comes first.
func place(ctx context.Context, b *board, spiral func(float64) (float64, float64), random func() float64,
	startX, startY, w, h, width, height float64) (float64, float64, bool, error) {
	maxDelta := math.Hypot(width, height)
	maxSteps := int(4*maxDelta*maxDelta) + checkEvery
	dt := 1.0
	if random() < 0.5 {
		dt = -1
	}

	t := 0.0
	for step := 1; step <= maxSteps; step++ {
		if step%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, 0, false, err
			}
		}
		t += dt
		dx, dy := spiral(t)
		dx, dy = math.Trunc(dx), math.Trunc(dy)
		if math.Min(math.Abs(dx), math.Abs(dy)) >= maxDelta {
			return 0, 0, false, nil
		}
		x, y := startX+dx, startY+dy
		r := rect{x0: x - w/2, y0: y - h/2, x1: x + w/2, y1: y + h/2}
		if r.x0 < 0 || r.y0 < 0 || r.x1 > width || r.y1 > height {
			continue
		}
		if b.collides(r) {
			continue
		}
		b.add(r)
		return x, y, true, nil
	}
	return 0, 0, false, nil
}

// rotatedBounds returns the axis-aligned bounds of a w×h box rotated by deg degrees.
func rotatedBounds(w, h, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	return w*cos + h*sin, w*sin + h*cos
}

func orDefault[T any](fn cloud.Accessor[T], def T) cloud.Accessor[T] {
	if fn != nil {
		return fn
	}
	return func(cloud.Word, int) T { return def }
}
