package compute

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/engine"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

var words = []cloud.Word{
	{Text: "go", Value: 16},
	{Text: "rust", Value: 9},
	{Text: "zig", Value: 4},
}

func testConfig() cloud.Config {
	return cloud.Config{Words: words, Width: 400, Height: 300}
}

// captureEngine records the request it receives and places every word at the
// origin in the order given by order.
type captureEngine struct {
	req   engine.Request
	order []int
	calls int
}

func (e *captureEngine) Place(_ context.Context, req engine.Request, onWord func(cloud.PlacedWord)) ([]cloud.PlacedWord, error) {
	e.req = req
	e.calls++
	order := e.order
	if order == nil {
		for i := range req.Words {
			order = append(order, i)
		}
	}
	var out []cloud.PlacedWord
	for _, i := range order {
		w := req.Words[i]
		pw := cloud.PlacedWord{
			Word:       w,
			Size:       req.FontSize(w, i),
			Rotate:     req.Rotate(w, i),
			Font:       req.Font(w, i),
			FontStyle:  req.FontStyle(w, i),
			FontWeight: req.FontWeight(w, i),
			Padding:    req.Padding(w, i),
		}
		if onWord != nil {
			onWord(pw)
		}
		out = append(out, pw)
	}
	return out, nil
}

func TestComputeDefaults(t *testing.T) {
	eng := &captureEngine{}
	placed, err := New(eng).Compute(context.Background(), testConfig(), nil)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if len(placed) != 3 {
		t.Fatalf("placed %d words, want 3", len(placed))
	}

	first := placed[0]
	if first.Size != 4 {
		t.Errorf("size for value 16 = %v, want 4", first.Size)
	}
	if first.Font != DefaultFont || first.FontStyle != "normal" || first.FontWeight != "normal" {
		t.Errorf("font = %q %q %q", first.Font, first.FontStyle, first.FontWeight)
	}
	if first.Padding != 1 {
		t.Errorf("padding = %v, want 1", first.Padding)
	}
	if eng.req.Spiral != cloud.SpiralArchimedean {
		t.Errorf("spiral = %q, want archimedean", eng.req.Spiral)
	}
	if eng.req.Size != [2]float64{400, 300} {
		t.Errorf("size = %v, want [400 300]", eng.req.Size)
	}
}

func TestDefaultRotate(t *testing.T) {
	allowed := map[float64]bool{-90: true, -60: true, -30: true, 0: true, 30: true, 60: true, 90: true}
	rotate := DefaultRotate(rand.New(rand.NewPCG(1, 2)).Float64)
	for i := 0; i < 200; i++ {
		if r := rotate(cloud.Word{}, i); !allowed[r] {
			t.Fatalf("rotate = %v, want a multiple of 30 in [-90, 90]", r)
		}
	}

	tests := []struct {
		random float64
		want   float64
	}{
		{0, -90},
		{0.5, 0},
		{0.99, 60},
	}
	for _, tt := range tests {
		r := DefaultRotate(func() float64 { return tt.random })(cloud.Word{}, 0)
		if r != tt.want {
			t.Errorf("DefaultRotate(%v) = %v, want %v", tt.random, r, tt.want)
		}
	}
}

func TestComputeUsesConfigRandomForRotation(t *testing.T) {
	cfg := testConfig()
	cfg.Random = func() float64 { return 0.5 }
	placed, err := New(&captureEngine{}).Compute(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	for _, w := range placed {
		if w.Rotate != 0 {
			t.Errorf("%q rotate = %v, want 0", w.Text, w.Rotate)
		}
	}
}

func TestComputeFieldsReachEngine(t *testing.T) {
	cfg := testConfig()
	cfg.Font = cloud.Const("Georgia")
	cfg.FontSize = cloud.Func(func(w cloud.Word, i int) float64 { return w.Value * float64(i+1) })
	cfg.Rotate = cloud.Const(0.0)
	cfg.Spiral = cloud.SpiralRectangular

	eng := &captureEngine{}
	placed, err := New(eng).Compute(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	want := []float64{16, 18, 12}
	for i, w := range placed {
		if w.Size != want[i] {
			t.Errorf("%q size = %v, want %v", w.Text, w.Size, want[i])
		}
		if w.Font != "Georgia" || w.Rotate != 0 {
			t.Errorf("%q font = %q rotate = %v", w.Text, w.Font, w.Rotate)
		}
	}
	if eng.req.Spiral != cloud.SpiralRectangular {
		t.Errorf("spiral = %q, want rectangular", eng.req.Spiral)
	}
}

func TestComputeStreamsInPlacementOrder(t *testing.T) {
	eng := &captureEngine{order: []int{0, 2, 1}}
	var streamed []string
	placed, err := New(eng).Compute(context.Background(), testConfig(), func(w cloud.PlacedWord) {
		streamed = append(streamed, w.Text)
	})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	want := []string{"go", "zig", "rust"}
	got := cloud.Texts(placed)
	for i := range want {
		if streamed[i] != want[i] || got[i] != want[i] {
			t.Errorf("position %d: streamed %q, returned %q, want %q", i, streamed[i], got[i], want[i])
		}
	}
}

func TestComputeConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*cloud.Config)
		code   errors.Code
	}{
		{"zero width", func(c *cloud.Config) { c.Width = 0 }, errors.ErrCodeInvalidDimensions},
		{"negative height", func(c *cloud.Config) { c.Height = -10 }, errors.ErrCodeInvalidDimensions},
		{"no words", func(c *cloud.Config) { c.Words = nil }, errors.ErrCodeEmptyWords},
		{"bad spiral", func(c *cloud.Config) { c.Spiral = "hexagonal" }, errors.ErrCodeInvalidSpiral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			eng := &captureEngine{}
			_, err := New(eng).Compute(context.Background(), cfg, nil)
			if !errors.Is(err, tt.code) {
				t.Errorf("Compute() error = %v, want %s", err, tt.code)
			}
			if eng.calls != 0 {
				t.Errorf("engine called %d times, want 0", eng.calls)
			}
		})
	}
}

func TestComputeAccessorPanic(t *testing.T) {
	cfg := testConfig()
	cfg.FontSize = cloud.Func(func(w cloud.Word, i int) float64 {
		if i == 1 {
			panic("bad word")
		}
		return 10
	})
	eng := &captureEngine{}
	_, err := New(eng).Compute(context.Background(), cfg, nil)
	if !errors.Is(err, errors.ErrCodeAccessorPanic) {
		t.Fatalf("Compute() error = %v, want ACCESSOR_PANIC", err)
	}
	if eng.calls != 1 {
		t.Errorf("engine called %d times, want exactly 1 (no retries)", eng.calls)
	}
}

func TestComputeEngineError(t *testing.T) {
	calls := 0
	eng := engine.Func(func(context.Context, engine.Request, func(cloud.PlacedWord)) ([]cloud.PlacedWord, error) {
		calls++
		return nil, fmt.Errorf("canvas exploded")
	})
	_, err := New(eng).Compute(context.Background(), testConfig(), nil)
	if !errors.Is(err, errors.ErrCodeEngine) {
		t.Errorf("Compute() error = %v, want ENGINE", err)
	}
	if calls != 1 {
		t.Errorf("engine called %d times, want 1", calls)
	}
}

func TestComputeWithDefaultEngine(t *testing.T) {
	cfg := testConfig()
	cfg.Random = rand.New(rand.NewPCG(42, 42)).Float64
	a := New(engine.New(engine.WithMeasurer(engine.ApproxMeasurer{})))
	placed, err := a.ComputeBatch(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ComputeBatch() error: %v", err)
	}
	if len(placed) != len(words) {
		t.Fatalf("placed %d words, want %d", len(placed), len(words))
	}
	for _, w := range placed {
		if w.Size != math.Trunc(math.Sqrt(w.Value)) {
			t.Errorf("%q size = %v", w.Text, w.Size)
		}
		if math.Abs(w.X) > 200 || math.Abs(w.Y) > 150 {
			t.Errorf("%q at (%v, %v) outside canvas", w.Text, w.X, w.Y)
		}
	}
}
