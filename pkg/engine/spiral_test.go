package engine

import (
	"math"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

func TestArchimedean(t *testing.T) {
	s := Archimedean(200, 100)
	tests := []struct {
		t      float64
		dx, dy float64
	}{
		{0, 0, 0},
		{10, 2 * math.Cos(1), math.Sin(1)},
		{-10, -2 * math.Cos(-1), -math.Sin(-1)},
	}
	for _, tt := range tests {
		dx, dy := s(tt.t)
		if math.Abs(dx-tt.dx) > 1e-9 || math.Abs(dy-tt.dy) > 1e-9 {
			t.Errorf("Archimedean(%v) = (%v, %v), want (%v, %v)", tt.t, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestRectangularWalksOutward(t *testing.T) {
	s := Rectangular(100, 100)
	want := [][2]float64{{0, 4}, {-4, 4}, {-8, 4}, {-8, 0}, {-8, -4}}
	for i, w := range want {
		dx, dy := s(float64(i + 1))
		if dx != w[0] || dy != w[1] {
			t.Errorf("step %d = (%v, %v), want (%v, %v)", i+1, dx, dy, w[0], w[1])
		}
	}
}

func TestSpiralFor(t *testing.T) {
	tests := []struct {
		kind    cloud.SpiralKind
		wantErr bool
	}{
		{"", false},
		{cloud.SpiralArchimedean, false},
		{cloud.SpiralRectangular, false},
		{"hexagonal", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			fn, err := SpiralFor(tt.kind)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidSpiral) {
					t.Errorf("SpiralFor(%q) error = %v, want INVALID_SPIRAL", tt.kind, err)
				}
				return
			}
			if err != nil || fn == nil {
				t.Errorf("SpiralFor(%q) = %v, %v", tt.kind, fn, err)
			}
		})
	}
}
