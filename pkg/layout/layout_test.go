package layout

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

func final(text string, x, y float64) cloud.FinalWord {
	return cloud.FinalWord{
		PlacedWord: cloud.PlacedWord{Word: cloud.Word{Text: text, Value: 1}, X: x, Y: y, Size: 12},
		Fill:       "#1f77b4",
	}
}

func TestNewRecordsSkipped(t *testing.T) {
	input := []cloud.Word{{Text: "a"}, {Text: "b"}, {Text: "a"}, {Text: "c"}}
	l := New(100, 50, input, []cloud.FinalWord{final("a", 0, 0), final("c", 1, 1)})

	want := []string{"b", "a"}
	if len(l.Skipped) != len(want) {
		t.Fatalf("Skipped = %v, want %v", l.Skipped, want)
	}
	for i := range want {
		if l.Skipped[i] != want[i] {
			t.Errorf("Skipped[%d] = %q, want %q", i, l.Skipped[i], want[i])
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	l := New(400, 300, nil, []cloud.FinalWord{final("go", 10, -5)})
	l.Seed = 42
	l.Gradients = []Gradient{{ID: "g1", Type: GradientLinear, Angle: 90, Stops: []Stop{{"0%", "#fff"}, {"100%", "#000"}}}}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteFile(l, path); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if got.Width != 400 || got.Height != 300 || got.Seed != 42 {
		t.Errorf("header = %v x %v seed %d", got.Width, got.Height, got.Seed)
	}
	if len(got.Words) != 1 || got.Words[0] != l.Words[0] {
		t.Errorf("Words = %+v", got.Words)
	}
	if len(got.Gradients) != 1 || got.Gradients[0].Stops[1].Color != "#000" {
		t.Errorf("Gradients = %+v", got.Gradients)
	}
}

func TestUnmarshalValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"zero width", `{"width":0,"height":10,"words":[]}`, errors.ErrCodeInvalidDimensions},
		{"bad gradient", `{"width":10,"height":10,"words":[],"gradients":[{"id":"g","type":"conic"}]}`, errors.ErrCodeInvalidInput},
		{"gradient without id", `{"width":10,"height":10,"gradients":[{"type":"radial"}]}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data)); !errors.Is(err, tt.code) {
				t.Errorf("Unmarshal() error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := Unmarshal([]byte("{")); err == nil {
		t.Error("expected error for malformed JSON")
	}
	l, err := Unmarshal([]byte(`{"width":10,"height":10}`))
	if err != nil || l.Words == nil {
		t.Errorf("Unmarshal() = %+v, %v; want empty word list", l, err)
	}
}
