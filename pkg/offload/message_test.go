package offload

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

var testWords = []cloud.Word{
	{Text: "go", Value: 16},
	{Text: "rust", Value: 9},
	{Text: "zig", Value: 4},
}

func sizeByIndex(w cloud.Word, i int) float64 {
	return w.Value*2 + float64(i)
}

func TestRequestRoundTrip(t *testing.T) {
	cfg := cloud.Config{
		Words:        testWords,
		Width:        400,
		Height:       300,
		TimeInterval: 250 * time.Millisecond,
		Spiral:       cloud.SpiralRectangular,
		Font:         cloud.Const("Georgia"),
		FontSize:     cloud.Func(sizeByIndex),
	}

	req, err := NewRequest(7, cfg)
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), `"fontSize":[32,19,10]`) {
		t.Errorf("fontSize should travel as an array: %s", data)
	}
	if !strings.Contains(string(data), `"font":"Georgia"`) {
		t.Errorf("font should travel as a constant: %s", data)
	}
	if strings.Contains(string(data), `"padding"`) {
		t.Errorf("unset fields should be omitted: %s", data)
	}

	var decoded Request
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	got, err := decoded.Config()
	if err != nil {
		t.Fatalf("Config() error: %v", err)
	}

	if decoded.RequestID != 7 {
		t.Errorf("RequestID = %d, want 7", decoded.RequestID)
	}
	if got.TimeInterval != cfg.TimeInterval {
		t.Errorf("TimeInterval = %v, want %v", got.TimeInterval, cfg.TimeInterval)
	}
	if got.Spiral != cloud.SpiralRectangular {
		t.Errorf("Spiral = %q", got.Spiral)
	}
	if got.Padding.IsSet() {
		t.Error("Padding should stay unset")
	}
	for i, w := range cfg.Words {
		if want, have := sizeByIndex(w, i), got.FontSize.Eval(w, i); have != want {
			t.Errorf("fontSize[%d] = %v, want %v", i, have, want)
		}
		if f := got.Font.Eval(w, i); f != "Georgia" {
			t.Errorf("font[%d] = %q", i, f)
		}
	}
}

func TestNewRequestRejectsSpiralFunc(t *testing.T) {
	cfg := cloud.Config{
		Words:      testWords,
		Width:      100,
		Height:     100,
		SpiralFunc: func(float64, float64) func(float64) (float64, float64) { return nil },
	}
	if _, err := NewRequest(1, cfg); !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("NewRequest() error = %v, want TRANSPORT", err)
	}
}

func TestNewRequestAccessorPanic(t *testing.T) {
	cfg := cloud.Config{
		Words:  testWords,
		Width:  100,
		Height: 100,
		Rotate: cloud.Func(func(cloud.Word, int) float64 { panic("no") }),
	}
	if _, err := NewRequest(1, cfg); !errors.Is(err, errors.ErrCodeAccessorPanic) {
		t.Errorf("NewRequest() error = %v, want ACCESSOR_PANIC", err)
	}
}

func TestRequestConfigMisaligned(t *testing.T) {
	req := Request{
		Words:    testWords,
		Width:    100,
		Height:   100,
		FontSize: cloud.ResolvedValues([]float64{1, 2}),
	}
	if _, err := req.Config(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Config() error = %v, want INVALID_INPUT", err)
	}
}

func TestProcess(t *testing.T) {
	req, _ := NewRequest(3, cloud.Config{Words: testWords, Width: 100, Height: 100, FontSize: cloud.Func(sizeByIndex)})
	data, _ := json.Marshal(req)

	var resp Response
	if err := json.Unmarshal(Process(context.Background(), echoComputer{}, data), &resp); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if resp.RequestID != 3 || resp.Err() != nil {
		t.Fatalf("resp = %+v", resp)
	}
	if len(resp.ComputedWords) != len(testWords) {
		t.Fatalf("computed %d words, want %d", len(resp.ComputedWords), len(testWords))
	}
	for i, w := range resp.ComputedWords {
		if w.Size != sizeByIndex(testWords[i], i) {
			t.Errorf("size[%d] = %v", i, w.Size)
		}
	}
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"garbage", `{not json`, errors.ErrCodeTransport},
		{"misaligned", `{"requestId":4,"words":[{"text":"a","value":1}],"width":10,"height":10,"rotate":[1,2]}`, errors.ErrCodeInvalidInput},
		{"no words", `{"requestId":5,"words":[],"width":10,"height":10}`, errors.ErrCodeEmptyWords},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp Response
			if err := json.Unmarshal(Process(context.Background(), echoComputer{}, []byte(tt.data)), &resp); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if !errors.Is(resp.Err(), tt.code) {
				t.Errorf("Err() = %v, want %s", resp.Err(), tt.code)
			}
		})
	}
}

// echoComputer places every word at the origin, sized by the config.
type echoComputer struct{}

func (echoComputer) Compute(_ context.Context, cfg cloud.Config, onWord func(cloud.PlacedWord)) ([]cloud.PlacedWord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out := make([]cloud.PlacedWord, len(cfg.Words))
	for i, w := range cfg.Words {
		out[i] = cloud.PlacedWord{Word: w, Size: cfg.FontSize.Eval(w, i)}
		if onWord != nil {
			onWord(out[i])
		}
	}
	return out, nil
}
