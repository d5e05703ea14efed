// Package layout defines the serialized form of a computed word cloud.
//
// A [Layout] is what the layout command writes and the render command reads:
// the canvas size, the options that produced it, and the placed words with
// their presentation fields. Coordinates are relative to the canvas center.
package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

// Layout is a finished word cloud.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Seed   uint64  `json:"seed,omitempty"`
	Spiral string  `json:"spiral,omitempty"`

	Words []cloud.FinalWord `json:"words"`

	// Skipped lists input words the engine could not place.
	Skipped []string `json:"skipped,omitempty"`

	// Gradients are paint servers words may reference with "url(#id)" fills.
	Gradients []Gradient `json:"gradients,omitempty"`
}

// Gradient is a linear or radial color gradient.
type Gradient struct {
	ID    string  `json:"id" toml:"id"`
	Type  string  `json:"type" toml:"type"`                       // "linear" or "radial"
	Angle float64 `json:"angle,omitempty" toml:"angle,omitempty"` // degrees, linear only
	Stops []Stop  `json:"stops" toml:"stops"`
}

// Stop is one color stop of a Gradient.
type Stop struct {
	Offset string `json:"offset" toml:"offset"`
	Color  string `json:"color" toml:"color"`
}

// Gradient types.
const (
	GradientLinear = "linear"
	GradientRadial = "radial"
)

// New builds a Layout from placed words. input is the word list the layout
// was computed from; words missing from placed are recorded as skipped.
func New(width, height float64, input []cloud.Word, placed []cloud.FinalWord) Layout {
	seen := make(map[string]int, len(placed))
	for _, w := range placed {
		seen[w.Text]++
	}
	var skipped []string
	for _, w := range input {
		if seen[w.Text] > 0 {
			seen[w.Text]--
			continue
		}
		skipped = append(skipped, w.Text)
	}
	if placed == nil {
		placed = []cloud.FinalWord{}
	}
	return Layout{Width: width, Height: height, Words: placed, Skipped: skipped}
}

// Validate checks the canvas size and gradient definitions.
func (l Layout) Validate() error {
	if err := errors.ValidateDimensions(l.Width, l.Height); err != nil {
		return err
	}
	for _, g := range l.Gradients {
		if g.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "gradient without id")
		}
		if g.Type != GradientLinear && g.Type != GradientRadial {
			return errors.New(errors.ErrCodeInvalidInput, "gradient %q: invalid type %q (must be linear or radial)", g.ID, g.Type)
		}
	}
	return nil
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes and validates a Layout.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	if l.Words == nil {
		l.Words = []cloud.FinalWord{}
	}
	return l, nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
