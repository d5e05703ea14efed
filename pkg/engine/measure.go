package engine

import (
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Measurer returns the unrotated box of text rendered at size pixels.
type Measurer interface {
	Measure(text, family, style, weight string, size float64) (width, height float64)
}

// ApproxMeasurer estimates boxes from the rune count: each rune advances
// Advance×size and the line is LineHeight×size tall.
type ApproxMeasurer struct {
	Advance    float64
	LineHeight float64
}

// Measure implements Measurer.
func (m ApproxMeasurer) Measure(text, _, _, _ string, size float64) (float64, float64) {
	advance, lineHeight := m.Advance, m.LineHeight
	if advance == 0 {
		advance = 0.6
	}
	if lineHeight == 0 {
		lineHeight = 1
	}
	return float64(utf8.RuneCountInString(text)) * advance * size, lineHeight * size
}

type fontVariant int

const (
	variantRegular fontVariant = iota
	variantBold
	variantItalic
	variantBoldItalic
)

// maxCachedFaces bounds the face cache; sizes are integral so it rarely fills.
const maxCachedFaces = 256

type faceKey struct {
	variant fontVariant
	size    float64
}

// GoFontMeasurer measures text with the Go font family. The family name is
// ignored; style and weight select the regular, bold, italic or bold-italic
// face. It is safe for concurrent use.
type GoFontMeasurer struct {
	mu    sync.Mutex
	fonts [4]*opentype.Font
	faces map[faceKey]font.Face
}

var (
	defaultMeasurer     Measurer
	defaultMeasurerOnce sync.Once
)

// DefaultMeasurer returns a shared GoFontMeasurer, or an ApproxMeasurer if the
// embedded fonts cannot be parsed.
func DefaultMeasurer() Measurer {
	defaultMeasurerOnce.Do(func() {
		m, err := NewGoFontMeasurer()
		if err != nil {
			defaultMeasurer = ApproxMeasurer{}
			return
		}
		defaultMeasurer = m
	})
	return defaultMeasurer
}

// NewGoFontMeasurer parses the embedded Go fonts.
func NewGoFontMeasurer() (*GoFontMeasurer, error) {
	m := &GoFontMeasurer{faces: make(map[faceKey]font.Face)}
	for i, data := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF} {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, err
		}
		m.fonts[i] = f
	}
	return m, nil
}

// Measure implements Measurer.
func (m *GoFontMeasurer) Measure(text, _, style, weight string, size float64) (float64, float64) {
	if size <= 0 || text == "" {
		return 0, 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	face, err := m.face(faceKey{variant: variantOf(style, weight), size: size})
	if err != nil {
		return ApproxMeasurer{}.Measure(text, "", style, weight, size)
	}
	metrics := face.Metrics()
	return toFloat(font.MeasureString(face, text)), toFloat(metrics.Ascent + metrics.Descent)
}

func (m *GoFontMeasurer) face(key faceKey) (font.Face, error) {
	if f, ok := m.faces[key]; ok {
		return f, nil
	}
	if len(m.faces) >= maxCachedFaces {
		for k, f := range m.faces {
			_ = f.Close()
			delete(m.faces, k)
		}
	}
	f, err := opentype.NewFace(m.fonts[key.variant], &opentype.FaceOptions{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	m.faces[key] = f
	return f, nil
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// variantOf maps CSS-like style and weight values onto a Go font face.
func variantOf(style, weight string) fontVariant {
	bold := false
	switch w := strings.ToLower(strings.TrimSpace(weight)); w {
	case "bold", "bolder":
		bold = true
	default:
		if n, err := strconv.Atoi(w); err == nil && n >= 600 {
			bold = true
		}
	}
	s := strings.ToLower(strings.TrimSpace(style))
	italic := s == "italic" || s == "oblique"

	switch {
	case bold && italic:
		return variantBoldItalic
	case bold:
		return variantBold
	case italic:
		return variantItalic
	}
	return variantRegular
}
