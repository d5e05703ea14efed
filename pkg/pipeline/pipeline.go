// Package pipeline provides the batch word cloud pipeline.
//
// This package implements the complete words → layout → render pipeline used
// by the CLI and the HTTP server. By centralizing this logic, both entry points
// apply the same defaults, cache keys and presentation rules.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Words: take the explicit word list, or count word frequencies in text
//  2. Layout: translate Options into a layout configuration and place words
//  3. Render: generate output in the requested formats (SVG, JSON)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Text:    article,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	l, err := runner.Layout(ctx, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/compute"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 600.0

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultMaxWords caps the number of words counted from free text.
	DefaultMaxWords = 150

	// DefaultMinFontSize and DefaultMaxFontSize bound scaled font sizes.
	DefaultMinFontSize = 10.0
	DefaultMaxFontSize = 80.0
)

// Font size scales.
const (
	ScaleSqrt   = "sqrt"
	ScaleLinear = "linear"
	ScaleLog    = "log"
)

// Rotation modes.
const (
	RotationRandom     = "random"
	RotationNone       = "none"
	RotationOrthogonal = "orthogonal"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// DefaultSpiral is the default spiral.
const DefaultSpiral = string(cloud.SpiralArchimedean)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidScales is the set of supported font size scales.
var ValidScales = map[string]bool{
	ScaleSqrt:   true,
	ScaleLinear: true,
	ScaleLog:    true,
}

// ValidRotations is the set of supported rotation modes.
var ValidRotations = map[string]bool{
	RotationRandom:     true,
	RotationNone:       true,
	RotationOrthogonal: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the word cloud pipeline.
// This struct supports JSON serialization for API requests and TOML for
// cloud files.
type Options struct {
	// Input: Words wins over Text.
	Words    []cloud.Word `json:"words,omitempty" toml:"words,omitempty"`
	Text     string       `json:"text,omitempty" toml:"text,omitempty"`
	MaxWords int          `json:"max_words,omitempty" toml:"max_words,omitempty"`

	// Layout options
	Width       float64 `json:"width,omitempty" toml:"width,omitempty"`
	Height      float64 `json:"height,omitempty" toml:"height,omitempty"`
	Spiral      string  `json:"spiral,omitempty" toml:"spiral,omitempty"`
	Font        string  `json:"font,omitempty" toml:"font,omitempty"`
	FontStyle   string  `json:"font_style,omitempty" toml:"font_style,omitempty"`
	FontWeight  string  `json:"font_weight,omitempty" toml:"font_weight,omitempty"`
	FontScale   string  `json:"font_scale,omitempty" toml:"font_scale,omitempty"`
	MinFontSize float64 `json:"min_font_size,omitempty" toml:"min_font_size,omitempty"`
	MaxFontSize float64 `json:"max_font_size,omitempty" toml:"max_font_size,omitempty"`
	Rotation    string  `json:"rotation,omitempty" toml:"rotation,omitempty"`
	Padding     float64 `json:"padding,omitempty" toml:"padding,omitempty"` // 0 selects the engine default
	Seed        uint64  `json:"seed,omitempty" toml:"seed,omitempty"`
	Refresh     bool    `json:"refresh,omitempty" toml:"-"`

	// Presentation options
	Palette    []string          `json:"palette,omitempty" toml:"palette,omitempty"`
	Gradients  []layout.Gradient `json:"gradients,omitempty" toml:"gradients,omitempty"`
	Transition string            `json:"transition,omitempty" toml:"transition,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty" toml:"formats,omitempty"`
	Background string   `json:"background,omitempty" toml:"background,omitempty"`
	Titles     bool     `json:"titles,omitempty" toml:"titles,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// WordsHash is the content hash of the input word list.
	WordsHash string

	// Layout is the computed, decorated layout.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	WordCount   int
	PlacedCount int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateScale checks that a font size scale is valid.
func ValidateScale(scale string) error {
	if !ValidScales[scale] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid font_scale: %q (must be one of: sqrt, linear, log)", scale)
	}
	return nil
}

// ValidateRotation checks that a rotation mode is valid.
func ValidateRotation(rotation string) error {
	if !ValidRotations[rotation] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid rotation: %q (must be one of: random, none, orthogonal)", rotation)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Spiral == "" {
		o.Spiral = DefaultSpiral
	}
	if o.Font == "" {
		o.Font = compute.DefaultFont
	}
	if o.FontStyle == "" {
		o.FontStyle = compute.DefaultFontStyle
	}
	if o.FontWeight == "" {
		o.FontWeight = compute.DefaultFontWeight
	}
	if o.FontScale == "" {
		o.FontScale = ScaleSqrt
	}
	if o.MinFontSize == 0 {
		o.MinFontSize = DefaultMinFontSize
	}
	if o.MaxFontSize == 0 {
		o.MaxFontSize = DefaultMaxFontSize
	}
	if o.Rotation == "" {
		o.Rotation = RotationRandom
	}
	if o.MaxWords == 0 {
		o.MaxWords = DefaultMaxWords
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
// It resolves Text into Words, so it must run before the words are hashed.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	o.Words = o.ResolveWords()
	if err := errors.ValidateWordCount(len(o.Words)); err != nil {
		return err
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if err := errors.ValidateSpiral(o.Spiral); err != nil {
		return err
	}
	if err := ValidateScale(o.FontScale); err != nil {
		return err
	}
	if err := ValidateRotation(o.Rotation); err != nil {
		return err
	}
	if o.MinFontSize < 0 || o.MaxFontSize < o.MinFontSize {
		return errors.New(errors.ErrCodeInvalidInput, "invalid font size range [%v, %v]", o.MinFontSize, o.MaxFontSize)
	}
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "padding must not be negative, got %v", o.Padding)
	}
	for _, g := range o.Gradients {
		if g.ID == "" || (g.Type != layout.GradientLinear && g.Type != layout.GradientRadial) {
			return errors.New(errors.ErrCodeInvalidInput, "invalid gradient %q (need an id and type linear or radial)", g.ID)
		}
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:       o.Width,
		Height:      o.Height,
		Spiral:      o.Spiral,
		Font:        o.Font,
		FontStyle:   o.FontStyle,
		FontWeight:  o.FontWeight,
		FontScale:   o.FontScale,
		MinFontSize: o.MinFontSize,
		MaxFontSize: o.MaxFontSize,
		Rotation:    o.Rotation,
		Padding:     o.Padding,
		Seed:        o.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Background: o.Background,
		Titles:     o.Titles,
	}
}
