package cache

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey generates a key for a computed layout.
	LayoutKey(wordsHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a computed layout.
type LayoutKeyOpts struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Spiral      string  `json:"spiral"`
	Font        string  `json:"font"`
	FontStyle   string  `json:"font_style"`
	FontWeight  string  `json:"font_weight"`
	FontScale   string  `json:"font_scale"`
	MinFontSize float64 `json:"min_font_size"`
	MaxFontSize float64 `json:"max_font_size"`
	Rotation    string  `json:"rotation"`
	Padding     float64 `json:"padding"`
	Seed        uint64  `json:"seed"`
}

// ArtifactKeyOpts are the options that change a rendered artifact beyond the
// layout document itself.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Background string `json:"background,omitempty"`
	Titles     bool   `json:"titles,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(wordsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", wordsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
