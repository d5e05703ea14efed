package cloud

import (
	"time"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// Config fully describes one layout request.
//
// Words, Width and Height are required. Every other field is optional; the
// compute adapter fills defaults for unset fields. A Config is treated as a
// value: nothing in the pipeline modifies it after submission.
type Config struct {
	Words  []Word
	Width  float64
	Height float64

	// TimeInterval bounds how long the engine works before yielding. Zero means
	// no slicing.
	TimeInterval time.Duration

	// Spiral selects a built-in spiral. SpiralFunc, when set, takes precedence
	// but cannot be sent to an offload worker.
	Spiral     SpiralKind
	SpiralFunc SpiralFunc

	Padding    Field[float64]
	Font       Field[string]
	FontStyle  Field[string]
	FontWeight Field[string]
	FontSize   Field[float64]
	Rotate     Field[float64]

	// Random is the engine's source of randomness, returning values in [0, 1).
	Random func() float64
}

// Validate checks the required fields. Word texts are checked individually.
func (c Config) Validate() error {
	if err := errors.ValidateDimensions(c.Width, c.Height); err != nil {
		return err
	}
	if err := errors.ValidateWordCount(len(c.Words)); err != nil {
		return err
	}
	for _, w := range c.Words {
		if err := errors.ValidateWordText(w.Text); err != nil {
			return err
		}
	}
	if c.SpiralFunc == nil {
		if err := errors.ValidateSpiral(string(c.Spiral)); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the canvas size as [width, height].
func (c Config) Size() [2]float64 {
	return [2]float64{c.Width, c.Height}
}
