package compute

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/engine"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/observability"
)

// Adapter runs layout configurations against a placement engine.
// It holds no per-computation state and is safe for concurrent use.
type Adapter struct {
	engine engine.Engine
	logger *log.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter's logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Adapter for eng. A nil eng uses engine.New().
func New(eng engine.Engine, opts ...Option) *Adapter {
	if eng == nil {
		eng = engine.New()
	}
	a := &Adapter{
		engine: eng,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// accessorPanic tags a panic raised by a user accessor.
type accessorPanic struct {
	field string
	index int
	value any
}

// Compute lays out cfg and returns the placed words in placement order.
// When onWord is non-nil it receives each word as soon as it is placed, and
// all onWord calls happen before Compute returns.
func (a *Adapter) Compute(ctx context.Context, cfg cloud.Config, onWord func(cloud.PlacedWord)) (words []cloud.PlacedWord, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hooks := observability.Layout()
	hooks.OnComputeStart(ctx, len(cfg.Words))
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			words, err = nil, panicError(r)
		}
		hooks.OnComputeComplete(ctx, len(words), time.Since(start), err)
	}()

	req := a.request(cfg)
	a.logger.Debug("computing layout",
		"words", len(cfg.Words),
		"width", cfg.Width,
		"height", cfg.Height,
		"spiral", req.Spiral)

	words, err = a.engine.Place(ctx, req, onWord)
	if err != nil {
		if ctx.Err() != nil || errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeEngine, err, "place words")
	}

	a.logger.Debug("computed layout",
		"placed", len(words),
		"skipped", len(cfg.Words)-len(words),
		"duration", time.Since(start))
	return words, nil
}

// ComputeBatch is the non-streaming path: it returns the full layout without
// per-word notifications.
func (a *Adapter) ComputeBatch(ctx context.Context, cfg cloud.Config) ([]cloud.PlacedWord, error) {
	return a.Compute(ctx, cfg, nil)
}

// request builds the engine request, applying the default policies.
func (a *Adapter) request(cfg cloud.Config) engine.Request {
	spiral := cfg.Spiral
	if spiral == "" {
		spiral = DefaultSpiral
	}
	rotate := cfg.Rotate.Accessor()
	if rotate == nil {
		rotate = DefaultRotate(cfg.Random)
	}

	return engine.Request{
		Words:        cfg.Words,
		Size:         cfg.Size(),
		TimeInterval: cfg.TimeInterval,
		Spiral:       spiral,
		SpiralFunc:   cfg.SpiralFunc,
		Padding:      guard("padding", cfg.Padding.Or(cloud.Const(DefaultPadding))),
		Font:         guard("font", cfg.Font.Or(cloud.Const(DefaultFont))),
		FontStyle:    guard("fontStyle", cfg.FontStyle.Or(cloud.Const(DefaultFontStyle))),
		FontWeight:   guard("fontWeight", cfg.FontWeight.Or(cloud.Const(DefaultFontWeight))),
		FontSize:     guard("fontSize", cfg.FontSize.Or(cloud.Func(DefaultFontSize))),
		Rotate:       guardFunc("rotate", rotate),
		Random:       cfg.Random,
	}
}

// guard returns f as an engine evaluator. Accessors are wrapped so their
// panics can be told apart from engine failures; constants are passed as is.
func guard[T any](field string, f cloud.Field[T]) cloud.Accessor[T] {
	if !f.IsFunc() {
		return f.Accessor()
	}
	return guardFunc(field, f.Accessor())
}

func guardFunc[T any](field string, fn cloud.Accessor[T]) cloud.Accessor[T] {
	return func(w cloud.Word, i int) T {
		defer func() {
			if r := recover(); r != nil {
				panic(accessorPanic{field: field, index: i, value: r})
			}
		}()
		return fn(w, i)
	}
}

func panicError(r any) error {
	if p, ok := r.(accessorPanic); ok {
		return errors.PanicError(p.value, "%s accessor panicked on word %d", p.field, p.index)
	}
	return errors.Wrap(errors.ErrCodeEngine, fmt.Errorf("%v", r), "placement engine panicked")
}
