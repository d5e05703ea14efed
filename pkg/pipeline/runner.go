package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/compute"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, adapter and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the same
// Runner with different options; concurrent runs of identical layouts are
// computed once.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Adapter *compute.Adapter

	inflight singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Adapter: compute.New(nil, compute.WithLogger(logger)),
	}
}

// Execute runs the complete words → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	return r.ExecuteStream(ctx, opts, nil)
}

// ExecuteStream is Execute with a per-word progress callback. onWord is
// called only when the layout is computed by this call, not on cache hits.
func (r *Runner) ExecuteStream(ctx context.Context, opts Options, onWord func(cloud.PlacedWord)) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		WordsHash: wordsHash(opts.Words),
	}
	result.Stats.WordCount = len(opts.Words)

	// Stage 1: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, opts, onWord)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.PlacedCount = len(l.Words)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"words", len(opts.Words),
		"placed", len(l.Words),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes a decorated layout with caching and returns
// cache hit info. Only placement is cached; presentation options are applied
// on every call.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, opts Options, onWord func(cloud.PlacedWord)) (layout.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(wordsHash(opts.Words), opts.LayoutKeyOpts())
	hooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var placed []cloud.PlacedWord
			if err := json.Unmarshal(data, &placed); err == nil {
				hooks.OnCacheHit(ctx, cacheKey)
				return opts.Decorate(placed), true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		hooks.OnCacheMiss(ctx, cacheKey)
	}

	placed, shared, err := r.compute(ctx, cacheKey, opts, onWord)
	if err != nil {
		return layout.Layout{}, false, err
	}
	if shared {
		r.Logger.Debug("shared in-flight layout", "key", cacheKey)
	}

	if data, err := json.Marshal(placed); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			hooks.OnCacheSet(ctx, cacheKey, len(data))
		}
	}

	return opts.Decorate(placed), false, nil
}

// compute runs the placement for key, sharing it with identical in-flight
// calls. The shared computation is detached from any single caller's
// context; each caller still stops waiting when its own ctx is done, and
// onWord is never called after compute returns.
func (r *Runner) compute(ctx context.Context, key string, opts Options, onWord func(cloud.PlacedWord)) ([]cloud.PlacedWord, bool, error) {
	var (
		mu       sync.Mutex
		detached bool
	)
	stream := func(w cloud.PlacedWord) {
		mu.Lock()
		defer mu.Unlock()
		if !detached && onWord != nil {
			onWord(w)
		}
	}
	detach := func() {
		mu.Lock()
		detached = true
		mu.Unlock()
	}

	ch := r.inflight.DoChan(key, func() (any, error) {
		return r.Adapter.Compute(context.WithoutCancel(ctx), opts.Config(), stream)
	})
	select {
	case res := <-ch:
		detach()
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		return res.Val.([]cloud.PlacedWord), res.Shared, nil
	case <-ctx.Done():
		detach()
		return nil, false, ctx.Err()
	}
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, opts, nil)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := layout.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	rendered, err := RenderFromLayout(l, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func wordsHash(words []cloud.Word) string {
	data, _ := json.Marshal(words)
	return cache.Hash(data)
}
