// Package pkg provides the core libraries for wordcloud layouts.
//
// # Overview
//
// Wordcloud places weighted words on a canvas without overlap, largest first,
// by walking each word outward along a spiral until it fits. The pkg
// directory is organized by stage:
//
//  1. [cloud] - Words, configuration fields and per-word accessors
//  2. [engine] - The spiral placement engine and glyph measurement
//  3. [compute] - The adapter that validates input and drives the engine
//  4. [controller] - Incremental recomputation with stale-result discarding
//  5. [offload] - Running computations behind a message boundary
//  6. [screen] - Mapping layout positions onto rendered surfaces
//  7. [pipeline] - Orchestration (words → layout → artifacts) with caching
//
// # Architecture
//
// The typical data flow:
//
//	words or text
//	     ↓
//	[pipeline] resolves options into a [cloud.Config]
//	     ↓
//	[compute] resolves accessors and runs [engine]
//	     ↓
//	[layout] decorates placed words with fills and transitions
//	     ↓
//	[render/sink] writes SVG or JSON
//
// Interactive consumers use [controller] instead of [pipeline]: each new
// configuration supersedes the previous one, words stream in as they are
// placed, and computation can move to a background worker through [offload].
//
// # Quick Start
//
//	opts := pipeline.Options{Text: speech, Width: 800, Height: 600}
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(ctx, opts)
//	svg := result.Artifacts["svg"]
//
// # Supporting Packages
//
// [cache] stores placements and artifacts on disk or in Redis. [io] reads
// and writes cloud files. [errors] defines the error codes shared by the
// library, CLI and HTTP API. [observability] exposes hooks for metrics and
// tracing. [buildinfo] carries version information.
//
// [cloud]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/cloud
// [cloud.Config]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/cloud#Config
// [engine]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/engine
// [compute]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/compute
// [controller]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/controller
// [offload]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/offload
// [screen]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/screen
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/pipeline
// [layout]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/layout
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/render/sink
// [cache]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/buildinfo
package pkg
