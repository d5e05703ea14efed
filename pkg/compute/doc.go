// Package compute adapts a [cloud.Config] to a placement [engine.Engine].
//
// The [Adapter] fills unset fields with the default policies, turns every set
// field into a per-word evaluator, and forwards each placed word to an optional
// callback in placement order:
//
//	a := compute.New(engine.New())
//	words, err := a.Compute(ctx, cfg, func(w cloud.PlacedWord) {
//	    fmt.Println(w.Text, w.X, w.Y)
//	})
//
// The adapter performs no retries. Configuration errors are reported before
// the engine runs; a panicking accessor aborts the computation with an
// ACCESSOR_PANIC error.
package compute
