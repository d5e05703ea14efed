// Package cloud defines the data model of the word cloud layout pipeline.
//
// A layout request is a [Config]: the words to place, the canvas size and a set
// of optional per-word fields. Each per-word field is a [Field], which is either
// unset, a constant, or an [Accessor] evaluated as f(word, index).
//
// The placement engine turns a Config into [PlacedWord] records, one per word it
// managed to fit. Consumers decorate placed words with presentation fields to get
// [FinalWord] records (see [Finalize]).
//
// # Crossing an execution boundary
//
// Accessors are functions and cannot be sent to another process or goroutine
// that only receives bytes. [Resolve] evaluates a Field eagerly for every word
// and yields a [Resolved] value, which is either the constant or a positional
// array. Resolved values encode to JSON as a scalar or an array, and
// [Resolved.Field] rebuilds an index-based accessor on the receiving side:
//
//	sizes := cloud.Resolve(cfg.Words, cfg.FontSize)
//	data, _ := json.Marshal(sizes)
//	// ... on the other side
//	var got cloud.Resolved[float64]
//	_ = json.Unmarshal(data, &got)
//	field := got.Field() // field.Eval(words[i], i) == sizes.Values[i]
package cloud
