// Package offload moves layout computations to a background execution context.
//
// Per-word accessors cannot cross the boundary, so a [Request] carries every
// configured field either as a constant or as an array aligned with the word
// list. The receiving side rebuilds index lookups from the arrays and runs the
// non-streaming computation path.
//
// A [Channel] owns the request counter. Only the response to the most recently
// issued request is delivered on [Channel.Results]; responses to earlier
// requests are dropped silently.
//
// Two [Transport] implementations are provided: [NewWorker] runs requests on an
// in-process goroutine and [NewHTTPTransport] posts them to the /v1/worker
// endpoint of a running wordcloud server.
package offload
