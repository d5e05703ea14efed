// Package controller owns the lifecycle of one word cloud's layout.
//
// A [Controller] accepts configurations through [Controller.Submit], runs at
// most one computation at a time, and publishes the ordered list of placed
// words for the current generation. Every submission bumps the generation;
// results tagged with an older generation are dropped before they reach
// callbacks or [Controller.State].
//
// Submissions made while a computation is running coalesce: only the latest
// configuration runs once the current computation settles. Superseded
// computations run to completion unless [WithPreemption] is set; their output
// is discarded either way.
//
// All callbacks run on the controller's own goroutine, in order:
//
//	OnStart(gen) → OnWord(w0, 0) → OnWord(w1, 1) → … → OnComplete([w0 w1 …])
//
// With offloading enabled ([Controller.SetOffload]) configurations are sent to
// a background context through an [offload.Channel]; only OnStart and
// OnComplete fire and the previous layout stays visible until the response
// to the latest request arrives.
package controller
