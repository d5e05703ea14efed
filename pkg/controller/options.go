package controller

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/offload"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOnStart registers the callback fired when a generation starts computing.
func WithOnStart(fn func(generation uint64)) Option {
	return func(c *Controller) { c.onStart = fn }
}

// WithOnWord registers the callback fired for each placed word of the current
// generation. index is the word's position in the growing result list.
func WithOnWord(fn func(w cloud.PlacedWord, index int)) Option {
	return func(c *Controller) { c.onWord = fn }
}

// WithOnComplete registers the callback fired with the full result list once
// the current generation finishes. The slice is owned by the callee.
func WithOnComplete(fn func(words []cloud.PlacedWord)) Option {
	return func(c *Controller) { c.onComplete = fn }
}

// WithOnError registers the callback fired when the current generation fails.
func WithOnError(fn func(err error)) Option {
	return func(c *Controller) { c.onError = fn }
}

// WithOffload sets the factory that creates the background transport each
// time offloading is enabled. The default runs an in-process offload.Worker
// on the controller's computer.
func WithOffload(factory func() (offload.Transport, error)) Option {
	return func(c *Controller) { c.newTransport = factory }
}

// WithPreemption cancels a running computation as soon as a newer
// configuration is submitted, instead of letting it run to completion.
func WithPreemption() Option {
	return func(c *Controller) { c.preempt = true }
}
