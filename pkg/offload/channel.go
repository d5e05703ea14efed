package offload

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/observability"
)

// Channel sends configurations over a Transport and delivers the response to
// the most recent one.
type Channel struct {
	transport Transport
	logger    *log.Logger

	mu     sync.Mutex // serializes Request and Close
	next   uint64
	latest atomic.Uint64
	closed bool

	results chan Response
	done    chan struct{}
	stopped chan struct{}
}

// ChannelOption configures a Channel.
type ChannelOption func(*Channel)

// WithChannelLogger sets the channel's logger. The default discards output.
func WithChannelLogger(l *log.Logger) ChannelOption {
	return func(c *Channel) {
		if l != nil {
			c.logger = l
		}
	}
}

// Open starts reading responses from t. The Channel owns t and closes it on
// Close.
func Open(t Transport, opts ...ChannelOption) *Channel {
	c := &Channel{
		transport: t,
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		results:   make(chan Response, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.read()
	return c
}

// Request resolves cfg, assigns it the next request id and sends it. The id
// becomes the latest requested id before the message is sent, so any response
// still in flight for an earlier request is discarded on arrival.
//
// Resolution and send failures are returned directly; nothing will arrive on
// Results for that id.
func (c *Channel) Request(ctx context.Context, cfg cloud.Config) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, errors.New(errors.ErrCodeClosed, "offload channel is closed")
	}

	c.next++
	id := c.next
	c.latest.Store(id)

	req, err := NewRequest(id, cfg)
	if err != nil {
		return id, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		return id, errors.Wrap(errors.ErrCodeTransport, err, "encode request %d", id)
	}
	if err := c.transport.Send(ctx, data); err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeTransport, err, "send request %d", id)
		}
		return id, err
	}

	c.logger.Debug("offloaded layout", "request", id, "words", len(cfg.Words), "bytes", len(data))
	return id, nil
}

// Latest returns the most recently issued request id, or 0 before the first.
func (c *Channel) Latest() uint64 { return c.latest.Load() }

// Results delivers responses whose id matched the latest request on arrival.
// It is closed after Close or when the transport stops.
func (c *Channel) Results() <-chan Response { return c.results }

// Close terminates the transport and drops every in-flight request.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.done)
	err := c.transport.Close()
	<-c.stopped
	return err
}

func (c *Channel) read() {
	defer close(c.stopped)
	defer close(c.results)

	in := c.transport.Receive()
	for {
		var data []byte
		select {
		case <-c.done:
			return
		case d, ok := <-in:
			if !ok {
				return
			}
			data = d
		}

		var resp Response
		if err := json.Unmarshal(data, &resp); err != nil {
			// The id is unknown; report against the latest request so the
			// caller stops waiting.
			c.logger.Warn("undecodable worker response", "error", err)
			resp = errorResponse(c.Latest(), errors.Wrap(errors.ErrCodeTransport, err, "decode response"))
		}

		if latest := c.Latest(); resp.RequestID != latest {
			c.logger.Debug("discarded stale response", "request", resp.RequestID, "latest", latest)
			observability.Layout().OnStaleDiscard(context.Background(), "offload", resp.RequestID)
			continue
		}

		select {
		case c.results <- resp:
		case <-c.done:
			return
		}
	}
}
