package offload

import (
	"context"
	"sync"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// Worker is an in-process Transport backed by a single goroutine. Requests
// are processed one at a time. When several requests queue up behind a running
// one, only the newest is processed and the rest are dropped unanswered: a
// Channel numbers requests in send order, so the older ones are already stale.
type Worker struct {
	computer Computer

	mu     sync.Mutex
	queue  [][]byte
	closed bool

	wake   chan struct{}
	out    chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWorker starts a background worker running requests on c.
func NewWorker(c Computer) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		computer: c,
		wake:     make(chan struct{}, 1),
		out:      make(chan []byte, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// Send implements Transport. It never blocks.
func (w *Worker) Send(_ context.Context, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New(errors.ErrCodeClosed, "worker is closed")
	}
	w.queue = append(w.queue, data)
	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

// Receive implements Transport.
func (w *Worker) Receive() <-chan []byte { return w.out }

// Close stops the worker and drops queued requests. A computation in
// progress is canceled.
func (w *Worker) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.queue = nil
	w.mu.Unlock()

	w.cancel()
	<-w.done
	return nil
}

func (w *Worker) run() {
	defer close(w.done)
	defer close(w.out)
	for {
		data, ok := w.next()
		if !ok {
			select {
			case <-w.ctx.Done():
				return
			case <-w.wake:
			}
			continue
		}

		resp := Process(w.ctx, w.computer, data)
		select {
		case w.out <- resp:
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *Worker) next() ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return nil, false
	}
	data := w.queue[len(w.queue)-1]
	w.queue = w.queue[:0]
	return data, true
}
