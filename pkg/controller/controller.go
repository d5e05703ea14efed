package controller

import (
	"context"
	"io"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/observability"
	"github.com/matzehuels/wordcloud/pkg/offload"
)

// Computer runs one layout computation. *compute.Adapter implements it.
type Computer interface {
	Compute(ctx context.Context, cfg cloud.Config, onWord func(cloud.PlacedWord)) ([]cloud.PlacedWord, error)
}

// State is a snapshot of what a consumer may display.
type State struct {
	Instance   string
	Generation uint64
	Loading    bool
	Words      []cloud.PlacedWord
	Err        error
	Offloaded  bool

	// LayoutWidth and LayoutHeight are the canvas size Words were placed on.
	// They lag behind the latest submission until its words arrive.
	LayoutWidth  float64
	LayoutHeight float64
}

// submission is a configuration waiting to run, tagged with its generation.
type submission struct {
	cfg cloud.Config
	gen uint64
}

// event is a notification from a computation goroutine.
type event struct {
	gen   uint64
	done  bool
	word  cloud.PlacedWord
	words []cloud.PlacedWord
	err   error
}

// Controller manages the layout computations of one word cloud.
type Controller struct {
	id       string
	computer Computer
	logger   *log.Logger

	onStart      func(uint64)
	onWord       func(cloud.PlacedWord, int)
	onComplete   func([]cloud.PlacedWord)
	onError      func(error)
	newTransport func() (offload.Transport, error)
	preempt      bool

	// Mailbox, written by Submit and SetOffload.
	mu      sync.Mutex
	gen     atomic.Uint64
	pending *submission
	toggle  *bool
	closed  bool
	wake    chan struct{}

	events  chan event
	closing chan struct{}
	done    chan struct{}

	stateMu  sync.RWMutex
	snapshot snapshot

	// Owned by the loop goroutine.
	computing  bool
	runningGen uint64
	cancel     context.CancelFunc
	visible    []cloud.PlacedWord
	partial    bool
	committed  []cloud.PlacedWord
	visSize    [2]float64
	comSize    [2]float64
	runSize    [2]float64
	sentSize   [2]float64
	last       *submission
	channel    *offload.Channel
	sentID     uint64
	sentGen    uint64
}

type snapshot struct {
	words     []cloud.PlacedWord
	wordsGen  uint64
	partial   bool
	loading   bool
	err       error
	offloaded bool
	size      [2]float64
}

// New creates a Controller and starts its event loop. Call Close to stop it.
func New(computer Computer, opts ...Option) *Controller {
	c := &Controller{
		id:       uuid.NewString(),
		computer: computer,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		wake:     make(chan struct{}, 1),
		events:   make(chan event, 64),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.newTransport == nil {
		c.newTransport = func() (offload.Transport, error) {
			return offload.NewWorker(c.computer), nil
		}
	}
	c.logger = c.logger.With("instance", c.id[:8])
	go c.loop()
	return c
}

// ID returns the controller's instance id.
func (c *Controller) ID() string { return c.id }

// Generation returns the current generation. It is 0 before the first Submit.
func (c *Controller) Generation() uint64 { return c.gen.Load() }

// Submit records cfg as the latest configuration and returns its generation.
// It never blocks and may be called from callbacks.
func (c *Controller) Submit(cfg cloud.Config) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, errors.New(errors.ErrCodeClosed, "controller is closed")
	}
	gen := c.gen.Add(1)
	c.pending = &submission{cfg: cfg, gen: gen}
	c.signal()
	return gen, nil
}

// SetOffload enables or disables offloading. Enabling opens a new background
// context; disabling terminates it. Repeating the current mode is a no-op.
func (c *Controller) SetOffload(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New(errors.ErrCodeClosed, "controller is closed")
	}
	c.toggle = &enabled
	c.signal()
	return nil
}

func (c *Controller) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// State returns the current snapshot. Words never contain results from a
// superseded generation.
func (c *Controller) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()

	gen := c.gen.Load()
	s := State{
		Instance:   c.id,
		Generation: gen,
		Loading:    c.snapshot.loading,
		Err:        c.snapshot.err,
		Offloaded:  c.snapshot.offloaded,
	}
	s.LayoutWidth, s.LayoutHeight = c.snapshot.size[0], c.snapshot.size[1]
	if !c.snapshot.partial || c.snapshot.wordsGen == gen {
		s.Words = slices.Clone(c.snapshot.words)
	}
	return s
}

// Close stops the event loop, cancels any running computation and terminates
// the background context. It must not be called from a callback.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.pending = nil
	c.mu.Unlock()

	close(c.closing)
	<-c.done
	return nil
}

func (c *Controller) loop() {
	defer close(c.done)
	for {
		var results <-chan offload.Response
		if c.channel != nil {
			results = c.channel.Results()
		}

		select {
		case <-c.closing:
			c.shutdown()
			return
		case <-c.wake:
			c.drain()
		case ev := <-c.events:
			c.handle(ev)
		case resp, ok := <-results:
			if !ok {
				c.channelLost()
				continue
			}
			c.receive(resp)
		}
	}
}

// drain applies mailbox contents.
func (c *Controller) drain() {
	c.mu.Lock()
	toggle := c.toggle
	c.toggle = nil
	c.mu.Unlock()

	if toggle != nil {
		c.setOffload(*toggle)
	}
	c.next()
}

// next starts the pending submission if nothing is running.
func (c *Controller) next() {
	c.mu.Lock()
	p := c.pending
	if p == nil {
		c.mu.Unlock()
		return
	}
	if c.channel == nil && c.computing {
		c.mu.Unlock()
		c.supersede(p.gen)
		return
	}
	c.pending = nil
	c.mu.Unlock()

	c.last = p
	if c.channel != nil {
		c.send(p)
		return
	}
	c.start(p)
}

// supersede handles a newer submission arriving while a computation runs.
func (c *Controller) supersede(gen uint64) {
	c.logger.Debug("coalescing submission", "generation", gen, "running", c.runningGen)
	if c.partial {
		c.visible = nil
		c.publish()
	}
	if c.preempt && c.cancel != nil {
		c.cancel()
	}
}

func (c *Controller) start(p *submission) {
	ctx, cancel := context.WithCancel(context.Background())
	c.computing = true
	c.runningGen = p.gen
	c.cancel = cancel
	c.runSize = canvas(p.cfg)
	c.visible = nil
	c.visSize = c.runSize
	c.partial = true
	c.setLoading(true, nil)

	c.logger.Debug("computing layout", "generation", p.gen, "words", len(p.cfg.Words))
	if c.onStart != nil {
		c.onStart(p.gen)
	}

	go func(gen uint64, cfg cloud.Config) {
		words, err := c.computer.Compute(ctx, cfg, func(w cloud.PlacedWord) {
			c.emit(event{gen: gen, word: w})
		})
		c.emit(event{gen: gen, done: true, words: words, err: err})
	}(p.gen, p.cfg)
}

func (c *Controller) emit(ev event) {
	select {
	case c.events <- ev:
	case <-c.closing:
	}
}

func (c *Controller) handle(ev event) {
	current := ev.gen == c.gen.Load()

	if !ev.done {
		if !current {
			c.logger.Debug("discarded stale word", "generation", ev.gen, "text", ev.word.Text)
			return
		}
		c.visible = append(c.visible, ev.word)
		c.publish()
		if c.onWord != nil {
			c.onWord(ev.word, len(c.visible)-1)
		}
		return
	}

	if ev.gen == c.runningGen {
		c.computing = false
		c.cancel()
		c.cancel = nil
	}

	switch {
	case !current:
		c.logger.Debug("discarded stale layout", "generation", ev.gen)
		observability.Layout().OnStaleDiscard(context.Background(), "controller", ev.gen)
	case ev.err != nil:
		c.fail(ev.gen, ev.err)
	default:
		c.commit(ev.gen, c.visible, c.runSize)
	}
	c.next()
}

// send forwards a submission to the background context.
func (c *Controller) send(p *submission) {
	c.partial = false
	c.visible, c.visSize = c.committed, c.comSize
	c.sentSize = canvas(p.cfg)
	c.setLoading(true, nil)
	if c.onStart != nil {
		c.onStart(p.gen)
	}

	id, err := c.channel.Request(context.Background(), p.cfg)
	c.sentID, c.sentGen = id, p.gen
	if err != nil {
		c.fail(p.gen, err)
		return
	}
	c.logger.Debug("offloaded layout", "generation", p.gen, "request", id)
}

// receive handles a response that matched the channel's latest request.
func (c *Controller) receive(resp offload.Response) {
	if resp.RequestID != c.sentID || c.sentGen != c.gen.Load() {
		c.logger.Debug("discarded stale response", "request", resp.RequestID)
		observability.Layout().OnStaleDiscard(context.Background(), "offload", resp.RequestID)
		return
	}
	if err := resp.Err(); err != nil {
		c.fail(c.sentGen, err)
		return
	}
	c.commit(c.sentGen, resp.ComputedWords, c.sentSize)
}

func (c *Controller) commit(gen uint64, words []cloud.PlacedWord, size [2]float64) {
	if words == nil {
		words = []cloud.PlacedWord{}
	}
	c.committed, c.comSize = words, size
	c.visible, c.visSize = words, size
	c.partial = false
	c.setLoading(false, nil)

	c.logger.Debug("layout complete", "generation", gen, "words", len(words))
	if c.onComplete != nil {
		c.onComplete(slices.Clone(words))
	}
}

// fail restores the last completed layout and reports err.
func (c *Controller) fail(gen uint64, err error) {
	c.visible, c.visSize = c.committed, c.comSize
	c.partial = false
	c.setLoading(false, err)

	c.logger.Warn("layout failed", "generation", gen, "error", err)
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *Controller) setOffload(enabled bool) {
	if enabled == (c.channel != nil) {
		return
	}
	if !enabled {
		waiting := c.snapshot.loading && !c.computing
		c.closeChannel()
		c.publish()
		// Recompute locally what the background context never answered.
		if waiting && c.last != nil {
			c.mu.Lock()
			if c.pending == nil && c.last.gen == c.gen.Load() {
				c.pending = c.last
			}
			c.mu.Unlock()
		}
		return
	}

	t, err := c.newTransport()
	if err != nil {
		c.fail(c.gen.Load(), errors.Wrap(errors.ErrCodeTransport, err, "start background worker"))
		return
	}
	c.channel = offload.Open(t, offload.WithChannelLogger(c.logger))
	c.sentID, c.sentGen = 0, 0
	c.logger.Debug("offloading enabled")
	c.publish()
}

// channelLost handles a transport that stopped on its own.
func (c *Controller) channelLost() {
	c.closeChannel()
	if c.snapshot.loading && !c.computing {
		c.fail(c.gen.Load(), errors.New(errors.ErrCodeTransport, "background worker stopped"))
		return
	}
	c.publish()
}

func (c *Controller) closeChannel() {
	if c.channel == nil {
		return
	}
	if err := c.channel.Close(); err != nil {
		c.logger.Warn("closing offload channel", "error", err)
	}
	c.channel = nil
	c.sentID, c.sentGen = 0, 0
	c.logger.Debug("offloading disabled")
}

func (c *Controller) shutdown() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.closeChannel()
	c.stateMu.Lock()
	c.snapshot.loading = false
	c.snapshot.offloaded = false
	c.stateMu.Unlock()
}

func (c *Controller) setLoading(loading bool, err error) {
	c.stateMu.Lock()
	c.snapshot.loading = loading
	c.snapshot.err = err
	c.stateMu.Unlock()
	c.publish()
}

func (c *Controller) publish() {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.snapshot.words = c.visible
	c.snapshot.partial = c.partial
	c.snapshot.wordsGen = c.runningGen
	c.snapshot.offloaded = c.channel != nil
	c.snapshot.size = c.visSize
}

func canvas(cfg cloud.Config) [2]float64 {
	return [2]float64{cfg.Width, cfg.Height}
}
