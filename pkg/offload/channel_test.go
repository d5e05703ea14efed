package offload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/compute"
	"github.com/matzehuels/wordcloud/pkg/engine"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

// manualTransport records sent requests; tests push responses by hand.
type manualTransport struct {
	mu      sync.Mutex
	sent    []Request
	sendErr error
	in      chan []byte
	closed  bool
}

func newManualTransport() *manualTransport {
	return &manualTransport{in: make(chan []byte, 8)}
}

func (m *manualTransport) Send(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return err
	}
	m.sent = append(m.sent, req)
	return nil
}

func (m *manualTransport) Receive() <-chan []byte { return m.in }

func (m *manualTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.in)
	}
	return nil
}

func (m *manualTransport) respond(id uint64, text string) {
	data, _ := json.Marshal(Response{RequestID: id, ComputedWords: []cloud.PlacedWord{{Word: cloud.Word{Text: text}}}})
	m.in <- data
}

func testConfig() cloud.Config {
	return cloud.Config{Words: testWords, Width: 400, Height: 300}
}

func receive(t *testing.T, c *Channel) Response {
	t.Helper()
	select {
	case resp, ok := <-c.Results():
		if !ok {
			t.Fatal("results closed")
		}
		return resp
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for response")
	}
	return Response{}
}

func TestChannelRequestIDsAreMonotonic(t *testing.T) {
	tr := newManualTransport()
	c := Open(tr)
	defer c.Close()

	for want := uint64(1); want <= 3; want++ {
		id, err := c.Request(context.Background(), testConfig())
		if err != nil {
			t.Fatalf("Request() error: %v", err)
		}
		if id != want || c.Latest() != want {
			t.Errorf("id = %d, Latest() = %d, want %d", id, c.Latest(), want)
		}
	}
	if len(tr.sent) != 3 {
		t.Errorf("sent %d requests, want 3", len(tr.sent))
	}
}

func TestChannelDiscardsStaleResponses(t *testing.T) {
	tr := newManualTransport()
	c := Open(tr)
	defer c.Close()

	first, _ := c.Request(context.Background(), testConfig())
	second, _ := c.Request(context.Background(), testConfig())

	tr.respond(first, "stale")
	tr.respond(second, "fresh")

	resp := receive(t, c)
	if resp.RequestID != second || resp.ComputedWords[0].Text != "fresh" {
		t.Errorf("got response %d %v, want %d fresh", resp.RequestID, resp.ComputedWords, second)
	}
	select {
	case extra := <-c.Results():
		t.Errorf("unexpected extra response %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestChannelSendError(t *testing.T) {
	tr := newManualTransport()
	tr.sendErr = fmt.Errorf("pipe broken")
	c := Open(tr)
	defer c.Close()

	_, err := c.Request(context.Background(), testConfig())
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("Request() error = %v, want TRANSPORT", err)
	}
}

func TestChannelClose(t *testing.T) {
	tr := newManualTransport()
	c := Open(tr)
	if _, err := c.Request(context.Background(), testConfig()); err != nil {
		t.Fatalf("Request() error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if _, ok := <-c.Results(); ok {
		t.Error("Results() should be closed")
	}
	if !tr.closed {
		t.Error("transport should be closed")
	}
	if _, err := c.Request(context.Background(), testConfig()); !errors.Is(err, errors.ErrCodeClosed) {
		t.Errorf("Request() after Close error = %v, want CLOSED", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}

func TestWorkerRoundTrip(t *testing.T) {
	a := compute.New(engine.New(engine.WithMeasurer(engine.ApproxMeasurer{})))
	c := Open(NewWorker(a))
	defer c.Close()

	cfg := testConfig()
	cfg.FontSize = cloud.Func(sizeByIndex)
	cfg.Rotate = cloud.Const(0.0)
	id, err := c.Request(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Request() error: %v", err)
	}

	resp := receive(t, c)
	if resp.RequestID != id || resp.Err() != nil {
		t.Fatalf("resp = %+v", resp)
	}
	sizes := map[string]float64{}
	for i, w := range testWords {
		sizes[w.Text] = sizeByIndex(w, i)
	}
	for _, w := range resp.ComputedWords {
		if w.Size != sizes[w.Text] {
			t.Errorf("%q size = %v, want %v", w.Text, w.Size, sizes[w.Text])
		}
	}
}

// gatedComputer blocks every computation until gate is closed.
type gatedComputer struct {
	gate chan struct{}
}

func (g gatedComputer) Compute(ctx context.Context, cfg cloud.Config, onWord func(cloud.PlacedWord)) ([]cloud.PlacedWord, error) {
	select {
	case <-g.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return echoComputer{}.Compute(ctx, cfg, onWord)
}

func TestWorkerDeliversOnlyLatest(t *testing.T) {
	gate := make(chan struct{})
	c := Open(NewWorker(gatedComputer{gate: gate}))
	defer c.Close()

	var last uint64
	for i := 0; i < 5; i++ {
		id, err := c.Request(context.Background(), testConfig())
		if err != nil {
			t.Fatalf("Request() error: %v", err)
		}
		last = id
	}
	close(gate)
	if resp := receive(t, c); resp.RequestID != last {
		t.Errorf("RequestID = %d, want %d", resp.RequestID, last)
	}
}

// countingComputer counts computations.
type countingComputer struct {
	Computer
	n *atomic.Int32
}

func (c countingComputer) Compute(ctx context.Context, cfg cloud.Config, onWord func(cloud.PlacedWord)) ([]cloud.PlacedWord, error) {
	c.n.Add(1)
	return c.Computer.Compute(ctx, cfg, onWord)
}

func TestWorkerSkipsSupersededQueue(t *testing.T) {
	gate := make(chan struct{})
	var n atomic.Int32
	c := Open(NewWorker(countingComputer{Computer: gatedComputer{gate: gate}, n: &n}))
	defer c.Close()

	var last uint64
	for i := 0; i < 5; i++ {
		id, err := c.Request(context.Background(), testConfig())
		if err != nil {
			t.Fatalf("Request() error: %v", err)
		}
		last = id
	}
	close(gate)
	if resp := receive(t, c); resp.RequestID != last {
		t.Errorf("RequestID = %d, want %d", resp.RequestID, last)
	}
	// At most the request already running plus the newest one.
	if got := n.Load(); got > 2 {
		t.Errorf("computations = %d, want at most 2", got)
	}
}

func TestWorkerSendAfterClose(t *testing.T) {
	w := NewWorker(echoComputer{})
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := w.Send(context.Background(), []byte("{}")); !errors.Is(err, errors.ErrCodeClosed) {
		t.Errorf("Send() error = %v, want CLOSED", err)
	}
}

func TestHTTPTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != WorkerPath || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(Process(r.Context(), echoComputer{}, body))
	}))
	defer srv.Close()

	tr, err := NewHTTPTransport(srv.URL+"/", srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPTransport() error: %v", err)
	}
	c := Open(tr)
	defer c.Close()

	id, err := c.Request(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Request() error: %v", err)
	}
	resp := receive(t, c)
	if resp.RequestID != id || resp.Err() != nil || len(resp.ComputedWords) != len(testWords) {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHTTPTransportServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr, err := NewHTTPTransport(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewHTTPTransport() error: %v", err)
	}
	c := Open(tr)
	defer c.Close()

	id, err := c.Request(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Request() error: %v", err)
	}
	resp := receive(t, c)
	if resp.RequestID != id || !errors.Is(resp.Err(), errors.ErrCodeTransport) {
		t.Errorf("resp = %+v, want TRANSPORT error for request %d", resp, id)
	}
}

func TestNewHTTPTransportRejectsBadURL(t *testing.T) {
	if _, err := NewHTTPTransport("ftp://example.com", nil); err == nil {
		t.Error("expected error for non-http URL")
	}
}
