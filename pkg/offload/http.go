package offload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/wordcloud/pkg/buildinfo"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/observability"
)

// WorkerPath is the server endpoint that runs offloaded requests.
const WorkerPath = "/v1/worker"

// maxResponseSize bounds a worker response body.
const maxResponseSize = 32 << 20

// HTTPTransport posts each request to a remote worker endpoint. Each Send
// starts one round trip in the background; network failures come back as
// error responses for the request that failed.
type HTTPTransport struct {
	endpoint string
	client   *http.Client

	out    chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewHTTPTransport creates a transport for the server at baseURL. A nil
// client uses a client with a 60 second timeout.
func NewHTTPTransport(baseURL string, client *http.Client) (*HTTPTransport, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse worker URL")
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &HTTPTransport{
		endpoint: strings.TrimRight(baseURL, "/") + WorkerPath,
		client:   client,
		out:      make(chan []byte, 8),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Send implements Transport.
func (t *HTTPTransport) Send(_ context.Context, data []byte) error {
	var head struct {
		RequestID uint64 `json:"requestId"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return errors.Wrap(errors.ErrCodeTransport, err, "read request id")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errors.New(errors.ErrCodeClosed, "transport is closed")
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		resp, err := t.post(data)
		if err != nil {
			resp, _ = json.Marshal(errorResponse(head.RequestID, err))
		}
		select {
		case t.out <- resp:
		case <-t.ctx.Done():
		}
	}()
	return nil
}

func (t *HTTPTransport) post(data []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(t.ctx, http.MethodPost, t.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks := observability.HTTP()
	hooks.OnRequest(t.ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := t.client.Do(req)
	if err != nil {
		hooks.OnError(t.ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "post %s", t.endpoint)
	}
	defer resp.Body.Close()
	hooks.OnResponse(t.ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(errors.ErrCodeTransport,
			fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body)), "post %s", t.endpoint)
	}
	return body, nil
}

// Receive implements Transport.
func (t *HTTPTransport) Receive() <-chan []byte { return t.out }

// Close aborts in-flight round trips and closes the receive channel.
func (t *HTTPTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.cancel()
	t.wg.Wait()
	close(t.out)
	return nil
}
