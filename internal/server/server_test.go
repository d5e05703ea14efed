package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/offload"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

const layoutBody = `{
  "words": [
    {"text": "gopher", "value": 9},
    {"text": "channel", "value": 4},
    {"text": "select", "value": 1}
  ],
  "width": 400,
  "height": 300,
  "rotation": "none",
  "formats": ["svg", "json"]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(pipeline.NewRunner(nil, nil, nil)).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Build.Version == "" {
		t.Errorf("body = %+v", body)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	ts := newTestServer(t)
	const id = "6f1c1a52-3c1e-4a8e-9a57-1b4d2f7a9c10"

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request ID = %q, want %q", got, id)
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/v1/layouts", layoutBody)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body LayoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Layout.Words) == 0 || body.Layout.Words[0].Text != "gopher" {
		t.Errorf("layout words = %+v", body.Layout.Words)
	}
	if !strings.HasPrefix(body.Artifacts["svg"], "<svg") {
		t.Errorf("svg artifact = %.40q", body.Artifacts["svg"])
	}
	if _, ok := body.Artifacts["json"]; !ok {
		t.Error("missing json artifact")
	}
	if body.RequestID == "" || body.WordsHash == "" {
		t.Errorf("request_id = %q, words_hash = %q", body.RequestID, body.WordsHash)
	}
}

func TestLayoutErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed", `{"words":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"colour":"red"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"empty", `{}`, http.StatusBadRequest, errors.ErrCodeEmptyWords},
		{"bad spiral", `{"text":"hello world","spiral":"fermat"}`, http.StatusBadRequest, errors.ErrCodeInvalidSpiral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/layouts", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.code, body.Error)
			}
		})
	}
}

func readEvents(t *testing.T, resp *http.Response) []StreamEvent {
	t.Helper()
	var events []StreamEvent
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64<<10), 8<<20)
	for sc.Scan() {
		var ev StreamEvent
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("decode %q: %v", sc.Text(), err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	return events
}

func TestLayoutStream(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/v1/layouts/stream", layoutBody)

	if ct := resp.Header.Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("Content-Type = %q", ct)
	}
	events := readEvents(t, resp)
	if len(events) < 2 {
		t.Fatalf("got %d events, want words and completion", len(events))
	}
	last := events[len(events)-1]
	if last.Type != EventComplete || last.Layout == nil {
		t.Fatalf("last event = %+v, want complete", last)
	}
	words := events[:len(events)-1]
	if len(words) != len(last.Layout.Words) {
		t.Fatalf("streamed %d words, layout has %d", len(words), len(last.Layout.Words))
	}
	for i, ev := range words {
		if ev.Type != EventWord || ev.Index != i || ev.Word.Text != last.Layout.Words[i].Text {
			t.Errorf("event %d = %+v", i, ev)
		}
	}
}

func TestLayoutStreamRejectsInvalid(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/v1/layouts/stream", `{"words":[{"text":"a","value":1}],"width":-5}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestWorkerEndpoint(t *testing.T) {
	ts := newTestServer(t)

	req, err := offload.NewRequest(7, cloud.Config{
		Words:  []cloud.Word{{Text: "go", Value: 16}, {Text: "rust", Value: 9}},
		Width:  300,
		Height: 200,
		Rotate: cloud.Const(0.0),
	})
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	data, _ := json.Marshal(req)

	resp, err := http.Post(ts.URL+offload.WorkerPath, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out offload.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.RequestID != 7 || out.Err() != nil {
		t.Fatalf("response = %+v", out)
	}
	if len(out.ComputedWords) != 2 || out.ComputedWords[0].Text != "go" {
		t.Errorf("ComputedWords = %+v", out.ComputedWords)
	}
}

func TestWorkerThroughChannel(t *testing.T) {
	ts := newTestServer(t)

	tr, err := offload.NewHTTPTransport(ts.URL, ts.Client())
	if err != nil {
		t.Fatal(err)
	}
	ch := offload.Open(tr)
	defer ch.Close()

	id, err := ch.Request(t.Context(), cloud.Config{
		Words:  []cloud.Word{{Text: "remote", Value: 4}},
		Width:  200,
		Height: 100,
	})
	if err != nil {
		t.Fatalf("Request() error: %v", err)
	}
	resp := <-ch.Results()
	if resp.RequestID != id || resp.Err() != nil || len(resp.ComputedWords) != 1 {
		t.Errorf("response = %+v", resp)
	}
}
