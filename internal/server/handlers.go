package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/wordcloud/pkg/buildinfo"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	pkgio "github.com/matzehuels/wordcloud/pkg/io"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/offload"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// LayoutResponse is the body of a successful POST /v1/layouts.
type LayoutResponse struct {
	RequestID string             `json:"request_id"`
	WordsHash string             `json:"words_hash"`
	Layout    layout.Layout      `json:"layout"`
	Artifacts map[string]string  `json:"artifacts"`
	Stats     pipeline.Stats     `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := pkgio.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	artifacts := make(map[string]string, len(result.Artifacts))
	for format, data := range result.Artifacts {
		artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		RequestID: RequestID(r.Context()),
		WordsHash: result.WordsHash,
		Layout:    result.Layout,
		Artifacts: artifacts,
		Stats:     result.Stats,
		Cache:     result.CacheInfo,
	})
}

// StreamEvent is one NDJSON line of POST /v1/layouts/stream.
type StreamEvent struct {
	Type   string            `json:"type"` // "word", "complete" or "error"
	Index  int               `json:"index,omitempty"`
	Word   *cloud.PlacedWord `json:"word,omitempty"`
	Layout *layout.Layout    `json:"layout,omitempty"`
	Cached bool              `json:"cached,omitempty"`
	Error  string            `json:"error,omitempty"`
	Code   errors.Code       `json:"code,omitempty"`
}

// Stream event types.
const (
	EventWord     = "word"
	EventComplete = "complete"
	EventError    = "error"
)

func (s *Server) handleLayoutStream(w http.ResponseWriter, r *http.Request) {
	opts, err := pkgio.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	emit := func(ev StreamEvent) {
		_ = enc.Encode(ev)
		if flusher != nil {
			flusher.Flush()
		}
	}

	streamed := 0
	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), opts, func(pw cloud.PlacedWord) {
		emit(StreamEvent{Type: EventWord, Index: streamed, Word: &pw})
		streamed++
	})
	if err != nil {
		emit(StreamEvent{Type: EventError, Error: errors.UserMessage(err), Code: errors.GetCode(err)})
		return
	}
	// Cached or shared layouts were not placed by this request.
	if streamed == 0 {
		for i := range l.Words {
			emit(StreamEvent{Type: EventWord, Index: i, Word: &l.Words[i].PlacedWord})
		}
	}
	emit(StreamEvent{Type: EventComplete, Layout: &l, Cached: hit})
}

func (s *Server) handleWorker(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(offload.Process(r.Context(), s.computer, data))
}
