package offload

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

// Computer is the computation capability the receiving side runs requests on.
// *compute.Adapter implements it.
type Computer interface {
	Compute(ctx context.Context, cfg cloud.Config, onWord func(cloud.PlacedWord)) ([]cloud.PlacedWord, error)
}

// Request is the wire form of a layout configuration.
type Request struct {
	RequestID    uint64       `json:"requestId"`
	Words        []cloud.Word `json:"words"`
	Width        float64      `json:"width"`
	Height       float64      `json:"height"`
	TimeInterval float64      `json:"timeInterval,omitempty"` // milliseconds
	Spiral       string       `json:"spiral,omitempty"`

	Padding    *cloud.Resolved[float64] `json:"padding,omitempty"`
	Font       *cloud.Resolved[string]  `json:"font,omitempty"`
	FontStyle  *cloud.Resolved[string]  `json:"fontStyle,omitempty"`
	FontWeight *cloud.Resolved[string]  `json:"fontWeight,omitempty"`
	FontSize   *cloud.Resolved[float64] `json:"fontSize,omitempty"`
	Rotate     *cloud.Resolved[float64] `json:"rotate,omitempty"`
}

// Response is the wire form of a finished computation. Error and Code are set
// when the background computation failed.
type Response struct {
	RequestID     uint64             `json:"requestId"`
	ComputedWords []cloud.PlacedWord `json:"computedWords"`
	Error         string             `json:"error,omitempty"`
	Code          errors.Code        `json:"code,omitempty"`
}

// Err returns the failure carried by r, or nil.
func (r Response) Err() error {
	if r.Error == "" {
		return nil
	}
	code := r.Code
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.New(code, "%s", r.Error)
}

func errorResponse(id uint64, err error) Response {
	return Response{
		RequestID: id,
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
	}
}

// NewRequest resolves cfg into a Request. Accessors are evaluated eagerly in
// word order; a panicking accessor yields an ACCESSOR_PANIC error. A custom
// spiral function cannot be transferred and yields a TRANSPORT error.
func NewRequest(id uint64, cfg cloud.Config) (req Request, err error) {
	if cfg.SpiralFunc != nil {
		return Request{}, errors.New(errors.ErrCodeTransport, "custom spiral functions cannot be offloaded")
	}
	defer func() {
		if r := recover(); r != nil {
			req, err = Request{}, errors.PanicError(r, "resolve request %d", id)
		}
	}()

	return Request{
		RequestID:    id,
		Words:        cfg.Words,
		Width:        cfg.Width,
		Height:       cfg.Height,
		TimeInterval: float64(cfg.TimeInterval) / float64(time.Millisecond),
		Spiral:       string(cfg.Spiral),
		Padding:      cloud.Resolve(cfg.Words, cfg.Padding),
		Font:         cloud.Resolve(cfg.Words, cfg.Font),
		FontStyle:    cloud.Resolve(cfg.Words, cfg.FontStyle),
		FontWeight:   cloud.Resolve(cfg.Words, cfg.FontWeight),
		FontSize:     cloud.Resolve(cfg.Words, cfg.FontSize),
		Rotate:       cloud.Resolve(cfg.Words, cfg.Rotate),
	}, nil
}

// Config rebuilds the layout configuration. Per-word arrays must have one
// value per word.
func (r Request) Config() (cloud.Config, error) {
	n := len(r.Words)
	checks := []struct {
		name  string
		check func(int) error
	}{
		{"padding", r.Padding.Check},
		{"font", r.Font.Check},
		{"fontStyle", r.FontStyle.Check},
		{"fontWeight", r.FontWeight.Check},
		{"fontSize", r.FontSize.Check},
		{"rotate", r.Rotate.Check},
	}
	for _, c := range checks {
		if err := c.check(n); err != nil {
			return cloud.Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "field %s", c.name)
		}
	}

	return cloud.Config{
		Words:        r.Words,
		Width:        r.Width,
		Height:       r.Height,
		TimeInterval: time.Duration(r.TimeInterval * float64(time.Millisecond)),
		Spiral:       cloud.SpiralKind(r.Spiral),
		Padding:      r.Padding.Field(),
		Font:         r.Font.Field(),
		FontStyle:    r.FontStyle.Field(),
		FontWeight:   r.FontWeight.Field(),
		FontSize:     r.FontSize.Field(),
		Rotate:       r.Rotate.Field(),
	}, nil
}

// Process runs one encoded request on c and returns the encoded response.
// Failures are reported inside the response, never as a Go error, so the
// sender can always match the outcome to its request.
func Process(ctx context.Context, c Computer, data []byte) []byte {
	resp := process(ctx, c, data)
	out, err := json.Marshal(resp)
	if err != nil {
		out, _ = json.Marshal(errorResponse(resp.RequestID, errors.Wrap(errors.ErrCodeTransport, err, "encode response")))
	}
	return out
}

func process(ctx context.Context, c Computer, data []byte) Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse(req.RequestID, errors.Wrap(errors.ErrCodeTransport, err, "decode request"))
	}
	cfg, err := req.Config()
	if err != nil {
		return errorResponse(req.RequestID, err)
	}
	words, err := c.Compute(ctx, cfg, nil)
	if err != nil {
		return errorResponse(req.RequestID, err)
	}
	if words == nil {
		words = []cloud.PlacedWord{}
	}
	return Response{RequestID: req.RequestID, ComputedWords: words}
}
