package offload

import "context"

// Transport carries encoded requests to a background context and encoded
// responses back.
//
// Send must not wait for the computation to finish. Receive returns a channel
// that is closed after Close.
type Transport interface {
	Send(ctx context.Context, data []byte) error
	Receive() <-chan []byte
	Close() error
}
