package carrier

import "context"

// Request is one wire call handed to the transport collaborator.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    []byte
}

// Transport is the single collaborator contract the core requires for
// network I/O: send bytes, get bytes back. Retries, pooling and TLS are the
// transport's concern, never the core's.
type Transport interface {
	Send(ctx context.Context, req Request) ([]byte, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req Request) ([]byte, error)

// Send implements Transport.
func (f TransportFunc) Send(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}
