// Package transport provides the production HTTP implementation of the
// carrier Transport interface. Carrier proxies own URLs, methods and headers;
// this package only moves bytes. Non-2xx bodies are returned alongside the
// error so parsers can still normalize carrier error envelopes.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/parcelmesh/bridge/pkg/carrier"
)

const defaultTimeout = 30 * time.Second

// HTTPTransport is the production Transport backed by net/http.
type HTTPTransport struct {
	client *http.Client
}

// Config holds HTTP transport configuration.
type Config struct {
	Timeout time.Duration
}

// NewHTTP creates an HTTP transport.
func NewHTTP(cfg Config) *HTTPTransport {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &HTTPTransport{
		client: &http.Client{Timeout: timeout},
	}
}

// Send executes one carrier request and returns the raw response body. The
// body is returned even on non-2xx statuses: carriers report structured
// errors in those bodies and the mappers normalize them.
func (t *HTTPTransport) Send(ctx context.Context, req carrier.Request) ([]byte, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return raw, nil
}

var _ carrier.Transport = (*HTTPTransport)(nil)
