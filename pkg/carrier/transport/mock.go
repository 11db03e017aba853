package transport

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/parcelmesh/bridge/pkg/carrier"
)

// MockTransport is a canned-response Transport for development and testing.
// Responses are matched by URL substring in registration order.
type MockTransport struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnSend func(ctx context.Context, req carrier.Request) ([]byte, error)

	stubs []stub
}

type stub struct {
	match string
	body  []byte
}

// NewMock creates a mock transport with no canned responses.
func NewMock() *MockTransport {
	return &MockTransport{}
}

// Stub registers a canned response for requests whose URL contains match.
func (m *MockTransport) Stub(match string, body []byte) *MockTransport {
	m.stubs = append(m.stubs, stub{match: match, body: body})
	return m
}

// Send returns the first canned response whose match is contained in the
// request URL.
func (m *MockTransport) Send(ctx context.Context, req carrier.Request) ([]byte, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, fmt.Errorf("simulated transport error")
	}
	if m.OnSend != nil {
		return m.OnSend(ctx, req)
	}
	for _, s := range m.stubs {
		if strings.Contains(req.URL, s.match) {
			return s.body, nil
		}
	}
	return nil, fmt.Errorf("no canned response for %s %s", req.Method, req.URL)
}

var _ carrier.Transport = (*MockTransport)(nil)
