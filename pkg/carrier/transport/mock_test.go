package transport_test

import (
	"context"
	"testing"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_MatchesByRegistrationOrder(t *testing.T) {
	mock := transport.NewMock().
		Stub("/ship/v1/shipments/cancel", []byte("cancel")).
		Stub("/ship/v1/shipments", []byte("ship"))

	body, err := mock.Send(context.Background(), carrier.Request{
		URL: "https://example.test/ship/v1/shipments/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "cancel", string(body))

	body, err = mock.Send(context.Background(), carrier.Request{
		URL: "https://example.test/ship/v1/shipments",
	})
	require.NoError(t, err)
	assert.Equal(t, "ship", string(body))
}

func TestMock_UnmatchedURLErrors(t *testing.T) {
	mock := transport.NewMock().Stub("/rates", []byte("{}"))

	_, err := mock.Send(context.Background(), carrier.Request{
		Method: "POST",
		URL:    "https://example.test/nothing",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no canned response")
}

func TestMock_SimulatedErrors(t *testing.T) {
	mock := transport.NewMock().Stub("/rates", []byte("{}"))
	mock.SimulateErrors = true

	_, err := mock.Send(context.Background(), carrier.Request{URL: "https://example.test/rates"})
	assert.Error(t, err)
}

func TestMock_OnSendOverridesStubs(t *testing.T) {
	mock := transport.NewMock().Stub("/rates", []byte("stubbed"))
	mock.OnSend = func(ctx context.Context, req carrier.Request) ([]byte, error) {
		return []byte("hooked"), nil
	}

	body, err := mock.Send(context.Background(), carrier.Request{URL: "https://example.test/rates"})
	require.NoError(t, err)
	assert.Equal(t, "hooked", string(body))
}
