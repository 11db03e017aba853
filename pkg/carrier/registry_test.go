package carrier_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSettings struct {
	carrier.CoreSettings
	name string
}

func (s *stubSettings) CarrierName() string { return s.name }
func (s *stubSettings) ServerURL() string   { return "https://example.test" }

// stubGateway implements only the Gateway contract.
type stubGateway struct {
	settings *stubSettings
}

func (g *stubGateway) Settings() carrier.Settings { return g.settings }

// ratingGateway adds rate fetching on top of stubGateway.
type ratingGateway struct {
	stubGateway
	rates    []carrier.RateDetails
	messages []carrier.Message
	err      error
}

func (g *ratingGateway) FetchRates(ctx context.Context, req *carrier.RateRequest) ([]carrier.RateDetails, []carrier.Message, error) {
	return g.rates, g.messages, g.err
}

func newRatingGateway(id string, rates ...carrier.RateDetails) *ratingGateway {
	return &ratingGateway{
		stubGateway: stubGateway{settings: &stubSettings{
			CoreSettings: carrier.CoreSettings{ID: id},
			name:         id,
		}},
		rates: rates,
	}
}

func TestRegistry_GetUnknownCarrier(t *testing.T) {
	registry := carrier.NewRegistry()

	_, err := registry.Get("ups")
	assert.ErrorIs(t, err, carrier.ErrCarrierNotFound)
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := carrier.NewRegistry()
	gw := newRatingGateway("canadapost")
	registry.Register(gw)

	got, err := registry.Get("canadapost")
	require.NoError(t, err)
	assert.Equal(t, "canadapost", got.Settings().CarrierID())
	assert.ElementsMatch(t, []string{"canadapost"}, registry.Names())
}

func TestRegistry_FetchRates_MergesAcrossCarriers(t *testing.T) {
	registry := carrier.NewRegistry()
	registry.Register(newRatingGateway("canadapost",
		carrier.RateDetails{CarrierID: "canadapost", Service: "canadapost_regular_parcel", TotalCharge: 12.65},
	))
	registry.Register(newRatingGateway("fedex",
		carrier.RateDetails{CarrierID: "fedex", Service: "fedex_ground", TotalCharge: 18.40},
		carrier.RateDetails{CarrierID: "fedex", Service: "fedex_2day", TotalCharge: 31.20},
	))

	rates, messages, errs := registry.FetchRates(context.Background(), &carrier.RateRequest{}, nil)

	assert.Empty(t, errs)
	assert.Empty(t, messages)
	assert.Len(t, rates, 3)
}

func TestRegistry_FetchRates_CarrierFailureDoesNotFailFanout(t *testing.T) {
	failing := newRatingGateway("fedex")
	failing.err = errors.New("boom")

	registry := carrier.NewRegistry()
	registry.Register(failing)
	registry.Register(newRatingGateway("canadapost",
		carrier.RateDetails{CarrierID: "canadapost", Service: "canadapost_priority", TotalCharge: 44.29},
	))

	rates, _, errs := registry.FetchRates(context.Background(), &carrier.RateRequest{}, nil)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "fedex")
	require.Len(t, rates, 1)
	assert.Equal(t, "canadapost", rates[0].CarrierID)
}

func TestRegistry_FetchRates_UnknownCarrierIDReported(t *testing.T) {
	registry := carrier.NewRegistry()
	registry.Register(newRatingGateway("canadapost",
		carrier.RateDetails{CarrierID: "canadapost", Service: "canadapost_xpresspost", TotalCharge: 25.30},
	))

	rates, _, errs := registry.FetchRates(context.Background(), &carrier.RateRequest{},
		[]string{"canadapost", "ups"})

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], carrier.ErrCarrierNotFound)
	assert.Len(t, rates, 1)
}

func TestRegistry_FetchRates_RateIncapableCarrierReported(t *testing.T) {
	registry := carrier.NewRegistry()
	registry.Register(&stubGateway{settings: &stubSettings{
		CoreSettings: carrier.CoreSettings{ID: "labels-only"},
		name:         "labels-only",
	}})

	rates, _, errs := registry.FetchRates(context.Background(), &carrier.RateRequest{}, nil)

	assert.Empty(t, rates)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], carrier.ErrOperationNotSupported)
}

func TestRegistry_FetchRates_MixedCapabilityCollectsEveryError(t *testing.T) {
	registry := carrier.NewRegistry()

	// interleave failing rate-capable gateways with rate-incapable ones so
	// supported-check errors and fan-out errors collect concurrently
	const pairs = 25
	for i := 0; i < pairs; i++ {
		failing := newRatingGateway(fmt.Sprintf("rater-%d", i))
		failing.err = errors.New("boom")
		registry.Register(failing)
		registry.Register(&stubGateway{settings: &stubSettings{
			CoreSettings: carrier.CoreSettings{ID: fmt.Sprintf("labels-only-%d", i)},
			name:         fmt.Sprintf("labels-only-%d", i),
		}})
	}

	rates, _, errs := registry.FetchRates(context.Background(), &carrier.RateRequest{}, nil)

	assert.Empty(t, rates)
	require.Len(t, errs, 2*pairs)

	var notSupported int
	for _, err := range errs {
		if errors.Is(err, carrier.ErrOperationNotSupported) {
			notSupported++
		}
	}
	assert.Equal(t, pairs, notSupported)
}

func TestRegistry_FetchRates_CarrierMessagesMergedAsData(t *testing.T) {
	declined := newRatingGateway("canadapost")
	declined.messages = []carrier.Message{{
		CarrierID: "canadapost",
		Code:      "9111",
		Message:   "Closed postal code",
	}}

	registry := carrier.NewRegistry()
	registry.Register(declined)

	rates, messages, errs := registry.FetchRates(context.Background(), &carrier.RateRequest{}, nil)

	assert.Empty(t, errs)
	assert.Empty(t, rates)
	require.Len(t, messages, 1)
	assert.Equal(t, "9111", messages[0].Code)
}
