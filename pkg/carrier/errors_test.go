package carrier_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslationError_Message(t *testing.T) {
	err := carrier.NewTranslationError("canadapost", "rate", "invalid option")
	assert.Equal(t, "canadapost rate: invalid option", err.Error())
}

func TestTranslationError_WithCause(t *testing.T) {
	cause := errors.New("cannot coerce \"abc\" to float")
	err := carrier.NewTranslationError("fedex", "shipment", "invalid option").WithCause(cause)

	assert.Contains(t, err.Error(), "fedex shipment")
	assert.ErrorIs(t, err, cause)
}

func TestIsTranslationError(t *testing.T) {
	translation := carrier.NewTranslationError("fedex", "tracking", "malformed response")
	wrapped := fmt.Errorf("fetching: %w", translation)

	assert.True(t, carrier.IsTranslationError(translation))
	assert.True(t, carrier.IsTranslationError(wrapped))
	assert.False(t, carrier.IsTranslationError(errors.New("plain")))
	assert.False(t, carrier.IsTranslationError(carrier.ErrCarrierNotFound))
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	require.NotErrorIs(t, carrier.ErrCarrierNotFound, carrier.ErrOperationNotSupported)
}
