package carrier_test

import (
	"encoding/base64"
	"testing"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestBundleBase64_Empty(t *testing.T) {
	assert.Equal(t, "", carrier.BundleBase64(nil))
	assert.Equal(t, "", carrier.BundleBase64([]string{}))
}

func TestBundleBase64_SingleFragmentPassesThrough(t *testing.T) {
	fragment := b64("label-1")
	assert.Equal(t, fragment, carrier.BundleBase64([]string{fragment}))
}

func TestBundleBase64_ConcatenatesInOrder(t *testing.T) {
	bundled := carrier.BundleBase64([]string{b64("AAA"), b64("BBB"), b64("CCC")})

	decoded, err := base64.StdEncoding.DecodeString(bundled)
	require.NoError(t, err)
	assert.Equal(t, "AAABBBCCC", string(decoded))
}

func TestBundleBase64_InvalidFragmentAppendedRaw(t *testing.T) {
	bundled := carrier.BundleBase64([]string{b64("AAA"), "not base64!!"})

	decoded, err := base64.StdEncoding.DecodeString(bundled)
	require.NoError(t, err)
	assert.Equal(t, "AAAnot base64!!", string(decoded))
}
