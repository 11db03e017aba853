// Package fedex implements the FedEx translation boundary: request builders
// and response parsers between the canonical shipping model and the FedEx
// REST APIs (rate, ship, track, ETD document upload).
package fedex

import (
	"github.com/parcelmesh/bridge/pkg/carrier"
)

// CarrierName is the canonical FedEx identifier.
const CarrierName = "fedex"

const (
	liveURL = "https://apis.fedex.com"
	testURL = "https://apis-sandbox.fedex.com"

	trackingURLTemplate = "https://www.fedex.com/fedextrack/?trknbr=%s"
)

// Settings holds FedEx connection credentials and capabilities.
type Settings struct {
	carrier.CoreSettings
	APIKey        string
	SecretKey     string
	AccountNumber string
	AccessToken   string
}

// CarrierName returns the canonical carrier name.
func (s *Settings) CarrierName() string { return CarrierName }

// ServerURL resolves the endpoint for test vs. live mode.
func (s *Settings) ServerURL() string {
	if s.TestMode() {
		return testURL
	}
	return liveURL
}

var _ carrier.Settings = (*Settings)(nil)
