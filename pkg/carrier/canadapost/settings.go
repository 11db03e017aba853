// Package canadapost implements the Canada Post translation boundary:
// request builders and response parsers between the canonical shipping model
// and Canada Post's XML web services.
package canadapost

import (
	"github.com/parcelmesh/bridge/pkg/carrier"
)

// CarrierName is the canonical Canada Post identifier.
const CarrierName = "canadapost"

const (
	liveURL = "https://soa-gw.canadapost.ca"
	testURL = "https://ct.soa-gw.canadapost.ca"
)

// Settings holds Canada Post connection credentials and capabilities.
type Settings struct {
	carrier.CoreSettings
	Username       string
	Password       string
	CustomerNumber string
	ContractID     string
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
