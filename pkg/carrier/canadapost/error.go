package canadapost

import (
	"github.com/parcelmesh/bridge/pkg/carrier"
)

// parseError normalizes a Canada Post <messages> error document. Absence of
// the document yields an empty list. A document with no itemized rows still
// represents a carrier-reported failure, so it yields one fallback message
// rather than a silent nothing. Carrier codes and descriptions are preserved
// untouched.
func parseError(doc *messagesDoc, settings *Settings) []carrier.Message {
	if doc == nil {
		return []carrier.Message{}
	}

	if len(doc.Message) == 0 {
		return []carrier.Message{{
			CarrierID:   settings.CarrierID(),
			CarrierName: settings.CarrierName(),
			Code:        "UNKNOWN",
			Message:     "the carrier returned an error document with no detail",
		}}
	}

	messages := make([]carrier.Message, 0, len(doc.Message))
	for _, row := range doc.Message {
		messages = append(messages, carrier.Message{
			CarrierID:   settings.CarrierID(),
			CarrierName: settings.CarrierName(),
			Code:        row.Code,
			Message:     row.Description,
		})
	}
	return messages
}
