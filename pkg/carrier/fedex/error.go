package fedex

import (
	"github.com/parcelmesh/bridge/pkg/carrier"
)

// parseErrors normalizes a FedEx errors array. A nil or empty array yields
// an empty list: absence of the error indicator is success even on HTTP 200
// bodies. Codes and messages are preserved untouched.
func parseErrors(errs []apiError, settings *Settings) []carrier.Message {
	messages := make([]carrier.Message, 0, len(errs))
	for _, e := range errs {
		var details map[string]any
		if len(e.ParameterList) > 0 {
			details = make(map[string]any, len(e.ParameterList))
			for _, p := range e.ParameterList {
				details[p.Key] = p.Value
			}
		}
		messages = append(messages, carrier.Message{
			CarrierID:   settings.CarrierID(),
			CarrierName: settings.CarrierName(),
			Code:        e.Code,
			Message:     e.Message,
			Details:     details,
		})
	}
	return messages
}

// parseAlerts normalizes non-fatal response alerts into messages so a
// success result can still carry its warnings.
func parseAlerts(alerts []alert, settings *Settings) []carrier.Message {
	messages := make([]carrier.Message, 0, len(alerts))
	for _, a := range alerts {
		messages = append(messages, carrier.Message{
			CarrierID:   settings.CarrierID(),
			CarrierName: settings.CarrierName(),
			Code:        a.Code,
			Message:     a.Message,
			Details:     map[string]any{"alert_type": a.AlertType},
		})
	}
	return messages
}
