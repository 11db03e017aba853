package canadapost

import (
	"bytes"
	"encoding/xml"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/wire"
)

// Canada Post tracks one pin per call; the gateway fans the canonical
// request's tracking numbers out and merges the results.

type trackingPayload struct {
	Detail *trackingDetail
	Errors *messagesDoc
}

func decodeTrackingPayload(raw []byte) (trackingPayload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return trackingPayload{}, nil
	}

	var errDoc messagesDoc
	if err := xml.Unmarshal(raw, &errDoc); err == nil {
		return trackingPayload{Errors: &errDoc}, nil
	}

	var detail trackingDetail
	if err := xml.Unmarshal(raw, &detail); err != nil {
		return trackingPayload{}, err
	}
	return trackingPayload{Detail: &detail}, nil
}

// trackingRequest wraps one tracking pin; the pin travels in the context
// since the wire call is a bare GET.
func trackingRequest(pin string, settings *Settings) (*wire.Serializable[struct{}], error) {
	if pin == "" {
		return nil, carrier.NewTranslationError(CarrierName, "tracking", "missing tracking number")
	}
	ctx := wire.Context{"pin": pin}
	return wire.NewSerializable(struct{}{}, func(struct{}) ([]byte, error) { return nil, nil }, ctx), nil
}

// parseTrackingResponse normalizes a tracking detail document for one pin.
func parseTrackingResponse(d *wire.Deserializable[trackingPayload], settings *Settings) (*carrier.TrackingDetails, []carrier.Message, error) {
	payload, err := d.Deserialize()
	if err != nil {
		return nil, nil, carrier.NewTranslationError(CarrierName, "tracking", "malformed response").WithCause(err)
	}

	messages := parseError(payload.Errors, settings)
	if payload.Detail == nil {
		return nil, messages, nil
	}

	events := make([]carrier.TrackingEvent, 0, len(payload.Detail.SignificantEvents.Occurrence))
	delivered := false
	for _, occ := range payload.Detail.SignificantEvents.Occurrence {
		location := occ.EventSite
		if occ.EventProvince != "" {
			location = occ.EventSite + ", " + occ.EventProvince
		}
		events = append(events, carrier.TrackingEvent{
			Date:        occ.EventDate,
			Time:        occ.EventTime,
			Code:        occ.EventIdentifier,
			Description: occ.EventDescription,
			Location:    location,
		})
		// Event 1441/1442 family marks delivery in the track-v2 schema.
		if occ.EventIdentifier == "1441" || occ.EventIdentifier == "1442" {
			delivered = true
		}
	}

	details := &carrier.TrackingDetails{
		CarrierID:      settings.CarrierID(),
		CarrierName:    settings.CarrierName(),
		TrackingNumber: payload.Detail.PIN,
		Events:         events,
		Delivered:      delivered,
		EstDelivery:    payload.Detail.ExpectedDeliveryDate,
		Meta: map[string]any{
			"signature_image_exists": payload.Detail.SignatureImageExists,
		},
	}
	return details, messages, nil
}
