package fedex

import (
	"fmt"
	"strings"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/wire"
)

func trackingURL(trackingNumber string) string {
	return fmt.Sprintf(trackingURLTemplate, trackingNumber)
}

// trackingRequest asks for all tracking numbers in one call; FedEx fans out
// server-side and reports per-number results and errors independently.
func trackingRequest(req *carrier.TrackingRequest, settings *Settings) (*wire.Serializable[trackRequestType], error) {
	if len(req.TrackingNumbers) == 0 {
		return nil, carrier.NewTranslationError(CarrierName, "tracking", "at least one tracking number is required")
	}

	payload := trackRequestType{IncludeDetailedScans: true}
	for _, number := range req.TrackingNumbers {
		payload.TrackingInfo = append(payload.TrackingInfo, trackingInfo{
			TrackingNumberInfo: trackingNumberInfo{TrackingNumber: number},
		})
	}
	return wire.NewSerializable(payload, wire.EncodeJSON[trackRequestType]), nil
}

func decodeTrackPayload(raw []byte) (trackReply, error) {
	return wire.DecodeJSON[trackReply](raw)
}

// parseTrackingResponse normalizes per-number results. A number whose result
// carries an error becomes a message; the remaining numbers still yield
// details, so one bad number never fails the batch.
func parseTrackingResponse(d *wire.Deserializable[trackReply], settings *Settings) ([]carrier.TrackingDetails, []carrier.Message, error) {
	reply, err := d.Deserialize()
	if err != nil {
		return nil, nil, carrier.NewTranslationError(CarrierName, "tracking", "malformed response").WithCause(err)
	}

	messages := parseErrors(reply.Errors, settings)
	if reply.Output == nil {
		return nil, messages, nil
	}

	var details []carrier.TrackingDetails
	for _, result := range reply.Output.CompleteTrackResults {
		if len(result.TrackResults) == 0 {
			continue
		}
		track := result.TrackResults[0]
		if track.Error != nil {
			messages = append(messages, parseErrors([]apiError{*track.Error}, settings)...)
			continue
		}
		details = append(details, extractTracking(result.TrackingNumber, track, settings))
	}
	return details, messages, nil
}

func extractTracking(trackingNumber string, track trackResult, settings *Settings) carrier.TrackingDetails {
	events := make([]carrier.TrackingEvent, 0, len(track.ScanEvents))
	for _, scan := range track.ScanEvents {
		date, clock := splitTimestamp(scan.Date)
		events = append(events, carrier.TrackingEvent{
			Date:        date,
			Time:        clock,
			Code:        scan.EventType,
			Description: scan.EventDescription,
			Location:    scanLocationLabel(scan.ScanLocation),
		})
	}

	var delivered bool
	var status string
	if track.LatestStatusDetail != nil {
		status = track.LatestStatusDetail.Code
		delivered = status == "DL"
	}

	var estimated string
	for _, dt := range track.DateAndTimes {
		if dt.Type == "ESTIMATED_DELIVERY" {
			estimated, _ = splitTimestamp(dt.DateTime)
		}
		if dt.Type == "ACTUAL_DELIVERY" {
			delivered = true
		}
	}
	if estimated == "" && track.EstimatedDeliveryTimeWindow != nil {
		estimated, _ = splitTimestamp(track.EstimatedDeliveryTimeWindow.Window.Ends)
	}

	meta := map[string]any{"tracking_url": trackingURL(trackingNumber)}
	if track.LatestStatusDetail != nil {
		meta["status"] = status
		meta["status_description"] = track.LatestStatusDetail.Description
	}

	return carrier.TrackingDetails{
		CarrierID:      settings.CarrierID(),
		CarrierName:    settings.CarrierName(),
		TrackingNumber: trackingNumber,
		Events:         events,
		Delivered:      delivered,
		EstDelivery:    estimated,
		Meta:           meta,
	}
}

// splitTimestamp separates an ISO 8601 timestamp into date and clock parts
// without validating it; carrier timestamps pass through untouched.
func splitTimestamp(stamp string) (date, clock string) {
	if stamp == "" {
		return "", ""
	}
	parts := strings.SplitN(stamp, "T", 2)
	date = parts[0]
	if len(parts) == 2 && len(parts[1]) >= 5 {
		clock = parts[1][:5]
	}
	return date, clock
}

func scanLocationLabel(loc scanLocation) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{loc.City, loc.StateOrProvinceCode, loc.CountryCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
