package canadapost

import (
	"bytes"
	"encoding/xml"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/units"
	"github.com/parcelmesh/bridge/pkg/carrier/wire"
)

type shipmentPayload struct {
	Info   *shipmentInfoResponse
	Errors *messagesDoc
}

func decodeShipmentPayload(raw []byte) (shipmentPayload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return shipmentPayload{}, nil
	}

	var errDoc messagesDoc
	if err := xml.Unmarshal(raw, &errDoc); err == nil {
		return shipmentPayload{Errors: &errDoc}, nil
	}

	var info shipmentInfoResponse
	if err := xml.Unmarshal(raw, &info); err != nil {
		return shipmentPayload{}, err
	}
	return shipmentPayload{Info: &info}, nil
}

// shipmentRequest builds the shipment-v8 wire structure. The label format
// resolved here is threaded through the envelope context so the response
// parser tags the documents without re-deriving it.
func shipmentRequest(req *carrier.ShipmentRequest, settings *Settings) (*wire.Serializable[shipmentInfo], error) {
	packages := units.NewPackages(req.Parcels, preferredWeightUnit, preferredDimUnit)
	pairs, err := shippingOptions.Apply(req.Options)
	if err != nil {
		return nil, carrier.NewTranslationError(CarrierName, "shipment", "invalid option").WithCause(err)
	}

	format, encoding := labelEncoding(req.LabelFormat)

	shipment := shipmentInfo{
		Xmlns:              "http://www.canadapost.ca/ws/shipment-v8",
		GroupID:            "default",
		CpcPickupIndicator: true,
		DeliverySpec: deliverySpec{
			ServiceCode: serviceCode(req.Service),
			Sender: xmlSenderInfo{
				Name:         req.Shipper.PersonName,
				Company:      req.Shipper.CompanyName,
				ContactPhone: req.Shipper.Phone,
				AddressDetails: addressDetails(req.Shipper),
			},
			Destination: xmlDestinationInfo{
				Name:        req.Recipient.PersonName,
				Company:     req.Recipient.CompanyName,
				ClientVoice: req.Recipient.Phone,
				AddressDetails: addressDetails(req.Recipient),
			},
			PrintPreferences: printPreferences{
				OutputFormat: "4x6",
				Encoding:     encoding,
			},
			Preferences: shipmentPreferences{
				ShowPackingInstructions: true,
			},
		},
	}

	if req.Reference != "" {
		shipment.DeliverySpec.References = &references{CustomerRef1: req.Reference}
	}

	if pkg, ok := heaviest(packages); ok {
		shipment.DeliverySpec.ParcelCharacter = parcelCharacteristics{
			Weight:   pkg.Weight(),
			Document: pkg.Parcel.IsDocument,
		}
		if pkg.HasDimensions() {
			shipment.DeliverySpec.ParcelCharacter.Dimensions = &xmlDimensions{
				Length: pkg.Length(),
				Width:  pkg.Width(),
				Height: pkg.Height(),
			}
		}
	}

	if len(pairs) > 0 {
		list := &optionList{}
		for _, pair := range pairs {
			entry := optionEntry{OptionCode: pair.Code}
			if amount, ok := pair.Value.(float64); ok {
				entry.OptionAmount = amount
			}
			list.Option = append(list.Option, entry)
		}
		shipment.DeliverySpec.Options = list
	}

	ctx := wire.Context{"label_format": string(format)}
	return wire.NewSerializable(shipment, wire.EncodeXML[shipmentInfo], ctx), nil
}

// parseShipmentResponse normalizes a shipment creation response. A missing
// tracking pin on an otherwise successful response is a parse failure
// surfaced as a message, never a partially populated result.
func parseShipmentResponse(d *wire.Deserializable[shipmentPayload], settings *Settings) (*carrier.ShipmentDetails, []carrier.Message, error) {
	payload, err := d.Deserialize()
	if err != nil {
		return nil, nil, carrier.NewTranslationError(CarrierName, "shipment", "malformed response").WithCause(err)
	}

	messages := parseError(payload.Errors, settings)
	if payload.Info == nil {
		return nil, messages, nil
	}

	if payload.Info.TrackingPIN == "" {
		messages = append(messages, carrier.Message{
			CarrierID:   settings.CarrierID(),
			CarrierName: settings.CarrierName(),
			Code:        "MISSING_TRACKING_PIN",
			Message:     "shipment response carried no tracking pin",
		})
		return nil, messages, nil
	}

	var labelURL string
	for _, link := range payload.Info.Links.Link {
		if link.Rel == "label" {
			labelURL = link.Href
		}
	}

	details := &carrier.ShipmentDetails{
		CarrierID:          settings.CarrierID(),
		CarrierName:        settings.CarrierName(),
		TrackingNumber:     payload.Info.TrackingPIN,
		ShipmentIdentifier: payload.Info.ShipmentID,
		LabelFormat:        carrier.LabelFormat(d.Context().String("label_format")),
		Meta: map[string]any{
			"shipment_status": payload.Info.ShipmentStatus,
			"label_url":       labelURL,
		},
	}
	return details, messages, nil
}

// shipmentCancelRequest voids a transmitted shipment. The wire call is a
// bare DELETE; the serializable carries the identifier through its context.
func shipmentCancelRequest(req *carrier.ShipmentCancelRequest, settings *Settings) (*wire.Serializable[struct{}], error) {
	if req.ShipmentIdentifier == "" {
		return nil, carrier.NewTranslationError(CarrierName, "shipment_cancel", "missing shipment identifier")
	}
	ctx := wire.Context{"shipment_id": req.ShipmentIdentifier}
	return wire.NewSerializable(struct{}{}, func(struct{}) ([]byte, error) { return nil, nil }, ctx), nil
}

type confirmationPayload struct {
	Errors *messagesDoc
}

func decodeConfirmationPayload(raw []byte) (confirmationPayload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return confirmationPayload{}, nil
	}
	var errDoc messagesDoc
	if err := xml.Unmarshal(raw, &errDoc); err == nil {
		return confirmationPayload{Errors: &errDoc}, nil
	}
	// Unknown success bodies are tolerated; only the error envelope matters.
	return confirmationPayload{}, nil
}

// parseShipmentCancelResponse treats the absence of the error envelope as
// success, matching the carrier's 200-with-embedded-errors behavior.
func parseShipmentCancelResponse(d *wire.Deserializable[confirmationPayload], settings *Settings) (*carrier.ConfirmationDetails, []carrier.Message, error) {
	payload, err := d.Deserialize()
	if err != nil {
		return nil, nil, carrier.NewTranslationError(CarrierName, "shipment_cancel", "malformed response").WithCause(err)
	}

	messages := parseError(payload.Errors, settings)
	if len(messages) > 0 {
		return nil, messages, nil
	}

	return &carrier.ConfirmationDetails{
		CarrierID:   settings.CarrierID(),
		CarrierName: settings.CarrierName(),
		Operation:   "Cancel Shipment",
		Success:     true,
	}, messages, nil
}

func addressDetails(a carrier.Address) xmlAddressDetails {
	return xmlAddressDetails{
		AddressLine1:  a.AddressLine1,
		AddressLine2:  a.AddressLine2,
		City:          a.City,
		ProvState:     a.StateCode,
		PostalZipCode: normalizePostalCode(a.PostalCode),
		CountryCode:   a.CountryCode,
	}
}
