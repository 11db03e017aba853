package canadapost

import (
	"bytes"
	"encoding/xml"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/units"
	"github.com/parcelmesh/bridge/pkg/carrier/wire"
)

type pickupPayload struct {
	Info   *pickupRequestInfo
	Errors *messagesDoc
}

func decodePickupPayload(raw []byte) (pickupPayload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return pickupPayload{}, nil
	}

	var errDoc messagesDoc
	if err := xml.Unmarshal(raw, &errDoc); err == nil {
		return pickupPayload{Errors: &errDoc}, nil
	}

	var info pickupRequestInfo
	if err := xml.Unmarshal(raw, &info); err != nil {
		return pickupPayload{}, err
	}
	return pickupPayload{Info: &info}, nil
}

// pickupRequest builds an on-demand pickup creation request.
func pickupRequest(req *carrier.PickupRequest, settings *Settings) (*wire.Serializable[pickupRequestDetails], error) {
	if req.PickupDate == "" {
		return nil, carrier.NewTranslationError(CarrierName, "pickup", "missing pickup date")
	}

	packages := units.NewPackages(req.Parcels, preferredWeightUnit, preferredDimUnit)

	details := pickupRequestDetails{
		Xmlns:      "http://www.canadapost.ca/ws/pickuprequest",
		PickupType: "OnDemand",
		PickupLocation: pickupLocation{
			BusinessAddressFlag: req.Address.CompanyName != "",
			AlternateAddress: &alternateAddress{
				Company:      req.Address.CompanyName,
				AddressLine1: req.Address.AddressLine1,
				City:         req.Address.City,
				Province:     req.Address.StateCode,
				PostalCode:   normalizePostalCode(req.Address.PostalCode),
			},
		},
		ContactInfo: pickupContact{
			ContactName:  req.Address.PersonName,
			Email:        req.Address.Email,
			ContactPhone: req.Address.Phone,
		},
		LocationDetails: pickupLocationDetail{
			PickupInstructions: req.Instruction,
		},
		ItemsCharacteristics: pickupItems{
			Weight: packages.Weight(),
		},
		PickupTimes: pickupTimes{
			OnDemandPickupTime: onDemandPickupTime{
				Date:          req.PickupDate,
				PreferredTime: req.ReadyTime,
				ClosingTime:   req.ClosingTime,
			},
		},
	}

	ctx := wire.Context{
		"pickup_date":  req.PickupDate,
		"ready_time":   req.ReadyTime,
		"closing_time": req.ClosingTime,
	}
	return wire.NewSerializable(details, wire.EncodeXML[pickupRequestDetails], ctx), nil
}

// pickupUpdateRequest rebuilds the pickup details against an existing
// confirmation number; the proxy issues it as a PUT on that request id.
func pickupUpdateRequest(req *carrier.PickupUpdateRequest, settings *Settings) (*wire.Serializable[pickupRequestDetails], error) {
	if req.ConfirmationNumber == "" {
		return nil, carrier.NewTranslationError(CarrierName, "pickup_update", "missing confirmation number")
	}

	serializable, err := pickupRequest(&carrier.PickupRequest{
		PickupDate:  req.PickupDate,
		ReadyTime:   req.ReadyTime,
		ClosingTime: req.ClosingTime,
		Address:     req.Address,
		Parcels:     req.Parcels,
		Instruction: req.Instruction,
		Options:     req.Options,
	}, settings)
	if err != nil {
		return nil, err
	}

	ctx := serializable.Context()
	ctx["confirmation_number"] = req.ConfirmationNumber
	return wire.NewSerializable(serializable.Payload(), wire.EncodeXML[pickupRequestDetails], ctx), nil
}

// parsePickupResponse normalizes a pickup creation or update response. A
// response without a request id is a failure surfaced as a message.
func parsePickupResponse(d *wire.Deserializable[pickupPayload], settings *Settings) (*carrier.PickupDetails, []carrier.Message, error) {
	payload, err := d.Deserialize()
	if err != nil {
		return nil, nil, carrier.NewTranslationError(CarrierName, "pickup", "malformed response").WithCause(err)
	}

	messages := parseError(payload.Errors, settings)
	if payload.Info == nil {
		return nil, messages, nil
	}

	if payload.Info.RequestID == "" {
		messages = append(messages, carrier.Message{
			CarrierID:   settings.CarrierID(),
			CarrierName: settings.CarrierName(),
			Code:        "MISSING_REQUEST_ID",
			Message:     "pickup response carried no request id",
		})
		return nil, messages, nil
	}

	ctx := d.Context()
	details := &carrier.PickupDetails{
		CarrierID:          settings.CarrierID(),
		CarrierName:        settings.CarrierName(),
		ConfirmationNumber: payload.Info.RequestID,
		PickupDate:         ctx.String("pickup_date"),
		ReadyTime:          ctx.String("ready_time"),
		ClosingTime:        ctx.String("closing_time"),
		Meta: map[string]any{
			"request_status":   payload.Info.RequestStatus,
			"estimated_charge": payload.Info.EstimatedCharge,
		},
	}
	return details, messages, nil
}

// pickupCancelRequest voids a pickup request; the wire call is a DELETE on
// the confirmation number carried through the context.
func pickupCancelRequest(req *carrier.PickupCancelRequest, settings *Settings) (*wire.Serializable[struct{}], error) {
	if req.ConfirmationNumber == "" {
		return nil, carrier.NewTranslationError(CarrierName, "pickup_cancel", "missing confirmation number")
	}
	ctx := wire.Context{"confirmation_number": req.ConfirmationNumber}
	return wire.NewSerializable(struct{}{}, func(struct{}) ([]byte, error) { return nil, nil }, ctx), nil
}

// parsePickupCancelResponse treats the absence of the error envelope as
// success.
func parsePickupCancelResponse(d *wire.Deserializable[confirmationPayload], settings *Settings) (*carrier.ConfirmationDetails, []carrier.Message, error) {
	payload, err := d.Deserialize()
	if err != nil {
		return nil, nil, carrier.NewTranslationError(CarrierName, "pickup_cancel", "malformed response").WithCause(err)
	}

	messages := parseError(payload.Errors, settings)
	if len(messages) > 0 {
		return nil, messages, nil
	}

	return &carrier.ConfirmationDetails{
		CarrierID:   settings.CarrierID(),
		CarrierName: settings.CarrierName(),
		Operation:   "Cancel Pickup",
		Success:     true,
	}, messages, nil
}
