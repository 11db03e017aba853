package fedex

import (
	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/options"
	"github.com/parcelmesh/bridge/pkg/carrier/units"
	"github.com/parcelmesh/bridge/pkg/carrier/wire"
)

// masterTrackingPlaceholder marks follow-up piece requests; the proxy swaps
// it for the real master tracking number once the first piece is confirmed.
const masterTrackingPlaceholder = "[MASTER_TRACKING_ID]"

const (
	ctxLabelFormat = "label_format"
	ctxPieceCount  = "piece_count"
)

// shipmentRequest builds one serializable ship request per parcel.
// Multi-piece shipments become a sequence of single-package requests where
// pieces after the first reference the master tracking number of the first.
func shipmentRequest(req *carrier.ShipmentRequest, settings *Settings) ([]*wire.Serializable[shipRequestType], error) {
	pairs, err := shippingOptions.Apply(req.Options)
	if err != nil {
		return nil, carrier.NewTranslationError(CarrierName, "shipment", "invalid option").WithCause(err)
	}

	fallbackWeight, fallbackDim := units.NewPackages(req.Parcels, carrier.KG, carrier.CM).CompatibleUnits()
	weightUnit, dimUnit := preferredUnits(req.Shipper.CountryCode, fallbackWeight, fallbackDim)
	packages := units.NewPackages(req.Parcels, weightUnit, dimUnit)
	if len(packages) == 0 {
		return nil, carrier.NewTranslationError(CarrierName, "shipment", "at least one parcel is required")
	}

	currency, _ := req.Options[optCurrency].(string)
	format, spec := labelSpec(req.LabelFormat)

	payment := chargesPayment{PaymentType: "SENDER"}
	if req.Payment != nil {
		payment.PaymentType = paymentType(req.Payment.PaidBy)
		if req.Payment.AccountNumber != "" {
			payment.Payor = &payorType{
				ResponsibleParty: party{AccountNumber: &accountNumber{Value: req.Payment.AccountNumber}},
			}
		}
	}

	var special *specialServices
	if codes := options.Codes(pairs); len(codes) > 0 {
		special = &specialServices{SpecialServiceTypes: codes}
	}

	var customs *customsDetail
	if req.Customs != nil {
		customs = customsFor(req.Customs, req.Shipper, weightUnit, currency)
	}

	requests := make([]shipRequestType, 0, len(packages))
	for i, pkg := range packages {
		item := packageLineItem{
			SequenceNumber:  i + 1,
			Weight:          weightType{Units: string(weightUnit), Value: pkg.Weight()},
			ItemDescription: pkg.Parcel.Description,
		}
		if pkg.HasDimensions() {
			item.Dimensions = &dimensionsType{
				Length: pkg.Length(),
				Width:  pkg.Width(),
				Height: pkg.Height(),
				Units:  string(dimUnit),
			}
		}
		if raw, present := req.Options[optDeclaredValue]; present {
			if coerced, err := options.AsFloat(raw); err == nil {
				if declared, _ := coerced.(float64); declared > 0 {
					item.DeclaredValue = &moneyType{Amount: declared, Currency: firstNonEmpty(currency, "USD")}
				}
			}
		}
		if req.Reference != "" {
			item.CustomerReferences = []customerReference{
				{CustomerReferenceType: "CUSTOMER_REFERENCE", Value: req.Reference},
			}
		}

		shipment := shipRequestedShipment{
			Shipper:                   partyFor(req.Shipper, &accountNumber{Value: settings.AccountNumber}),
			Recipients:                []party{partyFor(req.Recipient, nil)},
			ShipDatestamp:             stringOption(req.Options, optShipDate),
			ServiceType:               serviceType(req.Service),
			PackagingType:             firstNonEmpty(pkg.Parcel.PackagingType, "YOUR_PACKAGING"),
			PickupType:                "USE_SCHEDULED_PICKUP",
			ShippingChargesPayment:    payment,
			ShipmentSpecialServices:   special,
			CustomsClearanceDetail:    customs,
			LabelSpecification:        spec,
			TotalPackageCount:         len(packages),
			RequestedPackageLineItems: []packageLineItem{item},
		}
		if i > 0 {
			shipment.MasterTrackingID = &masterTrackingID{TrackingNumber: masterTrackingPlaceholder}
		}

		requests = append(requests, shipRequestType{
			AccountNumber:        accountNumber{Value: settings.AccountNumber},
			LabelResponseOptions: "LABEL",
			RequestedShipment:    shipment,
		})
	}

	ctx := wire.Context{
		ctxLabelFormat: string(format),
		ctxPieceCount:  len(packages),
	}
	serializables := make([]*wire.Serializable[shipRequestType], 0, len(requests))
	for _, request := range requests {
		serializables = append(serializables, wire.NewSerializable(request, wire.EncodeJSON[shipRequestType], ctx))
	}
	return serializables, nil
}

func decodeShipPayload(raw []byte) ([]shipReply, error) {
	return wire.DecodeJSON[[]shipReply](raw)
}

// parseShipmentResponse normalizes one reply per piece into a single
// shipment. Single-piece shipments pass through; multi-piece shipments are
// aggregated under the master tracking number with bundled documents.
func parseShipmentResponse(d *wire.Deserializable[[]shipReply], settings *Settings) (*carrier.ShipmentDetails, []carrier.Message, error) {
	replies, err := d.Deserialize()
	if err != nil {
		return nil, nil, carrier.NewTranslationError(CarrierName, "shipment", "malformed response").WithCause(err)
	}

	format := carrier.LabelFormat(firstNonEmpty(d.Context().String(ctxLabelFormat), string(carrier.LabelPDF)))

	var messages []carrier.Message
	pieces := make([]carrier.PieceResponse, 0, len(replies))
	for i, reply := range replies {
		messages = append(messages, parseErrors(reply.Errors, settings)...)
		if reply.Output == nil {
			continue
		}
		messages = append(messages, parseAlerts(reply.Output.Alerts, settings)...)

		details, msg := extractShipment(reply.Output, format, settings)
		if msg != nil {
			messages = append(messages, *msg)
			continue
		}
		if details != nil {
			pieces = append(pieces, carrier.PieceResponse{Index: i + 1, Details: details})
		}
	}

	if len(replies) <= 1 {
		if len(pieces) == 0 {
			return nil, messages, nil
		}
		return pieces[0].Details, messages, nil
	}
	return carrier.ToMultiPieceShipment(pieces), messages, nil
}

func extractShipment(output *shipOutput, format carrier.LabelFormat, settings *Settings) (*carrier.ShipmentDetails, *carrier.Message) {
	if len(output.TransactionShipments) == 0 {
		return nil, nil
	}
	shipment := output.TransactionShipments[0]

	tracking := shipment.MasterTrackingNumber
	var label, invoice string
	for _, piece := range shipment.PieceResponses {
		if tracking == "" {
			tracking = piece.TrackingNumber
		}
		for _, doc := range piece.PackageDocuments {
			switch doc.ContentType {
			case "COMMERCIAL_INVOICE":
				invoice = doc.EncodedLabel
			default:
				if label == "" {
					label = doc.EncodedLabel
				}
			}
		}
	}

	if tracking == "" {
		return nil, &carrier.Message{
			CarrierID:   settings.CarrierID(),
			CarrierName: settings.CarrierName(),
			Code:        "MISSING_TRACKING_NUMBER",
			Message:     "shipment reply carried no tracking number",
		}
	}

	return &carrier.ShipmentDetails{
		CarrierID:          settings.CarrierID(),
		CarrierName:        settings.CarrierName(),
		TrackingNumber:     tracking,
		ShipmentIdentifier: tracking,
		LabelFormat:        format,
		Docs:               carrier.Documents{Label: label, Invoice: invoice},
		Meta: map[string]any{
			"service_name": shipment.ServiceName,
			"tracking_url": trackingURL(tracking),
		},
	}, nil
}

// shipmentCancelRequest voids a shipment by its tracking number.
func shipmentCancelRequest(req *carrier.ShipmentCancelRequest, settings *Settings) (*wire.Serializable[cancelRequestType], error) {
	if req.ShipmentIdentifier == "" {
		return nil, carrier.NewTranslationError(CarrierName, "shipment cancel", "shipment identifier is required")
	}
	payload := cancelRequestType{
		AccountNumber:   accountNumber{Value: settings.AccountNumber},
		TrackingNumber:  req.ShipmentIdentifier,
		DeletionControl: "DELETE_ALL_PACKAGES",
	}
	return wire.NewSerializable(payload, wire.EncodeJSON[cancelRequestType]), nil
}

func decodeCancelPayload(raw []byte) (cancelReply, error) {
	return wire.DecodeJSON[cancelReply](raw)
}

func parseShipmentCancelResponse(d *wire.Deserializable[cancelReply], settings *Settings) (*carrier.ConfirmationDetails, []carrier.Message, error) {
	reply, err := d.Deserialize()
	if err != nil {
		return nil, nil, carrier.NewTranslationError(CarrierName, "shipment cancel", "malformed response").WithCause(err)
	}

	messages := parseErrors(reply.Errors, settings)
	if reply.Output == nil {
		return nil, messages, nil
	}
	messages = append(messages, parseAlerts(reply.Output.Alerts, settings)...)
	if !reply.Output.CancelledShipment {
		return nil, messages, nil
	}
	return &carrier.ConfirmationDetails{
		CarrierID:   settings.CarrierID(),
		CarrierName: settings.CarrierName(),
		Operation:   "Cancel Shipment",
		Success:     true,
	}, messages, nil
}
