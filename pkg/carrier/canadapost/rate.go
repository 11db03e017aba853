package canadapost

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/units"
	"github.com/parcelmesh/bridge/pkg/carrier/wire"
)

// ratePayload is the decoded form of a rating response: exactly one of
// Quotes or Errors is set. An HTTP 200 body can still carry the error
// envelope, so success is the absence of the error document.
type ratePayload struct {
	Quotes *priceQuotes
	Errors *messagesDoc
}

func decodeRatePayload(raw []byte) (ratePayload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ratePayload{}, nil
	}

	var errDoc messagesDoc
	if err := xml.Unmarshal(raw, &errDoc); err == nil {
		return ratePayload{Errors: &errDoc}, nil
	}

	var quotes priceQuotes
	if err := xml.Unmarshal(raw, &quotes); err != nil {
		return ratePayload{}, err
	}
	return ratePayload{Quotes: &quotes}, nil
}

// rateRequest builds the mailing-scenario wire structure from a canonical
// rate request. Canada Post rates one parcel per scenario; multi-parcel
// requests rate against the heaviest parcel like the merchant tooling does.
func rateRequest(req *carrier.RateRequest, settings *Settings) (*wire.Serializable[mailingScenario], error) {
	packages := units.NewPackages(req.Parcels, preferredWeightUnit, preferredDimUnit)
	pairs, err := shippingOptions.Apply(req.Options)
	if err != nil {
		return nil, carrier.NewTranslationError(CarrierName, "rate", "invalid option").WithCause(err)
	}

	scenario := mailingScenario{
		Xmlns:            "http://www.canadapost.ca/ws/ship/rate-v4",
		CustomerNumber:   settings.CustomerNumber,
		ContractID:       settings.ContractID,
		OriginPostalCode: normalizePostalCode(req.Shipper.PostalCode),
		Destination:      destinationFor(req.Recipient),
	}

	if pkg, ok := heaviest(packages); ok {
		scenario.ParcelCharacter = parcelCharacteristics{
			Weight:   pkg.Weight(),
			Document: pkg.Parcel.IsDocument,
		}
		if pkg.HasDimensions() {
			scenario.ParcelCharacter.Dimensions = &xmlDimensions{
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
		scenario.Options = list
	}

	if len(req.Services) > 0 {
		codes := make([]string, 0, len(req.Services))
		for _, service := range req.Services {
			codes = append(codes, serviceCode(service))
		}
		scenario.Services = &serviceList{ServiceCode: codes}
	}

	return wire.NewSerializable(scenario, wire.EncodeXML[mailingScenario]), nil
}

// parseRateResponse normalizes a rating response into canonical rate
// details plus any carrier-reported messages.
func parseRateResponse(d *wire.Deserializable[ratePayload], settings *Settings) ([]carrier.RateDetails, []carrier.Message, error) {
	payload, err := d.Deserialize()
	if err != nil {
		return nil, nil, carrier.NewTranslationError(CarrierName, "rate", "malformed response").WithCause(err)
	}

	messages := parseError(payload.Errors, settings)
	if payload.Quotes == nil {
		return nil, messages, nil
	}

	rates := make([]carrier.RateDetails, 0, len(payload.Quotes.PriceQuote))
	for _, quote := range payload.Quotes.PriceQuote {
		rates = append(rates, extractRate(quote, settings))
	}
	return rates, messages, nil
}

func extractRate(quote priceQuote, settings *Settings) carrier.RateDetails {
	var charges []carrier.ChargeDetails
	charges = append(charges, carrier.ChargeDetails{Name: "Base charge", Amount: quote.PriceDetails.Base, Currency: "CAD"})
	for _, adj := range quote.PriceDetails.Adjustments.Adjustment {
		charges = append(charges, carrier.ChargeDetails{
			Name:     adj.AdjustmentCode,
			Amount:   adj.AdjustmentCost,
			Currency: "CAD",
		})
	}
	taxes := quote.PriceDetails.Taxes.GST + quote.PriceDetails.Taxes.PST + quote.PriceDetails.Taxes.HST
	if taxes > 0 {
		charges = append(charges, carrier.ChargeDetails{Name: "Taxes", Amount: taxes, Currency: "CAD"})
	}

	return carrier.RateDetails{
		CarrierID:    settings.CarrierID(),
		CarrierName:  settings.CarrierName(),
		Service:      canonicalService(quote.ServiceCode),
		TotalCharge:  quote.PriceDetails.Due,
		Currency:     "CAD",
		TransitDays:  quote.ServiceStandard.ExpectedTransitTime,
		ExtraCharges: charges,
		EstDelivery:  quote.ServiceStandard.ExpectedDeliveryDate,
		Meta: map[string]any{
			"service_name": quote.ServiceLink.ServiceName,
			"guaranteed":   quote.ServiceStandard.GuaranteedDelivery,
		},
	}
}

func destinationFor(recipient carrier.Address) xmlDestination {
	switch recipient.CountryCode {
	case "", "CA":
		return xmlDestination{Domestic: &xmlDomestic{
			PostalCode: normalizePostalCode(recipient.PostalCode),
		}}
	case "US":
		return xmlDestination{UnitedStates: &xmlUnitedStates{
			ZipCode: recipient.PostalCode,
		}}
	default:
		return xmlDestination{International: &xmlInternational{
			CountryCode: recipient.CountryCode,
		}}
	}
}

func heaviest(packages units.Packages) (units.Package, bool) {
	if len(packages) == 0 {
		return units.Package{}, false
	}
	max := packages[0]
	for _, pkg := range packages[1:] {
		if pkg.Weight() > max.Weight() {
			max = pkg
		}
	}
	return max, true
}

func normalizePostalCode(pc string) string {
	return strings.ReplaceAll(strings.ToUpper(pc), " ", "")
}
