package fedex

import (
	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/options"
	"github.com/parcelmesh/bridge/pkg/carrier/units"
	"github.com/parcelmesh/bridge/pkg/carrier/wire"
)

// rateRequest builds the rate quote wire structure from a canonical rate
// request. Units follow the origin country's preferred system, falling back
// to the packages' own compatible units.
func rateRequest(req *carrier.RateRequest, settings *Settings) (*wire.Serializable[rateRequestType], error) {
	pairs, err := shippingOptions.Apply(req.Options)
	if err != nil {
		return nil, carrier.NewTranslationError(CarrierName, "rate", "invalid option").WithCause(err)
	}

	fallbackWeight, fallbackDim := units.NewPackages(req.Parcels, carrier.KG, carrier.CM).CompatibleUnits()
	weightUnit, dimUnit := preferredUnits(req.Shipper.CountryCode, fallbackWeight, fallbackDim)
	packages := units.NewPackages(req.Parcels, weightUnit, dimUnit)

	currency, _ := req.Options[optCurrency].(string)

	request := rateRequestType{
		AccountNumber: accountNumber{Value: settings.AccountNumber},
		RequestedShipment: rateRequestedShipment{
			Shipper:           partyFor(req.Shipper, nil),
			Recipient:         partyFor(req.Recipient, nil),
			PickupType:        "DROPOFF_AT_FEDEX_LOCATION",
			PreferredCurrency: currency,
			RateRequestType:   []string{"LIST", "ACCOUNT"},
			TotalPackageCount: len(packages),
			ShipDateStamp:     stringOption(req.Options, optShipDate),
		},
	}

	if len(req.Services) == 1 {
		request.RequestedShipment.ServiceType = serviceType(req.Services[0])
	}

	if codes := options.Codes(pairs); len(codes) > 0 {
		request.RequestedShipment.ShipmentSpecialServices = &specialServices{SpecialServiceTypes: codes}
	}

	if req.Customs != nil {
		request.RequestedShipment.CustomsClearanceDetail = customsFor(req.Customs, req.Shipper, weightUnit, currency)
	}

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
		request.RequestedShipment.RequestedPackageLineItems = append(
			request.RequestedShipment.RequestedPackageLineItems, item)
	}

	return wire.NewSerializable(request, wire.EncodeJSON[rateRequestType]), nil
}

// parseRateResponse normalizes a rate reply: one RateDetails per reply
// detail, preferring the ACCOUNT rate when both LIST and ACCOUNT come back.
func parseRateResponse(d *wire.Deserializable[rateReply], settings *Settings) ([]carrier.RateDetails, []carrier.Message, error) {
	reply, err := d.Deserialize()
	if err != nil {
		return nil, nil, carrier.NewTranslationError(CarrierName, "rate", "malformed response").WithCause(err)
	}

	messages := parseErrors(reply.Errors, settings)
	if reply.Output == nil {
		return nil, messages, nil
	}
	messages = append(messages, parseAlerts(reply.Output.Alerts, settings)...)

	rates := make([]carrier.RateDetails, 0, len(reply.Output.RateReplyDetails))
	for _, detail := range reply.Output.RateReplyDetails {
		rated, ok := selectRated(detail.RatedShipmentDetails)
		if !ok {
			continue
		}

		var charges []carrier.ChargeDetails
		charges = append(charges, carrier.ChargeDetails{
			Name:     "Base charge",
			Amount:   rated.TotalBaseCharge,
			Currency: rated.Currency,
		})
		if rated.ShipmentRateDetail != nil {
			for _, s := range rated.ShipmentRateDetail.Surcharges {
				charges = append(charges, carrier.ChargeDetails{
					Name:     s.Description,
					Amount:   s.Amount,
					Currency: rated.Currency,
				})
			}
			if rated.ShipmentRateDetail.TotalTaxes > 0 {
				charges = append(charges, carrier.ChargeDetails{
					Name:     "Taxes",
					Amount:   rated.ShipmentRateDetail.TotalTaxes,
					Currency: rated.Currency,
				})
			}
		}

		rates = append(rates, carrier.RateDetails{
			CarrierID:    settings.CarrierID(),
			CarrierName:  settings.CarrierName(),
			Service:      canonicalService(detail.ServiceType),
			TotalCharge:  rated.TotalNetCharge,
			Currency:     rated.Currency,
			ExtraCharges: charges,
			Meta: map[string]any{
				"service_name": detail.ServiceName,
				"rate_type":    rated.RateType,
			},
		})
	}
	return rates, messages, nil
}

func selectRated(details []ratedShipmentDetail) (ratedShipmentDetail, bool) {
	if len(details) == 0 {
		return ratedShipmentDetail{}, false
	}
	for _, d := range details {
		if d.RateType == "ACCOUNT" {
			return d, true
		}
	}
	return details[0], true
}

func partyFor(a carrier.Address, account *accountNumber) party {
	streetLines := []string{}
	if a.AddressLine1 != "" {
		streetLines = append(streetLines, a.AddressLine1)
	}
	if a.AddressLine2 != "" {
		streetLines = append(streetLines, a.AddressLine2)
	}

	p := party{
		AccountNumber: account,
		Address: address{
			StreetLines:         streetLines,
			City:                a.City,
			StateOrProvinceCode: a.StateCode,
			PostalCode:          a.PostalCode,
			CountryCode:         a.CountryCode,
			Residential:         a.Residential,
		},
	}
	if a.PersonName != "" || a.Phone != "" || a.CompanyName != "" {
		p.Contact = &contact{
			PersonName:   a.PersonName,
			EmailAddress: a.Email,
			PhoneNumber:  a.Phone,
			CompanyName:  a.CompanyName,
		}
	}
	if a.HasTaxInfo() {
		p.Tins = []tin{{Number: a.TaxID}}
	}
	return p
}

func customsFor(customs *carrier.CustomsInfo, shipper carrier.Address, weightUnit carrier.WeightUnit, currency string) *customsDetail {
	detail := &customsDetail{
		IsDocumentOnly: customs.ContentType == "documents",
	}

	if customs.Duty != nil {
		detail.DutiesPayment = &chargesPayment{PaymentType: paymentType(customs.Duty.PaidBy)}
		if customs.Duty.DeclaredValue > 0 {
			detail.TotalCustomsValue = &moneyType{
				Amount:   customs.Duty.DeclaredValue,
				Currency: firstNonEmpty(customs.Duty.Currency, currency),
			}
		}
	}

	if customs.CommercialInvoice {
		detail.CommercialInvoice = &commercialInvoice{
			TermsOfSale:     firstNonEmpty(customs.Incoterm, "DDU"),
			ShipmentPurpose: firstNonEmpty(customs.ContentType, "SOLD"),
		}
		if customs.InvoiceNumber != "" {
			detail.CommercialInvoice.CustomerReferences = []customerReference{
				{CustomerReferenceType: "INVOICE_NUMBER", Value: customs.InvoiceNumber},
			}
		}
	}

	for _, item := range customs.Commodities {
		itemWeight := units.NewWeight(item.Weight, orUnit(item.WeightUnit, weightUnit))
		detail.Commodities = append(detail.Commodities, commodity{
			Description:          truncate(firstNonEmpty(item.Description, "N/A"), 35),
			CountryOfManufacture: firstNonEmpty(item.OriginCountry, shipper.CountryCode),
			Quantity:             item.Quantity,
			QuantityUnits:        "EA",
			UnitPrice: &moneyType{
				Amount:   item.ValueAmount,
				Currency: firstNonEmpty(item.Currency, currency),
			},
			Weight: &weightType{
				Units: string(weightUnit),
				Value: units.Round2(itemWeight.In(weightUnit)),
			},
			HarmonizedCode: item.HSCode,
			PartNumber:     item.SKU,
		})
	}
	return detail
}

func stringOption(opts carrier.Options, key string) string {
	v, _ := opts[key].(string)
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orUnit(unit, fallback carrier.WeightUnit) carrier.WeightUnit {
	if unit != "" {
		return unit
	}
	return fallback
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
