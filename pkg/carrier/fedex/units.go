package fedex

import (
	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/options"
)

// Service types by canonical service name.
var services = map[string]string{
	"fedex_ground":                 "FEDEX_GROUND",
	"fedex_2day":                   "FEDEX_2_DAY",
	"fedex_2day_am":                "FEDEX_2_DAY_AM",
	"fedex_express_saver":          "FEDEX_EXPRESS_SAVER",
	"fedex_standard_overnight":     "STANDARD_OVERNIGHT",
	"fedex_priority_overnight":     "PRIORITY_OVERNIGHT",
	"fedex_first_overnight":        "FIRST_OVERNIGHT",
	"fedex_international_economy":  "FEDEX_INTERNATIONAL_ECONOMY",
	"fedex_international_priority": "FEDEX_INTERNATIONAL_PRIORITY",
}

var serviceNames = reverse(services)

func reverse(m map[string]string) map[string]string {
	r := make(map[string]string, len(m))
	for k, v := range m {
		r[v] = k
	}
	return r
}

func serviceType(service string) string {
	if code, ok := services[service]; ok {
		return code
	}
	return service
}

func canonicalService(code string) string {
	if name, ok := serviceNames[code]; ok {
		return name
	}
	return code
}

// shippingOptions declares the canonical options FedEx materializes as
// shipment special services, in the order the wire list carries them.
var shippingOptions = options.NewTable(
	options.Entry{Key: "fedex_saturday_delivery", Code: "SATURDAY_DELIVERY", Kind: options.Flag},
	options.Entry{Key: "fedex_hold_at_location", Code: "HOLD_AT_LOCATION", Kind: options.Flag},
	options.Entry{Key: "fedex_electronic_trade_documents", Code: "ELECTRONIC_TRADE_DOCUMENTS", Kind: options.Flag},
	options.Entry{Key: "fedex_third_party_consignee", Code: "THIRD_PARTY_CONSIGNEE", Kind: options.Flag},
	options.Entry{Key: "cash_on_delivery", Code: "COD", Kind: options.Typed, Coerce: options.AsFloat},
	options.Entry{Key: "saturday_delivery", Code: "SATURDAY_DELIVERY", Kind: options.Flag},
	options.Entry{Key: "hold_at_location", Code: "HOLD_AT_LOCATION", Kind: options.Flag},
)

// Non-service canonical options read directly by the builders.
const (
	optCurrency      = "currency"
	optDeclaredValue = "declared_value"
	optShipDate      = "shipment_date"
)

// countryPreferredUnits overrides the package-derived unit pair for origins
// whose FedEx accounts rate in a fixed system.
var countryPreferredUnits = map[string][2]string{
	"US": {string(carrier.LB), string(carrier.IN)},
	"CA": {string(carrier.KG), string(carrier.CM)},
}

func preferredUnits(originCountry string, fallbackWeight carrier.WeightUnit, fallbackDim carrier.DimensionUnit) (carrier.WeightUnit, carrier.DimensionUnit) {
	if pair, ok := countryPreferredUnits[originCountry]; ok {
		return carrier.WeightUnit(pair[0]), carrier.DimensionUnit(pair[1])
	}
	return fallbackWeight, fallbackDim
}

// paymentTypes maps canonical paid-by parties to FedEx payment types.
var paymentTypes = map[carrier.PaidBy]string{
	carrier.PaidBySender:     "SENDER",
	carrier.PaidByRecipient:  "RECIPIENT",
	carrier.PaidByThirdParty: "THIRD_PARTY",
}

func paymentType(paidBy carrier.PaidBy) string {
	if t, ok := paymentTypes[paidBy]; ok {
		return t
	}
	return "SENDER"
}

// labelStock maps canonical label formats to (imageType, labelStockType).
var labelStock = map[carrier.LabelFormat][2]string{
	carrier.LabelPDF: {"PDF", "PAPER_4X6"},
	carrier.LabelPNG: {"PNG", "PAPER_4X6"},
	carrier.LabelZPL: {"ZPL", "STOCK_4X6"},
}

func labelSpec(format carrier.LabelFormat) (carrier.LabelFormat, labelSpecification) {
	stock, ok := labelStock[format]
	if !ok {
		format, stock = carrier.LabelPDF, labelStock[carrier.LabelPDF]
	}
	return format, labelSpecification{
		LabelFormatType: "COMMON2D",
		ImageType:       stock[0],
		LabelStockType:  stock[1],
	}
}

// uploadDocumentTypes maps canonical document names to ETD types.
var uploadDocumentTypes = map[string]string{
	"commercial_invoice":    "COMMERCIAL_INVOICE",
	"pro_forma_invoice":     "PRO_FORMA_INVOICE",
	"certificate_of_origin": "CERTIFICATE_OF_ORIGIN",
	"other":                 "OTHER",
}

func uploadDocumentType(name string) string {
	if t, ok := uploadDocumentTypes[name]; ok {
		return t
	}
	return "COMMERCIAL_INVOICE"
}
