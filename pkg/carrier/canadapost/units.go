package canadapost

import (
	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/options"
)

// Canada Post rates in kilograms and centimeters regardless of origin.
const (
	preferredWeightUnit = carrier.KG
	preferredDimUnit    = carrier.CM
)

// Service codes by canonical service name.
var services = map[string]string{
	"canadapost_regular_parcel":       "DOM.RP",
	"canadapost_expedited_parcel":     "DOM.EP",
	"canadapost_xpresspost":           "DOM.XP",
	"canadapost_priority":             "DOM.PC",
	"canadapost_expedited_parcel_usa": "USA.EP",
	"canadapost_xpresspost_usa":       "USA.XP",
	"canadapost_xpresspost_international": "INT.XP",
	"canadapost_international_parcel_air": "INT.IP.AIR",
}

// serviceNames is the reverse lookup used when normalizing responses.
var serviceNames = reverse(services)

func reverse(m map[string]string) map[string]string {
	r := make(map[string]string, len(m))
	for k, v := range m {
		r[v] = k
	}
	return r
}

// serviceCode resolves a canonical service name to the Canada Post code,
// passing unknown values through untouched so raw codes keep working.
func serviceCode(service string) string {
	if code, ok := services[service]; ok {
		return code
	}
	return service
}

// canonicalService resolves a Canada Post code back to the canonical name.
func canonicalService(code string) string {
	if name, ok := serviceNames[code]; ok {
		return name
	}
	return code
}

// shippingOptions declares the canonical options Canada Post understands,
// in the order the XML option list must carry them.
var shippingOptions = options.NewTable(
	options.Entry{Key: "canadapost_signature", Code: "SO", Kind: options.Flag},
	options.Entry{Key: "canadapost_coverage", Code: "COV", Kind: options.Typed, Coerce: options.AsFloat},
	options.Entry{Key: "canadapost_cash_on_delivery", Code: "COD", Kind: options.Typed, Coerce: options.AsFloat},
	options.Entry{Key: "canadapost_proof_of_age_required_18", Code: "PA18", Kind: options.Flag},
	options.Entry{Key: "canadapost_proof_of_age_required_19", Code: "PA19", Kind: options.Flag},
	options.Entry{Key: "canadapost_card_for_pickup", Code: "HFP", Kind: options.Flag},
	options.Entry{Key: "canadapost_do_not_safe_drop", Code: "DNS", Kind: options.Flag},
	options.Entry{Key: "canadapost_leave_at_door", Code: "LAD", Kind: options.Flag},
	// Unified names accepted alongside the prefixed ones.
	options.Entry{Key: "signature_confirmation", Code: "SO", Kind: options.Flag},
	options.Entry{Key: "insurance", Code: "COV", Kind: options.Typed, Coerce: options.AsFloat},
	options.Entry{Key: "cash_on_delivery", Code: "COD", Kind: options.Typed, Coerce: options.AsFloat},
)

// labelEncodings maps canonical label formats to print preference encodings.
var labelEncodings = map[carrier.LabelFormat]string{
	carrier.LabelPDF: "PDF",
	carrier.LabelZPL: "ZPL",
}

func labelEncoding(format carrier.LabelFormat) (carrier.LabelFormat, string) {
	if enc, ok := labelEncodings[format]; ok {
		return format, enc
	}
	// Carrier-mandatory default when the canonical request leaves it unset.
	return carrier.LabelPDF, "PDF"
}
