package canadapost

import "encoding/xml"

// Wire structures for the Canada Post XML web services. Field layout follows
// the rating (rate-v4), shipment (shipment-v8), tracking (track-v2) and
// pickup (pickuprequest) schemas.

// ============================================================================
// Rating
// ============================================================================

type mailingScenario struct {
	XMLName          xml.Name              `xml:"mailing-scenario"`
	Xmlns            string                `xml:"xmlns,attr"`
	CustomerNumber   string                `xml:"customer-number,omitempty"`
	ContractID       string                `xml:"contract-id,omitempty"`
	Options          *optionList           `xml:"options,omitempty"`
	ParcelCharacter  parcelCharacteristics `xml:"parcel-characteristics"`
	Services         *serviceList          `xml:"services,omitempty"`
	OriginPostalCode string                `xml:"origin-postal-code"`
	Destination      xmlDestination        `xml:"destination"`
}

type optionList struct {
	Option []optionEntry `xml:"option"`
}

type optionEntry struct {
	OptionCode   string  `xml:"option-code"`
	OptionAmount float64 `xml:"option-amount,omitempty"`
}

type serviceList struct {
	ServiceCode []string `xml:"service-code"`
}

type parcelCharacteristics struct {
	Weight     float64        `xml:"weight"`
	Dimensions *xmlDimensions `xml:"dimensions,omitempty"`
	Document   bool           `xml:"document,omitempty"`
}

type xmlDimensions struct {
	Length float64 `xml:"length"`
	Width  float64 `xml:"width"`
	Height float64 `xml:"height"`
}

type xmlDestination struct {
	Domestic      *xmlDomestic      `xml:"domestic,omitempty"`
	UnitedStates  *xmlUnitedStates  `xml:"united-states,omitempty"`
	International *xmlInternational `xml:"international,omitempty"`
}

type xmlDomestic struct {
	PostalCode string `xml:"postal-code"`
}

type xmlUnitedStates struct {
	ZipCode string `xml:"zip-code"`
}

type xmlInternational struct {
	CountryCode string `xml:"country-code"`
}

type priceQuotes struct {
	XMLName    xml.Name     `xml:"price-quotes"`
	PriceQuote []priceQuote `xml:"price-quote"`
}

type priceQuote struct {
	ServiceCode     string          `xml:"service-code"`
	ServiceLink     serviceLink     `xml:"service-link"`
	PriceDetails    priceDetails    `xml:"price-details"`
	ServiceStandard serviceStandard `xml:"service-standard"`
}

type serviceLink struct {
	ServiceName string `xml:"service-name"`
	Href        string `xml:"href,attr"`
}

type priceDetails struct {
	Base        float64     `xml:"base"`
	Taxes       priceTaxes  `xml:"taxes"`
	Due         float64     `xml:"due"`
	Adjustments adjustments `xml:"adjustments"`
}

type priceTaxes struct {
	GST float64 `xml:"gst"`
	PST float64 `xml:"pst"`
	HST float64 `xml:"hst"`
}

type adjustments struct {
	Adjustment []adjustment `xml:"adjustment"`
}

type adjustment struct {
	AdjustmentCode string  `xml:"adjustment-code"`
	AdjustmentCost float64 `xml:"adjustment-cost"`
}

type serviceStandard struct {
	AMDelivery           bool   `xml:"am-delivery"`
	GuaranteedDelivery   bool   `xml:"guaranteed-delivery"`
	ExpectedTransitTime  int    `xml:"expected-transit-time"`
	ExpectedDeliveryDate string `xml:"expected-delivery-date"`
}

// ============================================================================
// Shipment
// ============================================================================

type shipmentInfo struct {
	XMLName            xml.Name           `xml:"shipment"`
	Xmlns              string             `xml:"xmlns,attr"`
	GroupID            string             `xml:"group-id,omitempty"`
	RequestedShipPoint string             `xml:"requested-shipping-point,omitempty"`
	CpcPickupIndicator bool               `xml:"cpc-pickup-indicator"`
	DeliverySpec       deliverySpec       `xml:"delivery-spec"`
}

type deliverySpec struct {
	ServiceCode      string                `xml:"service-code"`
	Sender           xmlSenderInfo         `xml:"sender"`
	Destination      xmlDestinationInfo    `xml:"destination"`
	Options          *optionList           `xml:"options,omitempty"`
	ParcelCharacter  parcelCharacteristics `xml:"parcel-characteristics"`
	PrintPreferences printPreferences      `xml:"print-preferences"`
	Preferences      shipmentPreferences   `xml:"preferences"`
	References       *references           `xml:"references,omitempty"`
}

type xmlSenderInfo struct {
	Name           string            `xml:"name"`
	Company        string            `xml:"company,omitempty"`
	ContactPhone   string            `xml:"contact-phone"`
	AddressDetails xmlAddressDetails `xml:"address-details"`
}

type xmlDestinationInfo struct {
	Name           string            `xml:"name"`
	Company        string            `xml:"company,omitempty"`
	ClientVoice    string            `xml:"client-voice-number,omitempty"`
	AddressDetails xmlAddressDetails `xml:"address-details"`
}

type xmlAddressDetails struct {
	AddressLine1  string `xml:"address-line-1"`
	AddressLine2  string `xml:"address-line-2,omitempty"`
	City          string `xml:"city"`
	ProvState     string `xml:"prov-state,omitempty"`
	PostalZipCode string `xml:"postal-zip-code,omitempty"`
	CountryCode   string `xml:"country-code"`
}

type printPreferences struct {
	OutputFormat string `xml:"output-format"`
	Encoding     string `xml:"encoding"`
}

type shipmentPreferences struct {
	ShowPackingInstructions bool `xml:"show-packing-instructions"`
	ShowPostageRate         bool `xml:"show-postage-rate"`
}

type references struct {
	CustomerRef1 string `xml:"customer-ref-1,omitempty"`
	CustomerRef2 string `xml:"customer-ref-2,omitempty"`
}

type shipmentInfoResponse struct {
	XMLName        xml.Name `xml:"shipment-info"`
	ShipmentID     string   `xml:"shipment-id"`
	ShipmentStatus string   `xml:"shipment-status"`
	TrackingPIN    string   `xml:"tracking-pin"`
	Links          xmlLinks `xml:"links"`
}

type xmlLinks struct {
	Link []xmlLink `xml:"link"`
}

type xmlLink struct {
	Rel       string `xml:"rel,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// ============================================================================
// Tracking
// ============================================================================

type trackingDetail struct {
	XMLName              xml.Name         `xml:"tracking-detail"`
	PIN                  string           `xml:"pin"`
	ExpectedDeliveryDate string           `xml:"expected-delivery-date"`
	SignatureImageExists bool             `xml:"signature-image-exists"`
	SignificantEvents    significantEvents `xml:"significant-events"`
}

type significantEvents struct {
	Occurrence []occurrence `xml:"occurrence"`
}

type occurrence struct {
	EventIdentifier  string `xml:"event-identifier"`
	EventDate        string `xml:"event-date"`
	EventTime        string `xml:"event-time"`
	EventDescription string `xml:"event-description"`
	EventSite        string `xml:"event-site"`
	EventProvince    string `xml:"event-province"`
}

// ============================================================================
// Pickup
// ============================================================================

type pickupRequestDetails struct {
	XMLName              xml.Name             `xml:"pickup-request-details"`
	Xmlns                string               `xml:"xmlns,attr"`
	PickupType           string               `xml:"pickup-type"`
	PickupLocation       pickupLocation       `xml:"pickup-location"`
	ContactInfo          pickupContact        `xml:"contact-info"`
	LocationDetails      pickupLocationDetail `xml:"location-details"`
	ItemsCharacteristics pickupItems          `xml:"items-characteristics"`
	PickupTimes          pickupTimes          `xml:"pickup-times"`
}

type pickupLocation struct {
	BusinessAddressFlag bool              `xml:"business-address-flag"`
	AlternateAddress    *alternateAddress `xml:"alternate-address,omitempty"`
}

type alternateAddress struct {
	Company       string `xml:"company"`
	AddressLine1  string `xml:"address-line-1"`
	City          string `xml:"city"`
	Province      string `xml:"province"`
	PostalCode    string `xml:"postal-code"`
}

type pickupContact struct {
	ContactName  string `xml:"contact-name"`
	Email        string `xml:"email,omitempty"`
	ContactPhone string `xml:"contact-phone"`
}

type pickupLocationDetail struct {
	FiveTonFlag     bool   `xml:"five-ton-flag"`
	LoadingDockFlag bool   `xml:"loading-dock-flag"`
	PickupInstructions string `xml:"pickup-instructions,omitempty"`
}

type pickupItems struct {
	Pww           bool    `xml:"pww,omitempty"`
	PriorityFlag  bool    `xml:"priority-flag"`
	ReturnsFlag   bool    `xml:"returns-flag"`
	HeavyItemFlag bool    `xml:"heavy-item-flag"`
	Weight        float64 `xml:"weight"`
}

type pickupTimes struct {
	OnDemandPickupTime onDemandPickupTime `xml:"on-demand-pickup-time"`
}

type onDemandPickupTime struct {
	Date              string `xml:"date"`
	PreferredTime     string `xml:"preferred-time"`
	ClosingTime       string `xml:"closing-time"`
}

type pickupRequestInfo struct {
	XMLName             xml.Name `xml:"pickup-request-info"`
	RequestID           string   `xml:"pickup-request-header>request-id"`
	RequestStatus       string   `xml:"pickup-request-header>request-status"`
	PickupType          string   `xml:"pickup-request-header>pickup-type"`
	RequestDate         string   `xml:"pickup-request-header>request-date"`
	EstimatedCharge     float64  `xml:"pickup-request-price>due-amount"`
}

// ============================================================================
// Errors
// ============================================================================

// messagesDoc is the uniform Canada Post error envelope returned by every
// service on failure.
type messagesDoc struct {
	XMLName xml.Name     `xml:"messages"`
	Message []messageRow `xml:"message"`
}

type messageRow struct {
	Code        string `xml:"code"`
	Description string `xml:"description"`
}
