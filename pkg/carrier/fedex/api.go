package fedex

// Wire structures for the FedEx REST APIs. Field layout follows the rate,
// ship, track and ETD upload request/response schemas; only the fields the
// mappers read or write are declared.

// ============================================================================
// Shared
// ============================================================================

type accountNumber struct {
	Value string `json:"value"`
}

type party struct {
	AccountNumber *accountNumber `json:"accountNumber,omitempty"`
	Address       address        `json:"address"`
	Contact       *contact       `json:"contact,omitempty"`
	Tins          []tin          `json:"tins,omitempty"`
}

type address struct {
	StreetLines         []string `json:"streetLines,omitempty"`
	City                string   `json:"city,omitempty"`
	StateOrProvinceCode string   `json:"stateOrProvinceCode,omitempty"`
	PostalCode          string   `json:"postalCode"`
	CountryCode         string   `json:"countryCode"`
	Residential         bool     `json:"residential,omitempty"`
}

type contact struct {
	PersonName   string `json:"personName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	CompanyName  string `json:"companyName,omitempty"`
}

type tin struct {
	Number string `json:"number"`
}

type weightType struct {
	Units string  `json:"units"`
	Value float64 `json:"value"`
}

type dimensionsType struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Units  string  `json:"units"`
}

type moneyType struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type apiError struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	ParameterList []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"parameterList,omitempty"`
}

type alert struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	AlertType string `json:"alertType"`
}

// ============================================================================
// Rating
// ============================================================================

type rateRequestType struct {
	AccountNumber     accountNumber          `json:"accountNumber"`
	RequestedShipment rateRequestedShipment  `json:"requestedShipment"`
}

type rateRequestedShipment struct {
	Shipper                   party             `json:"shipper"`
	Recipient                 party             `json:"recipient"`
	ShipDateStamp             string            `json:"shipDateStamp,omitempty"`
	ServiceType               string            `json:"serviceType,omitempty"`
	PickupType                string            `json:"pickupType"`
	PackagingType             string            `json:"packagingType,omitempty"`
	PreferredCurrency         string            `json:"preferredCurrency,omitempty"`
	RateRequestType           []string          `json:"rateRequestType,omitempty"`
	ShipmentSpecialServices   *specialServices  `json:"shipmentSpecialServices,omitempty"`
	CustomsClearanceDetail    *customsDetail    `json:"customsClearanceDetail,omitempty"`
	TotalPackageCount         int               `json:"totalPackageCount,omitempty"`
	RequestedPackageLineItems []packageLineItem `json:"requestedPackageLineItems"`
}

type specialServices struct {
	SpecialServiceTypes []string `json:"specialServiceTypes,omitempty"`
}

type packageLineItem struct {
	SequenceNumber    int             `json:"sequenceNumber,omitempty"`
	Weight            weightType      `json:"weight"`
	Dimensions        *dimensionsType `json:"dimensions,omitempty"`
	DeclaredValue     *moneyType      `json:"declaredValue,omitempty"`
	ItemDescription   string          `json:"itemDescription,omitempty"`
	CustomerReferences []customerReference `json:"customerReferences,omitempty"`
}

type customerReference struct {
	CustomerReferenceType string `json:"customerReferenceType"`
	Value                 string `json:"value"`
}

type rateReply struct {
	TransactionID string      `json:"transactionId"`
	Output        *rateOutput `json:"output,omitempty"`
	Errors        []apiError  `json:"errors,omitempty"`
}

type rateOutput struct {
	Alerts           []alert           `json:"alerts,omitempty"`
	RateReplyDetails []rateReplyDetail `json:"rateReplyDetails,omitempty"`
}

type rateReplyDetail struct {
	ServiceType          string                `json:"serviceType"`
	ServiceName          string                `json:"serviceName"`
	PackagingType        string                `json:"packagingType"`
	Commit               *commitDetail         `json:"commit,omitempty"`
	RatedShipmentDetails []ratedShipmentDetail `json:"ratedShipmentDetails"`
}

type commitDetail struct {
	DateDetail *dateDetail `json:"dateDetail,omitempty"`
	TransitDays *transitDays `json:"transitDays,omitempty"`
}

type dateDetail struct {
	DayOfWeek string `json:"dayOfWeek,omitempty"`
	DayFormat string `json:"dayFormat,omitempty"`
}

type transitDays struct {
	MinimumTransitTime string `json:"minimumTransitTime,omitempty"`
	Description        string `json:"description,omitempty"`
}

type ratedShipmentDetail struct {
	RateType           string              `json:"rateType"`
	TotalNetCharge     float64             `json:"totalNetCharge"`
	TotalBaseCharge    float64             `json:"totalBaseCharge"`
	TotalNetFedExCharge float64            `json:"totalNetFedExCharge"`
	Currency           string              `json:"currency"`
	ShipmentRateDetail *shipmentRateDetail `json:"shipmentRateDetail,omitempty"`
}

type shipmentRateDetail struct {
	Surcharges []surcharge `json:"surCharges,omitempty"`
	TotalTaxes float64     `json:"totalTaxes,omitempty"`
}

type surcharge struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// ============================================================================
// Shipping
// ============================================================================

type shipRequestType struct {
	AccountNumber        accountNumber         `json:"accountNumber"`
	LabelResponseOptions string                `json:"labelResponseOptions"`
	RequestedShipment    shipRequestedShipment `json:"requestedShipment"`
}

type shipRequestedShipment struct {
	Shipper                   party              `json:"shipper"`
	Recipients                []party            `json:"recipients"`
	ShipDatestamp             string             `json:"shipDatestamp,omitempty"`
	ServiceType               string             `json:"serviceType"`
	PackagingType             string             `json:"packagingType"`
	PickupType                string             `json:"pickupType"`
	TotalWeight               float64            `json:"totalWeight,omitempty"`
	TotalDeclaredValue        *moneyType         `json:"totalDeclaredValue,omitempty"`
	ShippingChargesPayment    chargesPayment     `json:"shippingChargesPayment"`
	ShipmentSpecialServices   *specialServices   `json:"shipmentSpecialServices,omitempty"`
	CustomsClearanceDetail    *customsDetail     `json:"customsClearanceDetail,omitempty"`
	LabelSpecification        labelSpecification `json:"labelSpecification"`
	TotalPackageCount         int                `json:"totalPackageCount"`
	MasterTrackingID          *masterTrackingID  `json:"masterTrackingId,omitempty"`
	RequestedPackageLineItems []packageLineItem  `json:"requestedPackageLineItems"`
}

type chargesPayment struct {
	PaymentType string     `json:"paymentType"`
	Payor       *payorType `json:"payor,omitempty"`
}

type payorType struct {
	ResponsibleParty party `json:"responsibleParty"`
}

type customsDetail struct {
	DutiesPayment     *chargesPayment `json:"dutiesPayment,omitempty"`
	CommercialInvoice *commercialInvoice `json:"commercialInvoice,omitempty"`
	Commodities       []commodity     `json:"commodities"`
	IsDocumentOnly    bool            `json:"isDocumentOnly,omitempty"`
	TotalCustomsValue *moneyType      `json:"totalCustomsValue,omitempty"`
}

type commercialInvoice struct {
	TermsOfSale        string              `json:"termsOfSale,omitempty"`
	ShipmentPurpose    string              `json:"shipmentPurpose,omitempty"`
	CustomerReferences []customerReference `json:"customerReferences,omitempty"`
}

type commodity struct {
	Description          string      `json:"description"`
	CountryOfManufacture string      `json:"countryOfManufacture,omitempty"`
	Quantity             int         `json:"quantity"`
	QuantityUnits        string      `json:"quantityUnits"`
	UnitPrice            *moneyType  `json:"unitPrice,omitempty"`
	Weight               *weightType `json:"weight,omitempty"`
	HarmonizedCode       string      `json:"harmonizedCode,omitempty"`
	PartNumber           string      `json:"partNumber,omitempty"`
}

type labelSpecification struct {
	LabelFormatType string `json:"labelFormatType"`
	ImageType       string `json:"imageType"`
	LabelStockType  string `json:"labelStockType"`
}

type masterTrackingID struct {
	TrackingIDType string `json:"trackingIdType,omitempty"`
	TrackingNumber string `json:"trackingNumber"`
}

type shipReply struct {
	TransactionID string      `json:"transactionId"`
	Output        *shipOutput `json:"output,omitempty"`
	Errors        []apiError  `json:"errors,omitempty"`
}

type shipOutput struct {
	Alerts               []alert               `json:"alerts,omitempty"`
	TransactionShipments []transactionShipment `json:"transactionShipments,omitempty"`
}

type transactionShipment struct {
	MasterTrackingNumber string          `json:"masterTrackingNumber"`
	ServiceType          string          `json:"serviceType"`
	ServiceName          string          `json:"serviceName"`
	ShipDatestamp        string          `json:"shipDatestamp"`
	PieceResponses       []pieceResponse `json:"pieceResponses,omitempty"`
}

type pieceResponse struct {
	TrackingNumber    string            `json:"trackingNumber"`
	TrackingIDType    string            `json:"trackingIdType,omitempty"`
	ServiceCategory   string            `json:"serviceCategory,omitempty"`
	PackageDocuments  []packageDocument `json:"packageDocuments,omitempty"`
}

type packageDocument struct {
	ContentType  string `json:"contentType"`
	DocType      string `json:"docType"`
	EncodedLabel string `json:"encodedLabel"`
	URL          string `json:"url,omitempty"`
}

type cancelRequestType struct {
	AccountNumber  accountNumber `json:"accountNumber"`
	TrackingNumber string        `json:"trackingNumber"`
	DeletionControl string       `json:"deletionControl,omitempty"`
}

type cancelReply struct {
	TransactionID string        `json:"transactionId"`
	Output        *cancelOutput `json:"output,omitempty"`
	Errors        []apiError    `json:"errors,omitempty"`
}

type cancelOutput struct {
	CancelledShipment bool    `json:"cancelledShipment"`
	Alerts            []alert `json:"alerts,omitempty"`
}

// ============================================================================
// Tracking
// ============================================================================

type trackRequestType struct {
	IncludeDetailedScans bool           `json:"includeDetailedScans"`
	TrackingInfo         []trackingInfo `json:"trackingInfo"`
}

type trackingInfo struct {
	TrackingNumberInfo trackingNumberInfo `json:"trackingNumberInfo"`
}

type trackingNumberInfo struct {
	TrackingNumber string `json:"trackingNumber"`
}

type trackReply struct {
	TransactionID string       `json:"transactionId"`
	Output        *trackOutput `json:"output,omitempty"`
	Errors        []apiError   `json:"errors,omitempty"`
}

type trackOutput struct {
	CompleteTrackResults []completeTrackResult `json:"completeTrackResults,omitempty"`
}

type completeTrackResult struct {
	TrackingNumber string        `json:"trackingNumber"`
	TrackResults   []trackResult `json:"trackResults,omitempty"`
}

type trackResult struct {
	Error             *apiError          `json:"error,omitempty"`
	LatestStatusDetail *latestStatusDetail `json:"latestStatusDetail,omitempty"`
	DateAndTimes      []dateAndTime      `json:"dateAndTimes,omitempty"`
	ScanEvents        []scanEvent        `json:"scanEvents,omitempty"`
	EstimatedDeliveryTimeWindow *timeWindow `json:"estimatedDeliveryTimeWindow,omitempty"`
}

type latestStatusDetail struct {
	Code        string `json:"code"`
	Derived     string `json:"derivedCode,omitempty"`
	Description string `json:"description"`
}

type dateAndTime struct {
	Type     string `json:"type"`
	DateTime string `json:"dateTime"`
}

type scanEvent struct {
	Date             string       `json:"date"`
	EventType        string       `json:"eventType"`
	EventDescription string       `json:"eventDescription"`
	ScanLocation     scanLocation `json:"scanLocation"`
}

type scanLocation struct {
	City                string `json:"city,omitempty"`
	StateOrProvinceCode string `json:"stateOrProvinceCode,omitempty"`
	CountryCode         string `json:"countryCode,omitempty"`
}

type timeWindow struct {
	Window struct {
		Ends string `json:"ends,omitempty"`
	} `json:"window"`
}

// ============================================================================
// ETD document upload
// ============================================================================

type uploadRequestType struct {
	Document uploadDocument `json:"document"`
	Meta     uploadMeta     `json:"meta"`
}

type uploadDocument struct {
	ReferenceID string `json:"referenceId"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type uploadMeta struct {
	ShipDocumentType string `json:"shipDocumentType"`
	OriginCountryCode string `json:"originCountryCode,omitempty"`
	DestinationCountryCode string `json:"destinationCountryCode,omitempty"`
}

type uploadReply struct {
	TransactionID string        `json:"transactionId"`
	Output        *uploadOutput `json:"output,omitempty"`
	Errors        []apiError    `json:"errors,omitempty"`
}

type uploadOutput struct {
	Meta struct {
		DocumentID string `json:"docId"`
	} `json:"meta"`
	Alerts []alert `json:"alerts,omitempty"`
}
