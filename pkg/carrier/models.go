// Package carrier defines the canonical, carrier-independent shipping model:
// the request and result schemas every per-carrier mapper translates to and
// from, plus the shared primitives (settings, messages, aggregation,
// document bundling) those mappers are built on.
package carrier

// WeightUnit represents a weight measurement unit.
type WeightUnit string

const (
	KG WeightUnit = "KG"
	LB WeightUnit = "LB"
	G  WeightUnit = "G"
	OZ WeightUnit = "OZ"
)

// DimensionUnit represents a dimension measurement unit.
type DimensionUnit string

const (
	CM DimensionUnit = "CM"
	IN DimensionUnit = "IN"
	MM DimensionUnit = "MM"
)

// LabelFormat represents the format of shipping labels and documents.
type LabelFormat string

const (
	LabelPDF LabelFormat = "PDF"
	LabelPNG LabelFormat = "PNG"
	LabelZPL LabelFormat = "ZPL"
)

// PaidBy identifies which party a payment directive bills.
type PaidBy string

const (
	PaidBySender     PaidBy = "sender"
	PaidByRecipient  PaidBy = "recipient"
	PaidByThirdParty PaidBy = "third_party"
)

// Address represents a shipper or recipient address. Addresses are
// structurally validated before reaching a mapper; mappers only apply
// carrier-specific rules on top.
type Address struct {
	PersonName   string
	CompanyName  string
	AddressLine1 string
	AddressLine2 string
	City         string
	StateCode    string
	PostalCode   string
	CountryCode  string // ISO 3166-1 alpha-2
	Phone        string
	Email        string
	TaxID        string
	Residential  bool
}

// HasTaxInfo reports whether the address carries a tax identifier.
func (a Address) HasTaxInfo() bool {
	return a.TaxID != ""
}

// Parcel represents one physical package of a shipment with unit-tagged
// measurements. Conversion is always explicit at the point of use; see the
// units subpackage.
type Parcel struct {
	ID            string
	Length        float64
	Width         float64
	Height        float64
	DimensionUnit DimensionUnit
	Weight        float64
	WeightUnit    WeightUnit
	PackagingType string
	Description   string
	IsDocument    bool
	ReferenceNumb string
}

// Commodity represents a customs declaration line item.
type Commodity struct {
	SKU           string
	HSCode        string
	Description   string
	Quantity      int
	ValueAmount   float64
	Currency      string
	Weight        float64
	WeightUnit    WeightUnit
	OriginCountry string
}

// Duty describes who pays customs duties.
type Duty struct {
	PaidBy        PaidBy
	Currency      string
	AccountNumber string
	DeclaredValue float64
}

// CustomsInfo represents a customs declaration for international shipments.
type CustomsInfo struct {
	Commodities       []Commodity
	Duty              *Duty
	ContentType       string
	ContentDesc       string
	Incoterm          string
	InvoiceNumber     string
	InvoiceDate       string
	Certify           bool
	Signer            string
	CommercialInvoice bool
}

// Payment is a billing directive for shipping charges.
type Payment struct {
	PaidBy        PaidBy
	Currency      string
	AccountNumber string
}

// Options is the canonical options mapping attached to a request. Values are
// nil (presence only), raw scalars, or true for carrier flags with no payload
// value. Carriers materialize only the keys their option table declares.
type Options map[string]any

// ============================================================================
// Canonical Requests
// ============================================================================

// RateRequest asks carriers for rate quotes on a prospective shipment.
type RateRequest struct {
	Shipper   Address
	Recipient Address
	Parcels   []Parcel
	Services  []string
	Options   Options
	Customs   *CustomsInfo
	Reference string
}

// ShipmentRequest asks a carrier to create a shipment and produce labels.
type ShipmentRequest struct {
	Service        string
	Shipper        Address
	Recipient      Address
	Parcels        []Parcel
	Options        Options
	Customs        *CustomsInfo
	Payment        *Payment
	BillingAddress *Address
	LabelFormat    LabelFormat
	Reference      string
}

// ShipmentCancelRequest voids a previously created shipment.
type ShipmentCancelRequest struct {
	ShipmentIdentifier string
	Service            string
	Options            Options
}

// TrackingRequest fetches tracking details for one or more tracking numbers.
type TrackingRequest struct {
	TrackingNumbers []string
	Reference       string
	Options         Options
}

// PickupRequest schedules a carrier pickup.
type PickupRequest struct {
	PickupDate     string // YYYY-MM-DD
	ReadyTime      string // HH:MM
	ClosingTime    string // HH:MM
	Address        Address
	Parcels        []Parcel
	Instruction    string
	PackageLocation string
	Options        Options
}

// PickupUpdateRequest reschedules an existing pickup.
type PickupUpdateRequest struct {
	ConfirmationNumber string
	PickupDate         string
	ReadyTime          string
	ClosingTime        string
	Address            Address
	Parcels            []Parcel
	Instruction        string
	Options            Options
}

// PickupCancelRequest cancels a scheduled pickup.
type PickupCancelRequest struct {
	ConfirmationNumber string
	PickupDate         string
	Reason             string
}

// DocumentFile is one document to upload ahead of a shipment.
type DocumentFile struct {
	DocName   string
	DocType   string
	DocFormat string
	DocFile   string // base64 encoded content
}

// DocumentUploadRequest uploads trade documents (e.g. commercial invoices)
// to a carrier's paperless document service.
type DocumentUploadRequest struct {
	DocumentFiles      []DocumentFile
	ShipmentIdentifier string
	TrackingNumber     string
	Reference          string
	Options            Options
}

// ============================================================================
// Canonical Results
// ============================================================================

// ChargeDetails is one line of a rate's charge breakdown.
type ChargeDetails struct {
	Name     string
	Amount   float64
	Currency string
}

// RateDetails is a single normalized rate quote.
type RateDetails struct {
	CarrierID    string
	CarrierName  string
	Service      string
	TotalCharge  float64
	Currency     string
	TransitDays  int
	ExtraCharges []ChargeDetails
	EstDelivery  string
	Meta         map[string]any
}

// Documents carries the label and optional customs invoice produced by a
// shipment creation, base64 encoded.
type Documents struct {
	Label   string
	Invoice string
}

// ShipmentDetails is the normalized result of a shipment creation.
type ShipmentDetails struct {
	CarrierID          string
	CarrierName        string
	TrackingNumber     string
	ShipmentIdentifier string
	LabelFormat        LabelFormat
	Docs               Documents
	SelectedRate       *RateDetails
	Meta               map[string]any
}

// TrackingEvent is one normalized tracking scan.
type TrackingEvent struct {
	Date        string
	Time        string
	Code        string
	Description string
	Location    string
}

// TrackingDetails is the normalized tracking result for one tracking number.
type TrackingDetails struct {
	CarrierID      string
	CarrierName    string
	TrackingNumber string
	Events         []TrackingEvent
	Delivered      bool
	EstDelivery    string
	Meta           map[string]any
}

// ConfirmationDetails is the normalized result of void/cancel style
// operations that only acknowledge success.
type ConfirmationDetails struct {
	CarrierID   string
	CarrierName string
	Operation   string
	Success     bool
}

// PickupDetails is the normalized result of pickup scheduling.
type PickupDetails struct {
	CarrierID          string
	CarrierName        string
	ConfirmationNumber string
	PickupDate         string
	ReadyTime          string
	ClosingTime        string
	Meta               map[string]any
}

// DocumentUploadDetails is the normalized result of a document upload.
type DocumentUploadDetails struct {
	CarrierID   string
	CarrierName string
	DocumentIDs []string
	Meta        map[string]any
}

// Message is a structured carrier-reported error or warning. The carrier's
// own code and description are preserved untouched; only the shape is
// canonical. A non-empty message list with a nil result signals failure, a
// non-nil result with messages signals partial success.
type Message struct {
	CarrierID   string
	CarrierName string
	Code        string
	Message     string
	Details     map[string]any
}
