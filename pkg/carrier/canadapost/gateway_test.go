package canadapost_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/canadapost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func testSettings() *canadapost.Settings {
	return &canadapost.Settings{
		CoreSettings:   carrier.CoreSettings{ID: "canadapost", Test: true},
		Username:       "user",
		Password:       "secret",
		CustomerNumber: "2004381",
	}
}

func newTestGateway(transport carrier.Transport) *canadapost.Gateway {
	return canadapost.New(testSettings(), transport, otelzap.New(zap.NewNop()), nil)
}

func domesticRateRequest() *carrier.RateRequest {
	return &carrier.RateRequest{
		Shipper:   carrier.Address{PostalCode: "m5v 1a1", CountryCode: "CA"},
		Recipient: carrier.Address{PostalCode: "v6b 2w2", CountryCode: "CA"},
		Parcels: []carrier.Parcel{
			{Length: 10, Width: 10, Height: 10, DimensionUnit: carrier.CM, Weight: 1, WeightUnit: carrier.KG},
			{Length: 30, Width: 20, Height: 10, DimensionUnit: carrier.CM, Weight: 4, WeightUnit: carrier.KG},
		},
	}
}

const ratesResponseXML = `<?xml version="1.0"?>
<price-quotes>
  <price-quote>
    <service-code>DOM.RP</service-code>
    <service-link><service-name>Regular Parcel</service-name></service-link>
    <price-details>
      <base>9.99</base>
      <taxes><gst>0.50</gst><pst>0</pst><hst>0.96</hst></taxes>
      <due>12.65</due>
      <adjustments>
        <adjustment><adjustment-code>FUELSC</adjustment-code><adjustment-cost>1.20</adjustment-cost></adjustment>
      </adjustments>
    </price-details>
    <service-standard>
      <guaranteed-delivery>false</guaranteed-delivery>
      <expected-transit-time>5</expected-transit-time>
      <expected-delivery-date>2026-09-04</expected-delivery-date>
    </service-standard>
  </price-quote>
  <price-quote>
    <service-code>DOM.XP</service-code>
    <service-link><service-name>Xpresspost</service-name></service-link>
    <price-details>
      <base>19.99</base>
      <taxes><gst>1.00</gst><pst>0</pst><hst>1.91</hst></taxes>
      <due>25.30</due>
      <adjustments></adjustments>
    </price-details>
    <service-standard>
      <guaranteed-delivery>true</guaranteed-delivery>
      <expected-transit-time>2</expected-transit-time>
      <expected-delivery-date>2026-09-01</expected-delivery-date>
    </service-standard>
  </price-quote>
</price-quotes>`

const errorResponseXML = `<?xml version="1.0"?>
<messages xmlns="http://www.canadapost.ca/ws/messages">
  <message>
    <code>9111</code>
    <description>Closed or invalid postal code</description>
  </message>
</messages>`

func TestGateway_FetchRates_Success(t *testing.T) {
	var sent carrier.Request
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		sent = req
		return []byte(ratesResponseXML), nil
	}))

	rates, messages, err := gw.FetchRates(context.Background(), domesticRateRequest())

	require.NoError(t, err)
	assert.Empty(t, messages)
	require.Len(t, rates, 2)

	assert.Equal(t, "canadapost_regular_parcel", rates[0].Service)
	assert.Equal(t, 12.65, rates[0].TotalCharge)
	assert.Equal(t, "CAD", rates[0].Currency)
	assert.Equal(t, 5, rates[0].TransitDays)
	assert.Equal(t, "Regular Parcel", rates[0].Meta["service_name"])

	assert.Equal(t, "canadapost_xpresspost", rates[1].Service)
	assert.Equal(t, true, rates[1].Meta["guaranteed"])

	// charge breakdown: base + fuel adjustment + taxes
	require.Len(t, rates[0].ExtraCharges, 3)
	assert.Equal(t, "Base charge", rates[0].ExtraCharges[0].Name)
	assert.Equal(t, "FUELSC", rates[0].ExtraCharges[1].Name)
	assert.InDelta(t, 1.46, rates[0].ExtraCharges[2].Amount, 0.001)

	// wire request rates the heaviest parcel with normalized postal codes
	assert.Contains(t, sent.URL, "/rs/ship/price")
	body := string(sent.Body)
	assert.Contains(t, body, "<origin-postal-code>M5V1A1</origin-postal-code>")
	assert.Contains(t, body, "<postal-code>V6B2W2</postal-code>")
	assert.Contains(t, body, "<weight>4</weight>")
}

func TestGateway_FetchRates_EmptyErrorEnvelopeYieldsFallbackMessage(t *testing.T) {
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		return []byte(`<?xml version="1.0"?><messages xmlns="http://www.canadapost.ca/ws/messages"></messages>`), nil
	}))

	rates, messages, err := gw.FetchRates(context.Background(), domesticRateRequest())

	require.NoError(t, err)
	assert.Empty(t, rates)
	require.Len(t, messages, 1)
	assert.Equal(t, "UNKNOWN", messages[0].Code)
	assert.Equal(t, "canadapost", messages[0].CarrierID)
	assert.NotEmpty(t, messages[0].Message)
}

func TestGateway_FetchRates_CarrierErrorBecomesMessage(t *testing.T) {
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		return []byte(errorResponseXML), nil
	}))

	rates, messages, err := gw.FetchRates(context.Background(), domesticRateRequest())

	require.NoError(t, err)
	assert.Empty(t, rates)
	require.Len(t, messages, 1)
	assert.Equal(t, "9111", messages[0].Code)
	assert.Equal(t, "Closed or invalid postal code", messages[0].Message)
	assert.Equal(t, "canadapost", messages[0].CarrierID)
}

func TestGateway_FetchRates_OptionOrderFollowsDeclaration(t *testing.T) {
	var body string
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		body = string(req.Body)
		return []byte(ratesResponseXML), nil
	}))

	req := domesticRateRequest()
	req.Options = carrier.Options{
		"insurance":            250.0,
		"canadapost_signature": nil,
	}

	_, _, err := gw.FetchRates(context.Background(), req)
	require.NoError(t, err)

	so := strings.Index(body, "<option-code>SO</option-code>")
	cov := strings.Index(body, "<option-code>COV</option-code>")
	require.GreaterOrEqual(t, so, 0)
	require.GreaterOrEqual(t, cov, 0)
	assert.Less(t, so, cov)
	assert.Contains(t, body, "<option-amount>250</option-amount>")
}

func TestGateway_FetchRates_InvalidOptionFailsTranslation(t *testing.T) {
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		t.Fatal("transport must not be reached")
		return nil, nil
	}))

	req := domesticRateRequest()
	req.Options = carrier.Options{"insurance": "not a number"}

	_, _, err := gw.FetchRates(context.Background(), req)
	require.Error(t, err)
	assert.True(t, carrier.IsTranslationError(err))
}

const shipmentResponseXML = `<?xml version="1.0"?>
<shipment-info>
  <shipment-id>340531309186521749</shipment-id>
  <shipment-status>created</shipment-status>
  <tracking-pin>12345678901234</tracking-pin>
  <links>
    <link rel="label" href="https://ct.soa-gw.canadapost.ca/rs/artifact/label/1" media-type="application/pdf"></link>
  </links>
</shipment-info>`

func TestGateway_CreateShipment_FetchesLabelArtifact(t *testing.T) {
	labelBytes := []byte("%PDF-1.4 fake label")
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		if strings.Contains(req.URL, "/artifact/") {
			return labelBytes, nil
		}
		return []byte(shipmentResponseXML), nil
	}))

	req := &carrier.ShipmentRequest{
		Service:   "canadapost_xpresspost",
		Shipper:   carrier.Address{PersonName: "Sender", Phone: "555-0100", PostalCode: "M5V1A1", CountryCode: "CA"},
		Recipient: carrier.Address{PersonName: "Receiver", PostalCode: "V6B2W2", CountryCode: "CA"},
		Parcels:   []carrier.Parcel{{Weight: 2, WeightUnit: carrier.KG}},
	}

	details, messages, err := gw.CreateShipment(context.Background(), req)

	require.NoError(t, err)
	assert.Empty(t, messages)
	require.NotNil(t, details)
	assert.Equal(t, "12345678901234", details.TrackingNumber)
	assert.Equal(t, "340531309186521749", details.ShipmentIdentifier)
	assert.Equal(t, carrier.LabelPDF, details.LabelFormat)
	assert.Equal(t, base64.StdEncoding.EncodeToString(labelBytes), details.Docs.Label)
}

const shipmentMissingPinXML = `<?xml version="1.0"?>
<shipment-info>
  <shipment-id>340531309186521749</shipment-id>
  <shipment-status>created</shipment-status>
  <tracking-pin></tracking-pin>
  <links></links>
</shipment-info>`

func TestGateway_CreateShipment_MissingPinSurfacesMessage(t *testing.T) {
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		return []byte(shipmentMissingPinXML), nil
	}))

	req := &carrier.ShipmentRequest{
		Service:   "canadapost_regular_parcel",
		Shipper:   carrier.Address{PostalCode: "M5V1A1", CountryCode: "CA"},
		Recipient: carrier.Address{PostalCode: "V6B2W2", CountryCode: "CA"},
		Parcels:   []carrier.Parcel{{Weight: 1, WeightUnit: carrier.KG}},
	}

	details, messages, err := gw.CreateShipment(context.Background(), req)

	require.NoError(t, err)
	assert.Nil(t, details)
	require.Len(t, messages, 1)
	assert.Equal(t, "MISSING_TRACKING_PIN", messages[0].Code)
}

func TestGateway_CancelShipment_AbsenceOfErrorsIsSuccess(t *testing.T) {
	var sent carrier.Request
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		sent = req
		return nil, nil
	}))

	confirmation, messages, err := gw.CancelShipment(context.Background(), &carrier.ShipmentCancelRequest{
		ShipmentIdentifier: "340531309186521749",
	})

	require.NoError(t, err)
	assert.Empty(t, messages)
	require.NotNil(t, confirmation)
	assert.True(t, confirmation.Success)
	assert.Equal(t, "DELETE", sent.Method)
	assert.Contains(t, sent.URL, "/shipment/340531309186521749")
}

func TestGateway_CancelShipment_ErrorEnvelopeDeclines(t *testing.T) {
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		return []byte(errorResponseXML), nil
	}))

	confirmation, messages, err := gw.CancelShipment(context.Background(), &carrier.ShipmentCancelRequest{
		ShipmentIdentifier: "340531309186521749",
	})

	require.NoError(t, err)
	assert.Nil(t, confirmation)
	require.Len(t, messages, 1)
	assert.Equal(t, "9111", messages[0].Code)
}

const trackingResponseXML = `<?xml version="1.0"?>
<tracking-detail>
  <pin>PIN1</pin>
  <expected-delivery-date>2026-09-02</expected-delivery-date>
  <signature-image-exists>true</signature-image-exists>
  <significant-events>
    <occurrence>
      <event-identifier>1441</event-identifier>
      <event-date>2026-08-29</event-date>
      <event-time>14:05:00</event-time>
      <event-description>Item successfully delivered</event-description>
      <event-site>VANCOUVER</event-site>
      <event-province>BC</event-province>
    </occurrence>
    <occurrence>
      <event-identifier>0100</event-identifier>
      <event-date>2026-08-27</event-date>
      <event-time>09:12:00</event-time>
      <event-description>Item accepted at the post office</event-description>
      <event-site>TORONTO</event-site>
      <event-province>ON</event-province>
    </occurrence>
  </significant-events>
</tracking-detail>`

func TestGateway_FetchTracking_NormalizesEvents(t *testing.T) {
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		return []byte(strings.Replace(trackingResponseXML, "PIN1",
			pinFromURL(req.URL), 1)), nil
	}))

	tracking, messages, err := gw.FetchTracking(context.Background(), &carrier.TrackingRequest{
		TrackingNumbers: []string{"1111111111111111", "2222222222222222"},
	})

	require.NoError(t, err)
	assert.Empty(t, messages)
	require.Len(t, tracking, 2)

	// results keep request order despite the concurrent fan-out
	assert.Equal(t, "1111111111111111", tracking[0].TrackingNumber)
	assert.Equal(t, "2222222222222222", tracking[1].TrackingNumber)

	assert.True(t, tracking[0].Delivered)
	assert.Equal(t, "2026-09-02", tracking[0].EstDelivery)
	require.Len(t, tracking[0].Events, 2)
	assert.Equal(t, "1441", tracking[0].Events[0].Code)
	assert.Equal(t, "VANCOUVER, BC", tracking[0].Events[0].Location)
	assert.Equal(t, true, tracking[0].Meta["signature_image_exists"])
}

func pinFromURL(url string) string {
	parts := strings.Split(url, "/")
	for i, p := range parts {
		if p == "pin" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

const pickupResponseXML = `<?xml version="1.0"?>
<pickup-request-info>
  <pickup-request-header>
    <request-id>0074698052</request-id>
    <request-status>Active</request-status>
    <pickup-type>OnDemand</pickup-type>
  </pickup-request-header>
  <pickup-request-price>
    <due-amount>3.50</due-amount>
  </pickup-request-price>
</pickup-request-info>`

func TestGateway_SchedulePickup_Success(t *testing.T) {
	var sent carrier.Request
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		sent = req
		return []byte(pickupResponseXML), nil
	}))

	pickup, messages, err := gw.SchedulePickup(context.Background(), &carrier.PickupRequest{
		PickupDate:  "2026-09-01",
		ReadyTime:   "09:00",
		ClosingTime: "17:00",
		Address: carrier.Address{
			PersonName: "Dock Manager", CompanyName: "Acme",
			AddressLine1: "1 Front St", City: "Toronto", StateCode: "ON",
			PostalCode: "M5V1A1", Phone: "555-0100",
		},
		Parcels: []carrier.Parcel{{Weight: 3, WeightUnit: carrier.KG}},
	})

	require.NoError(t, err)
	assert.Empty(t, messages)
	require.NotNil(t, pickup)
	assert.Equal(t, "0074698052", pickup.ConfirmationNumber)
	assert.Equal(t, "2026-09-01", pickup.PickupDate)
	assert.Equal(t, "09:00", pickup.ReadyTime)
	assert.Equal(t, "Active", pickup.Meta["request_status"])
	assert.Equal(t, 3.5, pickup.Meta["estimated_charge"])

	assert.Contains(t, sent.URL, "/enab/2004381/pickuprequest")
	assert.Contains(t, string(sent.Body), "<pickup-type>OnDemand</pickup-type>")
}

func TestGateway_SchedulePickup_MissingDateFailsTranslation(t *testing.T) {
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		t.Fatal("transport must not be reached")
		return nil, nil
	}))

	_, _, err := gw.SchedulePickup(context.Background(), &carrier.PickupRequest{})
	require.Error(t, err)
	assert.True(t, carrier.IsTranslationError(err))
}

func TestGateway_UpdatePickup_IssuesPutOnConfirmation(t *testing.T) {
	var sent carrier.Request
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		sent = req
		return []byte(pickupResponseXML), nil
	}))

	pickup, _, err := gw.UpdatePickup(context.Background(), &carrier.PickupUpdateRequest{
		ConfirmationNumber: "0074698052",
		PickupDate:         "2026-09-02",
		ReadyTime:          "10:00",
		ClosingTime:        "16:00",
		Address:            carrier.Address{PostalCode: "M5V1A1"},
	})

	require.NoError(t, err)
	require.NotNil(t, pickup)
	assert.Equal(t, "PUT", sent.Method)
	assert.Contains(t, sent.URL, "/pickuprequest/0074698052")
	assert.Equal(t, "2026-09-02", pickup.PickupDate)
}

func TestGateway_CancelPickup_Success(t *testing.T) {
	var sent carrier.Request
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		sent = req
		return nil, nil
	}))

	confirmation, messages, err := gw.CancelPickup(context.Background(), &carrier.PickupCancelRequest{
		ConfirmationNumber: "0074698052",
	})

	require.NoError(t, err)
	assert.Empty(t, messages)
	require.NotNil(t, confirmation)
	assert.True(t, confirmation.Success)
	assert.Equal(t, "DELETE", sent.Method)
}
