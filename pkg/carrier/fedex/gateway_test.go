package fedex_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/fedex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func testSettings() *fedex.Settings {
	return &fedex.Settings{
		CoreSettings:  carrier.CoreSettings{ID: "fedex", Test: true},
		APIKey:        "key",
		SecretKey:     "secret",
		AccountNumber: "123456789",
		AccessToken:   "token",
	}
}

func newTestGateway(transport carrier.Transport) *fedex.Gateway {
	return fedex.New(testSettings(), transport, otelzap.New(zap.NewNop()), nil)
}

func usRateRequest() *carrier.RateRequest {
	return &carrier.RateRequest{
		Shipper:   carrier.Address{PostalCode: "38125", StateCode: "TN", CountryCode: "US"},
		Recipient: carrier.Address{PostalCode: "10001", StateCode: "NY", CountryCode: "US"},
		Parcels: []carrier.Parcel{
			{Length: 10, Width: 10, Height: 10, DimensionUnit: carrier.IN, Weight: 5, WeightUnit: carrier.LB},
		},
	}
}

const ratesResponseJSON = `{
  "transactionId": "tx-1",
  "output": {
    "alerts": [{"code": "RATE.QUOTE.NOTICE", "message": "Rates are estimates", "alertType": "NOTE"}],
    "rateReplyDetails": [
      {
        "serviceType": "FEDEX_GROUND",
        "serviceName": "FedEx Ground",
        "ratedShipmentDetails": [
          {"rateType": "LIST", "totalNetCharge": 21.1, "totalBaseCharge": 17.0, "currency": "USD"},
          {"rateType": "ACCOUNT", "totalNetCharge": 18.4, "totalBaseCharge": 15.1, "currency": "USD",
           "shipmentRateDetail": {"surCharges": [{"type": "FUEL", "description": "Fuel Surcharge", "amount": 2.1}], "totalTaxes": 1.2}}
        ]
      },
      {
        "serviceType": "FEDEX_2_DAY",
        "serviceName": "FedEx 2Day",
        "ratedShipmentDetails": [
          {"rateType": "ACCOUNT", "totalNetCharge": 31.2, "totalBaseCharge": 29.0, "currency": "USD"}
        ]
      }
    ]
  }
}`

func TestGateway_FetchRates_PrefersAccountRates(t *testing.T) {
	var sent carrier.Request
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		sent = req
		return []byte(ratesResponseJSON), nil
	}))

	rates, messages, err := gw.FetchRates(context.Background(), usRateRequest())

	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.Equal(t, "fedex_ground", rates[0].Service)
	assert.Equal(t, 18.4, rates[0].TotalCharge)
	assert.Equal(t, "USD", rates[0].Currency)
	assert.Equal(t, "ACCOUNT", rates[0].Meta["rate_type"])
	require.Len(t, rates[0].ExtraCharges, 3)
	assert.Equal(t, "Fuel Surcharge", rates[0].ExtraCharges[1].Name)

	assert.Equal(t, "fedex_2day", rates[1].Service)

	// response alerts surface as messages alongside the rates
	require.Len(t, messages, 1)
	assert.Equal(t, "RATE.QUOTE.NOTICE", messages[0].Code)
	assert.Equal(t, "NOTE", messages[0].Details["alert_type"])

	assert.Contains(t, sent.URL, "/rate/v1/rates/quotes")
	assert.Equal(t, "Bearer token", sent.Headers["Authorization"])

	// US origin rates in imperial units
	body := string(sent.Body)
	assert.Contains(t, body, `"units":"LB"`)
	assert.Contains(t, body, `"units":"IN"`)
}

const errorResponseJSON = `{
  "transactionId": "tx-err",
  "errors": [
    {"code": "RATE.LOCATION.NOSERVICE", "message": "Service is not available",
     "parameterList": [{"key": "postalCode", "value": "00000"}]}
  ]
}`

func TestGateway_FetchRates_ErrorsBecomeMessages(t *testing.T) {
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		return []byte(errorResponseJSON), nil
	}))

	rates, messages, err := gw.FetchRates(context.Background(), usRateRequest())

	require.NoError(t, err)
	assert.Empty(t, rates)
	require.Len(t, messages, 1)
	assert.Equal(t, "RATE.LOCATION.NOSERVICE", messages[0].Code)
	assert.Equal(t, "00000", messages[0].Details["postalCode"])
}

func shipReplyJSON(tracking string) string {
	return fmt.Sprintf(`{
  "transactionId": "tx-ship",
  "output": {
    "transactionShipments": [{
      "masterTrackingNumber": "%s",
      "serviceType": "FEDEX_GROUND",
      "serviceName": "FedEx Ground",
      "pieceResponses": [{
        "trackingNumber": "%s",
        "packageDocuments": [{"contentType": "LABEL", "docType": "PDF", "encodedLabel": "%s"}]
      }]
    }]
  }
}`, tracking, tracking, base64.StdEncoding.EncodeToString([]byte("label-"+tracking)))
}

func TestGateway_CreateShipment_SinglePiece(t *testing.T) {
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		return []byte(shipReplyJSON("794600000001")), nil
	}))

	req := &carrier.ShipmentRequest{
		Service:   "fedex_ground",
		Shipper:   carrier.Address{PersonName: "Sender", PostalCode: "38125", CountryCode: "US"},
		Recipient: carrier.Address{PersonName: "Receiver", PostalCode: "10001", CountryCode: "US"},
		Parcels:   []carrier.Parcel{{Weight: 5, WeightUnit: carrier.LB}},
	}

	details, messages, err := gw.CreateShipment(context.Background(), req)

	require.NoError(t, err)
	assert.Empty(t, messages)
	require.NotNil(t, details)
	assert.Equal(t, "794600000001", details.TrackingNumber)
	assert.Equal(t, carrier.LabelPDF, details.LabelFormat)
	assert.NotEmpty(t, details.Docs.Label)
	assert.Equal(t, "FedEx Ground", details.Meta["service_name"])
}

func TestGateway_CreateShipment_MultiPieceSubstitutesMasterTracking(t *testing.T) {
	var bodies []string
	trackings := []string{"794600000001", "794600000002", "794600000003"}
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		bodies = append(bodies, string(req.Body))
		return []byte(shipReplyJSON(trackings[len(bodies)-1])), nil
	}))

	req := &carrier.ShipmentRequest{
		Service:   "fedex_ground",
		Shipper:   carrier.Address{PostalCode: "38125", CountryCode: "US"},
		Recipient: carrier.Address{PostalCode: "10001", CountryCode: "US"},
		Parcels: []carrier.Parcel{
			{Weight: 5, WeightUnit: carrier.LB},
			{Weight: 3, WeightUnit: carrier.LB},
			{Weight: 2, WeightUnit: carrier.LB},
		},
	}

	details, messages, err := gw.CreateShipment(context.Background(), req)

	require.NoError(t, err)
	assert.Empty(t, messages)
	require.Len(t, bodies, 3)

	// first piece carries no master reference
	assert.NotContains(t, bodies[0], "masterTrackingId")
	// follow-up pieces reference the first piece's tracking number
	assert.Contains(t, bodies[1], `"trackingNumber":"794600000001"`)
	assert.Contains(t, bodies[2], `"trackingNumber":"794600000001"`)
	assert.NotContains(t, bodies[1], "[MASTER_TRACKING_ID]")

	require.NotNil(t, details)
	assert.Equal(t, "794600000001", details.TrackingNumber)

	// labels from all pieces are bundled in piece order
	decoded, err := base64.StdEncoding.DecodeString(details.Docs.Label)
	require.NoError(t, err)
	assert.Equal(t, "label-794600000001label-794600000002label-794600000003", string(decoded))
}

func TestGateway_CreateShipment_MissingTrackingSurfacesMessage(t *testing.T) {
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		return []byte(`{"transactionId":"tx","output":{"transactionShipments":[{"serviceName":"FedEx Ground"}]}}`), nil
	}))

	req := &carrier.ShipmentRequest{
		Service:   "fedex_ground",
		Shipper:   carrier.Address{PostalCode: "38125", CountryCode: "US"},
		Recipient: carrier.Address{PostalCode: "10001", CountryCode: "US"},
		Parcels:   []carrier.Parcel{{Weight: 5, WeightUnit: carrier.LB}},
	}

	details, messages, err := gw.CreateShipment(context.Background(), req)

	require.NoError(t, err)
	assert.Nil(t, details)
	require.Len(t, messages, 1)
	assert.Equal(t, "MISSING_TRACKING_NUMBER", messages[0].Code)
}

func TestGateway_CancelShipment(t *testing.T) {
	var sent carrier.Request
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		sent = req
		return []byte(`{"transactionId":"tx","output":{"cancelledShipment":true}}`), nil
	}))

	confirmation, messages, err := gw.CancelShipment(context.Background(), &carrier.ShipmentCancelRequest{
		ShipmentIdentifier: "794600000001",
	})

	require.NoError(t, err)
	assert.Empty(t, messages)
	require.NotNil(t, confirmation)
	assert.True(t, confirmation.Success)

	assert.Equal(t, "PUT", sent.Method)
	assert.Contains(t, sent.URL, "/ship/v1/shipments/cancel")

	var payload map[string]any
	require.NoError(t, json.Unmarshal(sent.Body, &payload))
	assert.Equal(t, "794600000001", payload["trackingNumber"])
}

const trackResponseJSON = `{
  "transactionId": "tx-track",
  "output": {
    "completeTrackResults": [
      {
        "trackingNumber": "794600000001",
        "trackResults": [{
          "latestStatusDetail": {"code": "DL", "description": "Delivered"},
          "dateAndTimes": [{"type": "ACTUAL_DELIVERY", "dateTime": "2026-08-29T14:05:00-05:00"}],
          "scanEvents": [
            {"date": "2026-08-29T14:05:00-05:00", "eventType": "DL", "eventDescription": "Delivered",
             "scanLocation": {"city": "NEW YORK", "stateOrProvinceCode": "NY", "countryCode": "US"}},
            {"date": "2026-08-27T09:12:00-05:00", "eventType": "PU", "eventDescription": "Picked up",
             "scanLocation": {"city": "MEMPHIS", "stateOrProvinceCode": "TN", "countryCode": "US"}}
          ]
        }]
      },
      {
        "trackingNumber": "999999999999",
        "trackResults": [{
          "error": {"code": "TRACKING.TRACKINGNUMBER.NOTFOUND", "message": "Tracking number cannot be found"}
        }]
      }
    ]
  }
}`

func TestGateway_FetchTracking_PerNumberErrorBecomesMessage(t *testing.T) {
	var sent carrier.Request
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		sent = req
		return []byte(trackResponseJSON), nil
	}))

	tracking, messages, err := gw.FetchTracking(context.Background(), &carrier.TrackingRequest{
		TrackingNumbers: []string{"794600000001", "999999999999"},
	})

	require.NoError(t, err)

	// one bad number never fails the batch
	require.Len(t, tracking, 1)
	assert.Equal(t, "794600000001", tracking[0].TrackingNumber)
	assert.True(t, tracking[0].Delivered)
	require.Len(t, tracking[0].Events, 2)
	assert.Equal(t, "2026-08-29", tracking[0].Events[0].Date)
	assert.Equal(t, "14:05", tracking[0].Events[0].Time)
	assert.Equal(t, "NEW YORK, NY, US", tracking[0].Events[0].Location)

	require.Len(t, messages, 1)
	assert.Equal(t, "TRACKING.TRACKINGNUMBER.NOTFOUND", messages[0].Code)

	// both numbers travel in one batched call
	body := string(sent.Body)
	assert.Contains(t, body, "794600000001")
	assert.Contains(t, body, "999999999999")
}

func TestGateway_UploadDocuments_CollectsDocumentIDs(t *testing.T) {
	var calls int
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		calls++
		return []byte(fmt.Sprintf(`{"transactionId":"tx","output":{"meta":{"docId":"doc-%d"}}}`, calls)), nil
	}))

	details, messages, err := gw.UploadDocuments(context.Background(), &carrier.DocumentUploadRequest{
		Reference: "order-42",
		DocumentFiles: []carrier.DocumentFile{
			{DocName: "invoice.pdf", DocType: "commercial_invoice", DocFile: base64.StdEncoding.EncodeToString([]byte("inv"))},
			{DocName: "origin.pdf", DocType: "certificate_of_origin", DocFile: base64.StdEncoding.EncodeToString([]byte("coo"))},
		},
	})

	require.NoError(t, err)
	assert.Empty(t, messages)
	require.NotNil(t, details)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"doc-1", "doc-2"}, details.DocumentIDs)
}

func TestGateway_UploadDocuments_NoFilesFailsTranslation(t *testing.T) {
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		t.Fatal("transport must not be reached")
		return nil, nil
	}))

	_, _, err := gw.UploadDocuments(context.Background(), &carrier.DocumentUploadRequest{})
	require.Error(t, err)
	assert.True(t, carrier.IsTranslationError(err))
}

func TestGateway_CreateShipment_InternationalCustoms(t *testing.T) {
	var body string
	gw := newTestGateway(carrier.TransportFunc(func(ctx context.Context, req carrier.Request) ([]byte, error) {
		body = string(req.Body)
		return []byte(shipReplyJSON("794600000009")), nil
	}))

	req := &carrier.ShipmentRequest{
		Service:   "fedex_international_priority",
		Shipper:   carrier.Address{PostalCode: "38125", CountryCode: "US"},
		Recipient: carrier.Address{PostalCode: "M5V1A1", CountryCode: "CA"},
		Parcels:   []carrier.Parcel{{Weight: 5, WeightUnit: carrier.LB}},
		Customs: &carrier.CustomsInfo{
			CommercialInvoice: true,
			InvoiceNumber:     "INV-100",
			Incoterm:          "DDP",
			Duty:              &carrier.Duty{PaidBy: carrier.PaidByRecipient, DeclaredValue: 120, Currency: "USD"},
			Commodities: []carrier.Commodity{
				{Description: "Widget", Quantity: 2, ValueAmount: 60, Currency: "USD", Weight: 1, WeightUnit: carrier.LB, HSCode: "8471.30"},
			},
		},
	}

	details, _, err := gw.CreateShipment(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Contains(t, body, `"customsClearanceDetail"`)
	assert.Contains(t, body, `"termsOfSale":"DDP"`)
	assert.Contains(t, body, `"harmonizedCode":"8471.30"`)
	assert.Contains(t, body, `"paymentType":"RECIPIENT"`)
	assert.True(t, strings.Contains(body, `"serviceType":"FEDEX_INTERNATIONAL_PRIORITY"`))
}
