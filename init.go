package main

import (
	"context"
	"fmt"
	"time"

	"github.com/parcelmesh/bridge/internal/config"
	"github.com/parcelmesh/bridge/internal/telemetry"
	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/canadapost"
	"github.com/parcelmesh/bridge/pkg/carrier/fedex"
	"github.com/parcelmesh/bridge/pkg/carrier/transport"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

// app bundles the wired collaborators one CLI invocation needs.
type app struct {
	cfg      *config.Config
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
	registry *carrier.Registry
	shutdown func(context.Context) error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var tracer trace.Tracer
	shutdown := func(context.Context) error { return nil }
	if cfg.OTELEnabled {
		t, stop, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
		if err != nil {
			logger.Warn("Failed to initialize tracer")
		} else {
			tracer, shutdown = t, stop
		}
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  telemetry.NewMetrics(),
		registry: newRegistry(cfg, logger, tracer),
		shutdown: shutdown,
	}, nil
}

func (a *app) Close(ctx context.Context) {
	a.shutdown(ctx)
	a.logger.Sync()
}

func newRegistry(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *carrier.Registry {
	registry := carrier.NewRegistry()

	if cfg.CanadaPostEnabled {
		settings := &canadapost.Settings{
			CoreSettings:   carrier.CoreSettings{ID: canadapost.CarrierName, Test: cfg.CanadaPostTestMode},
			Username:       cfg.CanadaPostUsername,
			Password:       cfg.CanadaPostPassword,
			CustomerNumber: cfg.CanadaPostCustomerNumber,
			ContractID:     cfg.CanadaPostContractID,
		}
		registry.Register(canadapost.New(settings, newTransport(cfg), logger, tracer))
	}

	if cfg.FedexEnabled {
		settings := &fedex.Settings{
			CoreSettings:  carrier.CoreSettings{ID: fedex.CarrierName, Test: cfg.FedexTestMode},
			APIKey:        cfg.FedexAPIKey,
			SecretKey:     cfg.FedexSecretKey,
			AccountNumber: cfg.FedexAccountNumber,
			AccessToken:   cfg.FedexAccessToken,
		}
		registry.Register(fedex.New(settings, newTransport(cfg), logger, tracer))
	}

	return registry
}

func newTransport(cfg *config.Config) carrier.Transport {
	if flagMock {
		return mockTransport()
	}
	return transport.NewHTTP(transport.Config{Timeout: cfg.HTTPTimeout})
}

// mockTransport serves canned responses so every command can be exercised
// without carrier credentials.
func mockTransport() carrier.Transport {
	return transport.NewMock().
		Stub("/rs/ship/price", []byte(mockRatesXML)).
		Stub("/shipment", []byte(mockShipmentXML)).
		Stub("/vis/track/pin/", []byte(mockTrackingXML)).
		Stub("/pickuprequest", []byte(mockPickupXML)).
		Stub("/rate/v1/rates/quotes", []byte(mockRatesJSON)).
		Stub("/ship/v1/shipments/cancel", []byte(mockCancelJSON)).
		Stub("/ship/v1/shipments", []byte(mockShipmentJSON)).
		Stub("/track/v1/trackingnumbers", []byte(mockTrackingJSON)).
		Stub("/documents/v1/etds/upload", []byte(mockUploadJSON))
}

const mockRatesXML = `<?xml version="1.0"?>
<price-quotes>
  <price-quote>
    <service-code>DOM.RP</service-code>
    <service-link><service-name>Regular Parcel</service-name></service-link>
    <price-details>
      <due>12.65</due>
      <base>9.99</base>
      <taxes><gst>0.50</gst><pst>0</pst><hst>0.96</hst></taxes>
      <adjustments>
        <adjustment><adjustment-code>FUELSC</adjustment-code><adjustment-cost>1.20</adjustment-cost></adjustment>
      </adjustments>
    </price-details>
    <service-standard>
      <expected-transit-time>5</expected-transit-time>
      <expected-delivery-date>2026-09-04</expected-delivery-date>
      <guaranteed-delivery>false</guaranteed-delivery>
    </service-standard>
  </price-quote>
</price-quotes>`

const mockShipmentXML = `<?xml version="1.0"?>
<shipment-info>
  <shipment-id>mock-shipment-1</shipment-id>
  <shipment-status>created</shipment-status>
  <tracking-pin>1234567890123456</tracking-pin>
  <links></links>
</shipment-info>`

const mockTrackingXML = `<?xml version="1.0"?>
<tracking-detail>
  <pin>1234567890123456</pin>
  <significant-events>
    <occurrence>
      <event-identifier>0100</event-identifier>
      <event-date>2026-08-28</event-date>
      <event-time>10:15:00</event-time>
      <event-description>Item accepted at the post office</event-description>
      <event-site>TORONTO</event-site>
      <event-province>ON</event-province>
    </occurrence>
  </significant-events>
</tracking-detail>`

const mockPickupXML = `<?xml version="1.0"?>
<pickup-request-info>
  <pickup-request-header>
    <request-id>mock-pickup-1</request-id>
    <request-status>Active</request-status>
  </pickup-request-header>
  <pickup-request-price>
    <due-amount>3.50</due-amount>
  </pickup-request-price>
</pickup-request-info>`

const mockRatesJSON = `{"transactionId":"mock","output":{"rateReplyDetails":[{"serviceType":"FEDEX_GROUND","serviceName":"FedEx Ground","ratedShipmentDetails":[{"rateType":"ACCOUNT","totalNetCharge":18.4,"totalBaseCharge":15.1,"currency":"USD"}]}]}}`

const mockShipmentJSON = `{"transactionId":"mock","output":{"transactionShipments":[{"masterTrackingNumber":"794600000001","serviceName":"FedEx Ground","pieceResponses":[{"trackingNumber":"794600000001","packageDocuments":[{"contentType":"LABEL","docType":"PDF","encodedLabel":"bW9jaw=="}]}]}]}}`

const mockCancelJSON = `{"transactionId":"mock","output":{"cancelledShipment":true}}`

const mockTrackingJSON = `{"transactionId":"mock","output":{"completeTrackResults":[{"trackingNumber":"794600000001","trackResults":[{"latestStatusDetail":{"code":"IT","description":"In transit"},"scanEvents":[{"date":"2026-08-28T10:15:00-04:00","eventType":"PU","eventDescription":"Picked up","scanLocation":{"city":"MEMPHIS","stateOrProvinceCode":"TN","countryCode":"US"}}]}]}]}}`

const mockUploadJSON = `{"transactionId":"mock","output":{"meta":{"docId":"mock-doc-1"}}}`

// instrument wraps one carrier operation with request metrics. The status
// label distinguishes transport or translation failures from carrier-declined
// requests that produced messages only.
func (a *app) instrument(ctx context.Context, operation, carrierID string,
	fn func(ctx context.Context) (any, []carrier.Message, error)) (any, []carrier.Message, error) {

	start := time.Now()
	result, messages, err := fn(ctx)
	status := "ok"
	if err != nil {
		status = "error"
		a.metrics.RecordError(carrierID, "translation")
	} else if result == nil && len(messages) > 0 {
		status = "declined"
	}
	a.metrics.RecordRequest(operation, carrierID, status, time.Since(start).Seconds())
	return result, messages, err
}

func (a *app) gateway(carrierID string) (carrier.Gateway, error) {
	if carrierID == "" {
		return nil, fmt.Errorf("a --carrier id is required")
	}
	return a.registry.Get(carrierID)
}

func (a *app) shipmentCreator(carrierID string) (carrier.ShipmentCreator, error) {
	gw, err := a.gateway(carrierID)
	if err != nil {
		return nil, err
	}
	creator, ok := gw.(carrier.ShipmentCreator)
	if !ok {
		return nil, fmt.Errorf("%s: %w", carrierID, carrier.ErrOperationNotSupported)
	}
	return creator, nil
}

func (a *app) shipmentCanceler(carrierID string) (carrier.ShipmentCanceler, error) {
	gw, err := a.gateway(carrierID)
	if err != nil {
		return nil, err
	}
	canceler, ok := gw.(carrier.ShipmentCanceler)
	if !ok {
		return nil, fmt.Errorf("%s: %w", carrierID, carrier.ErrOperationNotSupported)
	}
	return canceler, nil
}

func (a *app) tracker(carrierID string) (carrier.Tracker, error) {
	gw, err := a.gateway(carrierID)
	if err != nil {
		return nil, err
	}
	tracker, ok := gw.(carrier.Tracker)
	if !ok {
		return nil, fmt.Errorf("%s: %w", carrierID, carrier.ErrOperationNotSupported)
	}
	return tracker, nil
}

func (a *app) pickupScheduler(carrierID string) (carrier.PickupScheduler, error) {
	gw, err := a.gateway(carrierID)
	if err != nil {
		return nil, err
	}
	scheduler, ok := gw.(carrier.PickupScheduler)
	if !ok {
		return nil, fmt.Errorf("%s: %w", carrierID, carrier.ErrOperationNotSupported)
	}
	return scheduler, nil
}

func (a *app) pickupUpdater(carrierID string) (carrier.PickupUpdater, error) {
	gw, err := a.gateway(carrierID)
	if err != nil {
		return nil, err
	}
	updater, ok := gw.(carrier.PickupUpdater)
	if !ok {
		return nil, fmt.Errorf("%s: %w", carrierID, carrier.ErrOperationNotSupported)
	}
	return updater, nil
}

func (a *app) pickupCanceler(carrierID string) (carrier.PickupCanceler, error) {
	gw, err := a.gateway(carrierID)
	if err != nil {
		return nil, err
	}
	canceler, ok := gw.(carrier.PickupCanceler)
	if !ok {
		return nil, fmt.Errorf("%s: %w", carrierID, carrier.ErrOperationNotSupported)
	}
	return canceler, nil
}

func (a *app) documentUploader(carrierID string) (carrier.DocumentUploader, error) {
	gw, err := a.gateway(carrierID)
	if err != nil {
		return nil, err
	}
	uploader, ok := gw.(carrier.DocumentUploader)
	if !ok {
		return nil, fmt.Errorf("%s: %w", carrierID, carrier.ErrOperationNotSupported)
	}
	return uploader, nil
}
