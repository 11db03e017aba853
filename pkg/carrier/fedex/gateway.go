package fedex

import (
	"context"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Gateway wires the FedEx mapper and proxy into the canonical operation
// interfaces.
type Gateway struct {
	settings *Settings
	proxy    *Proxy
	logger   *otelzap.Logger
	tracer   trace.Tracer
}

// New creates a FedEx gateway over a transport collaborator.
func New(settings *Settings, transport carrier.Transport, logger *otelzap.Logger, tracer trace.Tracer) *Gateway {
	return &Gateway{
		settings: settings,
		proxy:    NewProxy(settings, transport),
		logger:   logger,
		tracer:   tracer,
	}
}

// Settings returns the connection settings.
func (g *Gateway) Settings() carrier.Settings { return g.settings }

// FetchRates translates a canonical rate request, sends it, and normalizes
// the quotes.
func (g *Gateway) FetchRates(ctx context.Context, req *carrier.RateRequest) ([]carrier.RateDetails, []carrier.Message, error) {
	ctx, span := g.span(ctx, "fedex.rates")
	defer span.End()

	g.logger.Ctx(ctx).Info("Fetching FedEx rates",
		zap.String("origin_country", req.Shipper.CountryCode),
		zap.String("destination_country", req.Recipient.CountryCode),
		zap.Int("parcel_count", len(req.Parcels)),
	)

	request, err := rateRequest(req, g.settings)
	if err != nil {
		return nil, nil, err
	}
	response, err := g.proxy.FetchRates(ctx, request)
	if err != nil {
		g.logger.Ctx(ctx).Error("FedEx rating call failed", zap.Error(err))
		return nil, nil, err
	}
	return parseRateResponse(response, g.settings)
}

// CreateShipment creates a shipment, piece by piece for multi-parcel
// requests, and returns the aggregated result.
func (g *Gateway) CreateShipment(ctx context.Context, req *carrier.ShipmentRequest) (*carrier.ShipmentDetails, []carrier.Message, error) {
	ctx, span := g.span(ctx, "fedex.shipment")
	defer span.End()

	g.logger.Ctx(ctx).Info("Creating FedEx shipment",
		zap.String("service", req.Service),
		zap.Int("parcel_count", len(req.Parcels)),
	)

	request, err := shipmentRequest(req, g.settings)
	if err != nil {
		return nil, nil, err
	}
	response, err := g.proxy.CreateShipment(ctx, request)
	if err != nil {
		g.logger.Ctx(ctx).Error("FedEx shipment call failed", zap.Error(err))
		return nil, nil, err
	}
	return parseShipmentResponse(response, g.settings)
}

// CancelShipment voids a shipment by its tracking number.
func (g *Gateway) CancelShipment(ctx context.Context, req *carrier.ShipmentCancelRequest) (*carrier.ConfirmationDetails, []carrier.Message, error) {
	ctx, span := g.span(ctx, "fedex.shipment_cancel")
	defer span.End()

	g.logger.Ctx(ctx).Info("Cancelling FedEx shipment",
		zap.String("tracking_number", req.ShipmentIdentifier),
	)

	request, err := shipmentCancelRequest(req, g.settings)
	if err != nil {
		return nil, nil, err
	}
	response, err := g.proxy.CancelShipment(ctx, request)
	if err != nil {
		return nil, nil, err
	}
	return parseShipmentCancelResponse(response, g.settings)
}

// FetchTracking tracks every number in one batched call.
func (g *Gateway) FetchTracking(ctx context.Context, req *carrier.TrackingRequest) ([]carrier.TrackingDetails, []carrier.Message, error) {
	ctx, span := g.span(ctx, "fedex.tracking")
	defer span.End()

	g.logger.Ctx(ctx).Info("Tracking FedEx shipments",
		zap.Int("tracking_count", len(req.TrackingNumbers)),
	)

	request, err := trackingRequest(req, g.settings)
	if err != nil {
		return nil, nil, err
	}
	response, err := g.proxy.GetTracking(ctx, request)
	if err != nil {
		g.logger.Ctx(ctx).Error("FedEx tracking call failed", zap.Error(err))
		return nil, nil, err
	}
	return parseTrackingResponse(response, g.settings)
}

// UploadDocuments sends trade documents to the ETD service ahead of an
// international shipment.
func (g *Gateway) UploadDocuments(ctx context.Context, req *carrier.DocumentUploadRequest) (*carrier.DocumentUploadDetails, []carrier.Message, error) {
	ctx, span := g.span(ctx, "fedex.document_upload")
	defer span.End()

	g.logger.Ctx(ctx).Info("Uploading FedEx trade documents",
		zap.Int("document_count", len(req.DocumentFiles)),
	)

	request, err := documentUploadRequest(req, g.settings)
	if err != nil {
		return nil, nil, err
	}
	response, err := g.proxy.UploadDocuments(ctx, request)
	if err != nil {
		g.logger.Ctx(ctx).Error("FedEx document upload failed", zap.Error(err))
		return nil, nil, err
	}
	return parseDocumentUploadResponse(response, g.settings)
}

func (g *Gateway) span(ctx context.Context, name string) (context.Context, trace.Span) {
	if g.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return g.tracer.Start(ctx, name)
}

var (
	_ carrier.Gateway          = (*Gateway)(nil)
	_ carrier.RateFetcher      = (*Gateway)(nil)
	_ carrier.ShipmentCreator  = (*Gateway)(nil)
	_ carrier.ShipmentCanceler = (*Gateway)(nil)
	_ carrier.Tracker          = (*Gateway)(nil)
	_ carrier.DocumentUploader = (*Gateway)(nil)
)
