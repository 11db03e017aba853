package canadapost

import (
	"context"
	"encoding/base64"
	"sync"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Gateway wires the Canada Post mapper and proxy into the canonical
// operation interfaces.
type Gateway struct {
	settings *Settings
	proxy    *Proxy
	logger   *otelzap.Logger
	tracer   trace.Tracer
}

// New creates a Canada Post gateway over a transport collaborator.
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
	ctx, span := g.span(ctx, "canadapost.rates")
	defer span.End()

	g.logger.Ctx(ctx).Info("Fetching Canada Post rates",
		zap.String("origin_postal", req.Shipper.PostalCode),
		zap.String("destination_postal", req.Recipient.PostalCode),
		zap.Int("parcel_count", len(req.Parcels)),
	)

	request, err := rateRequest(req, g.settings)
	if err != nil {
		return nil, nil, err
	}
	response, err := g.proxy.FetchRates(ctx, request)
	if err != nil {
		g.logger.Ctx(ctx).Error("Canada Post rating call failed", zap.Error(err))
		return nil, nil, err
	}
	return parseRateResponse(response, g.settings)
}

// CreateShipment creates a shipment and resolves its label artifact.
func (g *Gateway) CreateShipment(ctx context.Context, req *carrier.ShipmentRequest) (*carrier.ShipmentDetails, []carrier.Message, error) {
	ctx, span := g.span(ctx, "canadapost.shipment")
	defer span.End()

	g.logger.Ctx(ctx).Info("Creating Canada Post shipment",
		zap.String("service", req.Service),
		zap.String("recipient_postal", req.Recipient.PostalCode),
	)

	request, err := shipmentRequest(req, g.settings)
	if err != nil {
		return nil, nil, err
	}
	response, err := g.proxy.CreateShipment(ctx, request)
	if err != nil {
		g.logger.Ctx(ctx).Error("Canada Post shipment call failed", zap.Error(err))
		return nil, nil, err
	}
	details, messages, err := parseShipmentResponse(response, g.settings)
	if err != nil || details == nil {
		return details, messages, err
	}

	if href, _ := details.Meta["label_url"].(string); href != "" {
		artifact, err := g.proxy.GetArtifact(ctx, href, details.LabelFormat)
		if err != nil {
			g.logger.Ctx(ctx).Error("Canada Post label fetch failed", zap.Error(err))
			return nil, messages, err
		}
		details.Docs.Label = base64.StdEncoding.EncodeToString(artifact)
	}
	return details, messages, nil
}

// CancelShipment voids a transmitted shipment.
func (g *Gateway) CancelShipment(ctx context.Context, req *carrier.ShipmentCancelRequest) (*carrier.ConfirmationDetails, []carrier.Message, error) {
	ctx, span := g.span(ctx, "canadapost.shipment_cancel")
	defer span.End()

	g.logger.Ctx(ctx).Info("Cancelling Canada Post shipment",
		zap.String("shipment_id", req.ShipmentIdentifier),
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

// FetchTracking tracks each pin concurrently and reassembles the results in
// request order.
func (g *Gateway) FetchTracking(ctx context.Context, req *carrier.TrackingRequest) ([]carrier.TrackingDetails, []carrier.Message, error) {
	ctx, span := g.span(ctx, "canadapost.tracking")
	defer span.End()

	g.logger.Ctx(ctx).Info("Tracking Canada Post shipments",
		zap.Int("pin_count", len(req.TrackingNumbers)),
	)

	results := make([]*carrier.TrackingDetails, len(req.TrackingNumbers))
	var (
		messages []carrier.Message
		mu       sync.Mutex
	)

	eg, ctx := errgroup.WithContext(ctx)
	for i, pin := range req.TrackingNumbers {
		eg.Go(func() error {
			request, err := trackingRequest(pin, g.settings)
			if err != nil {
				return err
			}
			response, err := g.proxy.GetTracking(ctx, request)
			if err != nil {
				return err
			}
			details, msgs, err := parseTrackingResponse(response, g.settings)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			results[i] = details
			messages = append(messages, msgs...)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	tracking := make([]carrier.TrackingDetails, 0, len(results))
	for _, details := range results {
		if details != nil {
			tracking = append(tracking, *details)
		}
	}
	return tracking, messages, nil
}

// SchedulePickup books an on-demand pickup.
func (g *Gateway) SchedulePickup(ctx context.Context, req *carrier.PickupRequest) (*carrier.PickupDetails, []carrier.Message, error) {
	ctx, span := g.span(ctx, "canadapost.pickup")
	defer span.End()

	g.logger.Ctx(ctx).Info("Scheduling Canada Post pickup",
		zap.String("pickup_date", req.PickupDate),
	)

	request, err := pickupRequest(req, g.settings)
	if err != nil {
		return nil, nil, err
	}
	response, err := g.proxy.SchedulePickup(ctx, request)
	if err != nil {
		return nil, nil, err
	}
	return parsePickupResponse(response, g.settings)
}

// UpdatePickup reschedules an existing pickup request.
func (g *Gateway) UpdatePickup(ctx context.Context, req *carrier.PickupUpdateRequest) (*carrier.PickupDetails, []carrier.Message, error) {
	ctx, span := g.span(ctx, "canadapost.pickup_update")
	defer span.End()

	g.logger.Ctx(ctx).Info("Updating Canada Post pickup",
		zap.String("confirmation_number", req.ConfirmationNumber),
	)

	request, err := pickupUpdateRequest(req, g.settings)
	if err != nil {
		return nil, nil, err
	}
	response, err := g.proxy.UpdatePickup(ctx, request)
	if err != nil {
		return nil, nil, err
	}
	return parsePickupResponse(response, g.settings)
}

// CancelPickup cancels a scheduled pickup.
func (g *Gateway) CancelPickup(ctx context.Context, req *carrier.PickupCancelRequest) (*carrier.ConfirmationDetails, []carrier.Message, error) {
	ctx, span := g.span(ctx, "canadapost.pickup_cancel")
	defer span.End()

	g.logger.Ctx(ctx).Info("Cancelling Canada Post pickup",
		zap.String("confirmation_number", req.ConfirmationNumber),
	)

	request, err := pickupCancelRequest(req, g.settings)
	if err != nil {
		return nil, nil, err
	}
	response, err := g.proxy.CancelPickup(ctx, request)
	if err != nil {
		return nil, nil, err
	}
	return parsePickupCancelResponse(response, g.settings)
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
	_ carrier.PickupScheduler  = (*Gateway)(nil)
	_ carrier.PickupUpdater    = (*Gateway)(nil)
	_ carrier.PickupCanceler   = (*Gateway)(nil)
)
