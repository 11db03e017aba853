package canadapost

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/wire"
)

// Proxy pairs serialized Canada Post requests with the transport
// collaborator. It owns URLs, methods and auth headers; it never interprets
// response content beyond handing bytes to a Deserializable.
type Proxy struct {
	settings  *Settings
	transport carrier.Transport
}

// NewProxy creates a proxy for a carrier connection.
func NewProxy(settings *Settings, transport carrier.Transport) *Proxy {
	return &Proxy{settings: settings, transport: transport}
}

// FetchRates posts a mailing scenario to the rating service.
func (p *Proxy) FetchRates(ctx context.Context, req *wire.Serializable[mailingScenario]) (*wire.Deserializable[ratePayload], error) {
	body, err := req.Serialize()
	if err != nil {
		return nil, err
	}
	raw, err := p.transport.Send(ctx, carrier.Request{
		URL:     p.settings.ServerURL() + "/rs/ship/price",
		Method:  http.MethodPost,
		Headers: p.headers("application/vnd.cpc.ship.rate-v4+xml"),
		Body:    body,
	})
	if err != nil {
		return nil, err
	}
	return wire.NewDeserializable(raw, decodeRatePayload, req.Context()), nil
}

// CreateShipment posts a shipment to the customer's shipment resource.
func (p *Proxy) CreateShipment(ctx context.Context, req *wire.Serializable[shipmentInfo]) (*wire.Deserializable[shipmentPayload], error) {
	body, err := req.Serialize()
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/rs/%s/%s/shipment",
		p.settings.ServerURL(), p.settings.CustomerNumber, p.settings.CustomerNumber)
	raw, err := p.transport.Send(ctx, carrier.Request{
		URL:     url,
		Method:  http.MethodPost,
		Headers: p.headers("application/vnd.cpc.shipment-v8+xml"),
		Body:    body,
	})
	if err != nil {
		return nil, err
	}
	return wire.NewDeserializable(raw, decodeShipmentPayload, req.Context()), nil
}

// CancelShipment voids a transmitted shipment.
func (p *Proxy) CancelShipment(ctx context.Context, req *wire.Serializable[struct{}]) (*wire.Deserializable[confirmationPayload], error) {
	url := fmt.Sprintf("%s/rs/%s/%s/shipment/%s",
		p.settings.ServerURL(), p.settings.CustomerNumber, p.settings.CustomerNumber,
		req.Context().String("shipment_id"))
	raw, err := p.transport.Send(ctx, carrier.Request{
		URL:     url,
		Method:  http.MethodDelete,
		Headers: p.headers("application/vnd.cpc.shipment-v8+xml"),
	})
	if err != nil {
		return nil, err
	}
	return wire.NewDeserializable(raw, decodeConfirmationPayload, req.Context()), nil
}

// GetTracking fetches the tracking detail document for one pin.
func (p *Proxy) GetTracking(ctx context.Context, req *wire.Serializable[struct{}]) (*wire.Deserializable[trackingPayload], error) {
	url := fmt.Sprintf("%s/vis/track/pin/%s/detail",
		p.settings.ServerURL(), req.Context().String("pin"))
	raw, err := p.transport.Send(ctx, carrier.Request{
		URL:     url,
		Method:  http.MethodGet,
		Headers: p.headers("application/vnd.cpc.track-v2+xml"),
	})
	if err != nil {
		return nil, err
	}
	return wire.NewDeserializable(raw, decodeTrackingPayload, req.Context()), nil
}

// SchedulePickup posts an on-demand pickup request.
func (p *Proxy) SchedulePickup(ctx context.Context, req *wire.Serializable[pickupRequestDetails]) (*wire.Deserializable[pickupPayload], error) {
	body, err := req.Serialize()
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/enab/%s/pickuprequest",
		p.settings.ServerURL(), p.settings.CustomerNumber)
	raw, err := p.transport.Send(ctx, carrier.Request{
		URL:     url,
		Method:  http.MethodPost,
		Headers: p.headers("application/vnd.cpc.pickuprequest+xml"),
		Body:    body,
	})
	if err != nil {
		return nil, err
	}
	return wire.NewDeserializable(raw, decodePickupPayload, req.Context()), nil
}

// UpdatePickup replaces an existing pickup request in place.
func (p *Proxy) UpdatePickup(ctx context.Context, req *wire.Serializable[pickupRequestDetails]) (*wire.Deserializable[pickupPayload], error) {
	body, err := req.Serialize()
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/enab/%s/pickuprequest/%s",
		p.settings.ServerURL(), p.settings.CustomerNumber,
		req.Context().String("confirmation_number"))
	raw, err := p.transport.Send(ctx, carrier.Request{
		URL:     url,
		Method:  http.MethodPut,
		Headers: p.headers("application/vnd.cpc.pickuprequest+xml"),
		Body:    body,
	})
	if err != nil {
		return nil, err
	}
	return wire.NewDeserializable(raw, decodePickupPayload, req.Context()), nil
}

// CancelPickup deletes a pickup request.
func (p *Proxy) CancelPickup(ctx context.Context, req *wire.Serializable[struct{}]) (*wire.Deserializable[confirmationPayload], error) {
	url := fmt.Sprintf("%s/enab/%s/pickuprequest/%s",
		p.settings.ServerURL(), p.settings.CustomerNumber,
		req.Context().String("confirmation_number"))
	raw, err := p.transport.Send(ctx, carrier.Request{
		URL:     url,
		Method:  http.MethodDelete,
		Headers: p.headers("application/vnd.cpc.pickuprequest+xml"),
	})
	if err != nil {
		return nil, err
	}
	return wire.NewDeserializable(raw, decodeConfirmationPayload, req.Context()), nil
}

// GetArtifact fetches the raw label bytes behind a shipment's label link.
func (p *Proxy) GetArtifact(ctx context.Context, href string, format carrier.LabelFormat) ([]byte, error) {
	accept := "application/pdf"
	if format == carrier.LabelZPL {
		accept = "application/zpl"
	}
	headers := p.headers(accept)
	return p.transport.Send(ctx, carrier.Request{
		URL:     href,
		Method:  http.MethodGet,
		Headers: headers,
	})
}

func (p *Proxy) headers(contentType string) map[string]string {
	auth := base64.StdEncoding.EncodeToString(
		[]byte(p.settings.Username + ":" + p.settings.Password))
	return map[string]string{
		"Authorization":   "Basic " + auth,
		"Accept":          contentType,
		"Content-Type":    contentType,
		"Accept-Language": "en-CA",
	}
}
