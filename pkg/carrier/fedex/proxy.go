package fedex

import (
	"bytes"
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/wire"
)

// Proxy pairs serialized FedEx requests with the transport collaborator. It
// owns URLs, methods and auth headers; it never interprets response content
// beyond handing bytes to a Deserializable.
type Proxy struct {
	settings  *Settings
	transport carrier.Transport
}

// NewProxy creates a proxy for a carrier connection.
func NewProxy(settings *Settings, transport carrier.Transport) *Proxy {
	return &Proxy{settings: settings, transport: transport}
}

// FetchRates posts a rate quote request.
func (p *Proxy) FetchRates(ctx context.Context, req *wire.Serializable[rateRequestType]) (*wire.Deserializable[rateReply], error) {
	body, err := req.Serialize()
	if err != nil {
		return nil, err
	}
	raw, err := p.send(ctx, http.MethodPost, "/rate/v1/rates/quotes", body)
	if err != nil {
		return nil, err
	}
	return wire.NewDeserializable(raw, wire.DecodeJSON[rateReply], req.Context()), nil
}

// CreateShipment posts each piece request in sequence. The first reply's
// master tracking number replaces the placeholder carried by the follow-up
// pieces, and the raw replies are combined into one array payload so the
// parser sees every piece through a single envelope.
func (p *Proxy) CreateShipment(ctx context.Context, pieces []*wire.Serializable[shipRequestType]) (*wire.Deserializable[[]shipReply], error) {
	raws := make([][]byte, 0, len(pieces))

	var reqCtx wire.Context
	if len(pieces) > 0 {
		reqCtx = pieces[0].Context()
	}

	var master string
	for i, piece := range pieces {
		body, err := piece.Serialize()
		if err != nil {
			return nil, err
		}
		if i > 0 {
			body = bytes.ReplaceAll(body, []byte(masterTrackingPlaceholder), []byte(master))
		}

		raw, err := p.send(ctx, http.MethodPost, "/ship/v1/shipments", body)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)

		if i == 0 {
			master = masterTrackingOf(raw)
			if master == "" && len(pieces) > 1 {
				// follow-up pieces cannot reference a master; stop here and
				// let the parser surface the first reply's errors
				break
			}
		}
	}

	return wire.NewDeserializable(combineRaw(raws), decodeShipPayload, reqCtx), nil
}

// CancelShipment voids a shipment by tracking number.
func (p *Proxy) CancelShipment(ctx context.Context, req *wire.Serializable[cancelRequestType]) (*wire.Deserializable[cancelReply], error) {
	body, err := req.Serialize()
	if err != nil {
		return nil, err
	}
	raw, err := p.send(ctx, http.MethodPut, "/ship/v1/shipments/cancel", body)
	if err != nil {
		return nil, err
	}
	return wire.NewDeserializable(raw, decodeCancelPayload, req.Context()), nil
}

// GetTracking posts the tracking batch request.
func (p *Proxy) GetTracking(ctx context.Context, req *wire.Serializable[trackRequestType]) (*wire.Deserializable[trackReply], error) {
	body, err := req.Serialize()
	if err != nil {
		return nil, err
	}
	raw, err := p.send(ctx, http.MethodPost, "/track/v1/trackingnumbers", body)
	if err != nil {
		return nil, err
	}
	return wire.NewDeserializable(raw, decodeTrackPayload, req.Context()), nil
}

// UploadDocuments posts each trade document in sequence and combines the raw
// replies into one array payload.
func (p *Proxy) UploadDocuments(ctx context.Context, docs []*wire.Serializable[uploadRequestType]) (*wire.Deserializable[[]uploadReply], error) {
	raws := make([][]byte, 0, len(docs))
	for _, doc := range docs {
		body, err := doc.Serialize()
		if err != nil {
			return nil, err
		}
		raw, err := p.send(ctx, http.MethodPost, "/documents/v1/etds/upload", body)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return wire.NewDeserializable(combineRaw(raws), decodeUploadPayload), nil
}

func (p *Proxy) send(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	return p.transport.Send(ctx, carrier.Request{
		URL:     p.settings.ServerURL() + path,
		Method:  method,
		Headers: p.headers(),
		Body:    body,
	})
}

func (p *Proxy) headers() map[string]string {
	return map[string]string{
		"Authorization":             "Bearer " + p.settings.AccessToken,
		"Content-Type":              "application/json",
		"X-locale":                  "en_US",
		"x-customer-transaction-id": uuid.NewString(),
	}
}

// masterTrackingOf peeks at a ship reply for the master tracking number
// without consuming the raw bytes.
func masterTrackingOf(raw []byte) string {
	reply, err := wire.DecodeJSON[shipReply](raw)
	if err != nil || reply.Output == nil || len(reply.Output.TransactionShipments) == 0 {
		return ""
	}
	return reply.Output.TransactionShipments[0].MasterTrackingNumber
}

// combineRaw joins independent JSON reply bodies into a single JSON array.
func combineRaw(raws [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, raw := range raws {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
