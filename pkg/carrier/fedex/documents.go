package fedex

import (
	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/wire"
)

// documentUploadRequest builds one serializable ETD upload per document
// file. FedEx accepts a single document per call, so the proxy sends the
// requests in sequence and the raw replies are combined into one array
// payload.
func documentUploadRequest(req *carrier.DocumentUploadRequest, settings *Settings) ([]*wire.Serializable[uploadRequestType], error) {
	if len(req.DocumentFiles) == 0 {
		return nil, carrier.NewTranslationError(CarrierName, "document upload", "at least one document file is required")
	}

	origin := stringOption(req.Options, "origin_country_code")
	destination := stringOption(req.Options, "destination_country_code")

	requests := make([]*wire.Serializable[uploadRequestType], 0, len(req.DocumentFiles))
	for _, file := range req.DocumentFiles {
		if file.DocFile == "" {
			return nil, carrier.NewTranslationError(CarrierName, "document upload", "document content is required")
		}
		requests = append(requests, wire.NewSerializable(uploadRequestType{
			Document: uploadDocument{
				ReferenceID: firstNonEmpty(req.Reference, req.ShipmentIdentifier),
				Name:        firstNonEmpty(file.DocName, "document"),
				ContentType: firstNonEmpty(file.DocFormat, "application/pdf"),
				Content:     file.DocFile,
			},
			Meta: uploadMeta{
				ShipDocumentType:       uploadDocumentType(file.DocType),
				OriginCountryCode:      origin,
				DestinationCountryCode: destination,
			},
		}, wire.EncodeJSON[uploadRequestType]))
	}
	return requests, nil
}

func decodeUploadPayload(raw []byte) ([]uploadReply, error) {
	return wire.DecodeJSON[[]uploadReply](raw)
}

// parseDocumentUploadResponse collects the document ids issued per upload.
// Per-document errors become messages; a batch with no surviving ids yields
// a nil result.
func parseDocumentUploadResponse(d *wire.Deserializable[[]uploadReply], settings *Settings) (*carrier.DocumentUploadDetails, []carrier.Message, error) {
	replies, err := d.Deserialize()
	if err != nil {
		return nil, nil, carrier.NewTranslationError(CarrierName, "document upload", "malformed response").WithCause(err)
	}

	var messages []carrier.Message
	var ids []string
	for _, reply := range replies {
		messages = append(messages, parseErrors(reply.Errors, settings)...)
		if reply.Output == nil {
			continue
		}
		messages = append(messages, parseAlerts(reply.Output.Alerts, settings)...)
		if reply.Output.Meta.DocumentID != "" {
			ids = append(ids, reply.Output.Meta.DocumentID)
		}
	}

	if len(ids) == 0 {
		return nil, messages, nil
	}
	return &carrier.DocumentUploadDetails{
		CarrierID:   settings.CarrierID(),
		CarrierName: settings.CarrierName(),
		DocumentIDs: ids,
	}, messages, nil
}
