package carrier

import "sort"

// PieceResponse pairs a piece index (1..N in request order) with the parsed
// per-piece shipment result, nil when that piece's wire call failed.
type PieceResponse struct {
	Index   int
	Details *ShipmentDetails
}

// ToMultiPieceShipment merges independent per-package carrier responses into
// one logical multi-piece shipment. The combined tracking identity comes from
// the master piece (index 1). Pieces are reassembled by index regardless of
// arrival order. If any piece is missing its result the combined result is
// nil; callers surface the accompanying Messages instead.
func ToMultiPieceShipment(pieces []PieceResponse) *ShipmentDetails {
	if len(pieces) == 0 {
		return nil
	}

	ordered := make([]PieceResponse, len(pieces))
	copy(ordered, pieces)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	for _, piece := range ordered {
		if piece.Details == nil {
			return nil
		}
	}

	master := ordered[0].Details
	combined := &ShipmentDetails{
		CarrierID:          master.CarrierID,
		CarrierName:        master.CarrierName,
		TrackingNumber:     master.TrackingNumber,
		ShipmentIdentifier: master.ShipmentIdentifier,
		LabelFormat:        master.LabelFormat,
		SelectedRate:       master.SelectedRate,
		Meta:               master.Meta,
	}

	labels := make([]string, 0, len(ordered))
	invoices := make([]string, 0, len(ordered))
	for _, piece := range ordered {
		if piece.Details.Docs.Label != "" {
			labels = append(labels, piece.Details.Docs.Label)
		}
		if piece.Details.Docs.Invoice != "" {
			invoices = append(invoices, piece.Details.Docs.Invoice)
		}
	}
	combined.Docs = Documents{
		Label:   BundleBase64(labels),
		Invoice: BundleBase64(invoices),
	}

	return combined
}
