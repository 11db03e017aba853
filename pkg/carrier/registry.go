package carrier

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Gateway is the minimal contract every registered carrier implementation
// satisfies. Operations are capability interfaces a gateway may or may not
// implement; callers discover support via type assertion or the Registry
// helpers.
type Gateway interface {
	Settings() Settings
}

// RateFetcher fetches normalized rate quotes.
type RateFetcher interface {
	FetchRates(ctx context.Context, req *RateRequest) ([]RateDetails, []Message, error)
}

// ShipmentCreator creates shipments and produces labels.
type ShipmentCreator interface {
	CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentDetails, []Message, error)
}

// ShipmentCanceler voids previously created shipments.
type ShipmentCanceler interface {
	CancelShipment(ctx context.Context, req *ShipmentCancelRequest) (*ConfirmationDetails, []Message, error)
}

// Tracker fetches normalized tracking details.
type Tracker interface {
	FetchTracking(ctx context.Context, req *TrackingRequest) ([]TrackingDetails, []Message, error)
}

// PickupScheduler schedules carrier pickups.
type PickupScheduler interface {
	SchedulePickup(ctx context.Context, req *PickupRequest) (*PickupDetails, []Message, error)
}

// PickupUpdater reschedules existing pickups.
type PickupUpdater interface {
	UpdatePickup(ctx context.Context, req *PickupUpdateRequest) (*PickupDetails, []Message, error)
}

// PickupCanceler cancels scheduled pickups.
type PickupCanceler interface {
	CancelPickup(ctx context.Context, req *PickupCancelRequest) (*ConfirmationDetails, []Message, error)
}

// DocumentUploader uploads trade documents to a carrier document service.
type DocumentUploader interface {
	UploadDocuments(ctx context.Context, req *DocumentUploadRequest) (*DocumentUploadDetails, []Message, error)
}

// Registry maps carrier identifiers to gateway implementations.
type Registry struct {
	gateways map[string]Gateway
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{gateways: make(map[string]Gateway)}
}

// Register adds a gateway keyed by its settings' carrier id.
func (r *Registry) Register(g Gateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[g.Settings().CarrierID()] = g
}

// Get returns a gateway by carrier id.
func (r *Registry) Get(carrierID string) (Gateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.gateways[carrierID]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCarrierNotFound, carrierID)
}

// All returns all registered gateways.
func (r *Registry) All() []Gateway {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Gateway, 0, len(r.gateways))
	for _, g := range r.gateways {
		result = append(result, g)
	}
	return result
}

// Names returns the ids of all registered gateways.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	return names
}

// FetchRates fans a rate request out to the named carriers (all rate-capable
// carriers when carrierIDs is empty) and merges the normalized quotes.
// Individual carrier failures become errors in the returned slice rather
// than failing the whole fan-out; carrier-reported Messages are merged as
// data. Translation runs concurrently, one independent task per carrier.
func (r *Registry) FetchRates(ctx context.Context, req *RateRequest, carrierIDs []string) ([]RateDetails, []Message, []error) {
	gateways, errs := r.resolve(carrierIDs)

	var (
		rates    []RateDetails
		messages []Message
		mu       sync.Mutex
	)

	// resolve capabilities before spawning anything so errs is only ever
	// appended to under mu once goroutines exist
	type rateTask struct {
		carrierID string
		fetcher   RateFetcher
	}
	tasks := make([]rateTask, 0, len(gateways))
	for _, gw := range gateways {
		carrierID := gw.Settings().CarrierID()
		fetcher, ok := gw.(RateFetcher)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w", carrierID, ErrOperationNotSupported))
			continue
		}
		tasks = append(tasks, rateTask{carrierID: carrierID, fetcher: fetcher})
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			details, msgs, err := task.fetcher.FetchRates(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", task.carrierID, err))
				return nil
			}
			rates = append(rates, details...)
			messages = append(messages, msgs...)
			return nil
		})
	}
	g.Wait()

	return rates, messages, errs
}

func (r *Registry) resolve(carrierIDs []string) ([]Gateway, []error) {
	if len(carrierIDs) == 0 {
		return r.All(), nil
	}

	gateways := make([]Gateway, 0, len(carrierIDs))
	var errs []error
	for _, id := range carrierIDs {
		gw, err := r.Get(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		gateways = append(gateways, gw)
	}
	return gateways, errs
}
