// Package server exposes the carrier registry over HTTP: one JSON endpoint
// per canonical operation, plus health and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/parcelmesh/bridge/internal/telemetry"
	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Server is the HTTP server for the bridge service.
type Server struct {
	port     int
	registry *carrier.Registry
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, registry *carrier.Registry, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	return &Server{
		port:     cfg.Port,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handler builds the route table. Carrier-scoped operations take the carrier
// id as a path segment; rating fans out and takes its carrier ids in the body.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/carriers", s.handleCarriers)
	mux.HandleFunc("POST /v1/rates", s.handleRates)
	mux.HandleFunc("POST /v1/carriers/{carrier}/shipments", s.handleCreateShipment)
	mux.HandleFunc("DELETE /v1/carriers/{carrier}/shipments/{id}", s.handleCancelShipment)
	mux.HandleFunc("POST /v1/carriers/{carrier}/tracking", s.handleTracking)
	mux.HandleFunc("POST /v1/carriers/{carrier}/pickups", s.handleSchedulePickup)
	mux.HandleFunc("PUT /v1/carriers/{carrier}/pickups/{confirmation}", s.handleUpdatePickup)
	mux.HandleFunc("DELETE /v1/carriers/{carrier}/pickups/{confirmation}", s.handleCancelPickup)
	mux.HandleFunc("POST /v1/carriers/{carrier}/documents", s.handleUploadDocuments)

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleCarriers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"carriers": s.registry.Names()})
}

// rateRequestBody wraps the canonical rate request with the fan-out target
// list; an empty list quotes every registered carrier.
type rateRequestBody struct {
	CarrierIDs []string `json:"carrier_ids,omitempty"`
	carrier.RateRequest
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	var body rateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	start := time.Now()
	rates, messages, errs := s.registry.FetchRates(r.Context(), &body.RateRequest, body.CarrierIDs)
	for _, err := range errs {
		s.logger.Ctx(r.Context()).Warn("Carrier rating failed", zap.Error(err))
	}
	s.metrics.RecordRequest("rates", "all", "ok", time.Since(start).Seconds())

	response := map[string]any{"rates": rates, "messages": messages}
	if len(errs) > 0 {
		failures := make([]string, 0, len(errs))
		for _, err := range errs {
			failures = append(failures, err.Error())
		}
		response["failures"] = failures
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleCreateShipment(w http.ResponseWriter, r *http.Request) {
	creator, err := capability[carrier.ShipmentCreator](s.registry, r.PathValue("carrier"))
	if err != nil {
		writeError(w, resolveStatus(err), err)
		return
	}

	var req carrier.ShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	details, messages, err := s.instrument(r, "shipment", func(ctx context.Context) (any, []carrier.Message, error) {
		d, m, err := creator.CreateShipment(ctx, &req)
		if d == nil {
			return nil, m, err
		}
		return d, m, err
	})
	s.respond(w, r, "shipment", details, messages, err)
}

func (s *Server) handleCancelShipment(w http.ResponseWriter, r *http.Request) {
	canceler, err := capability[carrier.ShipmentCanceler](s.registry, r.PathValue("carrier"))
	if err != nil {
		writeError(w, resolveStatus(err), err)
		return
	}

	req := carrier.ShipmentCancelRequest{ShipmentIdentifier: r.PathValue("id")}
	confirmation, messages, err := s.instrument(r, "shipment_cancel", func(ctx context.Context) (any, []carrier.Message, error) {
		c, m, err := canceler.CancelShipment(ctx, &req)
		if c == nil {
			return nil, m, err
		}
		return c, m, err
	})
	s.respond(w, r, "confirmation", confirmation, messages, err)
}

func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	tracker, err := capability[carrier.Tracker](s.registry, r.PathValue("carrier"))
	if err != nil {
		writeError(w, resolveStatus(err), err)
		return
	}

	var req carrier.TrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	tracking, messages, err := s.instrument(r, "tracking", func(ctx context.Context) (any, []carrier.Message, error) {
		return normalize(tracker.FetchTracking(ctx, &req))
	})
	s.respond(w, r, "tracking", tracking, messages, err)
}

func (s *Server) handleSchedulePickup(w http.ResponseWriter, r *http.Request) {
	scheduler, err := capability[carrier.PickupScheduler](s.registry, r.PathValue("carrier"))
	if err != nil {
		writeError(w, resolveStatus(err), err)
		return
	}

	var req carrier.PickupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	pickup, messages, err := s.instrument(r, "pickup", func(ctx context.Context) (any, []carrier.Message, error) {
		p, m, err := scheduler.SchedulePickup(ctx, &req)
		if p == nil {
			return nil, m, err
		}
		return p, m, err
	})
	s.respond(w, r, "pickup", pickup, messages, err)
}

func (s *Server) handleUpdatePickup(w http.ResponseWriter, r *http.Request) {
	updater, err := capability[carrier.PickupUpdater](s.registry, r.PathValue("carrier"))
	if err != nil {
		writeError(w, resolveStatus(err), err)
		return
	}

	var req carrier.PickupUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	req.ConfirmationNumber = r.PathValue("confirmation")

	pickup, messages, err := s.instrument(r, "pickup_update", func(ctx context.Context) (any, []carrier.Message, error) {
		p, m, err := updater.UpdatePickup(ctx, &req)
		if p == nil {
			return nil, m, err
		}
		return p, m, err
	})
	s.respond(w, r, "pickup", pickup, messages, err)
}

func (s *Server) handleCancelPickup(w http.ResponseWriter, r *http.Request) {
	canceler, err := capability[carrier.PickupCanceler](s.registry, r.PathValue("carrier"))
	if err != nil {
		writeError(w, resolveStatus(err), err)
		return
	}

	req := carrier.PickupCancelRequest{
		ConfirmationNumber: r.PathValue("confirmation"),
		Reason:             r.URL.Query().Get("reason"),
	}
	confirmation, messages, err := s.instrument(r, "pickup_cancel", func(ctx context.Context) (any, []carrier.Message, error) {
		c, m, err := canceler.CancelPickup(ctx, &req)
		if c == nil {
			return nil, m, err
		}
		return c, m, err
	})
	s.respond(w, r, "confirmation", confirmation, messages, err)
}

func (s *Server) handleUploadDocuments(w http.ResponseWriter, r *http.Request) {
	uploader, err := capability[carrier.DocumentUploader](s.registry, r.PathValue("carrier"))
	if err != nil {
		writeError(w, resolveStatus(err), err)
		return
	}

	var req carrier.DocumentUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	details, messages, err := s.instrument(r, "document_upload", func(ctx context.Context) (any, []carrier.Message, error) {
		d, m, err := uploader.UploadDocuments(ctx, &req)
		if d == nil {
			return nil, m, err
		}
		return d, m, err
	})
	s.respond(w, r, "documents", details, messages, err)
}

// instrument wraps one carrier operation with request metrics. The status
// label distinguishes transport or translation failures from carrier-declined
// requests that produced messages only.
func (s *Server) instrument(r *http.Request, operation string,
	fn func(ctx context.Context) (any, []carrier.Message, error)) (any, []carrier.Message, error) {

	carrierID := r.PathValue("carrier")
	start := time.Now()
	result, messages, err := fn(r.Context())
	status := "ok"
	if err != nil {
		status = "error"
		s.metrics.RecordError(carrierID, "translation")
	} else if result == nil && len(messages) > 0 {
		status = "declined"
	}
	s.metrics.RecordRequest(operation, carrierID, status, time.Since(start).Seconds())
	return result, messages, err
}

// respond writes a normalized operation result. A nil result with messages is
// a carrier decline, delivered as a 422 so callers can distinguish it from
// translation failures.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, key string, result any, messages []carrier.Message, err error) {
	if err != nil {
		s.logger.Ctx(r.Context()).Error("Carrier operation failed", zap.Error(err))
		writeError(w, operationStatus(err), err)
		return
	}

	status := http.StatusOK
	if result == nil && len(messages) > 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]any{key: result, "messages": messages})
}

// capability resolves a registered gateway down to one operation interface.
func capability[T any](r *carrier.Registry, carrierID string) (T, error) {
	var zero T
	gw, err := r.Get(carrierID)
	if err != nil {
		return zero, err
	}
	c, ok := gw.(T)
	if !ok {
		return zero, fmt.Errorf("%s: %w", carrierID, carrier.ErrOperationNotSupported)
	}
	return c, nil
}

// normalize adapts slice-result operations to the instrument closure shape
// without wrapping a typed nil in the result interface.
func normalize[T any](items []T, messages []carrier.Message, err error) (any, []carrier.Message, error) {
	if items == nil {
		return nil, messages, err
	}
	return items, messages, err
}

func resolveStatus(err error) int {
	switch {
	case errors.Is(err, carrier.ErrCarrierNotFound):
		return http.StatusNotFound
	case errors.Is(err, carrier.ErrOperationNotSupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func operationStatus(err error) int {
	if carrier.IsTranslationError(err) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
