// Package server exposes the adapter over a small JSON HTTP surface.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/shipengine/internal/telemetry"
	"github.com/tournevent/shipengine/pkg/shipengine"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Server is the HTTP server for the rate adapter.
type Server struct {
	port    int
	adapter *shipengine.Adapter
	logger  *otelzap.Logger
	metrics *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance and attaches metrics to the adapter.
func New(cfg Config, adapter *shipengine.Adapter, logger *otelzap.Logger) *Server {
	metrics := telemetry.NewMetrics()
	adapter.SetMetrics(metrics)

	return &Server{
		port:    cfg.Port,
		adapter: adapter,
		logger:  logger,
		metrics: metrics,
	}
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/rates", s.handleRates)
	mux.HandleFunc("/v1/addresses/validate", s.handleValidateAddress)
	mux.HandleFunc("/v1/carriers", s.handleCarriers)

	return mux
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleRates serves POST /v1/rates: a merchant shipment request in,
// a normalized rate result out. Failures travel in-band in the result.
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed, use POST")
		return
	}

	var req shipengine.ShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		s.metrics.RecordRequest("rates", "bad_request", time.Since(start).Seconds())
		return
	}

	requestID := uuid.New().String()[:8]
	s.logger.Debug("Rate request received", zap.String("request_id", requestID))

	result := s.adapter.GetRates(r.Context(), &req)

	status := "ok"
	if result.Error != nil {
		status = "error"
	}
	s.metrics.RecordRequest("rates", status, time.Since(start).Seconds())

	s.writeJSON(w, result)
}

// handleValidateAddress serves POST /v1/addresses/validate.
func (s *Server) handleValidateAddress(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed, use POST")
		return
	}

	var addr shipengine.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		s.metrics.RecordRequest("validate_address", "bad_request", time.Since(start).Seconds())
		return
	}

	result := s.adapter.ValidateAddress(r.Context(), &addr)

	status := "ok"
	if result.Error != nil {
		status = "error"
	}
	s.metrics.RecordRequest("validate_address", status, time.Since(start).Seconds())

	s.writeJSON(w, result)
}

// handleCarriers serves GET /v1/carriers from the adapter's catalog.
func (s *Server) handleCarriers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed, use GET")
		return
	}

	result := s.adapter.Catalog(r.Context())

	status := "ok"
	if result.Error != nil {
		status = "error"
	}
	s.metrics.RecordRequest("carriers", status, time.Since(start).Seconds())

	s.writeJSON(w, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"message": message},
	})
	if err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
