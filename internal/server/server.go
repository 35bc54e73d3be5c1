// Package server exposes extraction over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/metrics"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/validate"
)

const (
	// RequestIDHeader carries the request ID in and out
	RequestIDHeader = "X-Request-ID"

	maxRequestBytes = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Extractor is the extraction entry point the server calls
type Extractor interface {
	Extract(ctx context.Context, text string) (*model.Family, error)
}

// Server wires the extraction endpoints
type Server struct {
	extractor Extractor
	logger    *zap.Logger
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
}

// New creates a server. m and gatherer may be nil, in which case nothing is
// recorded and /metrics is not mounted.
func New(extractor Extractor, logger *zap.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		extractor: extractor,
		logger:    logger,
		metrics:   m,
		gatherer:  gatherer,
	}
}

// Routes returns the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/extract", s.handleExtract)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := NewHTTPServer(addr, s.Routes())

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NewHTTPServer builds an http.Server with the project defaults
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type extractRequest struct {
	Text json.RawMessage `json:"text"`
}

type extractResponse struct {
	Family *model.Family `json:"family"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	log := s.logger.With(zap.String("request_id", RequestIDFrom(ctx)))

	var req extractRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		log.Debug("malformed request", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Description: "request body must be a JSON object"})
		return
	}

	// Decode the field generically so non-string text is reported as a type error
	var raw any
	if len(req.Text) > 0 {
		if err := json.Unmarshal(req.Text, &raw); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Description: "text is not valid JSON"})
			return
		}
	}

	fam, err := s.extract(ctx, raw)
	s.metrics.ObserveSource(fam, err, time.Since(start))

	var verr *validate.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid_text", Description: verr.Error()})
	case err != nil:
		log.Error("extraction failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
	default:
		writeJSON(w, http.StatusOK, extractResponse{Family: fam})
	}
}

func (s *Server) extract(ctx context.Context, raw any) (*model.Family, error) {
	text, err := validate.Normalize(raw)
	if err != nil {
		s.metrics.ObserveExtraction(nil, err)
		return nil, err
	}
	return s.extractor.Extract(ctx, text)
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler",
					zap.Any("panic", rec),
					zap.String("request_id", RequestIDFrom(r.Context())),
					zap.Stack("stack"))
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
