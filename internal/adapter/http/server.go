// Package http exposes the recommendation engine over HTTP.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/domain"
)

// Recommender is the ranking entry point the server fronts.
type Recommender interface {
	Recommend(ctx context.Context, interestProfile string, candidates []domain.Candidate) ([]domain.RankedResult, error)
}

// ReadinessChecker reports whether the critical backend is answering.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// Server wraps the HTTP listener and routes.
type Server struct {
	httpServer *http.Server
	engine     Recommender
	readiness  ReadinessChecker
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewServer builds the server with all routes registered.
func NewServer(addr string, engine Recommender, readiness ReadinessChecker, logger *slog.Logger) *Server {
	s := &Server{
		engine:    engine,
		readiness: readiness,
		validate:  validator.New(),
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/recommend", s.handleRecommend)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// ServeHTTP allows the server to be exercised directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type recommendRequest struct {
	UserID              int64              `json:"user_id"`
	UserInterestProfile string             `json:"user_interest_profile" validate:"required"`
	Candidates          []domain.Candidate `json:"candidates"`
}

type recommendResponse struct {
	Results []domain.RankedResult `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	for _, cand := range req.Candidates {
		if cand.Lat < -90 || cand.Lat > 90 || cand.Lon < -180 || cand.Lon > 180 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: fmt.Sprintf("candidate %d has out-of-range coordinates", cand.ID),
			})
			return
		}
	}

	results, err := s.engine.Recommend(r.Context(), req.UserInterestProfile, req.Candidates)
	if err != nil {
		s.logger.Error("recommendation failed", "user_id", req.UserID, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "ranking unavailable: " + err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, recommendResponse{Results: results})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.readiness.Ping(ctx); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
