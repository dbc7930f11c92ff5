// Package api implements the fitcoach HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/dmaclachlan/fitcoach/internal/buildinfo"
	"github.com/dmaclachlan/fitcoach/internal/coach"
	"github.com/dmaclachlan/fitcoach/internal/config"
	"github.com/dmaclachlan/fitcoach/internal/llm"
	"github.com/dmaclachlan/fitcoach/internal/store"
	"github.com/dmaclachlan/fitcoach/internal/web"
)

// defaultUserID scopes requests that omit the X-User-ID header. The
// API is multi-user capable but the bundled UI is single-user.
const defaultUserID = "default"

// writeJSON encodes v as JSON to w, logging any errors at debug level.
// Errors here typically mean the client disconnected mid-response.
func writeJSON(w http.ResponseWriter, v any, logger *slog.Logger) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write JSON response", "error", err)
	}
}

// Server is the HTTP API server.
type Server struct {
	address string
	port    int
	coach   *coach.Coach
	store   *store.Store
	llm     llm.Client
	cors    config.CORSConfig
	logger  *slog.Logger
	server  *http.Server
}

// NewServer creates a new API server.
func NewServer(cfg *config.Config, c *coach.Coach, st *store.Store, client llm.Client, logger *slog.Logger) *Server {
	return &Server{
		address: cfg.Listen.Address,
		port:    cfg.Listen.Port,
		coach:   c,
		store:   st,
		llm:     client,
		cors:    cfg.CORS,
		logger:  logger,
	}
}

// routes builds the request multiplexer with every API endpoint and
// the bundled web UI registered.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Coaching conversation
	mux.HandleFunc("POST /v1/chat", s.handleChat)
	mux.HandleFunc("GET /v1/chat/history", s.handleChatHistory)
	mux.HandleFunc("GET /v1/chat/ws", s.handleChatWS)
	mux.HandleFunc("POST /v1/page-chat", s.handlePageChat)

	// Profile
	mux.HandleFunc("GET /v1/profile", s.handleProfileGet)
	mux.HandleFunc("PUT /v1/profile", s.handleProfilePut)
	mux.HandleFunc("GET /v1/activities", s.handleActivityList)
	mux.HandleFunc("POST /v1/activities", s.handleActivityCreate)
	mux.HandleFunc("PUT /v1/activities", s.handleActivityReplace)
	mux.HandleFunc("DELETE /v1/activities/{id}", s.handleActivityDelete)

	// Plans
	mux.HandleFunc("GET /v1/plans", s.handlePlansGet)
	mux.HandleFunc("POST /v1/plans/workout", s.handlePlanWorkout)
	mux.HandleFunc("POST /v1/plans/meal", s.handlePlanMeal)

	// Progress and food log
	mux.HandleFunc("GET /v1/progress", s.handleProgressList)
	mux.HandleFunc("POST /v1/progress", s.handleProgressCreate)
	mux.HandleFunc("GET /v1/food-log", s.handleFoodLogGet)
	mux.HandleFunc("POST /v1/food-log", s.handleFoodLogCreate)

	// Health endpoints
	mux.HandleFunc("GET /v1/version", s.handleVersion)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	// Chat web UI
	web.RegisterRoutes(mux)

	return s.corsHandler().Handler(mux)
}

// Start begins serving HTTP requests.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.address, s.port),
		Handler:      s.withLogging(s.routes()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Long for streaming responses
	}

	addr := s.address
	if addr == "" {
		addr = "0.0.0.0"
	}
	s.logger.Info("starting API server", "address", addr, "port", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) corsHandler() *cors.Cors {
	if len(s.cors.AllowedOrigins) == 0 {
		return cors.AllowAll()
	}
	return cors.New(cors.Options{
		AllowedOrigins: s.cors.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-User-ID"},
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// userID resolves the requesting user from the X-User-ID header.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return defaultUserID
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{
		"name":    "fitcoach",
		"version": buildinfo.Version,
		"status":  "ok",
	}, s.logger)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, buildinfo.Info(), s.logger)
}

// handleHealth reports service health including provider reachability.
// The ping costs one model token, so point liveness probes that fire
// every few seconds at / instead.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	llmStatus := "ok"

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.llm.Ping(ctx); err != nil {
		s.logger.Warn("provider ping failed", "error", err)
		status = "degraded"
		llmStatus = "unreachable"
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{
		"status": status,
		"llm":    llmStatus,
	}, s.logger)
}

// validationError reports whether err is a client input problem whose
// message is safe to echo back.
func validationError(err error) bool {
	return errors.Is(err, store.ErrInvalid)
}

func (s *Server) errorResponse(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	writeJSON(w, map[string]any{
		"error": map[string]any{
			"message": message,
			"code":    code,
		},
	}, s.logger)
}
