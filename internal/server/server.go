// Package server provides the HTTP REST API for the matching service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lguinah/matching-api/internal/config"
	"github.com/lguinah/matching-api/internal/db"
	"github.com/lguinah/matching-api/internal/llm"
	"github.com/lguinah/matching-api/internal/matching"
	"github.com/lguinah/matching-api/internal/notify"
	"github.com/lguinah/matching-api/internal/oracle"
	"github.com/lguinah/matching-api/internal/server/middleware"
	"github.com/lguinah/matching-api/internal/server/ratelimit"
	"github.com/lguinah/matching-api/internal/types"
)

// Store is the candidate and result storage used by the handlers. Satisfied
// by *db.DB.
type Store interface {
	ActiveFoundItems(ctx context.Context, excludeUserID string, limit int) ([]*types.Item, error)
	ActiveLostItems(ctx context.Context) ([]*types.Item, error)
	SaveMatches(ctx context.Context, lostItemID string, matches []types.MatchResult) error
}

// Matcher scores a lost item against found candidates. Satisfied by
// *matching.Engine.
type Matcher interface {
	FindMatches(ctx context.Context, lost *types.Item, candidates []*types.Item) []types.MatchResult
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	engine      Matcher
	notifier    notify.Notifier
	llmClient   llm.Client
	cfg         *config.Config
	rateLimiter *ratelimit.Limiter
	dbConn      *db.DB
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	Matching    *config.Config
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	client, err := llm.NewClient(context.Background(),
		llm.DefaultConfig().WithModel(cfg.Matching.Model), cfg.Matching.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.Matching.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Matching.WebhookURL)
	}

	s := &Server{
		store:     database,
		engine:    matching.New(oracle.New(client, cfg.Matching), cfg.Matching),
		notifier:  notifier,
		llmClient: client,
		cfg:       cfg.Matching,
		dbConn:    database,
	}

	rlConfig := ratelimit.LoadConfigFromEnv()
	s.rateLimiter = ratelimit.NewLimiter(&rlConfig)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	requireKey := middleware.RequireAPIKey(cfg.APIKey)
	mux.Handle("POST /api/v1/match", requireKey(http.HandlerFunc(s.handleMatch)))
	mux.Handle("POST /api/v1/match/batch", requireKey(http.HandlerFunc(s.handleBatchMatch)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Matching fans out oracle calls, allow slow runs
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}
	if s.dbConn != nil {
		s.dbConn.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "LGUINAH Matching API",
		"model":   s.cfg.Model,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr; behind a trusted proxy this should
// switch to X-Forwarded-For.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
