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

	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/attribution"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/bundle"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/carrier"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/config"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/db"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/enrollment"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/quotes"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/server/ratelimit"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// Store is the persistence surface the server uses. *db.DB satisfies it;
// tests substitute a fake.
type Store interface {
	SaveApplication(ctx context.Context, req *enrollment.Request, result *enrollment.Result) (uuid.UUID, error)
	GetApplicationByFormNumber(ctx context.Context, formNumber string) (*db.SubmittedApplication, error)
	ListApplications(ctx context.Context, limit int) ([]db.SubmittedApplication, error)
	RecordAttribution(ctx context.Context, sessionID string, agentID int) error
	GetAttribution(ctx context.Context, sessionID string) (int, error)
	Close()
}

var _ Store = (*db.DB)(nil)

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	store        Store
	cfg          config.Config
	rateLimiter  *ratelimit.Limiter
	builder      *bundle.Builder
	bundleClient *bundle.Client
	submitter    *enrollment.Submitter
	quoteService *quotes.Service
}

// New creates a new server instance. The database is optional: without a
// DatabaseURL enrollments still reach the carrier, they just are not
// persisted locally.
func New(cfg config.Config) (*Server, error) {
	overrides := carrier.DefaultOverrides()
	if cfg.OverridesPath != "" {
		loaded, err := carrier.LoadOverrides(cfg.OverridesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load plan overrides: %w", err)
		}
		overrides = loaded
	}
	resolver := carrier.NewResolver(overrides, nil)

	bundleClient, err := bundle.NewClient(bundle.ClientConfig{
		BundleURL: cfg.BundleURL,
		Username:  cfg.CarrierUsername,
		Password:  cfg.CarrierPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bundle client: %w", err)
	}

	submitter, err := enrollment.NewSubmitter(enrollment.SubmitterConfig{
		EnrollmentURL: cfg.EnrollmentURL,
		Username:      cfg.CarrierUsername,
		Password:      cfg.CarrierPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create enrollment submitter: %w", err)
	}

	var endpoints []quotes.CarrierEndpoint
	if cfg.QuoteURL != "" {
		endpoints = append(endpoints, quotes.CarrierEndpoint{
			Slug:     types.CarrierAllstate,
			QuoteURL: cfg.QuoteURL,
			Username: cfg.CarrierUsername,
			Password: cfg.CarrierPassword,
		})
	}

	s := &Server{
		cfg:          cfg,
		builder:      bundle.NewBuilder(resolver),
		bundleClient: bundleClient,
		submitter:    submitter,
		quoteService: quotes.NewService(endpoints, quotes.NewCache(0, 0), nil),
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.store = database
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second, // Carrier bundle calls can take up to 60s
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler builds the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /quotes", s.handleQuotes)
	mux.HandleFunc("POST /bundle", s.handleBundle)
	mux.HandleFunc("POST /bundle/validate", s.handleValidate)
	mux.HandleFunc("POST /enrollments", s.handleEnroll)
	mux.HandleFunc("GET /applications", s.handleListApplications)
	mux.HandleFunc("GET /applications/{formNumber}", s.handleGetApplication)
	mux.HandleFunc("GET /health", s.handleHealth)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return s.withRateLimit(s.withLogging(corsMiddleware.Handler(
		attribution.Middleware(s.withAttributionCapture(mux)))))
}

// withAttributionCapture persists referral captures so the agent can still
// be credited when the referral cookie is gone by enrollment time. It runs
// inside attribution.Middleware, which guarantees a session identifier.
func (s *Server) withAttributionCapture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store != nil {
			if agentID, ok := attribution.AgentFromQuery(r); ok {
				if sessionID, ok := attribution.SessionFromRequest(r); ok {
					if err := s.store.RecordAttribution(r.Context(), sessionID, agentID); err != nil {
						log.Printf("failed to record attribution for session %s: %v", sessionID, err)
					}
				}
			}
		}
		next.ServeHTTP(w, r)
	})
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

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.store != nil {
		s.store.Close()
	}
	log.Println("Server stopped")
	return nil
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
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// classifiedError writes a JSON error response with the status derived from
// the error taxonomy.
func (s *Server) classifiedError(w http.ResponseWriter, err error) {
	s.jsonResponse(w, HTTPStatus(err), errorBody(err))
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For would only be
// trustworthy behind a known proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
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
