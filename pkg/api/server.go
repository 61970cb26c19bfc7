package api

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/yourusername/handcricket/internal/roster"
)

// DefaultMaxSimulationMatches bounds one simulation request.
const DefaultMaxSimulationMatches = 100000

// LimiterConfig configures per-client rate limiting.
type LimiterConfig struct {
	RPS     float64 // Requests per second per client (default 2)
	Burst   int     // Burst size (default 4)
	Enabled bool
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host                 string        // Host to bind to (default "localhost")
	Port                 int           // Port to listen on (default 8080)
	ReadTimeout          time.Duration // Read timeout (default 30s)
	WriteTimeout         time.Duration // Write timeout (default 30s)
	IdleTimeout          time.Duration // Idle timeout (default 60s)
	MaxMatchWorkers      int           // Max concurrent match operations (default 100)
	MaxSimulationWorkers int           // Max concurrent simulations (default 4)
	MaxSimulationMatches int           // Largest simulation a client may request (default 100000, 0 = unlimited)
	MaxMatches           int           // Max sessions in memory (default 1000, 0 = unlimited)
	MatchTTL             time.Duration // Sessions older than this are dropped (default 24h, 0 = never)
	Limiter              LimiterConfig
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:                 "localhost",
		Port:                 8080,
		ReadTimeout:          30 * time.Second,
		WriteTimeout:         30 * time.Second,
		IdleTimeout:          60 * time.Second,
		MaxMatchWorkers:      100,
		MaxSimulationWorkers: 4,
		MaxSimulationMatches: DefaultMaxSimulationMatches,
		MaxMatches:           1000,
		MatchTTL:             24 * time.Hour,
		Limiter:              LimiterConfig{RPS: 2, Burst: 4, Enabled: true},
	}
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	sessions *Sessions
	handlers *Handlers
	server   *http.Server
	pool     *WorkerPool
	limiter  *clientLimiter
	version  string
	stop     context.CancelFunc
}

// NewServer creates a new API server.
func NewServer(catalog *roster.Catalog, config ServerConfig, version string) *Server {
	pool := NewWorkerPool(PoolConfig{
		MaxMatchWorkers:      config.MaxMatchWorkers,
		MaxSimulationWorkers: config.MaxSimulationWorkers,
	})
	sessions := NewSessions(catalog, config.MaxMatches)
	handlers := NewHandlersWithPool(sessions, version, pool)
	handlers.maxSimMatches = config.MaxSimulationMatches

	return &Server{
		config:   config,
		sessions: sessions,
		handlers: handlers,
		pool:     pool,
		limiter:  newClientLimiter(config.Limiter),
		version:  version,
	}
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// Sessions returns the match sessions.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs every request with its status, size and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		log.Printf("%s %s %d %dB %v", r.Method, r.URL.Path, m.Code, m.Written, m.Duration)
	})
}

// recoverPanic turns a handler panic into a 500 response.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, err)
				writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// clientLimiter keeps one token bucket per client IP.
type clientLimiter struct {
	config LimiterConfig

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(config LimiterConfig) *clientLimiter {
	if config.RPS <= 0 {
		config.RPS = 2
	}
	if config.Burst <= 0 {
		config.Burst = 4
	}
	return &clientLimiter{config: config, clients: make(map[string]*client)}
}

func (l *clientLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.config.RPS), l.config.Burst)}
		l.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

// sweep forgets clients not seen since cutoff.
func (l *clientLimiter) sweep(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

func (l *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.config.Enabled {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !l.allow(ip) {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded", "RATE_LIMITED")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Routes builds the router with all middleware applied.
func (s *Server) Routes() http.Handler {
	h := s.handlers
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "resource not found", "NOT_FOUND")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, r.Method+" not supported", "METHOD_NOT_ALLOWED")
	})

	router.Use(loggingMiddleware)
	router.Use(recoverPanic)
	router.Use(corsMiddleware)
	router.Use(s.limiter.middleware)

	router.Get("/api/health", h.Health)
	router.Get("/api/teams", h.Teams)

	router.Route("/api/matches", func(router chi.Router) {
		router.Post("/", h.CreateMatch)
		router.Route("/{id}", func(router chi.Router) {
			router.Get("/", h.GetMatch)
			router.Delete("/", h.DeleteMatch)
			router.Post("/teams", h.SelectTeam)
			router.Post("/teams/confirm", h.ConfirmTeams)
			router.Post("/toss", h.Toss)
			router.Post("/decision", h.Decision)
			router.Post("/selection", h.Selection)
			router.Post("/ball", h.Ball)
			router.Post("/reset", h.Reset)
			router.Get("/scorecard", h.Scorecard)
			router.Get("/commentary", h.Commentary)
			router.Get("/summary", h.Summary)
			router.Get("/record", h.Record)
			router.Get("/ws", h.WebSocket)
		})
	})

	router.Post("/api/simulate", h.Simulate)
	router.Get("/api/simulate/stream", h.SimulateSSE)

	return router
}

// housekeeping drops stale sessions and idle rate-limit clients.
func (s *Server) housekeeping(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.limiter.sweep(now.Add(-3 * time.Minute))
			if s.config.MatchTTL > 0 {
				if n := s.sessions.Prune(now.Add(-s.config.MatchTTL)); n > 0 {
					log.Printf("Dropped %d expired matches", n)
				}
			}
		}
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	go s.housekeeping(ctx)

	log.Printf("Starting hand cricket API server v%s on %s", s.version, addr)
	log.Printf("Endpoints:")
	log.Printf("  GET  /api/health                     - Health check")
	log.Printf("  GET  /api/teams                      - Team catalog")
	log.Printf("  POST /api/matches                    - Start a match")
	log.Printf("  POST /api/matches/{id}/ball          - Play a ball")
	log.Printf("  GET  /api/matches/{id}/scorecard     - Innings scorecard")
	log.Printf("  GET  /api/matches/{id}/summary       - Match summary")
	log.Printf("  GET  /api/matches/{id}/record        - Ball-by-ball record")
	log.Printf("  WS   /api/matches/{id}/ws            - Live match feed")
	log.Printf("  POST /api/simulate                   - Monte Carlo simulation")
	log.Printf("  GET  /api/simulate/stream            - Simulation progress (SSE)")
	if s.config.Limiter.Enabled {
		log.Printf("Rate limit: %.1f req/s, burst %d per client", s.limiter.config.RPS, s.limiter.config.Burst)
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stop != nil {
		s.stop()
	}
	return s.server.Shutdown(ctx)
}

// ListenAndServeWithGracefulShutdown starts the server and handles shutdown signals.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	errChan := make(chan error, 1)

	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Printf("Received signal %v, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped gracefully")
	return nil
}
