package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support.
type Server struct {
	engine            EngineInterface
	router            *chi.Mux
	wsHub             *WebSocketHub
	rateLimiter       *IPRateLimiter
	broadcastInterval time.Duration
}

// ServerOptions tunes a Server beyond the router config.
type ServerOptions struct {
	// BroadcastInterval is how often snapshots go out over websockets.
	// Zero means 50ms.
	BroadcastInterval time.Duration
}

// NewServer creates a new API server.
//
// IMPORTANT: Background workers do NOT start until Start() is called.
// This enables testing by allowing the server to be constructed without
// starting goroutines or opening network listeners.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter() directly.
func NewServer(cfg RouterConfig, opts ServerOptions) *Server {
	s := &Server{
		engine:            cfg.Engine,
		wsHub:             NewWebSocketHub(),
		broadcastInterval: opts.BroadcastInterval,
	}
	if s.broadcastInterval <= 0 {
		s.broadcastInterval = 50 * time.Millisecond
	}

	// Track the rate limiter so Stop can shut its cleanup goroutine down
	s.rateLimiter = cfg.RateLimiter
	if s.rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		s.rateLimiter = NewIPRateLimiter(rateLimitCfg)
		cfg.RateLimiter = s.rateLimiter
	}

	s.router = NewRouter(cfg)
	s.router.Get("/ws", s.handleWS)

	return s
}

// Start begins the HTTP server AND starts background workers.
// This is the ONLY method that starts goroutines or opens network listeners.
//
// Call this method only once. To stop the server, signal the process.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.engine, s.broadcastInterval)

	log.Printf("🌐 API server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
// Use this in integration tests instead of calling Start().
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the websocket hub, for wiring event listeners.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Stop performs graceful shutdown of background workers.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(s.engine, w, r)
}
