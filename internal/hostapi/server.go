package hostapi

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Server is the reference HTTP host demonstrating the Engine API end to
// end: command ingress, tick advancement, snapshotting, an event-stream
// websocket, and prometheus metrics. It is not part of the simulation
// core (spec §6): the core never opens a socket or starts a goroutine on
// its own. Grounded on the teacher's api.Server.
type Server struct {
	engine      Engine
	router      *chi.Mux
	hub         *EventStreamHub
	rateLimiter *IPRateLimiter
	tickRate    time.Duration
	stop        chan struct{}
}

// NewServer builds a server around engine with default production
// configuration. No listener opens and neither the hub nor the tick loop
// runs until Start is called (the rate limiter's cleanup goroutine does
// start here), so the router alone is safe to drive with
// httptest.NewServer.
func NewServer(engine Engine, tickRate time.Duration) *Server {
	return newServer(engine, tickRate, DefaultRateLimitConfig)
}

// NewServerWithConfig builds a server using the addr/tick-rate/rate-limit
// settings from a Config loaded via LoadConfig, instead of the package
// defaults. Grounded on the teacher's `cmd/server/main.go` wiring a
// centralized `config.Load()` result straight into its server/engine
// constructors.
func NewServerWithConfig(engine Engine, cfg Config) *Server {
	return newServer(engine, cfg.TickRate, cfg.RateLimitConfig())
}

func newServer(engine Engine, tickRate time.Duration, rlCfg RateLimitConfig) *Server {
	s := &Server{
		engine:   engine,
		hub:      NewEventStreamHub(),
		tickRate: tickRate,
		stop:     make(chan struct{}),
	}

	s.rateLimiter = NewIPRateLimiter(rlCfg)
	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		RateLimiter: s.rateLimiter,
	})
	s.router.Get("/events/stream", s.hub.HandleEventStream)

	return s
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving HTTP on addr and starts the hub/tick-loop
// goroutines.
func (s *Server) Start(addr string) error {
	go s.hub.Run()
	go tickLoop(s.hub, s.engine, s.tickRate, s.stop)

	log.Printf("hostapi server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Stop ends background workers. Call before process exit.
func (s *Server) Stop() {
	close(s.stop)
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}
